package pool

import (
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/poolerr"
)

func newTestPool(t *testing.T, feeNum, feeDen uint64) *Pool {
	t.Helper()
	p, err := New(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), feeNum, feeDen)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func testSlot(weight uint64) AssetSlot {
	return AssetSlot{
		Asset:  solana.NewWallet().PublicKey(),
		Vault:  solana.NewWallet().PublicKey(),
		Weight: weight,
	}
}

func TestNewValidatesFee(t *testing.T) {
	tests := []struct {
		name     string
		num, den uint64
		wantErr  bool
	}{
		{"typical", 3, 1000, false},
		{"zero fee", 0, 1000, false},
		{"full fee", 1000, 1000, false},
		{"zero denominator", 3, 0, true},
		{"numerator above denominator", 1001, 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(solana.PublicKey{}, solana.PublicKey{}, tt.num, tt.den)
			if tt.wantErr {
				if !errors.Is(err, poolerr.ErrInvalidFeeConfiguration) {
					t.Fatalf("New(%d/%d) error = %v; want InvalidFeeConfiguration", tt.num, tt.den, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d/%d) error: %v", tt.num, tt.den, err)
			}
		})
	}
}

func TestComputeFeeSplitsExactly(t *testing.T) {
	p := newTestPool(t, 3, 1000)

	for _, amount := range []uint64{0, 1, 999, 1000, 1001, 123456789, math.MaxUint64} {
		fee, afterFee, err := p.ComputeFee(amount)
		if err != nil {
			t.Fatalf("ComputeFee(%d): %v", amount, err)
		}
		if fee+afterFee != amount {
			t.Errorf("ComputeFee(%d): fee %d + afterFee %d != amount", amount, fee, afterFee)
		}
	}

	fee, afterFee, err := p.ComputeFee(1000)
	if err != nil || fee != 3 || afterFee != 997 {
		t.Errorf("ComputeFee(1000) = (%d, %d, %v); want (3, 997)", fee, afterFee, err)
	}
}

func TestAppendSlot(t *testing.T) {
	p := newTestPool(t, 3, 1000)

	s := testSlot(1)
	if err := p.AppendSlot(s); err != nil {
		t.Fatalf("AppendSlot: %v", err)
	}
	if p.MemberCount() != 1 {
		t.Fatalf("MemberCount = %d; want 1", p.MemberCount())
	}

	if err := p.AppendSlot(s); !errors.Is(err, poolerr.ErrDuplicateAsset) {
		t.Errorf("duplicate AppendSlot error = %v; want DuplicateAsset", err)
	}
	if err := p.AppendSlot(testSlot(0)); !errors.Is(err, poolerr.ErrInvalidWeight) {
		t.Errorf("zero-weight AppendSlot error = %v; want InvalidWeight", err)
	}
}

func TestAppendSlotCapacity(t *testing.T) {
	p := newTestPool(t, 0, 1)
	for i := 0; i < Capacity; i++ {
		if err := p.AppendSlot(testSlot(1)); err != nil {
			t.Fatalf("AppendSlot %d: %v", i, err)
		}
	}
	if err := p.AppendSlot(testSlot(1)); !errors.Is(err, poolerr.ErrInvalidTokenCount) {
		t.Errorf("AppendSlot past capacity error = %v; want InvalidTokenCount", err)
	}
}

func TestSlotBounds(t *testing.T) {
	p := newTestPool(t, 3, 1000)
	if _, err := p.Slot(0); !errors.Is(err, poolerr.ErrInvalidTokenIndex) {
		t.Errorf("Slot(0) on empty pool error = %v; want InvalidTokenIndex", err)
	}

	s := testSlot(2)
	if err := p.AppendSlot(s); err != nil {
		t.Fatal(err)
	}
	got, err := p.Slot(0)
	if err != nil || !got.Asset.Equals(s.Asset) {
		t.Errorf("Slot(0) = %+v, %v; want stored slot", got, err)
	}
	if _, err := p.Slot(1); !errors.Is(err, poolerr.ErrInvalidTokenIndex) {
		t.Errorf("Slot(1) error = %v; want InvalidTokenIndex", err)
	}
	if _, err := p.Slot(-1); !errors.Is(err, poolerr.ErrInvalidTokenIndex) {
		t.Errorf("Slot(-1) error = %v; want InvalidTokenIndex", err)
	}
}

func TestRemoveSlotCompacts(t *testing.T) {
	p := newTestPool(t, 3, 1000)
	a, b, c := testSlot(1), testSlot(2), testSlot(3)
	for _, s := range []AssetSlot{a, b, c} {
		if err := p.AppendSlot(s); err != nil {
			t.Fatal(err)
		}
	}

	if err := p.RemoveSlot(1); err != nil {
		t.Fatalf("RemoveSlot: %v", err)
	}
	if p.MemberCount() != 2 {
		t.Fatalf("MemberCount = %d; want 2", p.MemberCount())
	}

	// c shifted down into b's position.
	got, err := p.Slot(1)
	if err != nil || !got.Asset.Equals(c.Asset) {
		t.Errorf("Slot(1) after removal = %+v; want shifted slot", got)
	}
	if _, _, ok := p.FindSlotByAsset(b.Asset); ok {
		t.Error("removed asset still found")
	}

	if err := p.RemoveSlot(2); !errors.Is(err, poolerr.ErrInvalidTokenIndex) {
		t.Errorf("RemoveSlot out of range error = %v; want InvalidTokenIndex", err)
	}
}

func TestSetWeightAndFee(t *testing.T) {
	p := newTestPool(t, 3, 1000)
	if err := p.AppendSlot(testSlot(1)); err != nil {
		t.Fatal(err)
	}

	if err := p.SetWeight(0, 5); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}
	if s, _ := p.Slot(0); s.Weight != 5 {
		t.Errorf("weight = %d; want 5", s.Weight)
	}
	if err := p.SetWeight(0, 0); !errors.Is(err, poolerr.ErrInvalidWeight) {
		t.Errorf("SetWeight(0) error = %v; want InvalidWeight", err)
	}

	if err := p.SetFee(5, 10000); err != nil {
		t.Fatalf("SetFee: %v", err)
	}
	if err := p.SetFee(2, 1); !errors.Is(err, poolerr.ErrInvalidFeeConfiguration) {
		t.Errorf("SetFee(2/1) error = %v; want InvalidFeeConfiguration", err)
	}
}

func TestClaimAccounting(t *testing.T) {
	p := newTestPool(t, 3, 1000)

	if err := p.MintClaims(9000); err != nil {
		t.Fatalf("MintClaims: %v", err)
	}
	if err := p.BurnClaims(4000); err != nil {
		t.Fatalf("BurnClaims: %v", err)
	}
	if p.TotalClaimsMinted != 5000 {
		t.Errorf("TotalClaimsMinted = %d; want 5000", p.TotalClaimsMinted)
	}

	if err := p.BurnClaims(5001); !errors.Is(err, poolerr.ErrMathOverflow) {
		t.Errorf("over-burn error = %v; want MathOverflow", err)
	}
	if err := p.MintClaims(math.MaxUint64); !errors.Is(err, poolerr.ErrMathOverflow) {
		t.Errorf("mint overflow error = %v; want MathOverflow", err)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	p := newTestPool(t, 3, 1000)
	for i := 0; i < 3; i++ {
		if err := p.AppendSlot(testSlot(uint64(i + 1))); err != nil {
			t.Fatal(err)
		}
	}
	p.TotalClaimsMinted = 9000

	r, err := Restore(p.Address, p.Admin, p.FeeNumerator, p.FeeDenominator, p.TotalClaimsMinted, p.Members())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if r.MemberCount() != 3 || r.TotalClaimsMinted != 9000 {
		t.Errorf("restored pool = %d members, %d claims; want 3, 9000", r.MemberCount(), r.TotalClaimsMinted)
	}
	for i := 0; i < 3; i++ {
		want, _ := p.Slot(i)
		got, _ := r.Slot(i)
		if got != want {
			t.Errorf("slot %d = %+v; want %+v", i, got, want)
		}
	}
}
