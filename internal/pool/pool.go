// Package pool holds the durable state of a weighted multi-asset pool:
// membership, weights, admin, fee rate and outstanding claim supply.
//
// The slot arena is fixed-capacity with an explicit member-count
// cursor. Removal compacts by shifting, so positional indices are not
// stable across removals; asset-id lookup is the stable handle.
package pool

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/poolerr"
	"github.com/lugondev/go-anyswap/pkg/u128"
)

// Capacity is the maximum number of member assets per pool.
const Capacity = 1024

// ClaimDecimals is the decimal count of the pool's claim-token mint.
const ClaimDecimals = 9

// AssetSlot describes one pooled asset: its mint, its custodial vault
// and its relative pricing weight.
type AssetSlot struct {
	Asset  solana.PublicKey
	Vault  solana.PublicKey
	Weight uint64
}

// Pool is the durable record of one deployed market.
type Pool struct {
	Address solana.PublicKey
	Admin   solana.PublicKey

	FeeNumerator   uint64
	FeeDenominator uint64

	// TotalClaimsMinted mirrors the claim-token mint supply. The mint
	// is the source of truth; this field must track it exactly.
	TotalClaimsMinted uint64

	memberCount int
	slots       [Capacity]AssetSlot
}

// ValidateFee checks a fee numerator/denominator pair.
func ValidateFee(numerator, denominator uint64) error {
	if denominator == 0 || numerator > denominator {
		return poolerr.Newf(poolerr.CodeInvalidFeeConfiguration,
			"fee %d/%d out of range", numerator, denominator)
	}
	return nil
}

// New creates an empty pool with the given admin and fee rate.
func New(address, admin solana.PublicKey, feeNumerator, feeDenominator uint64) (*Pool, error) {
	if err := ValidateFee(feeNumerator, feeDenominator); err != nil {
		return nil, err
	}
	return &Pool{
		Address:        address,
		Admin:          admin,
		FeeNumerator:   feeNumerator,
		FeeDenominator: feeDenominator,
	}, nil
}

// Restore rebuilds a pool from persisted state, re-checking the
// invariants New and AppendSlot enforce.
func Restore(address, admin solana.PublicKey, feeNumerator, feeDenominator, totalClaims uint64, members []AssetSlot) (*Pool, error) {
	p, err := New(address, admin, feeNumerator, feeDenominator)
	if err != nil {
		return nil, err
	}
	for _, s := range members {
		if err := p.AppendSlot(s); err != nil {
			return nil, err
		}
	}
	p.TotalClaimsMinted = totalClaims
	return p, nil
}

// MemberCount returns the number of member assets.
func (p *Pool) MemberCount() int {
	return p.memberCount
}

// Slot returns the asset slot at position i.
func (p *Pool) Slot(i int) (AssetSlot, error) {
	if i < 0 || i >= p.memberCount {
		return AssetSlot{}, poolerr.Newf(poolerr.CodeInvalidTokenIndex,
			"slot %d out of range (members: %d)", i, p.memberCount)
	}
	return p.slots[i], nil
}

// FindSlotByAsset scans membership for the given asset mint.
func (p *Pool) FindSlotByAsset(asset solana.PublicKey) (int, AssetSlot, bool) {
	for i := 0; i < p.memberCount; i++ {
		if p.slots[i].Asset.Equals(asset) {
			return i, p.slots[i], true
		}
	}
	return 0, AssetSlot{}, false
}

// Members returns a copy of the live slot prefix, in slot order.
func (p *Pool) Members() []AssetSlot {
	out := make([]AssetSlot, p.memberCount)
	copy(out, p.slots[:p.memberCount])
	return out
}

// ComputeFee splits amountIn into the swap fee and the remainder.
// fee = floor(amountIn * numerator / denominator).
func (p *Pool) ComputeFee(amountIn uint64) (fee, afterFee uint64, err error) {
	fee, err = u128.MulDiv(amountIn, p.FeeNumerator, p.FeeDenominator)
	if err != nil {
		return 0, 0, poolerr.Overflow(err)
	}
	return fee, amountIn - fee, nil
}

// AppendSlot adds a new member asset at the end of the slot sequence.
func (p *Pool) AppendSlot(s AssetSlot) error {
	if p.memberCount >= Capacity {
		return poolerr.Newf(poolerr.CodeInvalidTokenCount,
			"pool is at capacity (%d)", Capacity)
	}
	if s.Weight == 0 {
		return poolerr.ErrInvalidWeight
	}
	if _, _, ok := p.FindSlotByAsset(s.Asset); ok {
		return poolerr.Newf(poolerr.CodeDuplicateAsset,
			"asset %s already in pool", s.Asset)
	}
	p.slots[p.memberCount] = s
	p.memberCount++
	return nil
}

// RemoveSlot deletes the slot at position i, shifting later slots down
// by one.
func (p *Pool) RemoveSlot(i int) error {
	if i < 0 || i >= p.memberCount {
		return poolerr.Newf(poolerr.CodeInvalidTokenIndex,
			"slot %d out of range (members: %d)", i, p.memberCount)
	}
	copy(p.slots[i:p.memberCount-1], p.slots[i+1:p.memberCount])
	p.slots[p.memberCount-1] = AssetSlot{}
	p.memberCount--
	return nil
}

// SetWeight changes the pricing weight of the slot at position i.
func (p *Pool) SetWeight(i int, weight uint64) error {
	if weight == 0 {
		return poolerr.ErrInvalidWeight
	}
	if i < 0 || i >= p.memberCount {
		return poolerr.Newf(poolerr.CodeInvalidTokenIndex,
			"slot %d out of range (members: %d)", i, p.memberCount)
	}
	p.slots[i].Weight = weight
	return nil
}

// SetFee changes the pool fee rate.
func (p *Pool) SetFee(numerator, denominator uint64) error {
	if err := ValidateFee(numerator, denominator); err != nil {
		return err
	}
	p.FeeNumerator = numerator
	p.FeeDenominator = denominator
	return nil
}

// MintClaims records newly minted claim tokens.
func (p *Pool) MintClaims(amount uint64) error {
	total, err := u128.CheckedAdd(p.TotalClaimsMinted, amount)
	if err != nil {
		return poolerr.Overflow(err)
	}
	p.TotalClaimsMinted = total
	return nil
}

// BurnClaims records burned claim tokens.
func (p *Pool) BurnClaims(amount uint64) error {
	total, err := u128.CheckedSub(p.TotalClaimsMinted, amount)
	if err != nil {
		return poolerr.Overflow(err)
	}
	p.TotalClaimsMinted = total
	return nil
}
