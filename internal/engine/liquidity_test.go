package engine

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/poolerr"
)

func TestFirstDepositDustFloor(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)

	// isqrt(1000*1000) - 1000 = 0: rejected.
	_, err := e.eng.AddLiquidity(e.p, e.user, []uint64{1000, 1000}, e.pairs(t), e.claimAcc)
	if !errors.Is(err, poolerr.ErrInsufficientLiquidity) {
		t.Fatalf("dust-floor deposit = %v; want InsufficientLiquidity", err)
	}
	if e.p.TotalClaimsMinted != 0 {
		t.Errorf("claims after rejected deposit = %d; want 0", e.p.TotalClaimsMinted)
	}
	if got := e.balance(t, e.vault(t, 0)); got != 0 {
		t.Errorf("vault balance after rejected deposit = %d; want 0", got)
	}

	// isqrt(10000*10000) - 1000 = 9000.
	minted, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000, 10000}, e.pairs(t), e.claimAcc)
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	if minted != 9000 {
		t.Errorf("minted = %d; want 9000", minted)
	}
	if e.p.TotalClaimsMinted != 9000 {
		t.Errorf("TotalClaimsMinted = %d; want 9000", e.p.TotalClaimsMinted)
	}
	if got := e.balance(t, e.claimAcc); got != 9000 {
		t.Errorf("claim balance = %d; want 9000", got)
	}
	for i := 0; i < 2; i++ {
		if got := e.balance(t, e.vault(t, i)); got != 10000 {
			t.Errorf("vault %d balance = %d; want 10000", i, got)
		}
		if got := e.balance(t, e.userAccs[i]); got != initialBalance-10000 {
			t.Errorf("user %d balance = %d; want %d", i, got, initialBalance-10000)
		}
	}

	// Claim-token supply is the source of truth and must match.
	claimMint, _, _ := pool.DeriveClaimMint(e.p.Address)
	if supply, _ := e.ledger.Supply(claimMint); supply != e.p.TotalClaimsMinted {
		t.Errorf("claim supply %d != TotalClaimsMinted %d", supply, e.p.TotalClaimsMinted)
	}
}

func TestProRataMintTakesMinimumRatio(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	if _, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000, 10000}, e.pairs(t), e.claimAcc); err != nil {
		t.Fatal(err)
	}

	// Balanced follow-up: 9000 * 5000/10000 = 4500.
	minted, err := e.eng.AddLiquidity(e.p, e.user, []uint64{5000, 5000}, e.pairs(t), e.claimAcc)
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	if minted != 4500 {
		t.Errorf("balanced minted = %d; want 4500", minted)
	}

	// Imbalanced follow-up mints for the worst leg only:
	// total = 13500, reserves = 15000 each,
	// min(13500*5000/15000, 13500*1000/15000) = min(4500, 900) = 900.
	minted, err = e.eng.AddLiquidity(e.p, e.user, []uint64{5000, 1000}, e.pairs(t), e.claimAcc)
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	if minted != 900 {
		t.Errorf("imbalanced minted = %d; want 900", minted)
	}
	// The excess of the over-supplied leg still entered the vault.
	if got := e.balance(t, e.vault(t, 0)); got != 20000 {
		t.Errorf("vault 0 = %d; want 20000", got)
	}
}

func TestAddLiquidityListShape(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	pairs := e.pairs(t)

	if _, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000}, pairs, e.claimAcc); !errors.Is(err, poolerr.ErrInvalidTokenCount) {
		t.Errorf("short amounts = %v; want InvalidTokenCount", err)
	}
	if _, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000, 10000}, pairs[:1], e.claimAcc); !errors.Is(err, poolerr.ErrInvalidTokenCount) {
		t.Errorf("short accounts = %v; want InvalidTokenCount", err)
	}

	// Pairs out of slot order target the wrong vaults.
	swapped := []AccountPair{pairs[1], pairs[0]}
	if _, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000, 10000}, swapped, e.claimAcc); !errors.Is(err, poolerr.ErrInvalidTokenMint) {
		t.Errorf("out-of-order pairs = %v; want InvalidTokenMint", err)
	}

	// No state was touched by any rejected call.
	if e.p.TotalClaimsMinted != 0 || e.balance(t, e.vault(t, 0)) != 0 {
		t.Error("rejected deposits mutated state")
	}
}

func TestAddLiquidityOnEmptyPool(t *testing.T) {
	e := newEnv(t, 3, 1000)
	if _, err := e.eng.AddLiquidity(e.p, e.user, nil, nil, e.claimAcc); !errors.Is(err, poolerr.ErrInvalidTokenCount) {
		t.Errorf("deposit into memberless pool = %v; want InvalidTokenCount", err)
	}
}

func TestRemoveLiquidityRoundTrip(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	if _, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000, 10000}, e.pairs(t), e.claimAcc); err != nil {
		t.Fatal(err)
	}

	// Partial: floor(4500 * 10000 / 9000) = 5000 per asset.
	amounts, err := e.eng.RemoveLiquidity(e.p, e.user, 4500, e.claimAcc, e.pairs(t))
	if err != nil {
		t.Fatalf("RemoveLiquidity: %v", err)
	}
	for i, amt := range amounts {
		if amt != 5000 {
			t.Errorf("returned[%d] = %d; want 5000", i, amt)
		}
	}
	if e.p.TotalClaimsMinted != 4500 {
		t.Errorf("TotalClaimsMinted = %d; want 4500", e.p.TotalClaimsMinted)
	}

	// Burn the rest: the pool is fully drained and the user never
	// receives more than was deposited.
	amounts, err = e.eng.RemoveLiquidity(e.p, e.user, 4500, e.claimAcc, e.pairs(t))
	if err != nil {
		t.Fatalf("RemoveLiquidity: %v", err)
	}
	for i, amt := range amounts {
		if amt != 5000 {
			t.Errorf("returned[%d] = %d; want 5000", i, amt)
		}
	}
	if e.p.TotalClaimsMinted != 0 {
		t.Errorf("TotalClaimsMinted = %d; want 0", e.p.TotalClaimsMinted)
	}
	for i := 0; i < 2; i++ {
		if got := e.balance(t, e.vault(t, i)); got != 0 {
			t.Errorf("vault %d = %d; want 0", i, got)
		}
		if got := e.balance(t, e.userAccs[i]); got != initialBalance {
			t.Errorf("user %d = %d; want full round trip", i, got)
		}
	}
	if got := e.balance(t, e.claimAcc); got != 0 {
		t.Errorf("claim balance = %d; want 0", got)
	}
}

func TestRemoveLiquidityRejections(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	if _, err := e.eng.AddLiquidity(e.p, e.user, []uint64{10000, 10000}, e.pairs(t), e.claimAcc); err != nil {
		t.Fatal(err)
	}

	// More than the caller holds.
	if _, err := e.eng.RemoveLiquidity(e.p, e.user, 9001, e.claimAcc, e.pairs(t)); !errors.Is(err, poolerr.ErrInsufficientTokenAmount) {
		t.Errorf("over-balance burn = %v; want InsufficientTokenAmount", err)
	}

	// Wrong list shape.
	if _, err := e.eng.RemoveLiquidity(e.p, e.user, 100, e.claimAcc, e.pairs(t)[:1]); !errors.Is(err, poolerr.ErrInvalidTokenCount) {
		t.Errorf("short list = %v; want InvalidTokenCount", err)
	}

	// A stranger cannot burn the user's claims.
	stranger := solana.NewWallet().PublicKey()
	if _, err := e.eng.RemoveLiquidity(e.p, stranger, 100, e.claimAcc, e.pairs(t)); !errors.Is(err, poolerr.ErrUnauthorized) {
		t.Errorf("stranger burn = %v; want Unauthorized", err)
	}

	// Claims beyond the recorded total violate the supply invariant.
	claimMint, _, _ := pool.DeriveClaimMint(e.p.Address)
	authority, _, _ := pool.DeriveAuthority(e.p.Address)
	if err := e.ledger.MintTo(claimMint, e.claimAcc, authority, 5000); err != nil {
		t.Fatal(err)
	}
	if _, err := e.eng.RemoveLiquidity(e.p, e.user, 14000, e.claimAcc, e.pairs(t)); !errors.Is(err, poolerr.ErrMathOverflow) {
		t.Errorf("burn beyond outstanding total = %v; want MathOverflow", err)
	}

	if e.p.TotalClaimsMinted != 9000 {
		t.Errorf("TotalClaimsMinted = %d; rejected burns must not mutate", e.p.TotalClaimsMinted)
	}
}
