package engine

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/poolerr"
)

// seed puts first liquidity into every member so swaps have reserves.
func (e *env) seed(t *testing.T, amounts ...uint64) {
	t.Helper()
	if _, err := e.eng.AddLiquidity(e.p, e.user, amounts, e.pairs(t), e.claimAcc); err != nil {
		t.Fatalf("seed liquidity: %v", err)
	}
}

func TestSwapWeightedPricing(t *testing.T) {
	// fee 3/1000, weights 1 and 2:
	// fee = 3, afterFee = 997, out = floor(997 * 1 / 2) = 498.
	e := newEnv(t, 3, 1000, 1, 2)
	e.seed(t, 10000, 10000)

	out, err := e.eng.Swap(e.p, e.user, 1000, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 498 {
		t.Errorf("amount out = %d; want 498", out)
	}

	if got := e.balance(t, e.userAccs[0]); got != initialBalance-10000-1000 {
		t.Errorf("user in balance = %d", got)
	}
	if got := e.balance(t, e.vault(t, 0)); got != 11000 {
		t.Errorf("vault in balance = %d; want 11000", got)
	}
	if got := e.balance(t, e.vault(t, 1)); got != 10000-498 {
		t.Errorf("vault out balance = %d; want 9502", got)
	}
	if got := e.balance(t, e.userAccs[1]); got != initialBalance-10000+498 {
		t.Errorf("user out balance = %d", got)
	}
}

func TestSwapReverseDirection(t *testing.T) {
	// Swapping the heavy asset for the light one pays out more:
	// out = floor(997 * 2 / 1) = 1994.
	e := newEnv(t, 3, 1000, 1, 2)
	e.seed(t, 10000, 10000)

	out, err := e.eng.Swap(e.p, e.user, 1000, 0,
		e.userAccs[1], e.userAccs[0], e.vault(t, 1), e.vault(t, 0))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 1994 {
		t.Errorf("amount out = %d; want 1994", out)
	}
}

func TestSwapSlippageBound(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 2)
	e.seed(t, 10000, 10000)

	_, err := e.eng.Swap(e.p, e.user, 1000, 499,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if !errors.Is(err, poolerr.ErrInsufficientOutputAmount) {
		t.Errorf("Swap below min out = %v; want InsufficientOutputAmount", err)
	}

	// Exactly at the bound passes.
	if _, err := e.eng.Swap(e.p, e.user, 1000, 498,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1)); err != nil {
		t.Errorf("Swap at min out: %v", err)
	}
}

func TestSwapSameToken(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	e.seed(t, 10000, 10000)

	_, err := e.eng.Swap(e.p, e.user, 1000, 0,
		e.userAccs[0], e.userAccs[0], e.vault(t, 0), e.vault(t, 0))
	if !errors.Is(err, poolerr.ErrSameTokenSwap) {
		t.Errorf("same-token Swap = %v; want SameTokenSwap", err)
	}
}

func TestSwapNonMemberVault(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	e.seed(t, 10000, 10000)

	// A user-owned account is not a pool vault.
	_, err := e.eng.Swap(e.p, e.user, 1000, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.userAccs[1])
	if !errors.Is(err, poolerr.ErrInvalidTokenMint) {
		t.Errorf("Swap via non-vault = %v; want InvalidTokenMint", err)
	}
}

func TestSwapEmptyReserves(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)

	// Vaults exist but hold nothing yet.
	_, err := e.eng.Swap(e.p, e.user, 1000, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if !errors.Is(err, poolerr.ErrInsufficientLiquidity) {
		t.Errorf("Swap on empty reserves = %v; want InsufficientLiquidity", err)
	}
}

func TestSwapCannotDrainReserve(t *testing.T) {
	// Zero fee, equal weights: out == in.
	e := newEnv(t, 0, 1, 1, 1)
	e.seed(t, 10000, 10000)

	_, err := e.eng.Swap(e.p, e.user, 10000, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if !errors.Is(err, poolerr.ErrInsufficientLiquidity) {
		t.Errorf("reserve-draining Swap = %v; want InsufficientLiquidity", err)
	}

	// One unit under the reserve passes.
	out, err := e.eng.Swap(e.p, e.user, 9999, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if err != nil || out != 9999 {
		t.Errorf("Swap = %d, %v; want 9999", out, err)
	}
}

func TestSwapOwnershipChecks(t *testing.T) {
	e := newEnv(t, 3, 1000, 1, 1)
	e.seed(t, 10000, 10000)

	stranger := solana.NewWallet().PublicKey()
	_, err := e.eng.Swap(e.p, stranger, 1000, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if !errors.Is(err, poolerr.ErrUnauthorized) {
		t.Errorf("Swap by stranger = %v; want Unauthorized", err)
	}

	_, err = e.eng.Swap(e.p, e.user, initialBalance+1, 0,
		e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
	if !errors.Is(err, poolerr.ErrInsufficientTokenAmount) {
		t.Errorf("Swap beyond balance = %v; want InsufficientTokenAmount", err)
	}
}

func TestSwapInvariant(t *testing.T) {
	// For a spread of weights and amounts, the priced output never
	// exceeds the priced input.
	weights := []struct{ in, out uint64 }{{1, 1}, {1, 2}, {2, 1}, {3, 7}, {1000, 1}}
	for _, w := range weights {
		e := newEnv(t, 3, 1000, w.in, w.out)
		e.seed(t, 100000, 100000)

		for _, amountIn := range []uint64{1, 10, 997, 12345} {
			out, err := e.eng.Swap(e.p, e.user, amountIn, 0,
				e.userAccs[0], e.userAccs[1], e.vault(t, 0), e.vault(t, 1))
			if err != nil {
				if errors.Is(err, poolerr.ErrInsufficientLiquidity) {
					continue // output would drain the reserve
				}
				t.Fatalf("Swap(%d, weights %d/%d): %v", amountIn, w.in, w.out, err)
			}
			_, afterFee, err := e.p.ComputeFee(amountIn)
			if err != nil {
				t.Fatal(err)
			}
			if out*w.out > afterFee*w.in {
				t.Errorf("weights %d/%d amount %d: out*wOut %d > afterFee*wIn %d",
					w.in, w.out, amountIn, out*w.out, afterFee*w.in)
			}
		}
	}
}
