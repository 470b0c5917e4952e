package engine

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/metrics"
	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/poolerr"
	"github.com/lugondev/go-anyswap/pkg/u128"
)

// MinimumLiquidity is subtracted from the first claim mint so the pool
// can never be fully drained back to zero supply.
const MinimumLiquidity = 1000

// AddLiquidity deposits the given amount of every member asset and
// mints claim tokens to claimAccount. amounts and accounts carry one
// entry per member, in slot order.
//
// Deposit amounts are taken as supplied; proportionality against
// current reserves is not enforced. The mint is priced by the minimum
// deposit/reserve ratio across assets, so an imbalanced deposit mints
// claims for its worst leg and donates the rest to the pool.
//
// The first deposit (zero claim supply) mints
// isqrt(product of amounts) - MinimumLiquidity.
func (e *Engine) AddLiquidity(p *pool.Pool, caller solana.PublicKey, amounts []uint64, accounts []AccountPair, claimAccount solana.PublicKey) (uint64, error) {
	members := p.MemberCount()
	if members == 0 {
		return 0, poolerr.Newf(poolerr.CodeInvalidTokenCount, "pool has no members")
	}
	if len(amounts) != members || len(accounts) != members {
		return 0, poolerr.Newf(poolerr.CodeInvalidTokenCount,
			"need %d deposit entries, got %d amounts / %d accounts",
			members, len(amounts), len(accounts))
	}

	authority, _, err := pool.DeriveAuthority(p.Address)
	if err != nil {
		return 0, poolerr.Overflow(err)
	}
	claimMint, _, err := pool.DeriveClaimMint(p.Address)
	if err != nil {
		return 0, poolerr.Overflow(err)
	}

	claimAcc, err := e.ledger.Account(claimAccount)
	if err != nil {
		return 0, err
	}
	if !claimAcc.Mint.Equals(claimMint) {
		return 0, poolerr.ErrInvalidTokenMint
	}
	if !claimAcc.Owner.Equals(caller) {
		return 0, poolerr.ErrUnauthorized
	}

	// Validate every pair and read every reserve before computing
	// anything, so no ledger instruction is issued on a bad list.
	reserves := make([]uint64, members)
	for i := 0; i < members; i++ {
		slot, err := p.Slot(i)
		if err != nil {
			return 0, err
		}
		if err := e.checkDepositPair(caller, slot, accounts[i], amounts[i], authority); err != nil {
			return 0, err
		}
		vaultAcc, err := e.ledger.Account(accounts[i].Vault)
		if err != nil {
			return 0, err
		}
		reserves[i] = vaultAcc.Amount
	}

	var minted uint64
	if p.TotalClaimsMinted == 0 {
		minted, err = firstDepositClaims(amounts)
	} else {
		minted, err = proRataClaims(p.TotalClaimsMinted, amounts, reserves)
	}
	if err != nil {
		return 0, err
	}

	if err := p.MintClaims(minted); err != nil {
		return 0, err
	}
	for i := 0; i < members; i++ {
		if err := e.ledger.Transfer(accounts[i].User, accounts[i].Vault, caller, amounts[i]); err != nil {
			return 0, err
		}
	}
	if err := e.ledger.MintTo(claimMint, claimAccount, authority, minted); err != nil {
		return 0, err
	}

	e.metrics.IncrementCounter(metrics.MetricDeposits, 1)
	e.metrics.IncrementCounter(metrics.MetricClaimsMinted, minted)
	e.metrics.UpdateGauge(metrics.MetricPoolClaimsMinted, p.TotalClaimsMinted)
	e.opLogger("add_liquidity").Info("liquidity added",
		"pool", p.Address.String(),
		"members", members,
		"claims_minted", minted,
		"total_claims", p.TotalClaimsMinted,
	)
	return minted, nil
}

// RemoveLiquidity burns burnAmount claim tokens and returns every
// member asset pro rata. accounts carries one (destination, vault)
// pair per member, in slot order. The returned slice holds the amount
// transferred out per asset.
func (e *Engine) RemoveLiquidity(p *pool.Pool, caller solana.PublicKey, burnAmount uint64, claimAccount solana.PublicKey, accounts []AccountPair) ([]uint64, error) {
	members := p.MemberCount()
	if members == 0 {
		return nil, poolerr.Newf(poolerr.CodeInvalidTokenCount, "pool has no members")
	}
	if len(accounts) != members {
		return nil, poolerr.Newf(poolerr.CodeInvalidTokenCount,
			"need %d account pairs, got %d", members, len(accounts))
	}

	authority, _, err := pool.DeriveAuthority(p.Address)
	if err != nil {
		return nil, poolerr.Overflow(err)
	}
	claimMint, _, err := pool.DeriveClaimMint(p.Address)
	if err != nil {
		return nil, poolerr.Overflow(err)
	}

	claimAcc, err := e.ledger.Account(claimAccount)
	if err != nil {
		return nil, err
	}
	if !claimAcc.Mint.Equals(claimMint) {
		return nil, poolerr.ErrInvalidTokenMint
	}
	if !claimAcc.Owner.Equals(caller) {
		return nil, poolerr.ErrUnauthorized
	}
	if claimAcc.Amount < burnAmount {
		return nil, poolerr.ErrInsufficientTokenAmount
	}
	if p.TotalClaimsMinted < burnAmount {
		return nil, poolerr.Newf(poolerr.CodeMathOverflow,
			"burn %d exceeds outstanding claims %d", burnAmount, p.TotalClaimsMinted)
	}

	// Compute every withdrawal amount before mutating anything.
	// amount_i = floor(burn * reserve_i / total); burn <= total keeps
	// each result within the vault's actual balance.
	amounts := make([]uint64, members)
	for i := 0; i < members; i++ {
		slot, err := p.Slot(i)
		if err != nil {
			return nil, err
		}
		if !accounts[i].Vault.Equals(slot.Vault) {
			return nil, poolerr.ErrInvalidTokenMint
		}
		vaultAcc, err := e.ledger.Account(accounts[i].Vault)
		if err != nil {
			return nil, err
		}
		if !vaultAcc.Owner.Equals(authority) {
			return nil, poolerr.ErrInvalidTokenMint
		}
		userAcc, err := e.ledger.Account(accounts[i].User)
		if err != nil {
			return nil, err
		}
		if !userAcc.Owner.Equals(caller) {
			return nil, poolerr.ErrUnauthorized
		}
		if !userAcc.Mint.Equals(slot.Asset) {
			return nil, poolerr.ErrInvalidTokenMint
		}

		out, err := u128.Mul(burnAmount, vaultAcc.Amount).Div64(p.TotalClaimsMinted)
		if err != nil {
			return nil, poolerr.Overflow(err)
		}
		amounts[i] = out
	}

	// Single decrement after the full batch is computed, before any
	// transfer is issued.
	if err := p.BurnClaims(burnAmount); err != nil {
		return nil, err
	}
	for i := 0; i < members; i++ {
		if err := e.ledger.Transfer(accounts[i].Vault, accounts[i].User, authority, amounts[i]); err != nil {
			return nil, err
		}
	}
	// The claim burn is self-authorized by the caller, unlike the vault
	// transfers above.
	if err := e.ledger.Burn(claimMint, claimAccount, caller, burnAmount); err != nil {
		return nil, err
	}

	e.metrics.IncrementCounter(metrics.MetricWithdrawals, 1)
	e.metrics.IncrementCounter(metrics.MetricClaimsBurned, burnAmount)
	e.metrics.UpdateGauge(metrics.MetricPoolClaimsMinted, p.TotalClaimsMinted)
	e.opLogger("remove_liquidity").Info("liquidity removed",
		"pool", p.Address.String(),
		"members", members,
		"claims_burned", burnAmount,
		"total_claims", p.TotalClaimsMinted,
	)
	return amounts, nil
}

// firstDepositClaims prices the pool's very first mint:
// isqrt(product of all deposits) - MinimumLiquidity.
func firstDepositClaims(amounts []uint64) (uint64, error) {
	product := u128.From64(1)
	for _, amt := range amounts {
		var err error
		product, err = product.Mul64(amt)
		if err != nil {
			return 0, poolerr.Overflow(err)
		}
	}
	root := product.Sqrt()
	if root <= MinimumLiquidity {
		return 0, poolerr.Newf(poolerr.CodeInsufficientLiquidity,
			"initial deposit below minimum liquidity floor (%d)", MinimumLiquidity)
	}
	return root - MinimumLiquidity, nil
}

// proRataClaims prices a follow-up mint:
// total * min_i(deposit_i / reserve_i), floor division per asset.
func proRataClaims(total uint64, amounts, reserves []uint64) (uint64, error) {
	var minted uint64
	for i := range amounts {
		if reserves[i] == 0 {
			return 0, poolerr.Newf(poolerr.CodeInsufficientLiquidity,
				"member %d has an empty vault", i)
		}
		share, err := u128.MulDiv(total, amounts[i], reserves[i])
		if err != nil {
			return 0, poolerr.Overflow(err)
		}
		if i == 0 || share < minted {
			minted = share
		}
	}
	if minted == 0 {
		return 0, poolerr.Newf(poolerr.CodeInsufficientLiquidity,
			"deposit too small to mint any claims")
	}
	return minted, nil
}
