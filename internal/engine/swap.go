package engine

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/metrics"
	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/poolerr"
	"github.com/lugondev/go-anyswap/pkg/u128"
)

// Swap exchanges amountIn of the input vault's asset for the output
// vault's asset at the weighted price
//
//	amount_out = floor(amount_in_after_fee * weight_in / weight_out)
//
// This is the pool's wire-compatible linear cross-weight formula, not
// the weighted-constant-product invariant. Asset identity is resolved
// from each vault's declared mint and matched against membership.
func (e *Engine) Swap(p *pool.Pool, caller solana.PublicKey, amountIn, minAmountOut uint64, userIn, userOut, vaultIn, vaultOut solana.PublicKey) (uint64, error) {
	authority, _, err := pool.DeriveAuthority(p.Address)
	if err != nil {
		return 0, poolerr.Overflow(err)
	}

	userInAcc, err := e.ledger.Account(userIn)
	if err != nil {
		return 0, err
	}
	if !userInAcc.Owner.Equals(caller) {
		return 0, poolerr.ErrUnauthorized
	}
	if userInAcc.Amount < amountIn {
		return 0, poolerr.ErrInsufficientTokenAmount
	}

	vaultInAcc, err := e.ledger.Account(vaultIn)
	if err != nil {
		return 0, err
	}
	vaultOutAcc, err := e.ledger.Account(vaultOut)
	if err != nil {
		return 0, err
	}
	if !vaultInAcc.Owner.Equals(authority) || !vaultOutAcc.Owner.Equals(authority) {
		return 0, poolerr.ErrInvalidTokenMint
	}

	// Asset identity comes from the vaults' declared mints.
	inIdx, slotIn, ok := p.FindSlotByAsset(vaultInAcc.Mint)
	if !ok {
		return 0, poolerr.ErrInvalidTokenMint
	}
	outIdx, slotOut, ok := p.FindSlotByAsset(vaultOutAcc.Mint)
	if !ok {
		return 0, poolerr.ErrInvalidTokenMint
	}
	if inIdx == outIdx {
		return 0, poolerr.ErrSameTokenSwap
	}
	if !vaultIn.Equals(slotIn.Vault) || !vaultOut.Equals(slotOut.Vault) {
		return 0, poolerr.ErrInvalidTokenMint
	}
	if !userInAcc.Mint.Equals(slotIn.Asset) {
		return 0, poolerr.ErrInvalidTokenMint
	}

	userOutAcc, err := e.ledger.Account(userOut)
	if err != nil {
		return 0, err
	}
	if !userOutAcc.Owner.Equals(caller) {
		return 0, poolerr.ErrUnauthorized
	}
	if !userOutAcc.Mint.Equals(slotOut.Asset) {
		return 0, poolerr.ErrInvalidTokenMint
	}

	reserveIn := vaultInAcc.Amount
	reserveOut := vaultOutAcc.Amount
	if reserveIn == 0 || reserveOut == 0 {
		return 0, poolerr.Newf(poolerr.CodeInsufficientLiquidity,
			"empty reserve (in: %d, out: %d)", reserveIn, reserveOut)
	}

	fee, afterFee, err := p.ComputeFee(amountIn)
	if err != nil {
		return 0, err
	}

	amountOut, err := u128.MulDiv(afterFee, slotIn.Weight, slotOut.Weight)
	if err != nil {
		return 0, poolerr.Overflow(err)
	}
	if amountOut < minAmountOut {
		return 0, poolerr.Newf(poolerr.CodeInsufficientOutputAmount,
			"output %d below minimum %d", amountOut, minAmountOut)
	}
	if amountOut >= reserveOut {
		return 0, poolerr.Newf(poolerr.CodeInsufficientLiquidity,
			"output %d would drain reserve %d", amountOut, reserveOut)
	}

	// Invariant re-check: floor division may leave a small deficit on
	// the output side, never a surplus.
	deltaIn := u128.Mul(afterFee, slotIn.Weight)
	deltaOut := u128.Mul(amountOut, slotOut.Weight)
	if deltaOut.Cmp(deltaIn) > 0 {
		return 0, poolerr.Newf(poolerr.CodeMathOverflow,
			"priced output exceeds priced input")
	}

	if err := e.ledger.Transfer(userIn, vaultIn, caller, amountIn); err != nil {
		return 0, err
	}
	if err := e.ledger.Transfer(vaultOut, userOut, authority, amountOut); err != nil {
		return 0, err
	}

	e.metrics.IncrementCounter(metrics.MetricSwapsExecuted, 1)
	e.metrics.IncrementCounter(metrics.MetricSwapVolumeIn, amountIn)
	e.metrics.IncrementCounter(metrics.MetricSwapVolumeOut, amountOut)
	e.opLogger("swap").Info("swap executed",
		"pool", p.Address.String(),
		"asset_in", slotIn.Asset.String(),
		"asset_out", slotOut.Asset.String(),
		"amount_in", amountIn,
		"fee", fee,
		"amount_out", amountOut,
		"weight_in", slotIn.Weight,
		"weight_out", slotOut.Weight,
	)
	return amountOut, nil
}
