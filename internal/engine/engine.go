// Package engine implements the pool's instruction handlers. Each
// handler is one atomic unit of work: it validates, computes, mutates
// pool state and only then issues transfer, mint or burn instructions
// to the token ledger. Any error aborts the whole unit before the
// first ledger instruction, so the hosting environment's all-or-nothing
// commit is sufficient and no handler carries rollback logic.
package engine

import (
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/lugondev/go-anyswap/internal/common"
	"github.com/lugondev/go-anyswap/internal/metrics"
	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/poolerr"
	"github.com/lugondev/go-anyswap/internal/token"
)

// AccountPair is one (user account, pool vault) handle pair in the
// variable-length account-list protocol. Lists are supplied in the
// pool's current slot order.
type AccountPair struct {
	User  solana.PublicKey
	Vault solana.PublicKey
}

// Engine executes pool operations against a token ledger.
type Engine struct {
	common.LoggerMixin
	ledger  token.Ledger
	metrics metrics.Metrics
}

// New creates an engine bound to the given token ledger.
func New(ledger token.Ledger) *Engine {
	return &Engine{
		LoggerMixin: common.NewLoggerMixin(),
		ledger:      ledger,
		metrics:     metrics.NewNoopMetrics(),
	}
}

// SetMetrics replaces the engine's metrics sink.
func (e *Engine) SetMetrics(m metrics.Metrics) {
	if m != nil {
		e.metrics = m
	}
}

// opLogger tags log lines with the operation name and a fresh
// invocation id.
func (e *Engine) opLogger(op string) *slog.Logger {
	return e.GetLogger().With("op", op, "invocation", uuid.NewString())
}

func requireAdmin(p *pool.Pool, caller solana.PublicKey) error {
	if !p.Admin.Equals(caller) {
		return poolerr.ErrUnauthorized
	}
	return nil
}

// CreatePool establishes a new empty pool and its claim-token mint.
// The mint authority is the pool's derived authority delegate.
func (e *Engine) CreatePool(poolAddr, admin solana.PublicKey, feeNumerator, feeDenominator uint64) (*pool.Pool, error) {
	p, err := pool.New(poolAddr, admin, feeNumerator, feeDenominator)
	if err != nil {
		return nil, err
	}

	authority, _, err := pool.DeriveAuthority(poolAddr)
	if err != nil {
		return nil, poolerr.Overflow(err)
	}
	claimMint, _, err := pool.DeriveClaimMint(poolAddr)
	if err != nil {
		return nil, poolerr.Overflow(err)
	}
	if err := e.ledger.CreateMint(claimMint, authority, pool.ClaimDecimals); err != nil {
		return nil, err
	}

	e.metrics.IncrementCounter(metrics.MetricPoolsCreated, 1)
	e.opLogger("create_pool").Info("pool created",
		"pool", poolAddr.String(),
		"claim_mint", claimMint.String(),
		"admin", admin.String(),
		"fee_numerator", feeNumerator,
		"fee_denominator", feeDenominator,
	)
	return p, nil
}

// AddAsset appends a new member asset. On a non-empty pool the caller
// must seed every vault at once: amounts and accounts carry one entry
// per existing slot, in slot order, plus one final entry for the new
// asset, whose deposit must be positive so its vault never starts
// empty. On an empty pool both lists must be empty.
func (e *Engine) AddAsset(p *pool.Pool, caller, asset solana.PublicKey, weight uint64, amounts []uint64, accounts []AccountPair) error {
	if err := requireAdmin(p, caller); err != nil {
		return err
	}
	if weight == 0 {
		return poolerr.ErrInvalidWeight
	}
	if p.MemberCount() >= pool.Capacity {
		return poolerr.Newf(poolerr.CodeInvalidTokenCount,
			"pool is at capacity (%d)", pool.Capacity)
	}
	if _, _, ok := p.FindSlotByAsset(asset); ok {
		return poolerr.Newf(poolerr.CodeDuplicateAsset,
			"asset %s already in pool", asset)
	}

	authority, _, err := pool.DeriveAuthority(p.Address)
	if err != nil {
		return poolerr.Overflow(err)
	}
	vault, _, err := pool.DeriveVault(p.Address, asset)
	if err != nil {
		return poolerr.Overflow(err)
	}

	members := p.MemberCount()
	if members == 0 {
		if len(amounts) != 0 || len(accounts) != 0 {
			return poolerr.Newf(poolerr.CodeInvalidTokenCount,
				"empty pool takes no seed deposits, got %d", len(accounts))
		}
	} else {
		if len(amounts) != members+1 || len(accounts) != members+1 {
			return poolerr.Newf(poolerr.CodeInvalidTokenCount,
				"need %d seed entries, got %d amounts / %d accounts",
				members+1, len(amounts), len(accounts))
		}
		if amounts[members] == 0 {
			return poolerr.Newf(poolerr.CodeInsufficientLiquidity,
				"new asset needs a positive seed deposit")
		}
		// New asset's pair is last and must target the derived vault.
		if !accounts[members].Vault.Equals(vault) {
			return poolerr.ErrInvalidTokenMint
		}
		for i := 0; i < members; i++ {
			slot, err := p.Slot(i)
			if err != nil {
				return err
			}
			if err := e.checkDepositPair(caller, slot, accounts[i], amounts[i], authority); err != nil {
				return err
			}
		}
		// The new vault does not exist yet; only its user side can be
		// checked against the ledger.
		userAcc, err := e.ledger.Account(accounts[members].User)
		if err != nil {
			return err
		}
		if !userAcc.Owner.Equals(caller) {
			return poolerr.ErrUnauthorized
		}
		if !userAcc.Mint.Equals(asset) {
			return poolerr.ErrInvalidTokenMint
		}
		if userAcc.Amount < amounts[members] {
			return poolerr.ErrInsufficientTokenAmount
		}
	}

	if err := e.ledger.CreateAccount(vault, asset, authority); err != nil {
		return err
	}
	for i := range accounts {
		if err := e.ledger.Transfer(accounts[i].User, accounts[i].Vault, caller, amounts[i]); err != nil {
			return err
		}
	}
	if err := p.AppendSlot(pool.AssetSlot{Asset: asset, Vault: vault, Weight: weight}); err != nil {
		return err
	}

	e.metrics.IncrementCounter(metrics.MetricAssetsAdded, 1)
	e.metrics.UpdateGauge(metrics.MetricPoolMembers, uint64(p.MemberCount()))
	e.opLogger("add_asset").Info("asset added",
		"pool", p.Address.String(),
		"asset", asset.String(),
		"vault", vault.String(),
		"weight", weight,
		"members", p.MemberCount(),
	)
	return nil
}

// RemoveAsset deletes a member asset. The asset's vault reserve must
// already be zero; removal never drains funds.
func (e *Engine) RemoveAsset(p *pool.Pool, caller, asset solana.PublicKey) error {
	if err := requireAdmin(p, caller); err != nil {
		return err
	}
	i, slot, ok := p.FindSlotByAsset(asset)
	if !ok {
		return poolerr.Newf(poolerr.CodeInvalidTokenIndex,
			"asset %s not in pool", asset)
	}
	vaultAcc, err := e.ledger.Account(slot.Vault)
	if err != nil {
		return err
	}
	if vaultAcc.Amount != 0 {
		return poolerr.Newf(poolerr.CodeVaultNotEmpty,
			"vault %s holds %d units", slot.Vault, vaultAcc.Amount)
	}
	if err := p.RemoveSlot(i); err != nil {
		return err
	}

	e.metrics.IncrementCounter(metrics.MetricAssetsRemoved, 1)
	e.metrics.UpdateGauge(metrics.MetricPoolMembers, uint64(p.MemberCount()))
	e.opLogger("remove_asset").Info("asset removed",
		"pool", p.Address.String(),
		"asset", asset.String(),
		"members", p.MemberCount(),
	)
	return nil
}

// ModifyWeight changes one asset's pricing weight. Reserves are
// untouched; only future swap pricing changes.
func (e *Engine) ModifyWeight(p *pool.Pool, caller, asset solana.PublicKey, newWeight uint64) error {
	if err := requireAdmin(p, caller); err != nil {
		return err
	}
	i, _, ok := p.FindSlotByAsset(asset)
	if !ok {
		return poolerr.Newf(poolerr.CodeInvalidTokenIndex,
			"asset %s not in pool", asset)
	}
	if err := p.SetWeight(i, newWeight); err != nil {
		return err
	}

	e.opLogger("modify_weight").Info("weight modified",
		"pool", p.Address.String(),
		"asset", asset.String(),
		"weight", newWeight,
	)
	return nil
}

// ModifyFee changes the pool's fee rate.
func (e *Engine) ModifyFee(p *pool.Pool, caller solana.PublicKey, feeNumerator, feeDenominator uint64) error {
	if err := requireAdmin(p, caller); err != nil {
		return err
	}
	if err := p.SetFee(feeNumerator, feeDenominator); err != nil {
		return err
	}

	e.opLogger("modify_fee").Info("fee modified",
		"pool", p.Address.String(),
		"fee_numerator", feeNumerator,
		"fee_denominator", feeDenominator,
	)
	return nil
}

// checkDepositPair validates one (user, vault) pair of a deposit list
// against a slot: the vault handle must be the slot's stored vault
// owned by the pool authority, and the user account must be a caller-
// owned account of the slot's asset holding at least amount.
func (e *Engine) checkDepositPair(caller solana.PublicKey, slot pool.AssetSlot, pair AccountPair, amount uint64, authority solana.PublicKey) error {
	if !pair.Vault.Equals(slot.Vault) {
		return poolerr.ErrInvalidTokenMint
	}
	vaultAcc, err := e.ledger.Account(pair.Vault)
	if err != nil {
		return err
	}
	if !vaultAcc.Owner.Equals(authority) {
		return poolerr.ErrInvalidTokenMint
	}
	userAcc, err := e.ledger.Account(pair.User)
	if err != nil {
		return err
	}
	if !userAcc.Owner.Equals(caller) {
		return poolerr.ErrUnauthorized
	}
	if !userAcc.Mint.Equals(slot.Asset) {
		return poolerr.ErrInvalidTokenMint
	}
	if userAcc.Amount < amount {
		return poolerr.ErrInsufficientTokenAmount
	}
	return nil
}
