// Package snapshot persists the pool record and the in-memory token
// ledger as a yaml document, so CLI invocations compose into a session.
package snapshot

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"

	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/token"
)

// State is the on-disk document.
type State struct {
	Pool     PoolState      `yaml:"pool"`
	Mints    []MintState    `yaml:"mints"`
	Accounts []AccountState `yaml:"accounts"`
}

// PoolState serializes one pool record.
type PoolState struct {
	Address           string      `yaml:"address"`
	Admin             string      `yaml:"admin"`
	FeeNumerator      uint64      `yaml:"fee_numerator"`
	FeeDenominator    uint64      `yaml:"fee_denominator"`
	TotalClaimsMinted uint64      `yaml:"total_claims_minted"`
	Members           []SlotState `yaml:"members"`
}

// SlotState serializes one asset slot, in slot order.
type SlotState struct {
	Asset  string `yaml:"asset"`
	Vault  string `yaml:"vault"`
	Weight uint64 `yaml:"weight"`
}

// MintState serializes one ledger mint.
type MintState struct {
	Address   string `yaml:"address"`
	Authority string `yaml:"authority"`
	Decimals  uint8  `yaml:"decimals"`
	Supply    uint64 `yaml:"supply"`
}

// AccountState serializes one ledger account.
type AccountState struct {
	Address string `yaml:"address"`
	Mint    string `yaml:"mint"`
	Owner   string `yaml:"owner"`
	Amount  uint64 `yaml:"amount"`
}

// Save writes the pool and ledger to path.
func Save(path string, p *pool.Pool, ledger *token.Memory) error {
	st := State{
		Pool: PoolState{
			Address:           p.Address.String(),
			Admin:             p.Admin.String(),
			FeeNumerator:      p.FeeNumerator,
			FeeDenominator:    p.FeeDenominator,
			TotalClaimsMinted: p.TotalClaimsMinted,
		},
	}
	for _, s := range p.Members() {
		st.Pool.Members = append(st.Pool.Members, SlotState{
			Asset:  s.Asset.String(),
			Vault:  s.Vault.String(),
			Weight: s.Weight,
		})
	}
	for _, m := range ledger.Mints() {
		st.Mints = append(st.Mints, MintState{
			Address:   m.Address.String(),
			Authority: m.Authority.String(),
			Decimals:  m.Decimals,
			Supply:    m.Supply,
		})
	}
	for _, a := range ledger.Accounts() {
		st.Accounts = append(st.Accounts, AccountState{
			Address: a.Address.String(),
			Mint:    a.Mint.String(),
			Owner:   a.Owner.String(),
			Amount:  a.Amount,
		})
	}

	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Load reads a pool and ledger back from path.
func Load(path string) (*pool.Pool, *token.Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	addr, err := parseKey(st.Pool.Address)
	if err != nil {
		return nil, nil, err
	}
	admin, err := parseKey(st.Pool.Admin)
	if err != nil {
		return nil, nil, err
	}
	members := make([]pool.AssetSlot, 0, len(st.Pool.Members))
	for _, s := range st.Pool.Members {
		asset, err := parseKey(s.Asset)
		if err != nil {
			return nil, nil, err
		}
		vault, err := parseKey(s.Vault)
		if err != nil {
			return nil, nil, err
		}
		members = append(members, pool.AssetSlot{Asset: asset, Vault: vault, Weight: s.Weight})
	}
	p, err := pool.Restore(addr, admin, st.Pool.FeeNumerator, st.Pool.FeeDenominator, st.Pool.TotalClaimsMinted, members)
	if err != nil {
		return nil, nil, err
	}

	mints := make([]token.Mint, 0, len(st.Mints))
	for _, m := range st.Mints {
		mintAddr, err := parseKey(m.Address)
		if err != nil {
			return nil, nil, err
		}
		auth, err := parseKey(m.Authority)
		if err != nil {
			return nil, nil, err
		}
		mints = append(mints, token.Mint{
			Address:   mintAddr,
			Authority: auth,
			Decimals:  m.Decimals,
			Supply:    m.Supply,
		})
	}
	accounts := make([]token.Account, 0, len(st.Accounts))
	for _, a := range st.Accounts {
		accAddr, err := parseKey(a.Address)
		if err != nil {
			return nil, nil, err
		}
		mintAddr, err := parseKey(a.Mint)
		if err != nil {
			return nil, nil, err
		}
		owner, err := parseKey(a.Owner)
		if err != nil {
			return nil, nil, err
		}
		accounts = append(accounts, token.Account{
			Address: accAddr,
			Mint:    mintAddr,
			Owner:   owner,
			Amount:  a.Amount,
		})
	}

	return p, token.RestoreMemory(mints, accounts), nil
}

func parseKey(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid public key %q: %w", s, err)
	}
	return pk, nil
}
