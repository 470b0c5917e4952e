package token

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/go-anyswap/internal/poolerr"
	"github.com/lugondev/go-anyswap/pkg/u128"
)

// Memory is an in-memory Ledger used by tests and the CLI harness. It
// applies the same owner/authority rules the production token service
// enforces.
type Memory struct {
	accounts map[solana.PublicKey]*Account
	mints    map[solana.PublicKey]*Mint
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[solana.PublicKey]*Account),
		mints:    make(map[solana.PublicKey]*Mint),
	}
}

// CreateMint implements Ledger.
func (m *Memory) CreateMint(mint, authority solana.PublicKey, decimals uint8) error {
	if _, ok := m.mints[mint]; ok {
		return poolerr.Newf(poolerr.CodeDuplicateAsset, "mint %s already exists", mint)
	}
	m.mints[mint] = &Mint{
		Address:   mint,
		Authority: authority,
		Decimals:  decimals,
	}
	return nil
}

// CreateAccount implements Ledger.
func (m *Memory) CreateAccount(address, mint, owner solana.PublicKey) error {
	if _, ok := m.mints[mint]; !ok {
		return poolerr.ErrMintNotFound
	}
	if _, ok := m.accounts[address]; ok {
		return poolerr.Newf(poolerr.CodeDuplicateAsset, "account %s already exists", address)
	}
	m.accounts[address] = &Account{
		Address: address,
		Mint:    mint,
		Owner:   owner,
	}
	return nil
}

// Account implements Ledger.
func (m *Memory) Account(address solana.PublicKey) (Account, error) {
	acc, ok := m.accounts[address]
	if !ok {
		return Account{}, poolerr.ErrAccountNotFound.WithCause(
			poolerr.Newf(poolerr.CodeAccountNotFound, "account %s", address))
	}
	return *acc, nil
}

// Supply implements Ledger.
func (m *Memory) Supply(mint solana.PublicKey) (uint64, error) {
	mn, ok := m.mints[mint]
	if !ok {
		return 0, poolerr.ErrMintNotFound
	}
	return mn.Supply, nil
}

// Transfer implements Ledger.
func (m *Memory) Transfer(from, to, authority solana.PublicKey, amount uint64) error {
	src, ok := m.accounts[from]
	if !ok {
		return poolerr.ErrAccountNotFound
	}
	dst, ok := m.accounts[to]
	if !ok {
		return poolerr.ErrAccountNotFound
	}
	if !src.Owner.Equals(authority) {
		return poolerr.ErrUnauthorized
	}
	if !src.Mint.Equals(dst.Mint) {
		return poolerr.ErrInvalidTokenMint
	}
	if src.Amount < amount {
		return poolerr.ErrInsufficientTokenAmount
	}
	sum, err := u128.CheckedAdd(dst.Amount, amount)
	if err != nil {
		return poolerr.Overflow(err)
	}
	src.Amount -= amount
	dst.Amount = sum
	return nil
}

// MintTo implements Ledger.
func (m *Memory) MintTo(mint, to, authority solana.PublicKey, amount uint64) error {
	mn, ok := m.mints[mint]
	if !ok {
		return poolerr.ErrMintNotFound
	}
	dst, ok := m.accounts[to]
	if !ok {
		return poolerr.ErrAccountNotFound
	}
	if !mn.Authority.Equals(authority) {
		return poolerr.ErrUnauthorized
	}
	if !dst.Mint.Equals(mint) {
		return poolerr.ErrInvalidTokenMint
	}
	supply, err := u128.CheckedAdd(mn.Supply, amount)
	if err != nil {
		return poolerr.Overflow(err)
	}
	sum, err := u128.CheckedAdd(dst.Amount, amount)
	if err != nil {
		return poolerr.Overflow(err)
	}
	mn.Supply = supply
	dst.Amount = sum
	return nil
}

// Burn implements Ledger.
func (m *Memory) Burn(mint, from, authority solana.PublicKey, amount uint64) error {
	mn, ok := m.mints[mint]
	if !ok {
		return poolerr.ErrMintNotFound
	}
	src, ok := m.accounts[from]
	if !ok {
		return poolerr.ErrAccountNotFound
	}
	// Burning is self-authorized by the account owner, not the mint
	// authority.
	if !src.Owner.Equals(authority) {
		return poolerr.ErrUnauthorized
	}
	if !src.Mint.Equals(mint) {
		return poolerr.ErrInvalidTokenMint
	}
	if src.Amount < amount {
		return poolerr.ErrInsufficientTokenAmount
	}
	src.Amount -= amount
	mn.Supply -= amount
	return nil
}

// Accounts returns a copy of all accounts, for snapshotting.
func (m *Memory) Accounts() []Account {
	out := make([]Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, *acc)
	}
	return out
}

// Mints returns a copy of all mints, for snapshotting.
func (m *Memory) Mints() []Mint {
	out := make([]Mint, 0, len(m.mints))
	for _, mn := range m.mints {
		out = append(out, *mn)
	}
	return out
}

// RestoreMemory rebuilds a ledger from snapshotted mints and accounts.
func RestoreMemory(mints []Mint, accounts []Account) *Memory {
	m := NewMemory()
	for i := range mints {
		mn := mints[i]
		m.mints[mn.Address] = &mn
	}
	for i := range accounts {
		acc := accounts[i]
		m.accounts[acc.Address] = &acc
	}
	return m
}
