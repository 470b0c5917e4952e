// Package token models the external fungible-token ledger the pool
// core instructs. The pool never mutates balances itself; it issues
// transfer, mint and burn instructions against this interface and the
// ledger enforces ownership and authority.
package token

import (
	"github.com/gagliardetto/solana-go"
)

// Account is one fungible-token account on the ledger.
type Account struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64
}

// Mint is one fungible asset type.
type Mint struct {
	Address   solana.PublicKey
	Authority solana.PublicKey
	Decimals  uint8
	Supply    uint64
}

// Ledger is the authoritative balance service. Every mutating call
// fails unless the given authority matches the declared owner of the
// source account or the mint authority.
type Ledger interface {
	// CreateMint registers a new asset type.
	CreateMint(mint, authority solana.PublicKey, decimals uint8) error

	// CreateAccount registers a new empty token account.
	CreateAccount(address, mint, owner solana.PublicKey) error

	// Account returns the current state of a token account.
	Account(address solana.PublicKey) (Account, error)

	// Supply returns a mint's outstanding supply.
	Supply(mint solana.PublicKey) (uint64, error)

	// Transfer moves amount from one account to another.
	Transfer(from, to, authority solana.PublicKey, amount uint64) error

	// MintTo creates amount new units in the destination account.
	MintTo(mint, to, authority solana.PublicKey, amount uint64) error

	// Burn destroys amount units held in from.
	Burn(mint, from, authority solana.PublicKey, amount uint64) error
}
