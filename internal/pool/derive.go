package pool

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the deployed program identity all pool sub-accounts are
// derived under.
var ProgramID = solana.MustPublicKeyFromBase58("3GBxn5VSThpKNyUgaQ96xjSXD2zJ1164LzK28MXv4MDC")

// Derivation seed tags. These are part of the wire-compatible account
// addressing scheme and must not change.
const (
	seedAuthority = "anyswap_authority"
	seedClaimMint = "pool_mint"
	seedVault     = "anyswap_vault"
)

// DeriveAuthority returns the pool's authority delegate, the only
// identity allowed to move vault funds or mint claim tokens.
func DeriveAuthority(poolAddr solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte(seedAuthority), poolAddr.Bytes()},
		ProgramID,
	)
}

// DeriveClaimMint returns the pool's claim-token mint address.
func DeriveClaimMint(poolAddr solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte(seedClaimMint), poolAddr.Bytes()},
		ProgramID,
	)
}

// DeriveVault returns the custodial vault address for one member asset.
// The derivation is keyed on both pool and asset so no two pools'
// vaults collide.
func DeriveVault(poolAddr, asset solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte(seedVault), poolAddr.Bytes(), asset.Bytes()},
		ProgramID,
	)
}
