package pool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestDerivationIsDeterministic(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	asset := solana.NewWallet().PublicKey()

	a1, b1, err := DeriveAuthority(poolAddr)
	if err != nil {
		t.Fatalf("DeriveAuthority: %v", err)
	}
	a2, b2, err := DeriveAuthority(poolAddr)
	if err != nil {
		t.Fatalf("DeriveAuthority: %v", err)
	}
	if !a1.Equals(a2) || b1 != b2 {
		t.Error("DeriveAuthority not deterministic")
	}

	v1, _, err := DeriveVault(poolAddr, asset)
	if err != nil {
		t.Fatalf("DeriveVault: %v", err)
	}
	v2, _, err := DeriveVault(poolAddr, asset)
	if err != nil {
		t.Fatalf("DeriveVault: %v", err)
	}
	if !v1.Equals(v2) {
		t.Error("DeriveVault not deterministic")
	}
}

func TestDerivationsAreDistinct(t *testing.T) {
	poolA := solana.NewWallet().PublicKey()
	poolB := solana.NewWallet().PublicKey()
	asset := solana.NewWallet().PublicKey()

	authA, _, _ := DeriveAuthority(poolA)
	authB, _, _ := DeriveAuthority(poolB)
	if authA.Equals(authB) {
		t.Error("authority collision across pools")
	}

	mintA, _, _ := DeriveClaimMint(poolA)
	if mintA.Equals(authA) {
		t.Error("claim mint collides with authority")
	}

	// Same asset, different pools: vaults must not collide.
	vaultA, _, _ := DeriveVault(poolA, asset)
	vaultB, _, _ := DeriveVault(poolB, asset)
	if vaultA.Equals(vaultB) {
		t.Error("vault collision across pools")
	}
}
