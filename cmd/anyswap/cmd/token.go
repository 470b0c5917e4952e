package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Token ledger bookkeeping commands",
	Long: `Commands for setting up mints and token accounts in the local ledger
so that pool operations have assets to move.`,
}

var (
	mintDecimals uint8
	accountMint  string
	accountOwner string
	mintToAmount uint64
)

var tokenCreateMintCmd = &cobra.Command{
	Use:   "create-mint",
	Short: "Create a new mint with the signer as authority",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w, err := signer()
		if err != nil {
			return err
		}
		p, ledger, err := loadState(cfg)
		if err != nil {
			return err
		}

		mint := solana.NewWallet().PublicKey()
		if err := ledger.CreateMint(mint, w.PublicKey(), mintDecimals); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Mint created: %s (decimals %d, authority %s)\n", mint, mintDecimals, w.PublicKey())
		return nil
	},
}

var tokenCreateAccountCmd = &cobra.Command{
	Use:   "create-account",
	Short: "Create a token account for a mint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w, err := signer()
		if err != nil {
			return err
		}
		p, ledger, err := loadState(cfg)
		if err != nil {
			return err
		}

		mint, err := parseKeyArg(accountMint)
		if err != nil {
			return err
		}
		owner := w.PublicKey()
		if accountOwner != "" {
			if owner, err = parseKeyArg(accountOwner); err != nil {
				return err
			}
		}

		addr := solana.NewWallet().PublicKey()
		if err := ledger.CreateAccount(addr, mint, owner); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Account created: %s (mint %s, owner %s)\n", addr, mint, owner)
		return nil
	},
}

var tokenMintToCmd = &cobra.Command{
	Use:   "mint-to [account]",
	Short: "Mint tokens into an account (signer must be the mint authority)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w, err := signer()
		if err != nil {
			return err
		}
		p, ledger, err := loadState(cfg)
		if err != nil {
			return err
		}
		addr, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}

		acc, err := ledger.Account(addr)
		if err != nil {
			return err
		}
		if err := ledger.MintTo(acc.Mint, addr, w.PublicKey(), mintToAmount); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Minted %d to %s\n", mintToAmount, addr)
		return nil
	},
}

var tokenBalanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Show a token account's balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, ledger, err := loadState(cfg)
		if err != nil {
			return err
		}
		addr, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}

		acc, err := ledger.Account(addr)
		if err != nil {
			return err
		}
		fmt.Printf("%d\n", acc.Amount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenCreateMintCmd)
	tokenCmd.AddCommand(tokenCreateAccountCmd)
	tokenCmd.AddCommand(tokenMintToCmd)
	tokenCmd.AddCommand(tokenBalanceCmd)

	tokenCreateMintCmd.Flags().Uint8Var(&mintDecimals, "decimals", 9, "mint decimals")

	tokenCreateAccountCmd.Flags().StringVar(&accountMint, "mint", "", "mint address")
	tokenCreateAccountCmd.Flags().StringVar(&accountOwner, "owner", "", "account owner (defaults to signer)")

	tokenMintToCmd.Flags().Uint64Var(&mintToAmount, "amount", 0, "amount to mint")
}
