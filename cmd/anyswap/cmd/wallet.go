package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lugondev/go-anyswap/internal/keys"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Wallet management commands",
	Long:  `Commands for managing the keypairs that sign pool operations.`,
}

var walletNewCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Generate a new wallet",
	Long:  `Generate a new keypair and save it to a Solana CLI JSON keypair file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := keys.NewWallet()
		if err := w.SaveToFile(args[0]); err != nil {
			return err
		}

		fmt.Println("New wallet generated!")
		fmt.Printf("  Public Key: %s\n", w.PublicKey().String())
		fmt.Printf("  Saved to:   %s\n", args[0])

		return nil
	},
}

var walletShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show a wallet's public key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := keys.FromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Println(w.PublicKey().String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletNewCmd)
	walletCmd.AddCommand(walletShowCmd)
}
