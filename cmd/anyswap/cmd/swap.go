package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	swapAmountIn uint64
	swapMinOut   uint64
	swapUserIn   string
	swapUserOut  string
	swapVaultIn  string
	swapVaultOut string
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap one member asset for another",
	Long: `Exchange an input amount for the weighted-price output, bounded by
--min-out. Vaults identify which member assets are exchanged.`,
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

		userIn, err := parseKeyArg(swapUserIn)
		if err != nil {
			return err
		}
		userOut, err := parseKeyArg(swapUserOut)
		if err != nil {
			return err
		}
		vaultIn, err := parseKeyArg(swapVaultIn)
		if err != nil {
			return err
		}
		vaultOut, err := parseKeyArg(swapVaultOut)
		if err != nil {
			return err
		}

		eng := newEngine(cfg, ledger)
		out, err := eng.Swap(p, w.PublicKey(), swapAmountIn, swapMinOut, userIn, userOut, vaultIn, vaultOut)
		if err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Swapped %d in for %d out\n", swapAmountIn, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().Uint64Var(&swapAmountIn, "amount-in", 0, "input amount")
	swapCmd.Flags().Uint64Var(&swapMinOut, "min-out", 0, "minimum acceptable output amount")
	swapCmd.Flags().StringVar(&swapUserIn, "user-in", "", "caller's input token account")
	swapCmd.Flags().StringVar(&swapUserOut, "user-out", "", "caller's output token account")
	swapCmd.Flags().StringVar(&swapVaultIn, "vault-in", "", "pool vault of the input asset")
	swapCmd.Flags().StringVar(&swapVaultOut, "vault-out", "", "pool vault of the output asset")
}
