package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var liquidityCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "Liquidity deposit and withdrawal commands",
	Long: `Deposit all member assets at once for claim tokens, or burn claim
tokens for a pro-rata share of every reserve.`,
}

var (
	depositAmounts string
	depositUsers   string
	claimAccount   string
	burnAmount     uint64
)

var liquidityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Deposit into every member asset and mint claims",
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

		amounts, err := parseAmounts(depositAmounts)
		if err != nil {
			return err
		}
		pairs, err := parseUserAccounts(p, depositUsers)
		if err != nil {
			return err
		}
		claimAcc, err := parseKeyArg(claimAccount)
		if err != nil {
			return err
		}

		eng := newEngine(cfg, ledger)
		minted, err := eng.AddLiquidity(p, w.PublicKey(), amounts, pairs, claimAcc)
		if err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Liquidity added: %d claims minted (total %d)\n", minted, p.TotalClaimsMinted)
		return nil
	},
}

var liquidityRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Burn claims for a pro-rata share of every reserve",
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

		pairs, err := parseUserAccounts(p, depositUsers)
		if err != nil {
			return err
		}
		claimAcc, err := parseKeyArg(claimAccount)
		if err != nil {
			return err
		}

		eng := newEngine(cfg, ledger)
		amounts, err := eng.RemoveLiquidity(p, w.PublicKey(), burnAmount, claimAcc, pairs)
		if err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Liquidity removed: %d claims burned (total %d)\n", burnAmount, p.TotalClaimsMinted)
		for i, amt := range amounts {
			slot, _ := p.Slot(i)
			fmt.Printf("  [%d] %s returned %d\n", i, slot.Asset, amt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(liquidityCmd)
	liquidityCmd.AddCommand(liquidityAddCmd)
	liquidityCmd.AddCommand(liquidityRemoveCmd)

	liquidityAddCmd.Flags().StringVar(&depositAmounts, "amounts", "", "comma-separated deposit amounts in slot order")
	liquidityAddCmd.Flags().StringVar(&depositUsers, "accounts", "", "comma-separated source token accounts in slot order")
	liquidityAddCmd.Flags().StringVar(&claimAccount, "claim-account", "", "claim-token account receiving the mint")

	liquidityRemoveCmd.Flags().Uint64Var(&burnAmount, "burn", 0, "claim tokens to burn")
	liquidityRemoveCmd.Flags().StringVar(&depositUsers, "accounts", "", "comma-separated destination token accounts in slot order")
	liquidityRemoveCmd.Flags().StringVar(&claimAccount, "claim-account", "", "claim-token account to burn from")
}
