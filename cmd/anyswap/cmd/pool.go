package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/token"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Pool lifecycle and membership commands",
	Long:  `Commands for creating a pool and managing its member assets, weights and fee.`,
}

var (
	poolFeeNum  uint64
	poolFeeDen  uint64
	addWeight   uint64
	seedAmounts string
	seedUsers   string
)

var poolCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new empty pool",
	Long: `Create a new pool with the signer as admin, establish its claim-token
mint, and write a fresh state file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w, err := signer()
		if err != nil {
			return err
		}

		ledger := token.NewMemory()
		eng := newEngine(cfg, ledger)

		poolAddr := solana.NewWallet().PublicKey()
		p, err := eng.CreatePool(poolAddr, w.PublicKey(), poolFeeNum, poolFeeDen)
		if err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		claimMint, _, _ := pool.DeriveClaimMint(poolAddr)
		fmt.Printf("Pool created: %s\n", poolAddr)
		fmt.Printf("  Admin:      %s\n", w.PublicKey())
		fmt.Printf("  Claim mint: %s\n", claimMint)
		fmt.Printf("  Fee:        %d/%d\n", poolFeeNum, poolFeeDen)
		return nil
	},
}

var poolInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the pool's state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, ledger, err := loadState(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Pool %s\n", p.Address)
		fmt.Printf("  Admin:        %s\n", p.Admin)
		fmt.Printf("  Fee:          %d/%d\n", p.FeeNumerator, p.FeeDenominator)
		fmt.Printf("  Claims:       %d\n", p.TotalClaimsMinted)
		fmt.Printf("  Members:      %d\n", p.MemberCount())
		for i, s := range p.Members() {
			reserve := uint64(0)
			if acc, err := ledger.Account(s.Vault); err == nil {
				reserve = acc.Amount
			}
			fmt.Printf("  [%d] asset %s weight %d reserve %d\n", i, s.Asset, s.Weight, reserve)
		}
		return nil
	},
}

var poolAddAssetCmd = &cobra.Command{
	Use:   "add-asset [asset-mint]",
	Short: "Add a member asset",
	Long: `Add an asset to the pool. On a non-empty pool, --seed-amounts and
--seed-accounts must carry one entry per existing member in slot order
plus a final entry for the new asset.`,
	Args: cobra.ExactArgs(1),
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
		asset, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}

		amounts, err := parseAmounts(seedAmounts)
		if err != nil {
			return err
		}
		vault, _, err := pool.DeriveVault(p.Address, asset)
		if err != nil {
			return err
		}
		pairs, err := parseUserAccounts(p, seedUsers, vault)
		if err != nil {
			return err
		}

		eng := newEngine(cfg, ledger)
		if err := eng.AddAsset(p, w.PublicKey(), asset, addWeight, amounts, pairs); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Asset added: %s (weight %d, vault %s)\n", asset, addWeight, vault)
		return nil
	},
}

var poolRemoveAssetCmd = &cobra.Command{
	Use:   "remove-asset [asset-mint]",
	Short: "Remove a member asset (vault must be empty)",
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
		asset, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}

		eng := newEngine(cfg, ledger)
		if err := eng.RemoveAsset(p, w.PublicKey(), asset); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Asset removed: %s\n", asset)
		return nil
	},
}

var poolSetWeightCmd = &cobra.Command{
	Use:   "set-weight [asset-mint] [weight]",
	Short: "Change a member asset's pricing weight",
	Args:  cobra.ExactArgs(2),
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
		asset, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}
		weights, err := parseAmounts(args[1])
		if err != nil || len(weights) != 1 {
			return fmt.Errorf("invalid weight %q", args[1])
		}

		eng := newEngine(cfg, ledger)
		if err := eng.ModifyWeight(p, w.PublicKey(), asset, weights[0]); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Weight updated: %s -> %d\n", asset, weights[0])
		return nil
	},
}

var poolSetFeeCmd = &cobra.Command{
	Use:   "set-fee [numerator] [denominator]",
	Short: "Change the pool's fee rate",
	Args:  cobra.ExactArgs(2),
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
		nums, err := parseAmounts(args[0] + "," + args[1])
		if err != nil || len(nums) != 2 {
			return fmt.Errorf("invalid fee %s/%s", args[0], args[1])
		}

		eng := newEngine(cfg, ledger)
		if err := eng.ModifyFee(p, w.PublicKey(), nums[0], nums[1]); err != nil {
			return err
		}
		if err := saveState(cfg, p, ledger); err != nil {
			return err
		}

		fmt.Printf("Fee updated: %d/%d\n", nums[0], nums[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(poolCreateCmd)
	poolCmd.AddCommand(poolInfoCmd)
	poolCmd.AddCommand(poolAddAssetCmd)
	poolCmd.AddCommand(poolRemoveAssetCmd)
	poolCmd.AddCommand(poolSetWeightCmd)
	poolCmd.AddCommand(poolSetFeeCmd)

	poolCreateCmd.Flags().Uint64Var(&poolFeeNum, "fee-num", 3, "fee numerator")
	poolCreateCmd.Flags().Uint64Var(&poolFeeDen, "fee-den", 1000, "fee denominator")

	poolAddAssetCmd.Flags().Uint64Var(&addWeight, "weight", 1, "pricing weight for the new asset")
	poolAddAssetCmd.Flags().StringVar(&seedAmounts, "seed-amounts", "", "comma-separated seed deposit amounts")
	poolAddAssetCmd.Flags().StringVar(&seedUsers, "seed-accounts", "", "comma-separated source token accounts")
}
