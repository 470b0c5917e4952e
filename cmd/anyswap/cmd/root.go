package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lugondev/go-anyswap/internal/common"
	"github.com/lugondev/go-anyswap/internal/config"
	"github.com/lugondev/go-anyswap/internal/engine"
	"github.com/lugondev/go-anyswap/internal/keys"
	"github.com/lugondev/go-anyswap/internal/metrics"
	"github.com/lugondev/go-anyswap/internal/pool"
	"github.com/lugondev/go-anyswap/internal/snapshot"
	"github.com/lugondev/go-anyswap/internal/token"
)

var (
	cfgFile     string
	statePath   string
	keypairPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "anyswap",
	Short: "AnySwap CLI - weighted multi-asset pool operations",
	Long: `AnySwap is a CLI harness for the weighted multi-asset pool core.

It operates on a local yaml state file holding one pool and a token
ledger, and provides commands for:
- Pool creation and membership management
- Liquidity deposits and withdrawals
- Weighted swaps
- Wallet and token bookkeeping`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.anyswap.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "pool/ledger state file (default anyswap-state.yaml)")
	rootCmd.PersistentFlags().StringVar(&keypairPath, "keypair", "", "signing keypair file (Solana CLI JSON format)")

	if err := viper.BindPFlag("state.path", rootCmd.PersistentFlags().Lookup("state")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".anyswap")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if statePath != "" {
		cfg.State.Path = statePath
	}
	return cfg, nil
}

// newEngine builds an engine over the given ledger with the configured
// logger.
func newEngine(cfg *config.Config, ledger token.Ledger) *engine.Engine {
	eng := engine.New(ledger)
	logger := common.NewLogger(cfg.Log.Level, cfg.Log.Format)
	eng.SetLogger(logger)
	eng.SetMetrics(metrics.NewLogMetrics(logger))
	return eng
}

// loadState reads the pool and ledger from the configured state file.
func loadState(cfg *config.Config) (*pool.Pool, *token.Memory, error) {
	return snapshot.Load(cfg.State.Path)
}

// saveState writes the pool and ledger back.
func saveState(cfg *config.Config, p *pool.Pool, ledger *token.Memory) error {
	return snapshot.Save(cfg.State.Path, p, ledger)
}

// signer loads the signing wallet named by --keypair.
func signer() (*keys.Wallet, error) {
	if keypairPath == "" {
		return nil, fmt.Errorf("--keypair is required for this command")
	}
	return keys.FromFile(keypairPath)
}

// parseKeyArg parses a base58 public key argument.
func parseKeyArg(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return pk, nil
}

// parseAmounts parses a comma-separated amount list.
func parseAmounts(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseUserAccounts parses a comma-separated account list and pairs
// each entry with the pool's vault in slot order.
func parseUserAccounts(p *pool.Pool, s string, extra ...solana.PublicKey) ([]engine.AccountPair, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	vaults := make([]solana.PublicKey, 0, len(parts))
	for _, slot := range p.Members() {
		vaults = append(vaults, slot.Vault)
	}
	vaults = append(vaults, extra...)
	if len(parts) != len(vaults) {
		return nil, fmt.Errorf("need %d user accounts in slot order, got %d", len(vaults), len(parts))
	}
	pairs := make([]engine.AccountPair, len(parts))
	for i, part := range parts {
		user, err := parseKeyArg(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pairs[i] = engine.AccountPair{User: user, Vault: vaults[i]}
	}
	return pairs, nil
}
