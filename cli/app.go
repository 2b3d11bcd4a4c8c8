// Package cli provides the Cobra-based CLI for the catalog.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"catalogquery/domain"
	"catalogquery/query"
	"catalogquery/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config keys, also the names of the persistent flags.
const (
	keyStore     = "store"
	keyStoreFile = "store-file"
	keyConfig    = "config"
	keyLogLevel  = "log-level"
	keyPriceMin  = "price-min"
	keyPriceMax  = "price-max"
	keyPageSize  = "page-size"
	keyCacheSize = "cache-size"
)

// app carries the dependencies shared by every command of one process.
// Fields left nil are built from configuration on first use, which lets
// tests inject a store and a logger.
type app struct {
	v      *viper.Viper
	store  domain.ItemStore
	logger *zap.Logger
	memo   *query.Memo
	in     *bufio.Reader
	// bound is set once the first command tree's flags are bound into v;
	// trees built later by the shell keep reading the outer flags.
	bound bool
}

func newApp() *app {
	return &app{v: viper.New(), in: bufio.NewReader(os.Stdin)}
}

// setup loads configuration and builds whatever dependency is still missing.
func (a *app) setup() error {
	if cfg := a.v.GetString(keyConfig); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfg, err)
		}
	}

	if a.logger == nil {
		logger, err := newLogger(a.v.GetString(keyLogLevel))
		if err != nil {
			return err
		}
		a.logger = logger
	}

	if a.store == nil {
		s, err := store.NewStore(a.v.GetString(keyStore), a.v.GetString(keyStoreFile))
		if err != nil {
			return err
		}
		a.store = s
		a.logger.Debug("store opened",
			zap.String("kind", a.v.GetString(keyStore)),
			zap.String("path", a.v.GetString(keyStoreFile)))
	}
	return nil
}

// results returns the memoised evaluator over the configured store.
func (a *app) results() (*query.Memo, error) {
	if a.memo == nil {
		m, err := query.NewMemo(a.store, a.v.GetInt(keyCacheSize))
		if err != nil {
			return nil, err
		}
		a.memo = m
	}
	return a.memo, nil
}

func newLogger(level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// newRootCmd builds the full command tree bound to a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Search, filter and manage a product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(keyStore, "memory", "store backend: memory|file|sqlite")
	pf.String(keyStoreFile, "data/items.json", "file or sqlite store path")
	pf.String(keyConfig, "", "config file")
	pf.String(keyLogLevel, "info", "log level")
	pf.Float64(keyPriceMin, domain.DefaultPriceMin, "default lower price bound for searches")
	pf.Float64(keyPriceMax, domain.DefaultPriceMax, "default upper price bound for searches")
	pf.Int(keyPageSize, domain.DefaultPageSize, "default page size for searches")
	pf.Int(keyCacheSize, query.DefaultMemoSize, "number of search results kept in the shell cache")

	if !a.bound {
		for _, key := range []string{keyStore, keyStoreFile, keyConfig, keyLogLevel, keyPriceMin, keyPriceMax, keyPageSize, keyCacheSize} {
			_ = a.v.BindPFlag(key, pf.Lookup(key))
		}
		a.v.SetEnvPrefix("CATALOG")
		a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		a.v.AutomaticEnv()
		a.bound = true
	}

	rootCmd.AddCommand(
		newCreateCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newCategoriesCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newSeedCmd(a),
		newShellCmd(a),
	)
	return rootCmd
}

// Execute runs the catalog CLI with os.Args.
func Execute() error {
	return newRootCmd(newApp()).Execute()
}
