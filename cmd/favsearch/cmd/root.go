// Package cmd provides the CLI commands for favsearch.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/config"
	"github.com/seelkers/favsearch/internal/errors"
	"github.com/seelkers/favsearch/internal/logging"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/remote"
	"github.com/seelkers/favsearch/internal/search"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	account    string
	baseURL    string
	debug      bool
}

var rootOpts rootOptions

var loggingCleanup func()

// NewRootCmd creates the root command for the favsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favsearch",
		Short: "Semantic search over your personal media collection",
		Long: `favsearch keeps a remote semantic index synchronized with a local media
collection and reorders the collection by fused multi-model relevance for
free-text queries.

The remote service owns the models and the index; favsearch owns change
detection, submission discipline, query debouncing, and rank fusion.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&rootOpts.configPath, "config", defaultConfigPath(), "Path to config file")
	cmd.PersistentFlags().StringVar(&rootOpts.account, "account", "default", "Account identity (epoch) for sync state and key selection")
	cmd.PersistentFlags().StringVar(&rootOpts.baseURL, "base-url", "", "Override the remote index service base URL")
	cmd.PersistentFlags().BoolVar(&rootOpts.debug, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newModelsCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newKeyCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".favsearch.yaml"
	}
	return dir + "/favsearch/config.yaml"
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.FilePath = cfg.Log.File
	if rootOpts.debug {
		logCfg.Level = "debug"
	}

	_, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	loggingCleanup = cleanup
	return nil
}

// loadConfig loads the config file and applies CLI overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(rootOpts.configPath)
	if err != nil {
		return cfg, err
	}
	if rootOpts.baseURL != "" {
		cfg.Remote.BaseURL = rootOpts.baseURL
	}
	return cfg, nil
}

// newClient builds a remote client using the account's persisted key,
// generating one on first use.
func newClient(cfg config.Config) (*remote.Client, error) {
	store := config.NewKeyStore(cfg.Remote.KeyFile)
	key, err := store.Ensure(rootOpts.account)
	if err != nil {
		return nil, err
	}
	return remote.NewClient(remote.Config{
		BaseURL:         cfg.Remote.BaseURL,
		Key:             key,
		SearchCacheSize: cfg.Search.CacheSize,
	}), nil
}

// loadCollection reads a collection snapshot from a JSON export file: an
// array of {id, src, ...} objects.
func loadCollection(path string) ([]collection.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection file: %w", err)
	}
	var items []collection.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse collection file: %w", err)
	}
	return items, nil
}

// effectiveWeights starts from the remote model catalog's default weights
// and overlays the configured ones. When the catalog is unreachable the
// configured weights stand alone.
func effectiveWeights(ctx context.Context, client *remote.Client, cfg config.Config) model.Weights {
	weights := model.Weights{}
	if defaults, err := client.Models(ctx); err == nil {
		for id, w := range defaults {
			weights[id] = w
		}
	} else if !errors.IsNotConfigured(err) {
		fmt.Fprintf(os.Stderr, "warning: model catalog unavailable: %v\n", err)
	}
	for id, w := range cfg.ModelWeights() {
		weights[id] = w
	}
	return weights
}

// scoreOrder maps the config value to the fusion option.
func scoreOrder(cfg config.Config) search.Options {
	if cfg.Search.ScoreOrder == config.ScoreOrderDescending {
		return search.Options{Order: search.ScoreDescending}
	}
	return search.Options{Order: search.ScoreAscending}
}
