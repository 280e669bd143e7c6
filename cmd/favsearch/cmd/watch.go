package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seelkers/favsearch/internal/config"
	"github.com/seelkers/favsearch/internal/syncer"
)

func newWatchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the collection and config, resyncing on change",
		Long: `Watch runs an initial sync, then watches the collection snapshot and the
config file. On every change the change detector decides whether the remote
index is stale; only then is a submission made. Failed submissions are
retried on the next change.

Runs until interrupted.

Example:
  favsearch watch --file favorites.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			state := syncer.NewState(rootOpts.account)
			indexer := syncer.NewIndexer(client, cfg.Rules())

			resync := func(ctx context.Context) {
				cfg, err := loadConfig()
				if err != nil {
					slog.Warn("config reload failed", slog.String("error", err.Error()))
					return
				}
				items, err := loadCollection(file)
				if err != nil {
					slog.Warn("collection reload failed", slog.String("error", err.Error()))
					return
				}
				weights := effectiveWeights(ctx, client, cfg)
				attempted, err := indexer.SyncIfNeeded(ctx, rootOpts.account, items, weights, state)
				switch {
				case err != nil:
					slog.Warn("sync attempt failed", slog.String("error", err.Error()))
				case attempted:
					slog.Info("resynced after change")
				default:
					slog.Debug("no resync needed")
				}
			}

			resync(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "watching for changes (ctrl-c to stop)")

			return config.Watch(ctx, []string{file, rootOpts.configPath}, func(string) {
				resync(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Collection snapshot file (JSON array of items)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
