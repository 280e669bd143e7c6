package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seelkers/favsearch/internal/syncer"
)

func newSyncCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Submit the collection to the remote index",
		Long: `Sync validates the collection snapshot and submits it to the remote
index for every model with a positive weight. Invalid items are dropped
silently. Submission is idempotent; re-running converges on the same state.

Example:
  favsearch sync --file favorites.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			items, err := loadCollection(file)
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			weights := effectiveWeights(ctx, client, cfg)
			state := syncer.NewState(rootOpts.account)
			indexer := syncer.NewIndexer(client, cfg.Rules())

			if err := indexer.Submit(ctx, rootOpts.account, items, weights, state); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced %d items across %d models\n",
				len(state.LastValidatedIDs()), len(weights.Enabled()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Collection snapshot file (JSON array of items)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
