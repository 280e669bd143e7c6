package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seelkers/favsearch/internal/config"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the per-account index key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the account's index key, creating one if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key, err := config.NewKeyStore(cfg.Remote.KeyFile).Ensure(rootOpts.account)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rotate",
		Short: "Replace the account's index key with a fresh one",
		Long: `Rotate generates a new key for the account. The old remote index becomes
unreachable; the next sync rebuilds it under the new key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key, err := config.NewKeyStore(cfg.Remote.KeyFile).Rotate(rootOpts.account)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})

	return cmd
}
