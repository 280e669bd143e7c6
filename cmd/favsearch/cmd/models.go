package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seelkers/favsearch/internal/ui"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the remote ranking models and their weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			defaults, err := client.Models(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ui.RenderModels(out, defaults, cfg.Weights, ui.StylesFor(out))
			return nil
		},
	}
}
