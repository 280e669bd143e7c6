package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seelkers/favsearch/internal/remote"
	"github.com/seelkers/favsearch/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show remote indexing progress per model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			// Catalog and counts are independent; fetch them concurrently.
			var (
				defaults map[string]float64
				status   *remote.Status
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				defaults, err = client.Models(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				status, err = client.StatusCounts(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			styles := ui.StylesFor(out)
			ui.RenderStatus(out, status, styles)

			known := 0
			for id := range status.Counts {
				if _, ok := defaults[id]; ok {
					known++
				}
			}
			fmt.Fprintf(out, "%d of %d catalog models report counts\n", known, len(defaults))
			return nil
		},
	}
}
