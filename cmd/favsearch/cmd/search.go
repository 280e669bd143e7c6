package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seelkers/favsearch/internal/remote"
	"github.com/seelkers/favsearch/internal/search"
	"github.com/seelkers/favsearch/internal/ui"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	file        string
	limit       int
	interactive bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the indexed collection",
		Long: `Search runs a free-text query against the remote index and fuses the
per-model rank lists into one ordering over the collection snapshot.

Without --file the raw per-model lists are printed; with --file the fused,
reordered collection view is shown. With --interactive a live search screen
opens, debouncing keystrokes the way an embedding host would.

Examples:
  favsearch search "cat spinning" --file favorites.json
  favsearch search --interactive --file favorites.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				return runInteractive(cmd, opts)
			}
			if len(args) == 0 {
				return fmt.Errorf("a query is required unless --interactive is set")
			}
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Collection snapshot file for resolving results")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum results per model (0 = service default)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Open the interactive search screen")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	weights := effectiveWeights(ctx, client, cfg)
	limit := opts.limit
	if limit == 0 {
		limit = cfg.Search.Limit
	}

	resp, err := client.Search(ctx, query, remote.SearchOptions{
		Models: weights.Enabled(),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := ui.StylesFor(out)

	if opts.file == "" {
		printRawResults(cmd, resp, styles)
		return nil
	}

	items, err := loadCollection(opts.file)
	if err != nil {
		return err
	}
	fused := search.Fuse(resp.Results, items, weights, scoreOrder(cfg))
	ui.RenderItems(out, fused, styles)
	return nil
}

// printRawResults prints each model's ranked list when there is no
// collection snapshot to fuse against.
func printRawResults(cmd *cobra.Command, resp *remote.SearchResponse, styles ui.Styles) {
	out := cmd.OutOrStdout()

	ids := make([]string, 0, len(resp.Results))
	for id := range resp.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Fprintln(out, styles.Header.Render(id))
		for i, sl := range resp.Results[id] {
			fmt.Fprintf(out, "%s %s %s\n",
				styles.Rank.Render(fmt.Sprintf("%3d.", i+1)),
				sl.Locator,
				styles.Dim.Render(fmt.Sprintf("(%.4f)", sl.Score)))
		}
	}
}

func runInteractive(cmd *cobra.Command, opts searchOptions) error {
	if opts.file == "" {
		return fmt.Errorf("--interactive requires --file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	items, err := loadCollection(opts.file)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	weights := effectiveWeights(cmd.Context(), client, cfg)
	source := ui.NewViewSource(items)

	orch := search.NewOrchestrator(search.Config{
		Searcher: client,
		Source:   source,
		Weights:  weights,
		Fusion:   scoreOrder(cfg),
		Debounce: cfg.Search.Debounce,
		Limit:    cfg.Search.Limit,
	})
	defer orch.Close()

	return ui.RunInteractive(orch, source, ui.StylesFor(cmd.OutOrStdout()))
}
