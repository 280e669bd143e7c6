// Package ui renders search results and sync status to the terminal, and
// provides the interactive search screen.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/remote"
)

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StylesFor returns colored styles on a TTY (unless NO_COLOR is set) and
// plain styles otherwise.
func StylesFor(w io.Writer) Styles {
	if !IsTTY(w) || os.Getenv("NO_COLOR") != "" {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// RenderItems writes the ranked collection view, one item per line.
func RenderItems(w io.Writer, items []collection.Item, styles Styles) {
	if len(items) == 0 {
		fmt.Fprintln(w, styles.Dim.Render("no matches"))
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "%s  %s  %s\n",
			styles.Rank.Render(fmt.Sprintf("%3d.", i+1)),
			styles.Header.Render(it.ID),
			styles.Dim.Render(it.Locator))
	}
}

// RenderModels writes the model catalog with configured and default weights.
func RenderModels(w io.Writer, defaults map[string]float64, configured map[string]float64, styles Styles) {
	ids := make([]string, 0, len(defaults))
	for id := range defaults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(w, styles.Header.Render("MODEL"), "\t", styles.Header.Render("WEIGHT"))
	for _, id := range ids {
		weight := defaults[id]
		note := styles.Dim.Render("(default)")
		if cw, ok := configured[id]; ok {
			weight = cw
			note = ""
		}
		fmt.Fprintf(w, "%s\t%.2f %s\n", styles.Accent.Render(id), weight, note)
	}
}

// RenderStatus writes per-model indexing progress counts.
func RenderStatus(w io.Writer, status *remote.Status, styles Styles) {
	fmt.Fprintf(w, "%s %s\n", styles.Header.Render("status:"), status.Status)

	ids := make([]string, 0, len(status.Counts))
	for id := range status.Counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := status.Counts[id]
		fmt.Fprintf(w, "%s: %s %s %s %s\n",
			styles.Accent.Render(id),
			styles.Success.Render(fmt.Sprintf("%d done", c.Completed)),
			styles.Dim.Render(fmt.Sprintf("%d processing", c.Processing)),
			styles.Dim.Render(fmt.Sprintf("%d downloading", c.Downloading)),
			styles.Error.Render(fmt.Sprintf("%d failed", c.Failed)))
	}
}
