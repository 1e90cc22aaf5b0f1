package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wavtouch/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [sources...]",
		Short: "Load the sound catalog once and list it",
		Long:  `Resolve the configured sources, load the catalog the kiosk would show, and list every entry with its size.`,
		RunE:  a.runCatalog,
	}
}

func (a *app) runCatalog(cmd *cobra.Command, args []string) error {
	if err := a.useSources(args); err != nil {
		return err
	}
	stopLog, err := a.startLogging()
	if err != nil {
		return err
	}
	defer stopLog()

	loader := a.newLoader()
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, "Sources:")
	locs := loader.Locations()
	resolved := make(map[string]catalog.Location, len(locs))
	for _, loc := range locs {
		resolved[loc.Raw] = loc
	}
	for _, raw := range loader.Sources() {
		loc, ok := resolved[raw]
		if !ok {
			_, _ = fmt.Fprintf(out, "  %s  (unresolved)\n", raw)
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s  %s %s\n", raw, loc.Kind, loc.Base)
	}
	_, _ = fmt.Fprintln(out)

	c := loader.Load(cmd.Context())
	if c.Len() == 0 {
		_, _ = fmt.Fprintln(out, "No sounds found.")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Catalog from %s (%d sounds):\n", c.Source, c.Len())
	maxLen := maxNameLen(c.Entries)
	for _, e := range c.Entries {
		_, _ = fmt.Fprintf(out, "  %-*s  %d bytes\n", maxLen, e.Name, len(e.Data))
	}
	return nil
}

// maxNameLen returns the length of the longest entry name.
func maxNameLen(entries []catalog.Entry) int {
	maxLen := 0
	for _, e := range entries {
		if len(e.Name) > maxLen {
			maxLen = len(e.Name)
		}
	}
	return maxLen
}
