package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/videos"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Resolve and print the video catalog",
	Long: `Catalog runs the discovery chain (S3 when enabled, then the local video
directory, then synthetic paths) and prints which video serves each reference.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		cat := videos.ResolveCatalog(cmd.Context(), cfg)
		printCatalog(cat)
	},
}

func printCatalog(cat *videos.Catalog) {
	fmt.Println()
	fmt.Printf("  Backend: %s (%d videos)\n\n", cat.Backend, cat.Len())

	refs := make([]string, 0, len(cat.Entries))
	for ref := range cat.Entries {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		fmt.Printf("  %-6s %-40s %s\n", ref, guide.Title(ref), cat.Entries[ref])
	}

	for _, ref := range guide.KnownRefs() {
		if _, ok := cat.Entries[ref]; !ok {
			fmt.Printf("  %-6s %-40s (placeholder)\n", ref, guide.Title(ref))
		}
	}

	if len(cat.Skipped) > 0 {
		fmt.Println()
		fmt.Println("  Skipped alternate formats:")
		for _, name := range cat.Skipped {
			fmt.Printf("    %s\n", name)
		}
	}
	fmt.Println()
}
