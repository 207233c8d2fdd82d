package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/videos"
)

var (
	woundTypeFlag string
	locationFlag  string
	dressingFlag  string
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Print the video sequence for a set of selections",
	Long: `Sequence walks the guide with the given selections and prints the ordered
videos with the source each one resolves to.

Wound types: superficial, cavity, webspace, multiple_toes, povidone
Locations:   toes, midfoot, heel
Dressings:   sheet, iodosorb (superficial), cavity_primary (cavity)

Examples:
  wound-guide sequence --wound-type webspace
  wound-guide sequence --wound-type cavity --location toes --dressing cavity_primary`,
	Args: cobra.NoArgs,
	Run:  runSequence,
}

func init() {
	sequenceCmd.Flags().StringVarP(&woundTypeFlag, "wound-type", "w", "", "Type of wound")
	sequenceCmd.Flags().StringVarP(&locationFlag, "location", "l", "", "Location of the wound")
	sequenceCmd.Flags().StringVarP(&dressingFlag, "dressing", "p", "", "Primary dressing")
	_ = sequenceCmd.MarkFlagRequired("wound-type")
}

func runSequence(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	s, err := walk(woundTypeFlag, locationFlag, dressingFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid selections")
	}
	seq, err := s.Sequence()
	if err != nil {
		log.Fatal().Err(err).Str("state", string(s.State())).Msg("Selections do not reach the final step")
	}

	list := videos.Playlist(seq, videos.ResolveCatalog(cmd.Context(), cfg))

	fmt.Println()
	for _, line := range s.Summary() {
		fmt.Printf("  %s: %s\n", line.Label, line.Value)
	}
	fmt.Println()
	for _, v := range list {
		loc := v.Source.Locator
		if v.Source.Kind == videos.SourcePlaceholder {
			loc = "(placeholder)"
		}
		fmt.Printf("  %d. %s (Ref: %s)\n     %s\n", v.Position, v.Title, v.Ref, loc)
	}
	fmt.Println()
}

// walk applies the non-empty selections in guide order.
func walk(woundType, location, dressing string) (*guide.Session, error) {
	s := guide.NewSession()
	steps := []struct {
		kind  guide.Kind
		value string
	}{
		{guide.KindWoundType, woundType},
		{guide.KindLocation, location},
		{guide.KindDressing, dressing},
	}
	for _, st := range steps {
		if st.value == "" {
			continue
		}
		sel, err := guide.ParseSelection(string(st.kind), st.value)
		if err != nil {
			return s, err
		}
		if err := s.Select(sel); err != nil {
			return s, err
		}
	}
	return s, nil
}
