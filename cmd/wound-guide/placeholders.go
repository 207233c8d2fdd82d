package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/wound-care-guide/internal/placeholders"
)

var formatFlag string

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders",
	Short: "Write placeholder video files for every reference",
	Long: `Placeholders writes one small text file per video reference into the video
directory, named video_<ref>.<format>, so the guide can be clicked through
before real recordings exist. Unknown formats fall back to mp4.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		paths, err := placeholders.Generate(cfg.VideoDir, formatFlag)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.VideoDir).Msg("Failed to write placeholders")
		}
		fmt.Printf("\n  Wrote %d placeholder videos to %s\n\n", len(paths), cfg.VideoDir)
	},
}

func init() {
	placeholdersCmd.Flags().StringVarP(&formatFlag, "format", "f", "mp4", "Video format: mp4 or mov")
}
