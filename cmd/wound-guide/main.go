package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/wound-care-guide/internal/config"
	"github.com/fpang/wound-care-guide/internal/logging"
)

// Persistent flags shared by every subcommand.
var (
	configFlag   string
	debugFlag    bool
	videoDirFlag string
	s3Flag       bool
)

var rootCmd = &cobra.Command{
	Use:   "wound-guide",
	Short: "Wound care video guide tools",
	Long: `Wound Guide inspects the video catalog and the guide's decision tree
from the command line.

Configuration comes from built-in defaults, an optional HCL file (--config),
environment variables (USE_S3, S3_BUCKET_NAME, S3_PREFIX, AWS_REGION, DEBUG,
VIDEO_DIR) and finally the flags below.

Examples:
  wound-guide catalog
  wound-guide catalog --s3
  wound-guide sequence --wound-type superficial --location heel --dressing sheet
  wound-guide placeholders --format mov`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "HCL configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&videoDirFlag, "video-dir", "", "Local video directory (overrides VIDEO_DIR)")
	rootCmd.PersistentFlags().BoolVar(&s3Flag, "s3", false, "Discover videos in S3 first (overrides USE_S3)")

	rootCmd.AddCommand(catalogCmd, sequenceCmd, placeholdersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration and initializes logging. Flags set on
// the command line win over file and environment.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(configFlag)
	if err != nil {
		logging.Init(debugFlag)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}
	if flags.Changed("video-dir") {
		cfg.VideoDir = videoDirFlag
	}
	if flags.Changed("s3") {
		cfg.UseS3 = s3Flag
	}

	logging.Init(cfg.Debug)
	log.Debug().
		Str("backend", cfg.Backend()).
		Str("bucket", cfg.BucketName).
		Str("prefix", cfg.Prefix).
		Str("region", cfg.Region).
		Str("videoDir", cfg.VideoDir).
		Msg("Configuration loaded")
	return cfg
}
