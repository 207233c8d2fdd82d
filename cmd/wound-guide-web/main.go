package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/wound-care-guide/internal/config"
	"github.com/fpang/wound-care-guide/internal/logging"
	"github.com/fpang/wound-care-guide/internal/sessions"
	"github.com/fpang/wound-care-guide/internal/videos"
	"github.com/fpang/wound-care-guide/internal/web"
)

// CLI flags
var (
	portFlag       int
	configFlag     string
	sessionTTLFlag time.Duration
	debugFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "wound-guide-web",
	Short: "Web UI for the wound care video guide",
	Long: `Wound Guide Web starts a local web server that walks a healthcare provider
through wound type, location and dressing, then plays the matching
instructional videos.

Videos are discovered in S3 when USE_S3=true, otherwise in the local video
directory, which is also served under /videos/.

Examples:
  wound-guide-web
  wound-guide-web --port 9090
  wound-guide-web --config guide.hcl --session-ttl 30m`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "HCL configuration file")
	rootCmd.Flags().DurationVar(&sessionTTLFlag, "session-ttl", sessions.DefaultTTL, "Idle time before a guide session is dropped")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()

	cfg, err := config.Load(configFlag)
	if err != nil {
		logging.Init(debugFlag)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugFlag
	}
	logging.Init(cfg.Debug)

	store := sessions.NewStore(sessionTTLFlag)
	catalog := func(ctx context.Context) *videos.Catalog {
		return videos.ResolveCatalog(ctx, cfg)
	}
	server := web.NewServer(store, cfg.VideoDir, catalog)

	addr := fmt.Sprintf(":%d", portFlag)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, store, sessionTTLFlag/4)

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	logging.NewStartupLogger("wound-guide-web").
		CommitHash(commitHash).
		Backend("backend", cfg.Backend()).
		Backend("bucket", cfg.BucketName).
		Backend("prefix", cfg.Prefix).
		Backend("region", cfg.Region).
		Backend("videoDir", cfg.VideoDir).
		Feature("s3", cfg.UseS3).
		Feature("debug", cfg.Debug).
		Config("port", strconv.Itoa(portFlag)).
		Config("sessionTTL", sessionTTLFlag.String()).
		InitDuration(time.Since(initStart)).
		Log()

	log.Info().Int("port", portFlag).Msg("Starting web server")
	fmt.Printf("\n  Wound Care Guide: http://localhost:%d\n\n", portFlag)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// sweepSessions drops idle sessions every interval until ctx is done.
func sweepSessions(ctx context.Context, store *sessions.Store, interval time.Duration) {
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Sweep()
		}
	}
}
