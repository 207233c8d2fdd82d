// Package main provides a Lambda entry point for the wound care guide.
//
// It serves the same handler as wound-guide-web behind API Gateway. Videos
// are discovered in S3 with the client built at cold start, falling back to
// the local video directory bundled with the function.
//
// Guide sessions are held in memory, so they last as long as the warm
// container that created them.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/config"
	"github.com/fpang/wound-care-guide/internal/lambdaboot"
	"github.com/fpang/wound-care-guide/internal/logging"
	"github.com/fpang/wound-care-guide/internal/sessions"
	"github.com/fpang/wound-care-guide/internal/videos"
	"github.com/fpang/wound-care-guide/internal/web"
)

// Initialized at cold start.
var (
	cfg      config.Config
	resolver *videos.Resolver
	store    *sessions.Store
)

func init() {
	initStart := time.Now()
	ctx := context.Background()

	var err error
	cfg, err = config.Load(os.Getenv("GUIDE_CONFIG_FILE"))
	if err != nil {
		logging.Init(false)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Debug)

	cfg, resolver = lambdaboot.VideoResolver(ctx, cfg, os.LookupEnv)
	resolver.Metrics = os.Stdout

	ttl := lambdaboot.SessionTTL(os.LookupEnv)
	store = sessions.NewStore(ttl)

	lambdaboot.StartupLog("wound-guide-lambda", initStart).
		CommitHash(commitHash).
		Backend("backend", cfg.Backend()).
		Backend("bucket", cfg.BucketName).
		Backend("prefix", cfg.Prefix).
		Backend("region", cfg.Region).
		Feature("s3", cfg.UseS3).
		Feature("metrics", true).
		Config(lambdaboot.EnvSessionTTL, ttl.String()).
		Log()
}

func main() {
	server := web.NewServer(store, cfg.VideoDir, resolver.Resolve)
	adapter := httpadapter.NewV2(server.Handler())
	lambda.Start(adapter.ProxyWithContext)
}
