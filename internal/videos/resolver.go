package videos

import (
	"context"
	"fmt"
	"io"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/config"
	"github.com/fpang/wound-care-guide/internal/metrics"
)

// Resolver runs strategies in order until one produces a catalog.
type Resolver struct {
	strategies []Strategy
	// Metrics receives one EMF document per Resolve; nil disables it.
	Metrics io.Writer
}

// NewResolver returns a Resolver trying strategies in the given order.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Strategies returns the chain selected by cfg: S3 when enabled, then the
// local video directory, then the synthetic guess. client may be nil, in
// which case one is built from the default AWS configuration.
func Strategies(ctx context.Context, cfg config.Config, client s3.ListObjectsV2APIClient) []Strategy {
	var chain []Strategy
	if cfg.UseS3 {
		if client == nil {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
			if err != nil {
				chain = append(chain, unavailable{name: "s3", err: fmt.Errorf("load AWS config: %w", err)})
			} else {
				client = s3.NewFromConfig(awsCfg)
			}
		}
		if client != nil {
			chain = append(chain, &S3Strategy{
				Client:  client,
				Bucket:  cfg.BucketName,
				Prefix:  cfg.Prefix,
				Region:  cfg.Region,
				Timeout: cfg.ListTimeout,
			})
		}
	}
	return append(chain,
		&LocalStrategy{Dir: cfg.VideoDir},
		&SyntheticStrategy{Dir: cfg.VideoDir},
	)
}

// ResolveCatalog builds the catalog for cfg using the default AWS client.
func ResolveCatalog(ctx context.Context, cfg config.Config) *Catalog {
	return NewResolver(Strategies(ctx, cfg, nil)...).Resolve(ctx)
}

// Resolve returns the catalog of the first strategy that succeeds. A
// strategy error, including ErrNoVideos, moves on to the next one. If every
// strategy fails the catalog is empty and every lookup is a placeholder.
func (r *Resolver) Resolve(ctx context.Context) *Catalog {
	start := time.Now()
	rec := metrics.New(r.Metrics)
	failures := 0

	for _, s := range r.strategies {
		cands, err := s.Discover(ctx)
		if err != nil {
			failures++
			evt := log.Warn()
			if s.Name() == "s3" {
				evt = log.Error()
			}
			if code := describeError(err); code != "" {
				evt = evt.Str("awsCode", code)
			}
			evt.Err(err).Str("strategy", s.Name()).Msg("Video strategy failed, falling back")
			continue
		}

		cat := build(s.Name(), cands)
		rec.Dimension("Backend", cat.Backend).
			Count("VideosResolved", cat.Len()).
			Count("AlternatesSkipped", len(cat.Skipped)).
			Count("StrategyFailures", failures).
			Duration("ResolveLatency", time.Since(start)).
			Flush()
		log.Debug().
			Str("backend", cat.Backend).
			Int("videos", cat.Len()).
			Dur("duration", time.Since(start)).
			Msg("Video catalog resolved")
		return cat
	}

	log.Error().Int("strategies", len(r.strategies)).Msg("Every video strategy failed")
	rec.Dimension("Backend", "none").
		Count("VideosResolved", 0).
		Count("StrategyFailures", failures).
		Flush()
	return &Catalog{Backend: "none", Entries: map[string]string{}}
}
