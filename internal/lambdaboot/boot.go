// Package lambdaboot holds the Lambda cold-start bootstrap: AWS config, the
// S3 client used for video discovery, and the SSM lookup of the bucket name.
package lambdaboot

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/config"
	"github.com/fpang/wound-care-guide/internal/logging"
	"github.com/fpang/wound-care-guide/internal/sessions"
	"github.com/fpang/wound-care-guide/internal/videos"
)

// EnvBucketParam names the SSM parameter holding the video bucket name.
const EnvBucketParam = "S3_BUCKET_SSM_PARAM"

// DefaultBucketParam is used when EnvBucketParam is unset.
const DefaultBucketParam = "/wound-care-guide/prod/video-bucket"

// EnvSessionTTL is the idle lifetime of a guide session, as a Go duration.
const EnvSessionTTL = "SESSION_TTL"

// ParameterGetter is the subset of the SSM client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// AWSClients holds the SDK clients built at cold start.
type AWSClients struct {
	Config aws.Config
	S3     *s3.Client
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config for region and builds the clients.
func InitAWS(ctx context.Context, region string) (AWSClients, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return AWSClients{}, fmt.Errorf("load AWS config: %w", err)
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		S3:     s3.NewFromConfig(cfg),
		SSM:    ssm.NewFromConfig(cfg),
	}, nil
}

// VideoResolver builds the video strategy chain for cfg. When S3 is enabled
// it creates the S3 client and resolves the bucket name first. AWS setup
// failures are logged and leave the chain to fall back to local videos; they
// are never fatal. The returned config carries the bucket actually used.
func VideoResolver(ctx context.Context, cfg config.Config, lookup config.LookupFunc) (config.Config, *videos.Resolver) {
	var lister s3.ListObjectsV2APIClient
	if cfg.UseS3 {
		clients, err := InitAWS(ctx, cfg.Region)
		if err != nil {
			log.Error().Err(err).Msg("S3 unavailable, videos will be served from the local directory")
		} else {
			lister = clients.S3
			if cfg, err = ResolveBucket(ctx, cfg, clients.SSM, lookup); err != nil {
				log.Warn().Err(err).Str("bucket", cfg.BucketName).Msg("Using configured bucket name")
			}
		}
	}
	return cfg, videos.NewResolver(videos.Strategies(ctx, cfg, lister)...)
}

// SessionTTL reads SESSION_TTL. Unset means the store default; a value that
// does not parse as a duration is logged and also falls back to the default.
func SessionTTL(lookup config.LookupFunc) time.Duration {
	v, ok := lookup(EnvSessionTTL)
	if !ok || v == "" {
		return sessions.DefaultTTL
	}
	ttl, err := time.ParseDuration(v)
	if err != nil || ttl <= 0 {
		log.Warn().Str(EnvSessionTTL, v).Dur("default", sessions.DefaultTTL).Msg("Invalid session TTL, using default")
		return sessions.DefaultTTL
	}
	return ttl
}

// ResolveBucket fills cfg.BucketName from Parameter Store unless a bucket
// was configured explicitly, either through S3_BUCKET_NAME or a non-default
// s3_bucket_name in the config file. On failure cfg keeps its current bucket
// name and the error is returned for logging.
func ResolveBucket(ctx context.Context, cfg config.Config, getter ParameterGetter, lookup config.LookupFunc) (config.Config, error) {
	if _, ok := lookup(config.EnvBucketName); ok {
		return cfg, nil
	}
	if cfg.BucketName != config.Default().BucketName {
		return cfg, nil
	}
	paramName, ok := lookup(EnvBucketParam)
	if !ok || paramName == "" {
		paramName = DefaultBucketParam
	}

	start := time.Now()
	out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(false),
	})
	if err != nil {
		return cfg, fmt.Errorf("read bucket name from SSM %s: %w", paramName, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return cfg, fmt.Errorf("SSM parameter %s is empty", paramName)
	}

	cfg.BucketName = aws.ToString(out.Parameter.Value)
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(start)).Msg("Video bucket loaded from SSM")
	return cfg, nil
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
