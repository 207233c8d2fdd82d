// Package config resolves the guide's runtime configuration.
//
// Values are layered: built-in defaults, then an optional HCL file, then
// environment variables. Flags in cmd/ may override the result last.
//
// HCL file attributes (all optional):
//
//	use_s3         = true
//	s3_bucket_name = "wound-care-videos"
//	s3_prefix      = "videos/"
//	aws_region     = "us-east-1"
//	debug          = false
//	video_dir      = "static/videos"
//	list_timeout   = "10s"
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Environment variable names.
const (
	EnvUseS3       = "USE_S3"
	EnvBucketName  = "S3_BUCKET_NAME"
	EnvPrefix      = "S3_PREFIX"
	EnvRegion      = "AWS_REGION"
	EnvDebug       = "DEBUG"
	EnvVideoDir    = "VIDEO_DIR"
	EnvListTimeout = "LIST_TIMEOUT"
)

// Config is the resolved configuration.
type Config struct {
	UseS3       bool
	BucketName  string
	Prefix      string
	Region      string
	Debug       bool
	VideoDir    string
	ListTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UseS3:       false,
		BucketName:  "wound-care-videos",
		Prefix:      "videos/",
		Region:      "us-east-1",
		Debug:       false,
		VideoDir:    "static/videos",
		ListTimeout: 10 * time.Second,
	}
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// fileConfig mirrors Config for HCL decoding. Attributes missing from the
// file leave the pre-filled field untouched.
type fileConfig struct {
	UseS3       bool   `hcl:"use_s3,optional"`
	BucketName  string `hcl:"s3_bucket_name,optional"`
	Prefix      string `hcl:"s3_prefix,optional"`
	Region      string `hcl:"aws_region,optional"`
	Debug       bool   `hcl:"debug,optional"`
	VideoDir    string `hcl:"video_dir,optional"`
	ListTimeout string `hcl:"list_timeout,optional"`
}

// Load resolves configuration from defaults, the HCL file at path (skipped
// when path is empty) and the process environment.
func Load(path string) (Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment lookup.
func LoadWith(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		var err error
		if cfg, err = applyFile(cfg, path); err != nil {
			return cfg, err
		}
	}

	return applyEnv(cfg, lookup)
}

func applyFile(cfg Config, path string) (Config, error) {
	fc := fileConfig{
		UseS3:       cfg.UseS3,
		BucketName:  cfg.BucketName,
		Prefix:      cfg.Prefix,
		Region:      cfg.Region,
		Debug:       cfg.Debug,
		VideoDir:    cfg.VideoDir,
		ListTimeout: cfg.ListTimeout.String(),
	}
	if err := hclsimple.DecodeFile(path, nil, &fc); err != nil {
		return cfg, fmt.Errorf("decode config file %s: %w", path, err)
	}

	timeout, err := time.ParseDuration(fc.ListTimeout)
	if err != nil {
		return cfg, fmt.Errorf("config file %s: list_timeout: %w", path, err)
	}

	return Config{
		UseS3:       fc.UseS3,
		BucketName:  fc.BucketName,
		Prefix:      fc.Prefix,
		Region:      fc.Region,
		Debug:       fc.Debug,
		VideoDir:    fc.VideoDir,
		ListTimeout: timeout,
	}, nil
}

func applyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if v, ok := lookup(EnvUseS3); ok {
		cfg.UseS3 = parseBool(v)
	}
	if v, ok := lookup(EnvBucketName); ok {
		cfg.BucketName = v
	}
	if v, ok := lookup(EnvPrefix); ok {
		cfg.Prefix = v
	}
	if v, ok := lookup(EnvRegion); ok {
		cfg.Region = v
	}
	if v, ok := lookup(EnvDebug); ok {
		cfg.Debug = parseBool(v)
	}
	if v, ok := lookup(EnvVideoDir); ok {
		cfg.VideoDir = v
	}
	if v, ok := lookup(EnvListTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvListTimeout, err)
		}
		cfg.ListTimeout = d
	}
	return cfg, nil
}

// parseBool treats only "true" (any case) as true.
func parseBool(v string) bool {
	return strings.ToLower(v) == "true"
}

// Backend names the storage the configuration selects.
func (c Config) Backend() string {
	if c.UseS3 {
		return "s3"
	}
	return "local"
}
