package videos

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/guide"
)

// ErrNoVideos is returned by a strategy that ran but found nothing usable,
// so the chain should try the next strategy.
var ErrNoVideos = errors.New("no videos found")

// Strategy discovers video candidates from one backend.
type Strategy interface {
	Name() string
	Discover(ctx context.Context) ([]Candidate, error)
}

// --- S3 ---

// S3Strategy lists video objects under a bucket prefix.
type S3Strategy struct {
	Client  s3.ListObjectsV2APIClient
	Bucket  string
	Prefix  string
	Region  string
	Timeout time.Duration
}

func (s *S3Strategy) Name() string { return "s3" }

// Discover pages through ListObjectsV2. A successful listing with no
// matching keys returns an empty result, not ErrNoVideos: the bucket is the
// configured source of truth.
func (s *S3Strategy) Discover(ctx context.Context) ([]Candidate, error) {
	if s.Client == nil {
		return nil, errors.New("S3 client not configured")
	}
	if s.Bucket == "" {
		return nil, errors.New("S3 bucket name is empty")
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	p := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(s.Prefix),
	})

	var cands []Candidate
	listed := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("S3 ListObjectsV2 %s/%s: %w", s.Bucket, s.Prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			listed++
			ref, format, ok := ParseFilename(key)
			if !ok {
				continue
			}
			cands = append(cands, Candidate{
				Ref:     ref,
				Format:  format,
				Name:    filepath.Base(key),
				Locator: ObjectURL(s.Bucket, s.Region, key),
			})
		}
	}

	if len(cands) == 0 {
		log.Warn().
			Str("bucket", s.Bucket).
			Str("prefix", s.Prefix).
			Int("objects", listed).
			Msg("No videos found in S3 bucket with the expected naming convention")
	}
	return cands, nil
}

// ObjectURL builds the virtual-hosted URL of an S3 object.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// --- Local directory ---

// LocalStrategy scans one directory (not recursively) for video files.
type LocalStrategy struct {
	Dir string
}

func (l *LocalStrategy) Name() string { return "local" }

// Discover lists Dir. A missing directory is created so a later upload has
// somewhere to land; it still yields ErrNoVideos.
func (l *LocalStrategy) Discover(ctx context.Context) ([]Candidate, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("dir", l.Dir).Msg("Video directory does not exist")
			if mkErr := os.MkdirAll(l.Dir, 0o755); mkErr != nil {
				log.Warn().Err(mkErr).Str("dir", l.Dir).Msg("Failed to create video directory")
			}
			return nil, fmt.Errorf("%w: %s missing", ErrNoVideos, l.Dir)
		}
		return nil, fmt.Errorf("scan video directory: %w", err)
	}

	var cands []Candidate
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		ref, format, ok := ParseFilename(de.Name())
		if !ok {
			continue
		}
		cands = append(cands, Candidate{
			Ref:     ref,
			Format:  format,
			Name:    de.Name(),
			Locator: filepath.Join(l.Dir, de.Name()),
		})
	}

	if len(cands) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoVideos, l.Dir)
	}
	return cands, nil
}

// --- Synthetic ---

// SyntheticStrategy guesses the canonical local path of every known
// reference. The files may not exist; it never fails.
type SyntheticStrategy struct {
	Dir string
}

func (s *SyntheticStrategy) Name() string { return "synthetic" }

func (s *SyntheticStrategy) Discover(ctx context.Context) ([]Candidate, error) {
	log.Info().Str("dir", s.Dir).Msg("No videos found, using placeholder paths")
	refs := guide.KnownRefs()
	cands := make([]Candidate, 0, len(refs))
	for _, ref := range refs {
		name := Filename(ref, FormatMP4)
		cands = append(cands, Candidate{
			Ref:     ref,
			Format:  FormatMP4,
			Name:    name,
			Locator: filepath.Join(s.Dir, name),
		})
	}
	return cands, nil
}

// --- Unavailable ---

// unavailable stands in for a backend that could not even be set up, such
// as S3 without loadable AWS configuration.
type unavailable struct {
	name string
	err  error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Discover(context.Context) ([]Candidate, error) { return nil, u.err }

// describeError extracts the AWS error code when there is one.
func describeError(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
