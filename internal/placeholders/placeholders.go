// Package placeholders writes stand-in video files for every guide reference,
// so a fresh install can be clicked through before real videos are recorded.
package placeholders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/videos"
)

// NormalizeFormat returns format lower-cased, or mp4 when it is not a
// supported video format.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == videos.FormatMP4 || f == videos.FormatMOV {
		return f
	}
	log.Warn().Str("format", format).Msg("Format not recognized, defaulting to mp4")
	return videos.FormatMP4
}

// Generate creates dir if needed and writes one text file per known
// reference, named by the video naming convention. Existing files are
// overwritten. It returns the written paths in reference order.
func Generate(dir, format string) ([]string, error) {
	format = NormalizeFormat(format)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create video directory: %w", err)
	}

	refs := guide.KnownRefs()
	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		p := filepath.Join(dir, videos.Filename(ref, format))
		body := "Placeholder for " + guide.Title(ref)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			return paths, fmt.Errorf("write placeholder %s: %w", p, err)
		}
		log.Debug().Str("path", p).Msg("Created placeholder")
		paths = append(paths, p)
	}

	log.Info().Str("dir", dir).Str("format", format).Int("count", len(paths)).Msg("Placeholder videos written")
	return paths, nil
}
