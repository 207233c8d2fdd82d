// Package videos resolves guide video references to playable sources.
//
// Videos follow the naming convention video_<ref>.<ext>, where <ref> is the
// dotted reference with every "." replaced by "_" and <ext> is mp4 or mov
// (any case). Reference 2.1.1 is stored as video_2_1_1.mp4.
//
// A Resolver tries an ordered list of strategies (S3 listing, local
// directory, synthetic guess) and returns the first usable Catalog. It
// never fails: backend errors move the chain on to the next strategy.
package videos

import (
	"path"
	"strings"
)

const filenamePrefix = "video_"

// Supported container formats. MP4 is canonical and wins ties.
const (
	FormatMP4 = "mp4"
	FormatMOV = "mov"
)

// formatRank orders formats by preference; lower wins.
var formatRank = map[string]int{
	FormatMP4: 0,
	FormatMOV: 1,
}

// Filename returns the file name for ref in the given format.
func Filename(ref, format string) string {
	return filenamePrefix + strings.ReplaceAll(ref, ".", "_") + "." + format
}

// ParseFilename reverses Filename. It accepts a bare name or an object key
// and matches on the base name. The returned format is lower case.
func ParseFilename(name string) (ref, format string, ok bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	dot := strings.LastIndex(base, ".")
	if dot < 0 {
		return "", "", false
	}
	format = strings.ToLower(base[dot+1:])
	if _, supported := formatRank[format]; !supported {
		return "", "", false
	}
	stem := base[:dot]
	if !strings.HasPrefix(stem, filenamePrefix) {
		return "", "", false
	}
	id := strings.TrimPrefix(stem, filenamePrefix)
	if id == "" {
		return "", "", false
	}
	return strings.ReplaceAll(id, "_", "."), format, true
}
