package videos

import (
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/guide"
)

// Candidate is one discovered video file or object.
type Candidate struct {
	Ref     string
	Format  string
	Name    string // base file name, for logging
	Locator string // filesystem path or URL
}

// Catalog maps references to source locators. Entries may be unverified
// guesses; use Lookup before playing anything.
type Catalog struct {
	// Backend names the strategy that produced the catalog.
	Backend string
	Entries map[string]string
	// Skipped lists the alternate-format names dropped by format priority.
	Skipped []string
}

// build picks one candidate per reference, preferring the canonical format
// regardless of discovery order. Ties within a format go to the lowest name.
func build(backend string, cands []Candidate) *Catalog {
	byRef := make(map[string][]Candidate)
	for _, c := range cands {
		byRef[c.Ref] = append(byRef[c.Ref], c)
	}

	cat := &Catalog{Backend: backend, Entries: make(map[string]string, len(byRef))}
	refs := make([]string, 0, len(byRef))
	for ref := range byRef {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	for _, ref := range refs {
		list := byRef[ref]
		sort.SliceStable(list, func(i, j int) bool {
			ri, rj := formatRank[list[i].Format], formatRank[list[j].Format]
			if ri != rj {
				return ri < rj
			}
			return list[i].Name < list[j].Name
		})

		chosen := list[0]
		cat.Entries[ref] = chosen.Locator
		log.Info().
			Str("backend", backend).
			Str("ref", ref).
			Str("format", chosen.Format).
			Str("file", chosen.Name).
			Msg("Found video for reference")

		if len(list) > 1 {
			skipped := make([]string, 0, len(list)-1)
			for _, c := range list[1:] {
				skipped = append(skipped, c.Name)
			}
			cat.Skipped = append(cat.Skipped, skipped...)
			log.Info().
				Str("ref", ref).
				Str("skipped", strings.Join(skipped, ", ")).
				Msg("Skipped alternate formats for reference")
		}
	}
	return cat
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// SourceKind says how a video can be played.
type SourceKind string

const (
	SourceLocal       SourceKind = "local"
	SourceRemote      SourceKind = "remote"
	SourcePlaceholder SourceKind = "placeholder"
)

// Source is the playable form of one reference.
type Source struct {
	Kind SourceKind `json:"kind"`
	// Locator is the local path or remote URL; empty for placeholders.
	Locator string `json:"locator,omitempty"`
}

// statFile is replaced in tests.
var statFile = os.Stat

// Lookup resolves ref to a playable source. Local entries must exist as
// regular files; remote entries are trusted as listed. Anything else is a
// placeholder.
func (c *Catalog) Lookup(ref string) Source {
	if c == nil {
		return Source{Kind: SourcePlaceholder}
	}
	loc := c.Entries[ref]
	switch {
	case loc == "":
		return Source{Kind: SourcePlaceholder}
	case strings.HasPrefix(loc, "https://") || strings.HasPrefix(loc, "http://"):
		return Source{Kind: SourceRemote, Locator: loc}
	default:
		info, err := statFile(loc)
		if err != nil || info.IsDir() {
			log.Debug().Str("ref", ref).Str("path", loc).Msg("Video file unavailable, using placeholder")
			return Source{Kind: SourcePlaceholder}
		}
		return Source{Kind: SourceLocal, Locator: loc}
	}
}

// Video is one entry of a rendered playlist.
type Video struct {
	Position int    `json:"position"`
	Ref      string `json:"ref"`
	Title    string `json:"title"`
	Source   Source `json:"source"`
}

// Playlist resolves every entry of a materialized sequence against c.
func Playlist(entries []guide.Entry, c *Catalog) []Video {
	out := make([]Video, 0, len(entries))
	for i, e := range entries {
		out = append(out, Video{
			Position: i + 1,
			Ref:      e.Ref,
			Title:    e.Title,
			Source:   c.Lookup(e.Ref),
		})
	}
	return out
}
