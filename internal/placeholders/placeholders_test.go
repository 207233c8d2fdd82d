package placeholders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/videos"
)

func TestNormalizeFormat(t *testing.T) {
	tests := map[string]string{
		"mp4":  "mp4",
		"MOV":  "mov",
		".mov": "mov",
		"avi":  "mp4",
		"":     "mp4",
	}
	for in, want := range tests {
		if got := NormalizeFormat(in); got != want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static", "videos")

	paths, err := Generate(dir, "mov")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(paths) != len(guide.KnownRefs()) {
		t.Fatalf("wrote %d files, want %d", len(paths), len(guide.KnownRefs()))
	}

	data, err := os.ReadFile(filepath.Join(dir, "video_2_2_1.mov"))
	if err != nil {
		t.Fatalf("read placeholder: %v", err)
	}
	if string(data) != "Placeholder for Primary Dressing for Cavity Wounds" {
		t.Errorf("unexpected content %q", data)
	}

	// The generated files must be discoverable by the resolver.
	cat := videos.NewResolver(&videos.LocalStrategy{Dir: dir}).Resolve(context.Background())
	if cat.Backend != "local" || cat.Len() != len(paths) {
		t.Errorf("resolver found %d videos from %s, want %d from local", cat.Len(), cat.Backend, len(paths))
	}
	if src := cat.Lookup("5.0"); src.Kind != videos.SourceLocal {
		t.Errorf("Lookup(5.0) = %+v, want local", src)
	}
}
