package videos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/fpang/wound-care-guide/internal/config"
	"github.com/fpang/wound-care-guide/internal/guide"
)

// fakeLister serves ListObjectsV2 from fixed pages, or fails with err.
type fakeLister struct {
	pages [][]string
	err   error
	calls int
}

func (f *fakeLister) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls
	f.calls++
	out := &s3.ListObjectsV2Output{}
	for _, key := range f.pages[idx] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(key)})
	}
	if idx < len(f.pages)-1 {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("page-" + string(rune('a'+idx)))
	}
	return out, nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("video"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestFilenameRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		format string
		ok     bool
	}{
		{"video_2_1_1.mp4", "2.1.1", "mp4", true},
		{"video_2_3.MOV", "2.3", "mov", true},
		{"videos/video_4_0.Mp4", "4.0", "mp4", true},
		{"video_5_0.avi", "", "", false},
		{"clip_2_3.mp4", "", "", false},
		{"video_.mp4", "", "", false},
		{"video_2_3", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, format, ok := ParseFilename(tt.name)
			if ref != tt.ref || format != tt.format || ok != tt.ok {
				t.Errorf("ParseFilename(%q) = %q, %q, %v; want %q, %q, %v", tt.name, ref, format, ok, tt.ref, tt.format, tt.ok)
			}
		})
	}

	if got := Filename("2.1.1", FormatMP4); got != "video_2_1_1.mp4" {
		t.Errorf("Filename = %q", got)
	}
}

func TestLocalPrefersMP4(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "video_2_3.mp4", "video_2_3.mov", "video_3_1.mov", "notes.txt")

	cat := NewResolver(&LocalStrategy{Dir: dir}).Resolve(context.Background())

	if cat.Backend != "local" {
		t.Errorf("Backend = %s, want local", cat.Backend)
	}
	if got := cat.Entries["2.3"]; got != filepath.Join(dir, "video_2_3.mp4") {
		t.Errorf("2.3 resolved to %s, want mp4", got)
	}
	if got := cat.Entries["3.1"]; got != filepath.Join(dir, "video_3_1.mov") {
		t.Errorf("3.1 resolved to %s, want mov (only format)", got)
	}
	if !reflect.DeepEqual(cat.Skipped, []string{"video_2_3.mov"}) {
		t.Errorf("Skipped = %v", cat.Skipped)
	}
	if cat.Len() != 2 {
		t.Errorf("Len = %d, want 2", cat.Len())
	}
}

func TestBuildPrefersMP4RegardlessOfOrder(t *testing.T) {
	mp4 := Candidate{Ref: "2.3", Format: FormatMP4, Name: "video_2_3.mp4", Locator: "a.mp4"}
	mov := Candidate{Ref: "2.3", Format: FormatMOV, Name: "video_2_3.mov", Locator: "a.mov"}

	for _, order := range [][]Candidate{{mp4, mov}, {mov, mp4}} {
		cat := build("test", order)
		if cat.Entries["2.3"] != "a.mp4" {
			t.Errorf("order %v: got %s, want a.mp4", []string{order[0].Format, order[1].Format}, cat.Entries["2.3"])
		}
	}
}

func TestS3Discovery(t *testing.T) {
	lister := &fakeLister{pages: [][]string{
		{"videos/", "videos/video_2_3.mov", "videos/readme.md"},
		{"videos/video_2_3.mp4", "videos/video_2_1_1.MOV"},
	}}
	s := &S3Strategy{Client: lister, Bucket: "wound-care-videos", Prefix: "videos/", Region: "us-east-1"}

	cat := NewResolver(s, &LocalStrategy{Dir: t.TempDir()}).Resolve(context.Background())

	if cat.Backend != "s3" {
		t.Fatalf("Backend = %s, want s3", cat.Backend)
	}
	if lister.calls != 2 {
		t.Errorf("expected 2 list calls, got %d", lister.calls)
	}
	want := map[string]string{
		"2.3":   "https://wound-care-videos.s3.us-east-1.amazonaws.com/videos/video_2_3.mp4",
		"2.1.1": "https://wound-care-videos.s3.us-east-1.amazonaws.com/videos/video_2_1_1.MOV",
	}
	if !reflect.DeepEqual(cat.Entries, want) {
		t.Errorf("Entries = %v, want %v", cat.Entries, want)
	}
}

func TestS3EmptyListingDoesNotFallBack(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "video_2_3.mp4")
	s := &S3Strategy{Client: &fakeLister{pages: [][]string{{"videos/other.txt"}}}, Bucket: "b", Region: "r"}

	cat := NewResolver(s, &LocalStrategy{Dir: dir}).Resolve(context.Background())
	if cat.Backend != "s3" || cat.Len() != 0 {
		t.Errorf("got backend %s with %d entries, want empty s3 catalog", cat.Backend, cat.Len())
	}
}

func TestS3FailureFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "video_2_3.mp4", "video_2_3.mov", "video_4_0.mp4")

	local := NewResolver(&LocalStrategy{Dir: dir}).Resolve(context.Background())

	failing := &S3Strategy{
		Client: &fakeLister{err: errors.New("NoCredentialProviders: no valid providers in chain")},
		Bucket: "wound-care-videos",
		Region: "us-east-1",
	}
	got := NewResolver(failing, &LocalStrategy{Dir: dir}, &SyntheticStrategy{Dir: dir}).Resolve(context.Background())

	if !reflect.DeepEqual(got, local) {
		t.Errorf("fallback catalog %+v differs from local catalog %+v", got, local)
	}
}

func TestMissingDirectoryFallsBackToSynthetic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static", "videos")

	cat := NewResolver(&LocalStrategy{Dir: dir}, &SyntheticStrategy{Dir: dir}).Resolve(context.Background())

	if cat.Backend != "synthetic" {
		t.Fatalf("Backend = %s, want synthetic", cat.Backend)
	}
	if cat.Len() != len(guide.KnownRefs()) {
		t.Errorf("Len = %d, want %d", cat.Len(), len(guide.KnownRefs()))
	}
	if got := cat.Entries["2.1.1"]; got != filepath.Join(dir, "video_2_1_1.mp4") {
		t.Errorf("2.1.1 guessed as %s", got)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("video directory should have been created: %v", err)
	}
	if src := cat.Lookup("2.1.1"); src.Kind != SourcePlaceholder {
		t.Errorf("unverified guess should look up as placeholder, got %v", src)
	}
}

func TestEmptyDirectoryFallsBackToSynthetic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.txt")

	cat := NewResolver(&LocalStrategy{Dir: dir}, &SyntheticStrategy{Dir: dir}).Resolve(context.Background())
	if cat.Backend != "synthetic" {
		t.Errorf("Backend = %s, want synthetic", cat.Backend)
	}
}

func TestResolveWithNoStrategies(t *testing.T) {
	cat := NewResolver().Resolve(context.Background())
	if cat.Len() != 0 || cat.Lookup("2.3").Kind != SourcePlaceholder {
		t.Errorf("expected empty catalog, got %+v", cat)
	}
}

func TestResolveEmitsMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "video_2_3.mp4", "video_2_3.mov")

	var buf bytes.Buffer
	r := NewResolver(&LocalStrategy{Dir: dir})
	r.Metrics = &buf
	r.Resolve(context.Background())

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("metrics output is not JSON: %v (%q)", err, buf.String())
	}
	if doc["Backend"] != "local" || doc["VideosResolved"] != float64(1) || doc["AlternatesSkipped"] != float64(1) {
		t.Errorf("unexpected metrics document: %v", doc)
	}
}

func TestStrategiesFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.VideoDir = t.TempDir()

	names := func(chain []Strategy) []string {
		var out []string
		for _, s := range chain {
			out = append(out, s.Name())
		}
		return out
	}

	if got := names(Strategies(context.Background(), cfg, nil)); !reflect.DeepEqual(got, []string{"local", "synthetic"}) {
		t.Errorf("local chain = %v", got)
	}

	cfg.UseS3 = true
	chain := Strategies(context.Background(), cfg, &fakeLister{pages: [][]string{{}}})
	if got := names(chain); !reflect.DeepEqual(got, []string{"s3", "local", "synthetic"}) {
		t.Errorf("s3 chain = %v", got)
	}
	if s3s := chain[0].(*S3Strategy); s3s.Bucket != cfg.BucketName || s3s.Prefix != cfg.Prefix || s3s.Timeout != cfg.ListTimeout {
		t.Errorf("S3 strategy not configured from cfg: %+v", s3s)
	}
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "video_3_3.mp4")
	if err := os.Mkdir(filepath.Join(dir, "video_3_2.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	cat := &Catalog{Entries: map[string]string{
		"3.3": filepath.Join(dir, "video_3_3.mp4"),
		"3.2": filepath.Join(dir, "video_3_2.mp4"),
		"3.1": filepath.Join(dir, "video_3_1.mp4"),
		"2.3": "https://b.s3.r.amazonaws.com/videos/video_2_3.mp4",
	}}

	tests := map[string]SourceKind{
		"3.3": SourceLocal,
		"3.2": SourcePlaceholder,
		"3.1": SourcePlaceholder,
		"2.3": SourceRemote,
		"9.9": SourcePlaceholder,
	}
	for ref, want := range tests {
		if got := cat.Lookup(ref).Kind; got != want {
			t.Errorf("Lookup(%q).Kind = %s, want %s", ref, got, want)
		}
	}

	var nilCat *Catalog
	if nilCat.Lookup("3.3").Kind != SourcePlaceholder {
		t.Error("nil catalog should yield placeholders")
	}
}

func TestPlaylist(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "video_2_3.mp4")
	cat := NewResolver(&LocalStrategy{Dir: dir}).Resolve(context.Background())

	seq := guide.Materialize([]guide.Selection{guide.WoundTypeSelection{Type: guide.Webspace}})
	got := Playlist(seq, cat)

	if len(got) != 3 {
		t.Fatalf("got %d videos, want 3", len(got))
	}
	if got[0].Position != 1 || got[0].Ref != "2.3" || got[0].Source.Kind != SourceLocal {
		t.Errorf("first video = %+v", got[0])
	}
	if got[1].Source.Kind != SourcePlaceholder || got[2].Title != "Things to Watch Out For" {
		t.Errorf("tail videos = %+v", got[1:])
	}
}
