// Package web serves the wound care guide over HTTP.
//
// Endpoints:
//
//	GET  /api/health                   - health check
//	POST /api/session                  - start a guide session
//	GET  /api/session/{id}             - current step, options and selections
//	POST /api/session/{id}/select      - body {"kind": "wound_type", "value": "superficial"}
//	POST /api/session/{id}/back        - undo the last selection
//	POST /api/session/{id}/restart     - clear every selection
//	GET  /api/session/{id}/videos      - resolved video sequence (final step only)
//	GET  /                             - server-rendered guide page (cookie session)
//	POST /action                       - form actions of the guide page
//	GET  /videos/{file}                - local video files
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/sessions"
	"github.com/fpang/wound-care-guide/internal/videos"
)

const (
	sessionAPIPrefix = "/api/session/"
	videoPathPrefix  = "/videos/"
	sessionCookie    = "guide_session"
)

//go:embed templates/guide.html
var templateFS embed.FS

// CatalogFunc resolves the video catalog for one render of the final step.
type CatalogFunc func(ctx context.Context) *videos.Catalog

// Server owns the HTTP surface of the guide.
type Server struct {
	store    *sessions.Store
	catalog  CatalogFunc
	videoDir string
	page     *template.Template
}

// NewServer returns a Server backed by store. Local videos are served from
// videoDir; catalog is called at most once per session that reaches the
// final step.
func NewServer(store *sessions.Store, videoDir string, catalog CatalogFunc) *Server {
	return &Server{
		store:    store,
		catalog:  catalog,
		videoDir: videoDir,
		page:     template.Must(template.ParseFS(templateFS, "templates/guide.html")),
	}
}

// Handler returns the complete, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/session", s.handleSessionCreate)
	mux.HandleFunc(sessionAPIPrefix, s.handleSessionRoutes)
	mux.HandleFunc("/action", s.handlePageAction)
	mux.HandleFunc("/", s.handlePage)

	root := http.NewServeMux()
	root.Handle(videoPathPrefix, http.HandlerFunc(s.handleVideo))
	root.Handle("/", withGzip(withSecurityHeaders(mux)))

	return withLogging(withCORS(root))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "wound-care-guide",
	})
}

// --- JSON API ---

type selectionView struct {
	Kind  guide.Kind `json:"kind"`
	Value string     `json:"value"`
	Ref   string     `json:"ref,omitempty"`
}

type stateResponse struct {
	SessionID  string              `json:"sessionId"`
	State      guide.State         `json:"state"`
	Selections []selectionView     `json:"selections"`
	Options    []guide.Option      `json:"options"`
	Summary    []guide.SummaryLine `json:"summary"`
}

func stateOf(e *sessions.Entry) stateResponse {
	sels := e.Guide.Selections()
	views := make([]selectionView, 0, len(sels))
	for _, sel := range sels {
		views = append(views, selectionView{Kind: sel.Kind(), Value: sel.Value(), Ref: sel.Ref()})
	}
	opts := e.Guide.Options()
	if opts == nil {
		opts = []guide.Option{}
	}
	return stateResponse{
		SessionID:  e.ID,
		State:      e.Guide.State(),
		Selections: views,
		Options:    opts,
		Summary:    e.Guide.Summary(),
	}
}

type videoView struct {
	Position int               `json:"position"`
	Ref      string            `json:"ref"`
	Title    string            `json:"title"`
	Kind     videos.SourceKind `json:"kind"`
	URL      string            `json:"url,omitempty"`
}

// playlist resolves the sequence of a completed session, memoizing the
// catalog on the entry.
func (s *Server) playlist(ctx context.Context, e *sessions.Entry) ([]videoView, string, error) {
	seq, err := e.Guide.Sequence()
	if err != nil {
		return nil, "", err
	}
	if e.Catalog == nil {
		e.Catalog = s.catalog(ctx)
	}

	list := videos.Playlist(seq, e.Catalog)
	out := make([]videoView, 0, len(list))
	for _, v := range list {
		vv := videoView{Position: v.Position, Ref: v.Ref, Title: v.Title, Kind: v.Source.Kind}
		switch v.Source.Kind {
		case videos.SourceLocal:
			vv.URL = videoPathPrefix + filepath.Base(v.Source.Locator)
		case videos.SourceRemote:
			vv.URL = v.Source.Locator
		}
		out = append(out, vv)
	}
	return out, e.Catalog.Backend, nil
}

// POST /api/session
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := s.store.Create()
	var resp stateResponse
	err := s.store.Do(id, func(e *sessions.Entry) error {
		resp = stateOf(e)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("sessionId", id).Msg("New guide session vanished before first read")
		httpError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// /api/session/{id}[/{action}]
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := parseSessionRoute(r.URL.Path)
	if !ok {
		httpError(w, http.StatusNotFound, "not found")
		return
	}
	if !sessions.ValidID(id) {
		httpError(w, http.StatusBadRequest, "invalid sessionId: must be a UUID")
		return
	}

	var handler func(http.ResponseWriter, *http.Request, *sessions.Entry) error
	method := http.MethodPost
	switch action {
	case "":
		handler, method = s.apiState, http.MethodGet
	case "videos":
		handler, method = s.apiVideos, http.MethodGet
	case "select":
		handler = s.apiSelect
	case "back":
		handler = s.apiBack
	case "restart":
		handler = s.apiRestart
	default:
		httpError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != method {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	err := s.store.Do(id, func(e *sessions.Entry) error { return handler(w, r, e) })
	if errors.Is(err, sessions.ErrNotFound) {
		httpError(w, http.StatusNotFound, "session not found")
	}
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request, e *sessions.Entry) error {
	respondJSON(w, http.StatusOK, stateOf(e))
	return nil
}

func (s *Server) apiSelect(w http.ResponseWriter, r *http.Request, e *sessions.Entry) error {
	var req struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return nil
	}

	sel, err := guide.ParseSelection(req.Kind, req.Value)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	if err := e.Guide.Select(sel); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return nil
	}

	log.Info().
		Str("sessionId", e.ID).
		Str("kind", string(sel.Kind())).
		Str("value", sel.Value()).
		Str("state", string(e.Guide.State())).
		Msg("Guide selection applied")
	respondJSON(w, http.StatusOK, stateOf(e))
	return nil
}

func (s *Server) apiBack(w http.ResponseWriter, r *http.Request, e *sessions.Entry) error {
	e.Guide.Back()
	respondJSON(w, http.StatusOK, stateOf(e))
	return nil
}

func (s *Server) apiRestart(w http.ResponseWriter, r *http.Request, e *sessions.Entry) error {
	e.Guide.Restart()
	log.Info().Str("sessionId", e.ID).Msg("Guide restarted")
	respondJSON(w, http.StatusOK, stateOf(e))
	return nil
}

func (s *Server) apiVideos(w http.ResponseWriter, r *http.Request, e *sessions.Entry) error {
	list, backend, err := s.playlist(r.Context(), e)
	if err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return nil
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": e.ID,
		"backend":   backend,
		"videos":    list,
	})
	return nil
}

const maxBodyBytes = 4 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// --- Local video files ---

// GET /videos/{file}
// Only names following the video naming convention are served.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, videoPathPrefix)
	if containsPathTraversal(name) || strings.ContainsAny(name, `/\`) {
		httpError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if _, _, ok := videos.ParseFilename(name); !ok {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	p := filepath.Join(s.videoDir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		httpError(w, http.StatusNotFound, "video not found")
		return
	}
	http.ServeFile(w, r, p)
}
