package web

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/sessions"
)

type pageData struct {
	State      guide.State
	Heading    string
	Subheading string
	Info       string
	Options    []guide.Option
	CanGoBack  bool
	Summary    []guide.SummaryLine
	Videos     []videoView
}

// headings per step, as shown above the option buttons.
var headings = map[guide.State]string{
	guide.StateStart:             "Select Type of Wound",
	guide.StateLocationSelection: "Select Location of Wound",
	guide.StatePrimaryDressing:   "Select Type of Primary Dressing",
	guide.StateCavityDressing:    "Cavity Wound Treatment",
	guide.StateFinal:             "Wound Care Video Guide",
}

// subheading recaps the choices made before the dressing step.
func subheading(summary []guide.SummaryLine) string {
	var wound, loc string
	for _, l := range summary {
		switch l.Label {
		case "Type Of Wound":
			wound = l.Value
		case "Location":
			loc = l.Value
		}
	}
	switch {
	case wound != "" && loc != "":
		return "Selected Wound: " + wound + " wound at " + loc
	case wound != "":
		return "Selected Wound Type: " + wound
	default:
		return ""
	}
}

// sessionFor returns the cookie session, creating one when the cookie is
// missing, malformed or expired.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && sessions.ValidID(c.Value) {
		if err := s.store.Do(c.Value, func(*sessions.Entry) error { return nil }); err == nil {
			return c.Value
		}
	}
	id := s.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// GET /
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := s.sessionFor(w, r)
	var data pageData
	err := s.store.Do(id, func(e *sessions.Entry) error {
		state := e.Guide.State()
		summary := e.Guide.Summary()
		data = pageData{
			State:      state,
			Heading:    headings[state],
			Subheading: subheading(summary),
			Options:    e.Guide.Options(),
			CanGoBack:  state != guide.StateStart,
		}
		if state == guide.StateCavityDressing {
			data.Info = "For cavity/concave wounds, cut dressing to conform to wound shape"
		}
		if state == guide.StateFinal {
			data.Subheading = ""
			data.Summary = summary
			list, _, err := s.playlist(r.Context(), e)
			if err != nil {
				return err
			}
			data.Videos = list
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("sessionId", id).Msg("Failed to build guide page")
		http.Error(w, "guide unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to render guide page")
	}
}

// POST /action
// Form fields: action=select|back|restart, plus kind and value for select.
// Invalid actions are logged and ignored; the page is always redisplayed.
func (s *Server) handlePageAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		httpError(w, http.StatusBadRequest, "invalid form")
		return
	}

	id := s.sessionFor(w, r)
	err := s.store.Do(id, func(e *sessions.Entry) error {
		switch action := r.PostForm.Get("action"); action {
		case "select":
			sel, err := guide.ParseSelection(r.PostForm.Get("kind"), r.PostForm.Get("value"))
			if err != nil {
				return err
			}
			return e.Guide.Select(sel)
		case "back":
			e.Guide.Back()
		case "restart":
			e.Guide.Restart()
		default:
			return errors.New("unknown action " + action)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("sessionId", id).Msg("Ignored guide action")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
