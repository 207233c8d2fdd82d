package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// containsPathTraversal returns true if the path contains ".." segments.
// Both / and \ count as separators; the raw segments are checked before
// any cleaning resolves them.
func containsPathTraversal(p string) bool {
	for _, seg := range strings.Split(strings.ReplaceAll(p, "\\", "/"), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to encode JSON response")
	}
}

func httpError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// parseSessionRoute splits /api/session/{id}/{action}. action is empty for
// /api/session/{id}.
func parseSessionRoute(path string) (id, action string, ok bool) {
	rest := strings.Trim(strings.TrimPrefix(path, sessionAPIPrefix), "/")
	if rest == "" {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 2 {
		return "", "", false
	}
	id = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action, true
}
