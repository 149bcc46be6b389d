package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// contestID reads the {id} URL parameter. IDs contain ':' and may contain
// spaces, so clients are expected to percent-encode them.
//
// chi matches against RawPath when the request has one, and the param is
// still escaped in that case only. Otherwise it is already decoded and
// must be used as is, or an id containing '%' would be decoded twice.
func contestID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		var err error
		if id, err = url.PathUnescape(id); err != nil {
			return "", false
		}
	}
	id = strings.TrimSpace(id)
	return id, id != ""
}
