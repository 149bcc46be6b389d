package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/sources/manual"
)

const maxBodyBytes = 16 << 10

type solutionRequest struct {
	URL string `json:"url" validate:"required,url,max=2048"`
}

type solutionResponse struct {
	ID          string `json:"id"`
	SolutionURL string `json:"solutionUrl,omitempty"`
}

// PutSolution attaches a solution link to an indexed contest. The store
// write must succeed before the index is updated.
func PutSolution(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := contestID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid contest id")
			return
		}
		if !d.Index.Has(id) {
			writeError(w, http.StatusNotFound, "contest not found")
			return
		}

		var req solutionRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if err := d.Validate.Struct(req); err != nil || !manual.ValidURL(req.URL) {
			writeError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
			return
		}

		if err := d.Store.SetSolution(r.Context(), id, req.URL); err != nil {
			d.Logger.Error("store solution failed", logger.String("contest_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "could not save solution")
			return
		}
		d.Index.SetSolution(id, req.URL)

		d.Logger.Info("solution set", logger.String("contest_id", id))
		writeJSON(w, http.StatusOK, solutionResponse{ID: id, SolutionURL: req.URL})
	}
}

func DeleteSolution(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := contestID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid contest id")
			return
		}

		if err := d.Store.DeleteSolution(r.Context(), id); err != nil {
			d.Logger.Error("delete solution failed", logger.String("contest_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "could not delete solution")
			return
		}
		d.Index.DeleteSolution(id)
		w.WriteHeader(http.StatusNoContent)
	}
}
