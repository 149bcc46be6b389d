package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/logger"
)

type reloadResponse struct {
	Contests  bool `json:"contests"`
	Solutions bool `json:"solutions"`
}

// Reload triggers a contest refresh and a solutions reload. Triggers are
// non-blocking: a worker already busy with a pending trigger is skipped.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := reloadResponse{
			Contests:  trigger(d, d.RefreshTrigger, "contests", r),
			Solutions: trigger(d, d.SolutionTrigger, "solutions", r),
		}

		if resp.Contests || resp.Solutions {
			writeJSON(w, http.StatusAccepted, resp)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "reload already in progress"})
	}
}

func trigger(d deps.Deps, ch chan struct{}, what string, r *http.Request) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- struct{}{}:
		d.Logger.Info("manual reload triggered",
			logger.String("target", what),
			logger.String("remote_ip", r.RemoteAddr))
		return true
	default:
		d.Logger.Warn("reload already pending",
			logger.String("target", what),
			logger.String("remote_ip", r.RemoteAddr))
		return false
	}
}
