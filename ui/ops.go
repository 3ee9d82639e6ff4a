package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"studentrisk/app"
	"studentrisk/internal/metrics"
)

// NewOpsRouter serves health, metrics and pprof on a separate listener
func NewOpsRouter(sess *app.Session, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{
			"status":  "ok",
			"stage":   sess.Stage.String(),
			"session": sess.ID.String(),
		}
		if !sess.Ready() {
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
			if sess.Halt != nil {
				body["reason"] = sess.Halt.Message
			}
		}
		writeJSON(w, status, body)
	})

	if rec != nil {
		r.Handle("/metrics", rec.Handler())
	}
	r.Mount("/debug", middleware.Profiler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
