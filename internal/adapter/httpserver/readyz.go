package httpserver

import (
	"context"
	"net/http"
	"time"
)

// ReadyzHandler returns a readiness handler that probes DB, Redis,
// Kafka and Tika. Checks that were never wired are skipped.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	run := func(ctx context.Context, name string, fn func(ctx context.Context) error, checks []check) []check {
		if fn == nil {
			return checks
		}
		if err := fn(ctx); err != nil {
			return append(checks, check{Name: name, OK: false, Details: err.Error()})
		}
		return append(checks, check{Name: name, OK: true})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 4)
		checks = run(ctx, "db", s.DBCheck, checks)
		checks = run(ctx, "redis", s.RedisCheck, checks)
		checks = run(ctx, "kafka", s.KafkaCheck, checks)
		checks = run(ctx, "tika", s.TikaCheck, checks)
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": ok, "checks": checks})
	}
}
