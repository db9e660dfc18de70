package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StatsProvider reports the navigator's runtime state for /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type limiterStats struct {
	Enabled bool    `json:"enabled"`
	RPS     float64 `json:"rps,omitempty"`
	Burst   int     `json:"burst,omitempty"`
	Clients int     `json:"clients"`
}

type statsResponse struct {
	Service   map[string]interface{} `json:"service"`
	RateLimit limiterStats           `json:"rate_limit"`
}

// handleStats serves GET /stats: service state plus limiter occupancy.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, NewKind("stats", ErrMethodNotAllowed))
		return
	}
	resp := statsResponse{Service: map[string]interface{}{}}
	if s.stats != nil {
		if st := s.stats.GetStats(); st != nil {
			resp.Service = st
		}
	}
	if s.limiter != nil {
		resp.RateLimit = limiterStats{
			Enabled: true,
			RPS:     float64(s.limiter.limit),
			Burst:   s.limiter.burst,
			Clients: s.limiter.Clients(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// dashboardHandler serves the embedded dashboard page, which polls /healthz
// and /stats from the browser.
func dashboardHandler() http.HandlerFunc {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, NewKind("dashboard", ErrMethodNotAllowed))
			return
		}
		http.ServeFileFS(w, r, sub, "dashboard.html")
	}
}
