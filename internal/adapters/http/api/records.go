package api

import (
	"net/http"
)

// handleOptions handles GET /api/options?season=&sport=.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	season, err := selectionParam(q, paramSeason)
	if err != nil {
		s.fail(w, r, Wrap("options", err))
		return
	}
	sport, err := selectionParam(q, paramSport)
	if err != nil {
		s.fail(w, r, Wrap("options", err))
		return
	}
	opts, err := s.deps.Options(r.Context(), season, sport)
	if err != nil {
		s.fail(w, r, Wrap("options", err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleRecords handles GET /api/records with the filter in the query string.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := stateParams(q)
	if err != nil {
		s.fail(w, r, Wrap("records", err))
		return
	}
	offset, limit, err := windowParams(q)
	if err != nil {
		s.fail(w, r, Wrap("records", err))
		return
	}
	page, err := s.deps.Filter(r.Context(), state, offset, limit)
	if err != nil {
		s.fail(w, r, Wrap("records", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}
