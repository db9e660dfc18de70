package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Overview(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("overview", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.deps.Pages(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("pages", err))
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Page(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, Wrap("page", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCitations(w http.ResponseWriter, r *http.Request) {
	cites, err := s.deps.Citations(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("citations", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"citations": cites})
}

// handleHosts returns the host cities as map points.
func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	points, err := s.deps.HostPoints(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("hosts", err))
		return
	}
	writeJSON(w, http.StatusOK, points)
}
