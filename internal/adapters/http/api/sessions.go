package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/olympicsnav/internal/domain/types"
)

// readChange decodes an optional StateChange body. An empty body is no change.
func readChange(w http.ResponseWriter, r *http.Request) (types.StateChange, bool, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return types.StateChange{}, false, WrapKind("decode", ErrBadRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return types.StateChange{}, false, nil
	}
	var change types.StateChange
	if err := json.Unmarshal(body, &change); err != nil {
		return types.StateChange{}, false, WrapKind("decode", ErrBadRequest, err)
	}
	return change, true, nil
}

// handleCreateSession handles POST /api/sessions. A body, when given, is
// applied as the first change of the new session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	change, ok, err := readChange(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.deps.CreateSession(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("create session", err))
		return
	}
	if ok {
		if view, err = s.deps.UpdateSession(r.Context(), view.ID, change); err != nil {
			s.fail(w, r, Wrap("create session", err))
			return
		}
	}
	w.Header().Set("Location", "/api/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// handleGetSession handles GET /api/sessions/{id}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, Wrap("get session", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleUpdateSession handles PATCH /api/sessions/{id}.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	change, _, err := readChange(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.deps.UpdateSession(r.Context(), chi.URLParam(r, "id"), change)
	if err != nil {
		s.fail(w, r, Wrap("update session", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleDeleteSession handles DELETE /api/sessions/{id}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, Wrap("delete session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionRecords handles GET /api/sessions/{id}/records.
func (s *Server) handleSessionRecords(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := windowParams(r.URL.Query())
	if err != nil {
		s.fail(w, r, Wrap("session records", err))
		return
	}
	page, err := s.deps.SessionRecords(r.Context(), chi.URLParam(r, "id"), offset, limit)
	if err != nil {
		s.fail(w, r, Wrap("session records", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}
