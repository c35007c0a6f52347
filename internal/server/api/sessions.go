// Package api provides HTTP handlers for recorded tiltcam sessions.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/tiltcam/internal/store"
)

// SessionHandler handles HTTP requests for recorded sessions and their poses.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes requests to the appropriate method.
// Expected paths: /api/sessions, /api/sessions/{id} and /api/sessions/{id}/poses
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, rest, _ := strings.Cut(path, "/")
	switch {
	case rest == "poses" && r.Method == http.MethodGet:
		h.poses(w, r, id)
	case rest == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case rest == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case rest == "" || rest == "poses":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

type sessionResponse struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	StartedAt string `json:"started_at"`
	Poses     int    `json:"poses"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type listPosesResponse struct {
	SessionID string             `json:"session_id"`
	Poses     []store.PoseRecord `json:"poses"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session, poses int) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		Source:    s.Source,
		StartedAt: s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		Poses:     poses,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		n, err := h.store.Poses().CountBySession(s.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count poses")
			return
		}
		response.Sessions = append(response.Sessions, toResponse(s, n))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, ok := h.lookup(w, id)
	if !ok {
		return
	}

	n, err := h.store.Poses().CountBySession(sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count poses")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sess, n))
}

// poses handles GET /api/sessions/{id}/poses.
func (h *SessionHandler) poses(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	records, err := h.store.Poses().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list poses")
		return
	}
	if records == nil {
		records = []store.PoseRecord{}
	}

	writeJSON(w, http.StatusOK, listPosesResponse{SessionID: id, Poses: records})
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, id string) (*store.Session, bool) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return nil, false
	}
	return sess, true
}
