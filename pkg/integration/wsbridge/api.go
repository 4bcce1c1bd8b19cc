package wsbridge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	rerrors "github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/router"
)

// NavigateRequest is the body of POST /sessions/{id}/navigate.
type NavigateRequest struct {
	To   string `json:"to"`
	Mode string `json:"mode,omitempty"`
}

// apiError is the JSON body of a failed API call.
type apiError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// API returns the HTTP surface for inspecting and driving sessions:
//
//	GET  /sessions                list open sessions
//	GET  /sessions/{id}           one session
//	POST /sessions/{id}/navigate  push or replace on a session's router
func (b *Bridge) API() http.Handler {
	r := chi.NewRouter()
	r.Get("/sessions", b.handleList)
	r.Get("/sessions/{id}", b.handleGet)
	r.Post("/sessions/{id}/navigate", b.handleNavigate)
	return r
}

func (b *Bridge) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Sessions())
}

func (b *Bridge) handleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := b.Session(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Message: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, s.Info())
}

func (b *Bridge) handleNavigate(w http.ResponseWriter, r *http.Request) {
	s, ok := b.Session(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Message: "session not found"})
		return
	}

	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Message: "body must be {\"to\": \"/path\", \"mode\": \"push|replace\"}"})
		return
	}
	mode := router.ModePush
	if req.Mode == string(router.ModeReplace) {
		mode = router.ModeReplace
	}

	if err := s.Navigate(r.Context(), req.To, mode); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ErrSessionClosed) {
			status = http.StatusGone
		}
		body := apiError{Message: err.Error()}
		var re *rerrors.RouterError
		if errors.As(err, &re) {
			body.Code = re.Code
			body.Message = re.Message
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, s.Info())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
