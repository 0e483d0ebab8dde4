package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/toast"
)

// maxRequestBody bounds the size of a show request.
const maxRequestBody = 64 << 10

// ShowRequest is the body of POST /api/toasts.
type ShowRequest struct {
	Message    string           `json:"message"`
	Type       toast.Type       `json:"type,omitempty"`
	Title      string           `json:"title,omitempty"`
	Position   toast.Position   `json:"position,omitempty"`
	Duration   *config.Duration `json:"duration,omitempty"`
	Persistent bool             `json:"persistent,omitempty"`
}

// Options converts the request to toast options. Only the message is
// required; the manager normalizes an unknown type or position.
func (r ShowRequest) Options() ([]toast.Option, error) {
	if strings.TrimSpace(r.Message) == "" {
		return nil, errors.New("message is required")
	}

	var opts []toast.Option
	if r.Type != "" {
		opts = append(opts, toast.WithType(r.Type))
	}
	if r.Position != "" {
		opts = append(opts, toast.WithPosition(r.Position))
	}
	if r.Title != "" {
		opts = append(opts, toast.WithTitle(r.Title))
	}
	switch {
	case r.Persistent:
		opts = append(opts, toast.Persistent())
	case r.Duration != nil:
		opts = append(opts, toast.WithDuration(r.Duration.Duration()))
	}
	return opts, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// do runs fn on the loop, answering 503 when the loop is gone.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func()) bool {
	if err := s.loop.Do(r.Context(), fn); err != nil {
		s.logger.Warn("toast loop unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "toast loop unavailable")
		return false
	}
	return true
}

type pageData struct {
	Title     string
	Body      template.HTML
	Version   int64
	Positions []toast.Position
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var body string
	if !s.do(w, r, func() { body = s.doc.HTML() }) {
		return
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title: "toastui",
		// The document serializer escapes text and attribute values.
		Body:      template.HTML(body), //nolint:gosec
		Version:   s.sheet.Version().UnixMilli(),
		Positions: toast.ValidPositions(),
	})
	if err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "toast.css", s.sheet.Version(), strings.NewReader(s.sheet.CSS()))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var active []toast.Snapshot
	if !s.do(w, r, func() { active = s.manager.Active() }) {
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	var req ShowRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	opts, err := req.Options()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snap toast.Snapshot
	if !s.do(w, r, func() {
		h := s.manager.Show(req.Message, opts...)
		snap, _ = s.manager.Get(h.ID())
	}) {
		return
	}

	s.logger.Info("toast shown via api", "id", snap.ID, "type", snap.Type, "position", snap.Position)
	w.Header().Set("Location", "/api/toasts/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var snap toast.Snapshot
	var found bool
	if !s.do(w, r, func() { snap, found = s.manager.Get(id) }) {
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "toast not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleRemove starts removal. Removing a toast that is already leaving is
// accepted and has no further effect.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var snap toast.Snapshot
	var found bool
	if !s.do(w, r, func() {
		s.manager.Remove(id)
		snap, found = s.manager.Get(id)
	}) {
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "toast not found")
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.timerAction(w, r, "pause", s.manager.Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.timerAction(w, r, "resume", s.manager.Resume)
}

// timerAction answers 409 when the toast exists but action did not apply,
// e.g. pausing a persistent toast.
func (s *Server) timerAction(w http.ResponseWriter, r *http.Request, name string, action func(id string) bool) {
	id := chi.URLParam(r, "id")

	var snap toast.Snapshot
	var found, changed bool
	if !s.do(w, r, func() {
		changed = action(id)
		snap, found = s.manager.Get(id)
	}) {
		return
	}

	switch {
	case !found:
		writeError(w, http.StatusNotFound, "toast not found")
	case !changed:
		writeError(w, http.StatusConflict, fmt.Sprintf("cannot %s toast in state %s", name, snap.State))
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

// handlePointer forwards a browser interaction to the toast's rendered node,
// so it goes through the same listeners as a real pointer.
func (s *Server) handlePointer(fn func(*dom.ToastNode)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var snap toast.Snapshot
		var found bool
		if !s.do(w, r, func() {
			if n, ok := s.toastNode(id); ok {
				fn(n)
			}
			snap, found = s.manager.Get(id)
		}) {
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "toast not found")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// handleHistory lists removed toasts, most recent first. The optional limit
// query parameter caps the result.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.history.All()
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n > 0 && n < len(records) {
			records = records[:n]
		}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.history.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "history record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type pruneResponse struct {
	Removed int `json:"removed"`
}

// handleClearHistory drops history records. With older_than (e.g. 1h, 7d)
// only records removed before that age are dropped.
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var (
		removed int
		err     error
	)
	if v := r.URL.Query().Get("older_than"); v != "" {
		age, perr := core.ParseDuration(v)
		if perr != nil || age < 0 {
			writeError(w, http.StatusBadRequest, "invalid older_than")
			return
		}
		removed, err = s.history.Prune(time.Now().Add(-age))
	} else {
		removed = s.history.Count()
		err = s.history.Clear()
	}
	if err != nil {
		s.logger.Error("failed to prune history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to prune history")
		return
	}

	s.logger.Info("history pruned", "removed", removed)
	writeJSON(w, http.StatusOK, pruneResponse{Removed: removed})
}
