package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsonviz/pkg/buildinfo"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/scene/sink"
	"github.com/matzehuels/jsonviz/pkg/session"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// sceneFormats are the formats served by the scene endpoint.
var sceneFormats = []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatHTML}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatHTML: "text/html; charset=utf-8",
}

// =============================================================================
// Pages
// =============================================================================

// handleIndex starts a session and redirects to its page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.manager.Create(ctx)
	if s.cfg.Initial != nil {
		if err := sess.SetValue(ctx, s.cfg.Initial); err != nil {
			s.logger.Warn("initial value rejected", "error", err)
		}
	}
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	nonce, err := sink.NewNonce()
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := []sink.HTMLOption{
		sink.WithTitle(s.cfg.Title),
		sink.WithSocket("/ws/" + sess.ID),
		sink.WithNonce(nonce),
		sink.WithHTMLSVGOptions(sink.WithAutoFit(!sess.Viewport().Manual)),
	}
	if s.cfg.Editor {
		opts = append(opts, sink.WithEditor())
	}
	page, err := sink.RenderHTML(sess.Scene(), opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Security-Policy", sink.ContentSecurityPolicy(nonce))
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatHTML])
	w.Header().Set("Cache-Control", "no-store")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Get().Version,
		"sessions": s.manager.Len(),
	})
}

// =============================================================================
// API
// =============================================================================

type createResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// handleCreate starts a session. A non-empty body is decoded (JSON or YAML,
// by content type) and loaded as the initial value.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	var initial any
	if len(data) > 0 {
		initial, err = value.Decode(data, value.FormatFromContentType(r.Header.Get("Content-Type")))
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	sess := s.manager.Create(ctx)
	if initial != nil {
		if err := sess.SetValue(ctx, initial); err != nil {
			s.manager.Delete(ctx, sess.ID)
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: sess.ID, URL: "/s/" + sess.ID})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, err := s.manager.Get(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.Delete(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "format", format, sceneFormats...); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := sess.Options()
	opts.Title = s.cfg.Title
	data, err := pipeline.RenderFormat(r.Context(), sess.Scene(), format, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Write(data)
}

// handleMessages applies one message and returns the outbound messages. A
// rejected message is answered with the error message and an error status.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.manager.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	out, err := dispatch(ctx, sess, data)
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	if out == nil {
		out = []session.Message{}
	}
	writeJSON(w, status, out)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.IsValidation(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
