package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/pipeline"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps coded errors to statuses. Uncoded errors are masked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorResponse(w, r, err, "")
}

// writeResolveError is writeError plus the scientific-name hint for names
// that could not be resolved.
func (s *Server) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	hint := ""
	if errors.Is(err, errors.ErrCodeNotFound) {
		hint = errors.UserMessage(err)
	}
	s.writeErrorResponse(w, r, err, hint)
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, err error, hint string) {
	resp := ErrorResponse{Code: string(errors.GetCode(err)), Hint: hint}
	status := http.StatusInternalServerError
	var e *errors.Error
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrCodeRemoteService):
		status = http.StatusBadGateway
		resp.Message = errors.UserMessage(err)
	}
	if resp.Message == "" {
		if stderrors.As(err, &e) && resp.Code != "" {
			resp.Message = e.Message
		} else {
			resp.Code = string(errors.ErrCodeInternal)
			resp.Message = "internal server error"
		}
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, resp)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// detached keeps request values but not cancellation, so a client that hangs
// up does not abort a lookup already talking to GBIF. The HTTP client's
// timeout still bounds it.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Resolve(detached(r), r.URL.Query().Get("name"))
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) lineage(w http.ResponseWriter, r *http.Request) {
	key, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil || key <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid taxon key %q", chi.URLParam(r, "key")))
		return
	}
	path, err := s.runner.FetchLineage(detached(r), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

type previewRequest struct {
	Name string `json:"name"`
}

func (s *Server) createPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	p, err := s.ws.Preview(detached(r), req.Name)
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/previews/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := s.ws.PreviewByID(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no pending preview %q", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) discardPreview(w http.ResponseWriter, r *http.Request) {
	s.ws.Discard(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) confirmPreview(w http.ResponseWriter, r *http.Request) {
	root, err := s.ws.Confirm(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		writeJSON(w, http.StatusOK, s.ws.Tree())
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "%v", err))
		return
	}
	out, err := pipeline.Render(r.Context(), s.ws.Tree(), pipeline.RenderOptions{
		Formats:     []string{format},
		CommonNames: r.URL.Query().Get("common") != "false",
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(out[format])
}

func (s *Server) treeStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.Tree().Stats())
}

func (s *Server) clearTree(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
