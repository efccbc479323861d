package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	sgerrors "github.com/airvair/stampgraph/pkg/errors"
	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/layout"
	"github.com/airvair/stampgraph/pkg/model"
	"github.com/airvair/stampgraph/pkg/observability"
	"github.com/airvair/stampgraph/pkg/pipeline"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    sgerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout answers POST /v1/layout.
//
// Query parameters: ranker (graphviz|layered), failure (bool), refresh (bool).
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	m, opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, hit, err := s.runner.DiagramWithCacheInfo(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := graph.WriteDiagram(d, w); err != nil {
		s.logger.Warn("write diagram", "err", err)
	}
}

// handleDOT answers POST /v1/dot.
//
// Query parameters: format (dot|svg), detailed (bool), failure (bool).
func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	m, opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatDOT
	}
	contentType := "text/vnd.graphviz; charset=utf-8"
	switch format {
	case pipeline.FormatDOT:
	case pipeline.FormatSVG:
		contentType = "image/svg+xml"
	default:
		s.writeError(w, r, sgerrors.New(sgerrors.ErrCodeInvalidFormat, "format must be dot or svg, got %q", format))
		return
	}

	data, err := s.runner.Render(r.Context(), m, format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeRequest reads the model body and folds query overrides into the
// configured options.
func (s *Server) decodeRequest(r *http.Request) (model.Model, pipeline.Options, error) {
	opts, err := s.options(r)
	if err != nil {
		return model.Model{}, pipeline.Options{}, err
	}
	m, err := model.Decode(r.Body, model.FormatJSON)
	if err != nil {
		return model.Model{}, pipeline.Options{}, err
	}
	if err := model.Validate(m); err != nil {
		return model.Model{}, pipeline.Options{}, err
	}
	return m, opts, nil
}

func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	lopts, err := s.cfg.LayoutOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Build:  s.cfg.BuildOptions(),
		Layout: lopts,
	}

	q := r.URL.Query()
	if name := q.Get("ranker"); name != "" {
		ranker, err := layout.RankerByName(name)
		if err != nil {
			return pipeline.Options{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidInput, err, "ranker")
		}
		opts.Layout.Ranker = ranker
	}
	for _, flag := range []struct {
		name string
		dst  *bool
	}{
		{"failure", &opts.Build.ShowFailurePaths},
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	} {
		v := q.Get(flag.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, sgerrors.New(sgerrors.ErrCodeInvalidInput, "%s must be a boolean, got %q", flag.name, v)
		}
		*flag.dst = b
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := sgerrors.HTTPStatus(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	code := sgerrors.GetCode(err)
	if code == "" {
		code = sgerrors.ErrCodeInternal
	}

	msg := sgerrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", routePattern(r), "err", err, "request_id", RequestIDFrom(r.Context()))
		msg = http.StatusText(status)
	}
	observability.HTTP().OnError(r.Context(), routePattern(r), string(code))
	writeErrorBody(w, status, code, msg)
}

func writeErrorBody(w http.ResponseWriter, status int, code sgerrors.Code, msg string) {
	respondJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func notFound(r *http.Request) error {
	return sgerrors.New(sgerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
