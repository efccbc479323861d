package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airvair/stampgraph/pkg/cache"
	"github.com/airvair/stampgraph/pkg/config"
	sgerrors "github.com/airvair/stampgraph/pkg/errors"
	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/model"
	"github.com/airvair/stampgraph/pkg/model/modeltest"
	"github.com/airvair/stampgraph/pkg/observability"
	"github.com/airvair/stampgraph/pkg/pipeline"
)

type fixture struct {
	handler http.Handler
	hooks   *observability.PrometheusHooks
}

func newFixture(t *testing.T, mutate func(*config.Config)) fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Layout.Ranker = "layered"
	if mutate != nil {
		mutate(&cfg)
	}

	mem, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(mem, nil, logger)

	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	hooks.Install()
	t.Cleanup(observability.Reset)

	return fixture{
		handler: New(runner, cfg, logger, reg).Handler(),
		hooks:   hooks,
	}
}

func (f fixture) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func modelJSON(t *testing.T, m model.Model) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, model.Encode(&buf, m, model.FormatJSON))
	return buf.Bytes()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLayout(t *testing.T) {
	f := newFixture(t, nil)
	body := modelJSON(t, modeltest.FanOut(3))

	rec := f.do(t, http.MethodPost, "/v1/layout", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	d, err := graph.ReadDiagram(rec.Body)
	require.NoError(t, err)
	assert.Len(t, d.Nodes, 4)
	assert.Len(t, d.Edges, 3)
	assert.Positive(t, d.Width)

	rec = f.do(t, http.MethodPost, "/v1/layout", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = f.do(t, http.MethodPost, "/v1/layout?refresh=true", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestLayoutErrors(t *testing.T) {
	f := newFixture(t, nil)
	valid := modelJSON(t, modeltest.FanOut(1))
	duplicate := modelJSON(t, model.Model{
		Controllers: []model.Controller{{ID: "a", Name: "A"}},
		Components:  []model.Component{{ID: "a", Name: "A again"}},
	})

	tests := []struct {
		name   string
		target string
		body   []byte
		status int
		code   sgerrors.Code
	}{
		{"malformed json", "/v1/layout", []byte(`{"controllers": [`), http.StatusBadRequest, sgerrors.ErrCodeInvalidModel},
		{"unknown field", "/v1/layout", []byte(`{"widgets": []}`), http.StatusBadRequest, sgerrors.ErrCodeInvalidModel},
		{"duplicate id", "/v1/layout", duplicate, http.StatusBadRequest, sgerrors.ErrCodeInvalidModel},
		{"bad ranker", "/v1/layout?ranker=spring", valid, http.StatusBadRequest, sgerrors.ErrCodeInvalidInput},
		{"bad bool", "/v1/layout?failure=maybe", valid, http.StatusBadRequest, sgerrors.ErrCodeInvalidInput},
		{"bad format", "/v1/dot?format=png", valid, http.StatusBadRequest, sgerrors.ErrCodeInvalidFormat},
		{"unknown route", "/v2/layout", valid, http.StatusNotFound, sgerrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Server.MaxBodyBytes = 16 })
	rec := f.do(t, http.MethodPost, "/v1/layout", modelJSON(t, modeltest.FanOut(2)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, sgerrors.ErrCodeInvalidInput, decodeError(t, rec).Code)
}

func TestDOT(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/v1/dot?detailed=true", modelJSON(t, modeltest.Team(2)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/vnd.graphviz"))
	assert.Contains(t, rec.Body.String(), "cluster_")
}

func TestDOTAsSVG(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/v1/dot?format=svg", modelJSON(t, modeltest.FanOut(2)))
	if rec.Code != http.StatusOK {
		t.Skipf("graphviz unavailable: %s", rec.Body.String())
	}
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/v1/layout", modelJSON(t, modeltest.FanOut(2)))
	f.do(t, http.MethodPost, "/v1/layout?ranker=spring", modelJSON(t, modeltest.FanOut(2)))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.hooks.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layout", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.hooks.HTTPErrors.WithLabelValues("/v1/layout", "INVALID_INPUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.hooks.CacheRequests.WithLabelValues("diagram", "miss")))

	rec := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stampgraph_http_requests_total")
	assert.Contains(t, rec.Body.String(), "stampgraph_layout_duration_seconds")
}
