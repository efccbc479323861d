package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusHooksPipeline(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(prometheus.NewRegistry())

	h.OnBuildStart(ctx, 2)
	h.OnBuildComplete(ctx, 7, 6, 2*time.Millisecond)
	h.OnLayoutStart(ctx, "layered", 7)
	h.OnLayoutComplete(ctx, "layered", 3*time.Millisecond)
	h.OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	h.OnRenderComplete(ctx, "svg", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1, testutil.CollectAndCount(h.BuildDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(h.LayoutDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.RenderErrors.WithLabelValues("svg")))
}

func TestPrometheusHooksCache(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(prometheus.NewRegistry())

	h.OnCacheMiss(ctx, "diagram")
	h.OnCacheSet(ctx, "diagram", 512)
	h.OnCacheHit(ctx, "diagram")
	h.OnCacheHit(ctx, "diagram")

	assert.Equal(t, 2.0, testutil.ToFloat64(h.CacheRequests.WithLabelValues("diagram", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.CacheRequests.WithLabelValues("diagram", "miss")))
	assert.Equal(t, 512.0, testutil.ToFloat64(h.CacheBytes.WithLabelValues("diagram")))
}

func TestPrometheusHooksHTTP(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(prometheus.NewRegistry())

	h.OnRequest(ctx, "POST", "/v1/layout")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.HTTPRequestsInFlight))

	h.OnResponse(ctx, "POST", "/v1/layout", 400, 5*time.Millisecond)
	h.OnError(ctx, "/v1/layout", "INVALID_MODEL")

	assert.Equal(t, 0.0, testutil.ToFloat64(h.HTTPRequestsInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layout", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.HTTPErrors.WithLabelValues("/v1/layout", "INVALID_MODEL")))
}

func TestPrometheusHooksInstall(t *testing.T) {
	t.Cleanup(Reset)
	h := NewPrometheusHooks(prometheus.NewRegistry())
	h.Install()

	require.Same(t, h, Pipeline())
	require.Same(t, h, Cache())
	require.Same(t, h, HTTP())
}

func TestPrometheusHooksRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)
	assert.Panics(t, func() { NewPrometheusHooks(reg) })
}
