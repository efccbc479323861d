package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airvair/stampgraph/pkg/cache"
	sgerrors "github.com/airvair/stampgraph/pkg/errors"
	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, graph.DefaultSizes(), cfg.Builder)
	assert.Equal(t, float64(layout.DefaultConvergenceMinDelta), cfg.Layout.ConvergenceMinDelta)
}

func TestDecode(t *testing.T) {
	src := `
[builder]
node_width = 200
spacing = 40

[layout]
ranker = "layered"
convergence_min_delta = 5
show_failure_paths = true

[cache]
backend = "memory"
size = 16
ttl = "90m"

[server]
addr = "127.0.0.1:9000"
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.Builder.NodeWidth)
	assert.Equal(t, 40.0, cfg.Builder.Spacing)
	assert.Equal(t, float64(graph.DefaultNodeHeight), cfg.Builder.NodeHeight, "unset keys keep defaults")
	assert.Equal(t, "layered", cfg.Layout.Ranker)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	opts, err := cfg.LayoutOptions()
	require.NoError(t, err)
	assert.Equal(t, "layered", opts.Ranker.Name())
	assert.Equal(t, 5.0, opts.ConvergenceMinDelta)

	bo := cfg.BuildOptions()
	assert.True(t, bo.ShowFailurePaths)
	assert.Equal(t, 200.0, bo.Sizes.NodeWidth)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Syntax", "[layout\nranker = 1"},
		{"UnknownKey", "[layout]\nrankr = \"layered\""},
		{"UnknownRanker", "[layout]\nranker = \"force\""},
		{"UnknownBackend", "[cache]\nbackend = \"memcached\""},
		{"NegativeSpacing", "[builder]\nspacing = -1"},
		{"ZeroWidth", "[builder]\nnode_width = 0"},
		{"EmptyAddr", "[server]\naddr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, sgerrors.Is(err, sgerrors.ErrCodeInvalidConfig), "code = %s", sgerrors.GetCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("[layout]\nmin_spacing = 12\n"), 0644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Layout.MinSpacing)

	require.NoError(t, os.WriteFile(path, []byte("[layout]\nmin_spacing = -3\n"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, path)
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	cfg, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestCacheOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Cache{Backend: "none"}.Open(ctx)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, c)

	c, err = Cache{Backend: "memory", Size: 4}.Open(ctx)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)

	dir := filepath.Join(t.TempDir(), "diagrams")
	c, err = Cache{Backend: "file", Dir: dir}.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, dir, c.(*cache.FileCache).Dir())

	_, err = Cache{Backend: "tape"}.Open(ctx)
	assert.True(t, sgerrors.Is(err, sgerrors.ErrCodeInvalidConfig))
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "stampgraph"), dir)
}
