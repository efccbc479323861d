package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/airvair/stampgraph/pkg/cache"
	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/layout"
	"github.com/airvair/stampgraph/pkg/model"
	"github.com/airvair/stampgraph/pkg/observability"
	"github.com/airvair/stampgraph/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the memoization rules live in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Build turns a model into unpositioned nodes and edges.
func (r *Runner) Build(ctx context.Context, m model.Model, opts Options) graph.Diagram {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(m.Controllers))
	start := time.Now()
	d := graph.Build(m, opts.Build)
	elapsed := time.Since(start)
	hooks.OnBuildComplete(ctx, len(d.Nodes), len(d.Edges), elapsed)

	r.Logger.Debug("built diagram",
		"nodes", len(d.Nodes),
		"edges", len(d.Edges),
		"duration", elapsed)
	return d
}

// Layout positions a built diagram.
func (r *Runner) Layout(ctx context.Context, d graph.Diagram, opts Options) graph.Diagram {
	lopts := opts.Layout
	if lopts.Logger == nil {
		lopts.Logger = r.Logger
	}
	ranker := opts.RankerName()

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, ranker, len(d.Nodes))
	start := time.Now()
	out := layout.Layout(d, lopts)
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, ranker, elapsed)

	r.Logger.Debug("computed layout",
		"ranker", ranker,
		"width", out.Width,
		"height", out.Height,
		"duration", elapsed)
	return out
}

// DiagramWithCacheInfo builds and lays out a model, memoized on the model
// hash and options, and reports whether the result came from the cache.
func (r *Runner) DiagramWithCacheInfo(ctx context.Context, m model.Model, opts Options) (graph.Diagram, bool, error) {
	modelHash, err := r.modelHash(m)
	if err != nil {
		return graph.Diagram{}, false, err
	}
	key := r.Keyer.DiagramKey(modelHash, cache.DiagramKeyOpts{
		Builder: opts.Build.Sizes,
		Layout:  opts.Layout,
		Ranker:  opts.RankerName(),
		Failure: opts.Build.ShowFailurePaths,
	})

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "diagram", key); ok {
			if d, err := graph.ReadDiagram(bytes.NewReader(data)); err == nil {
				return d, true, nil
			}
			r.Logger.Warn("discarding unreadable cached diagram", "key", key)
		}
	}

	d := r.Layout(ctx, r.Build(ctx, m, opts), opts)

	if data, err := graph.MarshalDiagram(d); err == nil {
		r.store(ctx, "diagram", key, data, TTLDiagram)
	}
	return d, false, nil
}

// Diagram is DiagramWithCacheInfo without the cache hit flag.
func (r *Runner) Diagram(ctx context.Context, m model.Model, opts Options) (graph.Diagram, error) {
	d, _, err := r.DiagramWithCacheInfo(ctx, m, opts)
	return d, err
}

// DOT returns the Graphviz preview of a model. Graphviz positions the
// preview itself, so only the build options take part in the key.
func (r *Runner) DOT(ctx context.Context, m model.Model, opts Options) (string, error) {
	modelHash, err := r.modelHash(m)
	if err != nil {
		return "", err
	}
	key := r.Keyer.DOTKey(modelHash, cache.DOTKeyOpts{
		Builder:  opts.Build.Sizes,
		Failure:  opts.Build.ShowFailurePaths,
		Detailed: opts.Detailed,
	})

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "dot", key); ok {
			return string(data), nil
		}
	}

	dot := nodelink.ToDOT(r.Build(ctx, m, opts), nodelink.Options{Detailed: opts.Detailed})
	r.store(ctx, "dot", key, []byte(dot), TTLDOT)
	return dot, nil
}

// Render produces a model in one of the output formats.
func (r *Runner) Render(ctx context.Context, m model.Model, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := r.render(ctx, m, format, opts)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("rendered output", "format", format, "bytes", len(data))
	return data, nil
}

func (r *Runner) render(ctx context.Context, m model.Model, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		d, err := r.Diagram(ctx, m, opts)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := graph.WriteDiagram(d, &buf); err != nil {
			return nil, formatErr(format, err)
		}
		return buf.Bytes(), nil
	case FormatDOT:
		dot, err := r.DOT(ctx, m, opts)
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	case FormatSVG:
		dot, err := r.DOT(ctx, m, opts)
		if err != nil {
			return nil, err
		}
		svg, err := nodelink.RenderSVG(dot)
		if err != nil {
			return nil, formatErr(format, err)
		}
		return svg, nil
	}
	return nil, ValidateFormat(format)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) modelHash(m model.Model) (string, error) {
	data, err := model.Marshal(m)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// lookup reads a key, treating backend errors as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		hit = false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		r.Logger.Debug("cache miss", "type", keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	r.Logger.Debug("cache hit", "type", keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
