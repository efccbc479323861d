package layout

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default layout constants, in diagram units.
const (
	DefaultRankSeparation      = 100
	DefaultNodeSeparation      = 60
	DefaultMinSpacing          = 40
	DefaultRankTolerance       = 10
	DefaultChildSpacing        = 60
	DefaultConvergenceMinDelta = 20
)

// ConvergeAlways disables the Phase C minimum delta guard when used as
// Options.ConvergenceMinDelta, so every convergence nudge is applied.
const ConvergeAlways = -1

// Options configures a Layout call. Zero numeric fields fall back to the
// defaults above, so Options{} behaves like DefaultOptions(). A negative
// ConvergenceMinDelta (see ConvergeAlways) applies every nudge.
type Options struct {
	// Ranker computes Phase A. Nil selects GraphvizRanker with
	// LayeredRanker as fallback.
	Ranker Ranker `toml:"-" json:"-"`

	RankSeparation      float64 `toml:"rank_separation" json:"rankSeparation"`
	NodeSeparation      float64 `toml:"node_separation" json:"nodeSeparation"`
	MinSpacing          float64 `toml:"min_spacing" json:"minSpacing"`
	RankTolerance       float64 `toml:"rank_tolerance" json:"rankTolerance"`
	ChildSpacing        float64 `toml:"child_spacing" json:"childSpacing"`
	ConvergenceMinDelta float64 `toml:"convergence_min_delta" json:"convergenceMinDelta"`

	// Logger receives phase statistics at debug level and ranker fallbacks
	// at warn level. Nil discards.
	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		RankSeparation:      DefaultRankSeparation,
		NodeSeparation:      DefaultNodeSeparation,
		MinSpacing:          DefaultMinSpacing,
		RankTolerance:       DefaultRankTolerance,
		ChildSpacing:        DefaultChildSpacing,
		ConvergenceMinDelta: DefaultConvergenceMinDelta,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.RankSeparation <= 0 {
		o.RankSeparation = def.RankSeparation
	}
	if o.NodeSeparation <= 0 {
		o.NodeSeparation = def.NodeSeparation
	}
	if o.MinSpacing <= 0 {
		o.MinSpacing = def.MinSpacing
	}
	if o.RankTolerance <= 0 {
		o.RankTolerance = def.RankTolerance
	}
	if o.ChildSpacing <= 0 {
		o.ChildSpacing = def.ChildSpacing
	}
	if o.ConvergenceMinDelta == 0 {
		o.ConvergenceMinDelta = def.ConvergenceMinDelta
	}
	if o.Ranker == nil {
		o.Ranker = Fallback{Primary: GraphvizRanker{}, Secondary: LayeredRanker{}}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}
