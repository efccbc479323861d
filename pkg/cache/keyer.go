package cache

// Keyer derives cache keys. Model hashes are computed by the caller from
// the canonical model encoding; options are folded into the key so that a
// change to any layout constant misses.
type Keyer interface {
	DiagramKey(modelHash string, opts DiagramKeyOpts) string
	DOTKey(modelHash string, opts DOTKeyOpts) string
}

// DiagramKeyOpts are the inputs besides the model that determine a
// positioned diagram.
type DiagramKeyOpts struct {
	Builder any    `json:"builder"`
	Layout  any    `json:"layout"`
	Ranker  string `json:"ranker"`
	Failure bool   `json:"failure"`
}

// DOTKeyOpts are the inputs besides the model that determine a DOT preview.
type DOTKeyOpts struct {
	Builder  any  `json:"builder"`
	Failure  bool `json:"failure"`
	Detailed bool `json:"detailed"`
}

// DefaultKeyer produces "diagram:<hash>" and "dot:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DiagramKey(modelHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", modelHash, opts)
}

func (DefaultKeyer) DOTKey(modelHash string, opts DOTKeyOpts) string {
	return hashKey("dot", modelHash, opts)
}
