package wasmi

import "go.uber.org/zap"

// Engine holds the Config every Store/Module derived from it inherits, and
// the logger built from it. It holds no compiled code: each Module is
// compiled into a code map of its own (see compile in module.go). Mirrors
// spec.md §6's
// "Engine with a Config"; wazero's Runtime plays the same role here, split
// per spec.md's naming into Engine (compilation) and Store[T] (instance
// state), rather than wazero's single combined Runtime type.
type Engine struct {
	config *Config
	log    *zap.Logger
}

// NewEngine constructs an Engine from cfg. A nil cfg uses NewConfig()'s
// defaults.
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Engine{config: cfg, log: cfg.logOrNop()}
}

// Config returns the Config this Engine was built from.
func (e *Engine) Config() *Config { return e.config }
