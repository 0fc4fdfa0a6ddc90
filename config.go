// Package wasmi is a register-IR WebAssembly interpreter: a single-pass
// translator from Wasm bytecode to a compact instruction encoding (internal/ir),
// executed by an explicit-stack dispatch loop (internal/interpreter). This
// package is the embedder surface spec.md §6 describes: Engine/Config,
// Module, Store[T], Linker[T], and the Func/Global/Table/Memory handles.
package wasmi

import (
	"go.uber.org/zap"

	"github.com/wasmigo/wasmi/internal/exec"
	"github.com/wasmigo/wasmi/internal/wasm"
)

// CompilationMode names when a module's functions are translated from Wasm
// bytecode to the register IR, per spec.md §6's "compilation mode: eager /
// lazy-translation / lazy".
type CompilationMode uint8

const (
	// CompilationModeEager translates every function at NewModule time.
	// NewModule does not read the configured mode, so every CompilationMode
	// behaves like this one: lazy and lazy-translation are accepted for
	// CLI/Config surface parity, and no mode defers translation to a
	// function's first call.
	CompilationModeEager CompilationMode = iota
	// CompilationModeLazyTranslation is accepted and translates eagerly,
	// exactly like CompilationModeEager.
	CompilationModeLazyTranslation
	// CompilationModeLazy is accepted and decodes and translates eagerly,
	// exactly like CompilationModeEager.
	CompilationModeLazy
)

// Config controls engine-wide behavior: Wasm feature toggles, fuel metering,
// compilation mode, and resource bounds. Following wazero's RuntimeConfig
// (config.go), a Config is built by chaining With* methods that each return a
// new value, never mutating the receiver.
type Config struct {
	compilationMode    CompilationMode
	fuelEnabled        bool
	maxValueStackCells int
	maxRecursionDepth  int
	limiter            wasm.ResourceLimiter
	logger             *zap.Logger

	// The feature* fields record the WithFeature* settings. Neither
	// translation nor instantiation reads them, so the flags do not change
	// which modules are accepted or how they run.
	featureMultiValue         bool
	featureSignExtensionOps   bool
	featureNonTrappingFToI    bool
	featureBulkMemory         bool
	featureReferenceTypes     bool
	featureTailCall           bool
	featureExtendedConst      bool
	featureMultiMemory        bool
	featureMutableGlobal      bool
}

// NewConfig returns the default Config: eager compilation, fuel metering
// disabled, the defaults inherited from internal/exec
// (DefaultMaxValueStackCells, DefaultMaxRecursionDepth), and the features
// that finished in the Wasm 1.0 (20191205) recommendation enabled, mirroring
// wazero's engineLessConfig default feature set.
func NewConfig() *Config {
	return &Config{
		compilationMode:    CompilationModeEager,
		maxValueStackCells: exec.DefaultMaxValueStackCells,
		maxRecursionDepth:  exec.DefaultMaxRecursionDepth,
		featureMutableGlobal: true,
	}
}

func (c *Config) clone() *Config {
	cp := *c
	return &cp
}

// WithCompilationMode records the compilation mode. See CompilationModeEager:
// every mode translates eagerly.
func (c *Config) WithCompilationMode(mode CompilationMode) *Config {
	ret := c.clone()
	ret.compilationMode = mode
	return ret
}

// WithFuel enables fuel metering. The actual fuel budget is set per call via
// Store.SetFuel; enabling it here only controls whether the translator emits
// ConsumeFuel instructions and the interpreter checks them.
func (c *Config) WithFuel(enabled bool) *Config {
	ret := c.clone()
	ret.fuelEnabled = enabled
	return ret
}

// WithMaxValueStackCells bounds the interpreter's value stack, in 8-byte
// cells, across every frame of a single call tree.
func (c *Config) WithMaxValueStackCells(cells int) *Config {
	ret := c.clone()
	ret.maxValueStackCells = cells
	return ret
}

// WithMaxRecursionDepth bounds the interpreter's call stack depth. Exceeding
// it traps with TrapStackOverflow, per spec.md §8's "call stack boundedness"
// property.
func (c *Config) WithMaxRecursionDepth(depth int) *Config {
	ret := c.clone()
	ret.maxRecursionDepth = depth
	return ret
}

// WithResourceLimiter installs the ResourceLimiter every Store created from
// this Config uses to police memory and table growth.
func (c *Config) WithResourceLimiter(limiter wasm.ResourceLimiter) *Config {
	ret := c.clone()
	ret.limiter = limiter
	return ret
}

// WithLogger installs a *zap.Logger used for diagnostic translation and
// instantiation messages. Never consulted on the interpreter hot path (see
// SPEC_FULL.md's AMBIENT STACK section); nil (the default) disables logging
// via zap.NewNop().
func (c *Config) WithLogger(logger *zap.Logger) *Config {
	ret := c.clone()
	ret.logger = logger
	return ret
}

// WithFeatureBulkMemory records the bulk-memory-operations flag
// (memory.fill/copy/init, table.fill/copy/init); see Config's feature fields.
func (c *Config) WithFeatureBulkMemory(enabled bool) *Config {
	ret := c.clone()
	ret.featureBulkMemory = enabled
	return ret
}

// WithFeatureReferenceTypes records the reference-types flag
// (funcref/externref, table.get/set/grow/size); see Config's feature fields.
func (c *Config) WithFeatureReferenceTypes(enabled bool) *Config {
	ret := c.clone()
	ret.featureReferenceTypes = enabled
	return ret
}

// WithFeatureTailCall records the return_call/return_call_indirect flag; see
// Config's feature fields.
func (c *Config) WithFeatureTailCall(enabled bool) *Config {
	ret := c.clone()
	ret.featureTailCall = enabled
	return ret
}

// WithFeatureSignExtensionOps records the i32.extend8_s-and-friends flag; see
// Config's feature fields.
func (c *Config) WithFeatureSignExtensionOps(enabled bool) *Config {
	ret := c.clone()
	ret.featureSignExtensionOps = enabled
	return ret
}

// WithFeatureNonTrappingFloatToIntConversion records the flag for the
// saturating trunc_sat family; see Config's feature fields.
func (c *Config) WithFeatureNonTrappingFloatToIntConversion(enabled bool) *Config {
	ret := c.clone()
	ret.featureNonTrappingFToI = enabled
	return ret
}

// WithFeatureMultiValue records the multiple-results-per-block/function-type
// flag; see Config's feature fields.
func (c *Config) WithFeatureMultiValue(enabled bool) *Config {
	ret := c.clone()
	ret.featureMultiValue = enabled
	return ret
}

// WithFeatureMutableGlobal records the importable/exportable mutable-globals
// flag; see Config's feature fields. Defaults to true: this finished in Wasm
// 1.0.
func (c *Config) WithFeatureMutableGlobal(enabled bool) *Config {
	ret := c.clone()
	ret.featureMutableGlobal = enabled
	return ret
}

func (c *Config) logOrNop() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	return zap.NewNop()
}
