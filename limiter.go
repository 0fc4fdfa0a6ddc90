package wasmi

import "github.com/wasmigo/wasmi/internal/wasm"

// ResourceLimiter is consulted before a memory or table is allowed to grow,
// per spec.md §5's "the ResourceLimiter contract" and SUPPLEMENTED FEATURES
// item 2 (ported from original_source/crates/core/src/limiter.rs). See
// internal/wasm.ResourceLimiter's doc comment for the full method contract.
type ResourceLimiter = wasm.ResourceLimiter

// LimiterError enumerates why a ResourceLimiter denied or failed a growth
// request.
type LimiterError = wasm.LimiterError

const (
	LimiterErrorOutOfSystemMemory = wasm.LimiterErrorOutOfSystemMemory
	LimiterErrorOutOfBoundsGrowth = wasm.LimiterErrorOutOfBoundsGrowth
	LimiterErrorDeniedAllocation  = wasm.LimiterErrorDeniedAllocation
	LimiterErrorOutOfFuel         = wasm.LimiterErrorOutOfFuel
)

// ErrGrowthDenied is returned by Memory.Grow/Table.Grow when the underlying
// growth attempt fails, per spec.md §6's "grow returns the previous size or
// an error." The caller inspects the ResourceLimiter directly (via
// MemoryGrowFailed/TableGrowFailed callbacks) for the specific LimiterError;
// this sentinel only marks that growth did not happen.
var ErrGrowthDenied = wasm.ErrGrowthDenied
