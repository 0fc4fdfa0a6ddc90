// Package wasm implements the module image produced by translation
// (component E's output, bundled with its type pool and segment tables) and
// the live instance state an interpreter executes against: memories,
// tables, globals, and the resolved function index space. It also owns the
// ResourceLimiter contract instantiation honors when allocating or growing
// those resources.
package wasm

import (
	"errors"
	"fmt"
)

// ErrGrowthDenied is returned by the root package's Memory.Grow/Table.Grow
// wrappers when Memory.Grow/Table.Grow's ok return is false, regardless of
// the specific reason (limiter policy, declared maximum, or host allocator
// failure) — a component consulting the limiter directly can distinguish
// those via LimiterError instead.
var ErrGrowthDenied = errors.New("wasm: growth denied")

// LimiterError enumerates why a ResourceLimiter denied or failed a growth
// request, ported from original_source/crates/core/src/limiter.rs's
// LimiterError enum (ResourceLimiterDeniedAllocation there is named
// LimiterErrorDeniedAllocation here to match this package's naming).
type LimiterError uint8

const (
	// LimiterErrorOutOfSystemMemory means the host allocator itself failed.
	LimiterErrorOutOfSystemMemory LimiterError = iota
	// LimiterErrorOutOfBoundsGrowth means desired size exceeds the
	// resource's own declared maximum, independent of the limiter's policy.
	LimiterErrorOutOfBoundsGrowth
	// LimiterErrorDeniedAllocation means a ResourceLimiter returned
	// allow=false for an otherwise in-bounds growth request.
	LimiterErrorDeniedAllocation
	// LimiterErrorOutOfFuel means the growth request itself ran the
	// store's fuel counter negative (host-side bookkeeping, not a Wasm
	// ConsumeFuel instruction).
	LimiterErrorOutOfFuel
)

func (e LimiterError) Error() string {
	switch e {
	case LimiterErrorOutOfSystemMemory:
		return "out of system memory"
	case LimiterErrorOutOfBoundsGrowth:
		return "out of bounds growth"
	case LimiterErrorDeniedAllocation:
		return "resource limiter denied allocation"
	case LimiterErrorOutOfFuel:
		return "not enough fuel for growth"
	default:
		return fmt.Sprintf("limiter error %d", uint8(e))
	}
}

// ResourceLimiter is consulted by Memory.Grow and Table.Grow (and by initial
// allocation during Instantiate) before a resource is allowed to grow.
// Ported from ResourceLimiter in original_source/crates/core/src/limiter.rs;
// Go reshapes the trait's Option<usize> maximum into an explicit (max,
// hasMax) pair, matching wasmdecode.Limits' own shape.
type ResourceLimiter interface {
	// MemoryGrowing is notified before a memory grows from current to
	// desired size, both counted in pages, as is maximum. Returning allow=false
	// denies the growth without it being an error (memory.grow returns -1);
	// a non-nil err instead traps the requesting instruction.
	MemoryGrowing(current, desired, maximum uint32, hasMax bool) (allow bool, err error)
	// TableGrowing is the table analogue of MemoryGrowing, in element
	// counts rather than pages.
	TableGrowing(current, desired, maximum uint32, hasMax bool) (allow bool, err error)
	// MemoryGrowFailed is called by Memory.Grow with the non-nil error
	// MemoryGrowing returned, just before that growth is abandoned.
	MemoryGrowFailed(err error)
	// TableGrowFailed is the table analogue of MemoryGrowFailed.
	TableGrowFailed(err error)
	// Instances/Tables/Memories report how many of each a single Store may
	// hold. Nothing in this module calls them: neither the Store nor
	// Instantiate checks these counts.
	Instances() int
	Tables() int
	Memories() int
}
