package exec

import (
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasm"
)

// DefaultMaxRecursionDepth is the default call-stack recursion bound,
// matching wasmi's DEFAULT_MAX_RECURSION_DEPTH (original_source/crates/wasmi/
// src/engine/executor/stack/calls.rs) and spec.md §3's "Call stack"
// description.
const DefaultMaxRecursionDepth = 1024

// CallFrame is a single activation record: the interpreter's saved program
// counter, the base of this frame's cell region (FrameBase), the alias used
// by tail calls to shift params down (BaseBase), the span where the caller
// expects results to land, and the instance the frame executes against.
type CallFrame struct {
	InstrPtr   ir.InstructionPtr
	FrameBase  int
	BaseBase   int
	Results    ir.SlotSpan
	ResultsLen uint16
	// Instance is the instance this frame's code executes against: call and
	// call_indirect may cross instance boundaries (calling an imported
	// function defined in another instance), so the owning instance must
	// travel with the frame rather than being assumed constant.
	Instance *wasm.Instance
}

// MoveDown shifts the frame's FrameBase/BaseBase down by delta, as a tail
// call does to reuse the caller's frame slot instead of pushing a new one.
func (f *CallFrame) MoveDown(delta int) {
	f.FrameBase -= delta
	f.BaseBase -= delta
}

// CallStack is a bounded vector of CallFrames. Depth is capped by
// recursionLimit; push past that bound traps with core.TrapStackOverflow.
// The root frame (index 0) is never popped by a normal return — popping it
// signals the outer execute loop that the top-level call has finished.
type CallStack struct {
	frames []CallFrame
	limit  int
}

// NewCallStack constructs an empty call stack bounded by limit (0 uses
// DefaultMaxRecursionDepth).
func NewCallStack(limit int) *CallStack {
	if limit <= 0 {
		limit = DefaultMaxRecursionDepth
	}
	return &CallStack{limit: limit}
}

// Len returns the current call-stack depth.
func (c *CallStack) Len() int { return len(c.frames) }

// Push appends frame, trapping with StackOverflow if doing so would exceed
// the configured recursion limit.
func (c *CallStack) Push(frame CallFrame) *core.Trap {
	if len(c.frames) >= c.limit {
		return core.NewTrap(core.TrapStackOverflow)
	}
	c.frames = append(c.frames, frame)
	return nil
}

// Pop removes and returns the top frame. The caller uses the returned
// boolean to detect when the root frame itself was just popped (execution
// finished).
func (c *CallStack) Pop() (frame CallFrame, wasRoot bool) {
	n := len(c.frames)
	frame = c.frames[n-1]
	c.frames = c.frames[:n-1]
	return frame, n == 1
}

// Peek returns the top frame without removing it.
func (c *CallStack) Peek() *CallFrame {
	return &c.frames[len(c.frames)-1]
}

// Peek2 returns (callee, caller) — the top frame and the one beneath it, for
// return-value plumbing. caller is nil when callee is the root frame.
func (c *CallStack) Peek2() (callee, caller *CallFrame) {
	n := len(c.frames)
	callee = &c.frames[n-1]
	if n >= 2 {
		caller = &c.frames[n-2]
	}
	return callee, caller
}
