// Package exec implements the engine's execution-time stacks: the value
// stack of 64-bit cells and the bounded call stack of function activations.
package exec

import (
	"fmt"

	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/ir"
)

// DefaultMaxValueStackCells is the default maximum value-stack length (1 MiB
// of 8-byte cells), matching spec.md §3's "Value stack" description.
const DefaultMaxValueStackCells = (1 << 20) / 8

// ValueStack is a contiguous array of cells with an explicit stack pointer.
// Every function activation reserves exactly header.LenRegisters cells on
// entry (reserve-on-entry: no reallocation occurs mid-body as long as the
// configured maximum isn't exceeded).
type ValueStack struct {
	cells    []core.Value
	sp       int
	maxCells int
}

// NewValueStack constructs an empty value stack bounded by maxCells.
func NewValueStack(maxCells int) *ValueStack {
	if maxCells <= 0 {
		maxCells = DefaultMaxValueStackCells
	}
	return &ValueStack{maxCells: maxCells}
}

// StackPtr returns the current stack pointer (number of cells in use).
func (v *ValueStack) StackPtr() int { return v.sp }

// Reserve grows the stack by n zero-initialized cells, as a function
// activation does on entry for its full register count. It returns
// core.TrapStackOverflow if doing so would exceed the configured maximum.
func (v *ValueStack) Reserve(n int) (frameBase int, trap *core.Trap) {
	if v.sp+n > v.maxCells {
		return 0, core.NewTrap(core.TrapStackOverflow)
	}
	base := v.sp
	for len(v.cells) < base+n {
		v.cells = append(v.cells, 0)
	}
	for i := base; i < base+n; i++ {
		v.cells[i] = 0
	}
	v.sp = base + n
	return base, nil
}

// Truncate drops the stack pointer back to base, as a return does to
// unreserve a callee's frame.
func (v *ValueStack) Truncate(base int) {
	if base > v.sp {
		panic(fmt.Sprintf("exec: Truncate(%d) past stack pointer %d", base, v.sp))
	}
	v.sp = base
}

// Get reads the cell at frameBase+slot.
func (v *ValueStack) Get(frameBase int, slot ir.Slot) core.Value {
	return v.cells[frameBase+int(slot)]
}

// Set writes val to the cell at frameBase+slot.
func (v *ValueStack) Set(frameBase int, slot ir.Slot, val core.Value) {
	v.cells[frameBase+int(slot)] = val
}

// InBounds reports whether slot addresses a cell within [frameBase,
// frameBase+lenRegisters) — the "slot region isolation" invariant spec.md §8
// names as a testable property. It validates only the per-frame cell region;
// frames have no const-pool region to check.
func (v *ValueStack) InBounds(frameBase int, lenRegisters uint16, slot ir.Slot) bool {
	return int(slot) < int(lenRegisters) && frameBase+int(slot) < len(v.cells)
}
