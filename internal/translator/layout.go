// Package translator implements the single-pass Wasm-stack → register-IR
// conversion: operand-stack virtualization, 3-phase slot layout, the
// control-frame stack with forward-branch label patching, and the peephole
// fusion rules spec.md §4.E names.
package translator

import (
	"fmt"

	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// StackLayout assigns the 3-phase slot order spec.md §4.E describes:
// parameters occupy Slot(0..P), locals occupy Slot(P..P+L) zero-initialized
// on entry, and temporaries occupy Slot(P+L..) via a bump allocator.
// Ported from original_source/crates/wasmi/src/engine/translator/func/layout.rs.
type StackLayout struct {
	numParams int
	numLocals int
	// minTempOffset (P+L) is the first slot available to the temp bump
	// allocator; maxTempSlot is its current cursor; maxHighWater is the
	// highest slot ever handed out (ResetTempsTo rewinds the cursor for
	// reuse across sibling control frames but never shrinks the high-water
	// mark, which becomes the header's LenRegisters).
	minTempOffset int
	maxTempSlot   int
	maxHighWater  int
	localTypes    []wasmdecode.ValType
}

// NewStackLayout constructs a layout for a function with the given
// parameter types followed by its additional local declarations (run-length
// decoded already).
func NewStackLayout(paramTypes []wasmdecode.ValType, localDecls []wasmdecode.LocalDecl) *StackLayout {
	l := &StackLayout{numParams: len(paramTypes)}
	l.localTypes = append(l.localTypes, paramTypes...)
	for _, decl := range localDecls {
		for i := uint32(0); i < decl.Count; i++ {
			l.localTypes = append(l.localTypes, decl.ValType)
		}
	}
	l.numLocals = len(l.localTypes) - l.numParams
	l.minTempOffset = len(l.localTypes)
	l.maxTempSlot = l.minTempOffset
	l.maxHighWater = l.minTempOffset
	return l
}

// LocalSlot returns the slot assigned to local index idx (0-based, including
// parameters per Wasm's local-indexing convention).
func (l *StackLayout) LocalSlot(idx uint32) ir.Slot {
	if int(idx) >= len(l.localTypes) {
		panic(fmt.Sprintf("translator: local index %d out of range (%d locals)", idx, len(l.localTypes)))
	}
	return ir.Slot(idx)
}

// LocalType returns the declared type of local index idx.
func (l *StackLayout) LocalType(idx uint32) wasmdecode.ValType {
	return l.localTypes[idx]
}

// NumParams returns the parameter count.
func (l *StackLayout) NumParams() int { return l.numParams }

// NumLocals returns the count of declared (non-parameter) locals.
func (l *StackLayout) NumLocals() int { return l.numLocals }

// AllocTemp bump-allocates and returns a fresh temporary slot.
func (l *StackLayout) AllocTemp() ir.Slot {
	s := ir.Slot(l.maxTempSlot)
	l.maxTempSlot++
	l.bumpHighWater()
	return s
}

// AllocTempSpan bump-allocates n contiguous temporary slots and returns the
// span's head.
func (l *StackLayout) AllocTempSpan(n int) ir.SlotSpan {
	head := ir.Slot(l.maxTempSlot)
	l.maxTempSlot += n
	l.bumpHighWater()
	return ir.SlotSpan{Head: head}
}

// ResetTempsTo rewinds the temp bump allocator to mark, so later
// temporaries reuse the slots above it. mark must have been obtained from
// TempMark at an earlier, dominating point. The translator does not call it:
// temporaries are allocated monotonically for the whole function.
func (l *StackLayout) ResetTempsTo(mark int) { l.maxTempSlot = mark }

// TempMark returns the current temp bump-allocator position, to be restored
// later via ResetTempsTo.
func (l *StackLayout) TempMark() int { return l.maxTempSlot }

func (l *StackLayout) bumpHighWater() {
	if l.maxTempSlot > l.maxHighWater {
		l.maxHighWater = l.maxTempSlot
	}
}

// LenRegisters returns the number of cells (len_registers) this function's
// frame must reserve on entry.
func (l *StackLayout) LenRegisters() uint16 { return uint16(l.maxHighWater) }
