// Package ir implements the engine's register-machine bytecode: instruction
// opcodes, slot/span/offset types, the code map holding every compiled
// function's encoded bytes, and the encoder/decoder that translate between
// typed instruction structs and their packed byte representation.
package ir

import "fmt"

// Slot is a 16-bit index into a function's cell region on the value stack.
// Cell 0 is always the first function parameter; locals follow; temporaries
// follow locals.
type Slot uint16

// SlotSpan is a contiguous range of slots addressed by its head slot; its
// length is carried separately where needed (see BoundedSlotSpan).
type SlotSpan struct {
	Head Slot
}

// At returns the i'th slot of the span.
func (s SlotSpan) At(i uint16) Slot { return Slot(uint16(s.Head) + i) }

// BoundedSlotSpan pairs a SlotSpan with an explicit length.
type BoundedSlotSpan struct {
	Span SlotSpan
	Len  uint16
}

// Slots returns the individual slots covered by the span.
func (b BoundedSlotSpan) Slots() []Slot {
	out := make([]Slot, b.Len)
	for i := range out {
		out[i] = b.Span.At(uint16(i))
	}
	return out
}

// BranchOffset is a signed 32-bit byte offset added to the instruction
// pointer when a branch is taken.
type BranchOffset int32

// Offset16 is a 16-bit unsigned memory offset used by packed load/store
// instruction forms.
type Offset16 uint16

// Address is a 64-bit effective memory address, bounded to platform usize at
// construction (checked by the caller prior to use).
type Address uint64

// BlockFuel is a 64-bit non-negative counter attached to ConsumeFuel
// instructions.
type BlockFuel uint64

// ImmLaneIdx is a bound-checked inline lane index for v128 lane instructions,
// N being the lane count of the operand shape it indexes into.
type ImmLaneIdx struct {
	idx uint8
	n   uint8
}

// NewImmLaneIdx validates idx against the lane count n and constructs the
// immediate. It panics on an out-of-range lane index: lane bounds are a
// translation-time invariant, never a runtime condition.
func NewImmLaneIdx(idx, n uint8) ImmLaneIdx {
	if idx >= n {
		panic(fmt.Sprintf("ir: lane index %d out of bounds for %d lanes", idx, n))
	}
	return ImmLaneIdx{idx: idx, n: n}
}

// Index returns the validated lane index.
func (l ImmLaneIdx) Index() uint8 { return l.idx }

// MemArg describes a load/store instruction's memory operand. It holds only
// the memory index; the offset travels separately in Instruction.Offset.
type MemArg struct {
	// MemoryIndex is the accessed memory, 0 for the common "memory 0" case.
	// Every index is encoded the same way, at the same fixed width.
	MemoryIndex uint32
}

// IsDefaultMemory reports whether this MemArg uses the memory-0 shorthand.
func (m MemArg) IsDefaultMemory() bool { return m.MemoryIndex == 0 }
