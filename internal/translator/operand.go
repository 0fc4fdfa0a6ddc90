package translator

import (
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// operandKind discriminates the three provenances an Operand can have,
// mirroring original_source/crates/wasmi/src/engine/translator/func/stack/operand.rs.
type operandKind uint8

const (
	operandLocal operandKind = iota
	operandTemp
	operandImmediate
)

// Operand is one entry of the translator's operand stack, mirroring Wasm's
// stack-machine value stack at translation time.
type Operand struct {
	kind operandKind
	ty   wasmdecode.ValType

	// localIdx is valid when kind == operandLocal.
	localIdx uint32
	// slot is valid when kind == operandTemp.
	slot ir.Slot
	// imm is valid when kind == operandImmediate: the raw bit pattern.
	imm uint64
}

// LocalOperand constructs an operand reading directly from a local slot.
func LocalOperand(idx uint32, ty wasmdecode.ValType) Operand {
	return Operand{kind: operandLocal, localIdx: idx, ty: ty}
}

// TempOperand constructs an operand living in a temp slot.
func TempOperand(slot ir.Slot, ty wasmdecode.ValType) Operand {
	return Operand{kind: operandTemp, slot: slot, ty: ty}
}

// ImmediateOperand constructs an operand not yet materialized into a slot.
func ImmediateOperand(bits uint64, ty wasmdecode.ValType) Operand {
	return Operand{kind: operandImmediate, imm: bits, ty: ty}
}

// IsImmediate reports whether the operand is a not-yet-materialized constant.
func (o Operand) IsImmediate() bool { return o.kind == operandImmediate }

// IsLocal reports whether the operand reads directly from a local slot.
func (o Operand) IsLocal() bool { return o.kind == operandLocal }

// Type returns the operand's Wasm value type.
func (o Operand) Type() wasmdecode.ValType { return o.ty }

// ImmediateBits returns the operand's raw bit pattern. Valid only when
// IsImmediate.
func (o Operand) ImmediateBits() uint64 { return o.imm }

// LocalIndex returns the operand's local index. Valid only when IsLocal.
func (o Operand) LocalIndex() uint32 { return o.localIdx }

// OperandStack mirrors the Wasm operand stack at translation time. Binary
// operators pop two operands: if both are Immediate and isIntegerFoldable
// accepts the operator they constant-fold; otherwise a fresh temp is
// allocated for the result.
type OperandStack struct {
	entries []Operand
	layout  *StackLayout
	// firstLocalUse maps a local index to the stack height at which it was
	// first pushed as Operand{Local}; used to detect when a later
	// local.set/tee to that same local must materialize the pending Local
	// operand into a Temp first, preserving Wasm's stack-value semantics in
	// the register model (spec.md §4.E's "first operand for each local"
	// side table).
	firstLocalUse map[uint32][]int
}

// NewOperandStack constructs an empty operand stack bound to layout.
func NewOperandStack(layout *StackLayout) *OperandStack {
	return &OperandStack{layout: layout, firstLocalUse: make(map[uint32][]int)}
}

// Height returns the number of operands currently on the stack.
func (s *OperandStack) Height() int { return len(s.entries) }

// PushLocal pushes a Local(idx) operand, recording it for later
// materialization tracking.
func (s *OperandStack) PushLocal(idx uint32, ty wasmdecode.ValType) {
	s.entries = append(s.entries, LocalOperand(idx, ty))
	s.firstLocalUse[idx] = append(s.firstLocalUse[idx], len(s.entries)-1)
}

// PushTemp pushes a Temp(slot) operand.
func (s *OperandStack) PushTemp(slot ir.Slot, ty wasmdecode.ValType) {
	s.entries = append(s.entries, TempOperand(slot, ty))
}

// PushImmediate pushes an Immediate(bits) operand.
func (s *OperandStack) PushImmediate(bits uint64, ty wasmdecode.ValType) {
	s.entries = append(s.entries, ImmediateOperand(bits, ty))
}

// Pop removes and returns the top operand.
func (s *OperandStack) Pop() Operand {
	n := len(s.entries)
	op := s.entries[n-1]
	s.entries = s.entries[:n-1]
	if op.kind == operandLocal {
		s.dropFirstLocalUse(op.localIdx, n-1)
	}
	return op
}

// Peek returns the top operand without removing it.
func (s *OperandStack) Peek() Operand { return s.entries[len(s.entries)-1] }

// PeekAt returns the operand at depth n from the top (0 = top).
func (s *OperandStack) PeekAt(n int) Operand { return s.entries[len(s.entries)-1-n] }

// Truncate drops the stack back to height, used when a control frame exits
// and its operand-stack contribution above the frame's entry height is
// discarded (e.g. after an unconditional branch).
func (s *OperandStack) Truncate(height int) {
	for len(s.entries) > height {
		s.Pop()
	}
}

func (s *OperandStack) dropFirstLocalUse(idx uint32, pos int) {
	uses := s.firstLocalUse[idx]
	for i, p := range uses {
		if p == pos {
			s.firstLocalUse[idx] = append(uses[:i], uses[i+1:]...)
			return
		}
	}
}

// LocalIsObserved reports whether idx currently has a pending Local operand
// on the stack — i.e. whether a write to local idx right now would be
// observed through that stale stack entry and therefore requires
// materialization first.
func (s *OperandStack) LocalIsObserved(idx uint32) bool {
	return len(s.firstLocalUse[idx]) > 0
}

// MaterializeLocal rewrites every pending Local(idx) operand on the stack
// into a Temp holding a copy of the local's current value, via emitCopy
// (called once per occurrence, in stack order). Returns the number of
// operands materialized.
func (s *OperandStack) MaterializeLocal(idx uint32, emitCopy func(from ir.Slot) ir.Slot) int {
	positions := s.firstLocalUse[idx]
	if len(positions) == 0 {
		return 0
	}
	fromSlot := s.layout.LocalSlot(idx)
	for _, pos := range positions {
		newSlot := emitCopy(fromSlot)
		ty := s.entries[pos].ty
		s.entries[pos] = TempOperand(newSlot, ty)
	}
	delete(s.firstLocalUse, idx)
	return len(positions)
}
