package ir

import (
	"encoding/binary"
	"fmt"
)

// OpPos is a byte offset into an Encoder's output, returned from every push
// and used as a label-patch target.
type OpPos uint32

// Encoder packs Instructions into a byte buffer in a fixed field order per
// opcode. Every instruction's fields are written in full (rather than the
// variable per-operand-provenance specializations the original Rust
// implementation chooses at translation time) — see DESIGN.md component C/D
// for this scope decision; the round-trip and branch-offset-validity
// properties spec.md §8 names are unaffected by field width.
type Encoder struct {
	buf []byte
}

// NewEncoder constructs an empty encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Pos returns the current write position, usable as an OpPos.
func (e *Encoder) Pos() OpPos { return OpPos(len(e.buf)) }

// Bytes returns the encoder's output so far.
func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) putU8(v uint8)   { e.buf = append(e.buf, v) }
func (e *Encoder) putU16(v uint16) { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }
func (e *Encoder) putU32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *Encoder) putU64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }

// Push appends inst and returns the OpPos at which it begins (usable as a
// branch target or a label-patch site).
func (e *Encoder) Push(inst Instruction) OpPos {
	pos := e.Pos()
	if !inst.Op.Valid() {
		panic(fmt.Sprintf("ir: encoding invalid opcode %d", inst.Op))
	}
	e.putU16(uint16(inst.Op))
	e.putU16(uint16(inst.Result))
	e.putU16(uint16(inst.Lhs))
	e.putU16(uint16(inst.Rhs))
	e.putU64(inst.Imm)
	if inst.ImmUsed {
		e.putU8(1)
	} else {
		e.putU8(0)
	}
	e.putU8(uint8(inst.BinOp))
	e.putU8(uint8(inst.UnOp))
	e.putU8(uint8(inst.CmpOp))
	e.putU8(uint8(inst.Type))
	e.putU32(uint32(inst.Branch))
	e.putU32(uint32(len(inst.Targets)))
	for _, t := range inst.Targets {
		e.putU32(uint32(t))
	}
	e.putU16(uint16(inst.Offset))
	e.putU32(inst.Mem.MemoryIndex)
	e.putU16(uint16(inst.Span.Head))
	e.putU16(inst.SpanLen)
	e.putU32(inst.FuncIdx)
	e.putU32(inst.TypeIdx)
	e.putU32(inst.TableIdx)
	e.putU32(inst.GlobalIdx)
	e.putU64(uint64(inst.Fuel))
	e.putU8(inst.Lane.idx)
	e.putU8(inst.Lane.n)
	e.putU8(inst.TrapCode)
	return pos
}

// PatchBranch rewrites the Branch offset field of the instruction beginning
// at pos. Used by LabelRegistry when a forward-referenced label is pinned.
func (e *Encoder) PatchBranch(pos OpPos, offset BranchOffset) {
	// Branch sits after: opcode(2) result(2) lhs(2) rhs(2) imm(8) immUsed(1)
	// binop(1) unop(1) cmpop(1) type(1) = 21 bytes in.
	const branchFieldOffset = 21
	at := int(pos) + branchFieldOffset
	binary.LittleEndian.PutUint32(e.buf[at:at+4], uint32(offset))
}

// RewriteOp overwrites the opcode discriminant of the instruction beginning
// at pos, used by the translator's compare-fusion peephole (Compare →
// CmpBranch) once it discovers, one instruction later, that the comparison's
// result is consumed directly by a br_if rather than materialized.
func (e *Encoder) RewriteOp(pos OpPos, op Opcode) {
	binary.LittleEndian.PutUint16(e.buf[pos:pos+2], uint16(op))
}

// PatchFuel rewrites the Fuel field of a ConsumeFuel instruction beginning at
// pos. Valid only for instructions encoded with an empty Targets slice (true
// of every ConsumeFuel the translator emits), since Targets' variable width
// would otherwise shift the Fuel field's offset.
func (e *Encoder) PatchFuel(pos OpPos, fuel BlockFuel) {
	const fuelFieldOffset = 21 + 4 + 4 + 2 + 4 + 2 + 2 + 4 + 4 + 4 + 4
	at := int(pos) + fuelFieldOffset
	binary.LittleEndian.PutUint64(e.buf[at:at+8], uint64(fuel))
}
