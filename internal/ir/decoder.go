package ir

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfBytes is returned when the decoder's cursor runs past the end of
// the stream while reading a field.
var ErrOutOfBytes = errors.New("ir: out of bytes")

// ErrInvalidBitPattern is returned when a discriminant (opcode, trap code)
// decodes to a value outside its declared range.
var ErrInvalidBitPattern = errors.New("ir: invalid bit pattern")

// Decoder reads Instructions from a byte slice at an explicit cursor. It is
// total on streams produced by Encoder (the encoder's inverse property);
// decoding a stream that was not produced by the encoder, or one truncated
// mid-instruction, yields ErrOutOfBytes or ErrInvalidBitPattern.
type Decoder struct {
	buf    []byte
	cursor uint32
}

// NewDecoder constructs a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder { return &Decoder{buf: buf} }

// Seek repositions the cursor to an explicit byte offset, as used when a
// branch is taken.
func (d *Decoder) Seek(off uint32) { d.cursor = off }

// Pos returns the decoder's current byte offset.
func (d *Decoder) Pos() uint32 { return d.cursor }

func (d *Decoder) need(n uint32) error {
	if d.cursor+n > uint32(len(d.buf)) {
		return ErrOutOfBytes
	}
	return nil
}

func (d *Decoder) getU8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.cursor]
	d.cursor++
	return v, nil
}

func (d *Decoder) getU16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.buf[d.cursor:])
	d.cursor += 2
	return v, nil
}

func (d *Decoder) getU32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.buf[d.cursor:])
	d.cursor += 4
	return v, nil
}

func (d *Decoder) getU64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.buf[d.cursor:])
	d.cursor += 8
	return v, nil
}

// Next decodes the instruction at the current cursor, advancing past it.
func (d *Decoder) Next() (Instruction, error) {
	var inst Instruction

	opRaw, err := d.getU16()
	if err != nil {
		return inst, err
	}
	op := Opcode(opRaw)
	if !op.Valid() {
		return inst, ErrInvalidBitPattern
	}
	inst.Op = op

	result, err := d.getU16()
	if err != nil {
		return inst, err
	}
	inst.Result = Slot(result)

	lhs, err := d.getU16()
	if err != nil {
		return inst, err
	}
	inst.Lhs = Slot(lhs)

	rhs, err := d.getU16()
	if err != nil {
		return inst, err
	}
	inst.Rhs = Slot(rhs)

	imm, err := d.getU64()
	if err != nil {
		return inst, err
	}
	inst.Imm = imm

	immUsed, err := d.getU8()
	if err != nil {
		return inst, err
	}
	inst.ImmUsed = immUsed != 0

	binOp, err := d.getU8()
	if err != nil {
		return inst, err
	}
	inst.BinOp = BinaryOp(binOp)

	unOp, err := d.getU8()
	if err != nil {
		return inst, err
	}
	inst.UnOp = UnaryOp(unOp)

	cmpOp, err := d.getU8()
	if err != nil {
		return inst, err
	}
	inst.CmpOp = CompareOp(cmpOp)

	ty, err := d.getU8()
	if err != nil {
		return inst, err
	}
	inst.Type = ValueType(ty)

	branch, err := d.getU32()
	if err != nil {
		return inst, err
	}
	inst.Branch = BranchOffset(int32(branch))

	numTargets, err := d.getU32()
	if err != nil {
		return inst, err
	}
	if numTargets > 0 {
		inst.Targets = make([]BranchOffset, numTargets)
		for i := range inst.Targets {
			t, err := d.getU32()
			if err != nil {
				return inst, err
			}
			inst.Targets[i] = BranchOffset(int32(t))
		}
	}

	offset, err := d.getU16()
	if err != nil {
		return inst, err
	}
	inst.Offset = Offset16(offset)

	memIdx, err := d.getU32()
	if err != nil {
		return inst, err
	}
	inst.Mem = MemArg{MemoryIndex: memIdx}

	spanHead, err := d.getU16()
	if err != nil {
		return inst, err
	}
	inst.Span = SlotSpan{Head: Slot(spanHead)}

	spanLen, err := d.getU16()
	if err != nil {
		return inst, err
	}
	inst.SpanLen = spanLen

	funcIdx, err := d.getU32()
	if err != nil {
		return inst, err
	}
	inst.FuncIdx = funcIdx

	typeIdx, err := d.getU32()
	if err != nil {
		return inst, err
	}
	inst.TypeIdx = typeIdx

	tableIdx, err := d.getU32()
	if err != nil {
		return inst, err
	}
	inst.TableIdx = tableIdx

	globalIdx, err := d.getU32()
	if err != nil {
		return inst, err
	}
	inst.GlobalIdx = globalIdx

	fuel, err := d.getU64()
	if err != nil {
		return inst, err
	}
	inst.Fuel = BlockFuel(fuel)

	laneIdx, err := d.getU8()
	if err != nil {
		return inst, err
	}
	laneN, err := d.getU8()
	if err != nil {
		return inst, err
	}
	inst.Lane = ImmLaneIdx{idx: laneIdx, n: laneN}

	trapCode, err := d.getU8()
	if err != nil {
		return inst, err
	}
	// 10 is core.TrapGrowthOperationLimited, the last trap kind.
	if trapCode > 10 {
		return inst, ErrInvalidBitPattern
	}
	inst.TrapCode = trapCode

	return inst, nil
}
