package wasmdecode

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wasmigo/wasmi/internal/leb128"
)

// Wasm opcode bytes this package understands. Named after the Wasm MVP
// instruction mnemonics; spec.md's translator (component E) consumes these
// one at a time from OpReader.Next.
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpBlock       byte = 0x02
	OpLoop        byte = 0x03
	OpIf          byte = 0x04
	OpElse        byte = 0x05
	OpEnd         byte = 0x0B
	OpBr          byte = 0x0C
	OpBrIf        byte = 0x0D
	OpBrTable     byte = 0x0E
	OpReturn      byte = 0x0F
	OpCall        byte = 0x10
	OpCallIndirect byte = 0x11
	OpDrop        byte = 0x1A
	OpSelect      byte = 0x1B

	OpLocalGet  byte = 0x20
	OpLocalSet  byte = 0x21
	OpLocalTee  byte = 0x22
	OpGlobalGet byte = 0x23
	OpGlobalSet byte = 0x24

	OpI32Load byte = 0x28
	OpI64Load byte = 0x29
	OpF32Load byte = 0x2A
	OpF64Load byte = 0x2B

	OpI32Store byte = 0x36
	OpI64Store byte = 0x37
	OpF32Store byte = 0x38
	OpF64Store byte = 0x39

	OpMemorySize byte = 0x3F
	OpMemoryGrow byte = 0x40

	OpI32Const byte = 0x41
	OpI64Const byte = 0x42
	OpF32Const byte = 0x43
	OpF64Const byte = 0x44

	// 0x45 - 0xC4: comparisons and arithmetic, handled by the translator's
	// classify (internal/translator/classify.go) rather than named
	// individually here.
)

// BlockType describes a structured block's signature in its encoded form:
// either empty (no params, no results), a single value type result, or a
// function-type index naming both params and results.
type BlockType struct {
	Empty   bool
	Single  ValType
	HasType bool
	TypeIdx uint32
}

// MemArg is a load/store instruction's alignment hint and byte offset.
type MemArg struct {
	Align  uint32
	Offset uint32
}

// Op is one decoded operator from a function body's instruction stream.
type Op struct {
	Code byte

	Block BlockType

	LocalIdx  uint32
	GlobalIdx uint32
	FuncIdx   uint32
	TypeIdx   uint32
	TableIdx  uint32

	I32 int32
	I64 int64
	F32 uint32 // raw bits
	F64 uint64 // raw bits

	Mem MemArg

	BrTargets []uint32
	BrDefault uint32
}

// OpReader streams Ops from a function body's raw instruction bytes.
type OpReader struct {
	buf []byte
	pos int
}

// NewOpReader constructs a reader over a function body's operator stream (as
// produced in Code.Body — excludes the locals-declaration prefix, which the
// caller has already consumed).
func NewOpReader(body []byte) *OpReader { return &OpReader{buf: body} }

// Done reports whether the stream is exhausted.
func (r *OpReader) Done() bool { return r.pos >= len(r.buf) }

func (r *OpReader) byteReader() *bytes.Reader { return bytes.NewReader(r.buf[r.pos:]) }

func (r *OpReader) u8() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("wasmdecode: truncated operator stream")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *OpReader) u32leb() (uint32, error) {
	v, n, err := leb128.DecodeUint32(r.byteReader())
	if err != nil {
		return 0, err
	}
	r.pos += int(n)
	return v, nil
}

func (r *OpReader) i32leb() (int32, error) {
	v, n, err := leb128.DecodeInt32(r.byteReader())
	if err != nil {
		return 0, err
	}
	r.pos += int(n)
	return v, nil
}

func (r *OpReader) i64leb() (int64, error) {
	v, n, err := leb128.DecodeInt64(r.byteReader())
	if err != nil {
		return 0, err
	}
	r.pos += int(n)
	return v, nil
}

func (r *OpReader) s33leb() (int64, error) {
	v, n, err := leb128.DecodeInt33AsInt64(r.byteReader())
	if err != nil {
		return 0, err
	}
	r.pos += int(n)
	return v, nil
}

func (r *OpReader) bytesN(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("wasmdecode: truncated operator stream")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *OpReader) blockType() (BlockType, error) {
	v, err := r.s33leb()
	if err != nil {
		return BlockType{}, err
	}
	if v == -0x40 { // 0x40 encoded as signed: empty block type
		return BlockType{Empty: true}, nil
	}
	if v < 0 {
		// A negative s33 other than -0x40 encodes a value type byte
		// (value types are encoded as small negative numbers in LEB form).
		return BlockType{Single: ValType(v & 0x7f)}, nil
	}
	return BlockType{HasType: true, TypeIdx: uint32(v)}, nil
}

func (r *OpReader) memArg() (MemArg, error) {
	align, err := r.u32leb()
	if err != nil {
		return MemArg{}, err
	}
	offset, err := r.u32leb()
	if err != nil {
		return MemArg{}, err
	}
	return MemArg{Align: align, Offset: offset}, nil
}

// Next decodes the next operator from the stream.
func (r *OpReader) Next() (Op, error) {
	code, err := r.u8()
	if err != nil {
		return Op{}, err
	}
	op := Op{Code: code}

	switch code {
	case OpBlock, OpLoop, OpIf:
		op.Block, err = r.blockType()
	case OpBr, OpBrIf:
		op.LocalIdx, err = r.u32leb() // relative branch depth, reuses LocalIdx field
	case OpBrTable:
		count, cErr := r.u32leb()
		if cErr != nil {
			return op, cErr
		}
		op.BrTargets = make([]uint32, count)
		for i := range op.BrTargets {
			if op.BrTargets[i], err = r.u32leb(); err != nil {
				return op, err
			}
		}
		op.BrDefault, err = r.u32leb()
	case OpCall:
		op.FuncIdx, err = r.u32leb()
	case OpCallIndirect:
		op.TypeIdx, err = r.u32leb()
		op.TableIdx, err = r.u32leb()
	case OpLocalGet, OpLocalSet, OpLocalTee:
		op.LocalIdx, err = r.u32leb()
	case OpGlobalGet, OpGlobalSet:
		op.GlobalIdx, err = r.u32leb()
	case OpMemorySize, OpMemoryGrow:
		_, err = r.u32leb() // reserved memory-index byte, always 0 in MVP
	case OpI32Const:
		op.I32, err = r.i32leb()
	case OpI64Const:
		op.I64, err = r.i64leb()
	case OpF32Const:
		var b []byte
		b, err = r.bytesN(4)
		if err == nil {
			op.F32 = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		}
	case OpF64Const:
		var b []byte
		b, err = r.bytesN(8)
		if err == nil {
			var v uint64
			for i := 0; i < 8; i++ {
				v |= uint64(b[i]) << (8 * i)
			}
			op.F64 = v
		}
	default:
		if isLoadOrStore(code) {
			op.Mem, err = r.memArg()
		}
		// All other opcodes (arithmetic, comparisons, drop, select, end,
		// else, return, unreachable, nop) carry no immediate operands.
	}
	if err != nil {
		return op, err
	}
	return op, nil
}

func isLoadOrStore(code byte) bool {
	return code >= 0x28 && code <= 0x3E
}

// f32FromBits and f64FromBits are small readability helpers used by callers
// that need the native float for diagnostics (the translator itself works
// in bit patterns via core.F32/core.F64).
func f32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }
func f64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }
