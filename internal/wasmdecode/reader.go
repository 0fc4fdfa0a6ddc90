package wasmdecode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wasmigo/wasmi/internal/leb128"
)

var (
	magic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// ErrInvalidMagic is returned when the input doesn't begin with the Wasm
// binary magic number and version.
var ErrInvalidMagic = errors.New("wasmdecode: not a wasm binary (bad magic/version)")

type sectionID byte

const (
	secCustom sectionID = iota
	secType
	secImport
	secFunction
	secTable
	secMemory
	secGlobal
	secExport
	secStart
	secElement
	secCode
	secData
)

// reader wraps a byte slice with a cursor and the leb128 helpers.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) byteReader() *bytes.Reader { return bytes.NewReader(r.buf[r.pos:]) }

func (r *reader) advance(n uint64) { r.pos += int(n) }

func (r *reader) u8() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) bytesN(n uint32) ([]byte, error) {
	if r.pos+int(n) > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) u32leb() (uint32, error) {
	br := r.byteReader()
	v, n, err := leb128.DecodeUint32(br)
	if err != nil {
		return 0, err
	}
	r.advance(n)
	return v, nil
}

func (r *reader) s33leb() (int64, error) {
	br := r.byteReader()
	v, n, err := leb128.DecodeInt33AsInt64(br)
	if err != nil {
		return 0, err
	}
	r.advance(n)
	return v, nil
}

func (r *reader) name() (string, error) {
	n, err := r.u32leb()
	if err != nil {
		return "", err
	}
	b, err := r.bytesN(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) valType() (ValType, error) {
	b, err := r.u8()
	if err != nil {
		return 0, err
	}
	return ValType(b), nil
}

func (r *reader) limits() (Limits, error) {
	flag, err := r.u8()
	if err != nil {
		return Limits{}, err
	}
	min, err := r.u32leb()
	if err != nil {
		return Limits{}, err
	}
	lim := Limits{Min: min}
	if flag == 1 {
		max, err := r.u32leb()
		if err != nil {
			return Limits{}, err
		}
		lim.Max = max
		lim.HasMax = true
	}
	return lim, nil
}

// constExpr reads a constant-expression byte stream up to and including its
// terminating 0x0B (end) opcode, without evaluating it.
func (r *reader) constExpr() ([]byte, error) {
	start := r.pos
	depth := 1
	for depth > 0 {
		op, err := r.u8()
		if err != nil {
			return nil, err
		}
		switch op {
		case 0x0B: // end
			depth--
		case 0x41: // i32.const
			if _, err := r.s33leb(); err != nil {
				return nil, err
			}
		case 0x42: // i64.const
			br := r.byteReader()
			_, n, err := leb128.DecodeInt64(br)
			if err != nil {
				return nil, err
			}
			r.advance(n)
		case 0x43: // f32.const
			if _, err := r.bytesN(4); err != nil {
				return nil, err
			}
		case 0x44: // f64.const
			if _, err := r.bytesN(8); err != nil {
				return nil, err
			}
		case 0x23: // global.get
			if _, err := r.u32leb(); err != nil {
				return nil, err
			}
		case 0xD0: // ref.null
			if _, err := r.valType(); err != nil {
				return nil, err
			}
		case 0xD2: // ref.func
			if _, err := r.u32leb(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("wasmdecode: unsupported const-expr opcode 0x%02x", op)
		}
	}
	return r.buf[start:r.pos], nil
}

// Decode structurally decodes a complete .wasm binary. It performs no
// validation beyond what is required to find section/body boundaries.
func Decode(data []byte) (*Module, error) {
	if len(data) < 8 || !bytes.Equal(data[:4], magic[:]) || !bytes.Equal(data[4:8], version[:]) {
		return nil, ErrInvalidMagic
	}
	r := &reader{buf: data, pos: 8}
	m := &Module{}

	for r.pos < len(r.buf) {
		id, err := r.u8()
		if err != nil {
			return nil, err
		}
		size, err := r.u32leb()
		if err != nil {
			return nil, err
		}
		secEnd := r.pos + int(size)
		if secEnd > len(r.buf) {
			return nil, io.ErrUnexpectedEOF
		}
		if err := decodeSection(r, sectionID(id), secEnd, m); err != nil {
			return nil, fmt.Errorf("wasmdecode: section %d: %w", id, err)
		}
		r.pos = secEnd
	}
	return m, nil
}

func decodeSection(r *reader, id sectionID, end int, m *Module) error {
	switch id {
	case secCustom:
		return nil // skipped entirely; not needed to drive the translator
	case secType:
		return decodeTypeSection(r, m)
	case secImport:
		return decodeImportSection(r, m)
	case secFunction:
		return decodeFunctionSection(r, m)
	case secTable:
		return decodeTableSection(r, m)
	case secMemory:
		return decodeMemorySection(r, m)
	case secGlobal:
		return decodeGlobalSection(r, m)
	case secExport:
		return decodeExportSection(r, m)
	case secStart:
		idx, err := r.u32leb()
		if err != nil {
			return err
		}
		m.Start = &idx
		return nil
	case secElement:
		return decodeElementSection(r, m)
	case secCode:
		return decodeCodeSection(r, m)
	case secData:
		return decodeDataSection(r, m)
	default:
		return nil
	}
}

func decodeTypeSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		tag, err := r.u8()
		if err != nil {
			return err
		}
		if tag != 0x60 {
			return fmt.Errorf("wasmdecode: expected func type tag 0x60, got 0x%02x", tag)
		}
		numParams, err := r.u32leb()
		if err != nil {
			return err
		}
		params := make([]ValType, numParams)
		for j := range params {
			if params[j], err = r.valType(); err != nil {
				return err
			}
		}
		numResults, err := r.u32leb()
		if err != nil {
			return err
		}
		results := make([]ValType, numResults)
		for j := range results {
			if results[j], err = r.valType(); err != nil {
				return err
			}
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func decodeImportSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		mod, err := r.name()
		if err != nil {
			return err
		}
		name, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.u8()
		if err != nil {
			return err
		}
		imp := Import{Module: mod, Name: name, Kind: ImportKind(kind)}
		switch ImportKind(kind) {
		case ImportFunc:
			if imp.TypeIdx, err = r.u32leb(); err != nil {
				return err
			}
		case ImportTable:
			if imp.RefType, err = r.valType(); err != nil {
				return err
			}
			if imp.Limits, err = r.limits(); err != nil {
				return err
			}
		case ImportMemory:
			if imp.Limits, err = r.limits(); err != nil {
				return err
			}
		case ImportGlobal:
			if imp.ValType, err = r.valType(); err != nil {
				return err
			}
			mutByte, err := r.u8()
			if err != nil {
				return err
			}
			imp.Mutable = mutByte == 1
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func decodeFunctionSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		idx, err := r.u32leb()
		if err != nil {
			return err
		}
		m.Funcs = append(m.Funcs, idx)
	}
	return nil
}

func decodeTableSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		rt, err := r.valType()
		if err != nil {
			return err
		}
		lim, err := r.limits()
		if err != nil {
			return err
		}
		m.Tables = append(m.Tables, Table{RefType: rt, Limits: lim})
	}
	return nil
}

func decodeMemorySection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		lim, err := r.limits()
		if err != nil {
			return err
		}
		m.Mems = append(m.Mems, Memory{Limits: lim})
	}
	return nil
}

func decodeGlobalSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		vt, err := r.valType()
		if err != nil {
			return err
		}
		mutByte, err := r.u8()
		if err != nil {
			return err
		}
		init, err := r.constExpr()
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, Global{ValType: vt, Mutable: mutByte == 1, Init: init})
	}
	return nil
}

func decodeExportSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		name, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.u8()
		if err != nil {
			return err
		}
		idx, err := r.u32leb()
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: ImportKind(kind), Index: idx})
	}
	return nil
}

func decodeElementSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		flags, err := r.u32leb()
		if err != nil {
			return err
		}
		seg := ElemSegment{Active: true}
		switch flags {
		case 0:
			seg.Offset, err = r.constExpr()
			if err != nil {
				return err
			}
			count, err := r.u32leb()
			if err != nil {
				return err
			}
			for j := uint32(0); j < count; j++ {
				idx, err := r.u32leb()
				if err != nil {
					return err
				}
				seg.FuncIdxs = append(seg.FuncIdxs, idx)
			}
		default:
			return fmt.Errorf("wasmdecode: unsupported element segment flags %d", flags)
		}
		m.Elems = append(m.Elems, seg)
	}
	return nil
}

func decodeCodeSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		bodySize, err := r.u32leb()
		if err != nil {
			return err
		}
		bodyEnd := r.pos + int(bodySize)
		numLocalDecls, err := r.u32leb()
		if err != nil {
			return err
		}
		var locals []LocalDecl
		for j := uint32(0); j < numLocalDecls; j++ {
			count, err := r.u32leb()
			if err != nil {
				return err
			}
			vt, err := r.valType()
			if err != nil {
				return err
			}
			locals = append(locals, LocalDecl{Count: count, ValType: vt})
		}
		body := append([]byte(nil), r.buf[r.pos:bodyEnd]...)
		r.pos = bodyEnd
		m.Code = append(m.Code, Code{Locals: locals, Body: body})
	}
	return nil
}

func decodeDataSection(r *reader, m *Module) error {
	n, err := r.u32leb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		flags, err := r.u32leb()
		if err != nil {
			return err
		}
		seg := DataSegment{Active: true}
		switch flags {
		case 0:
			seg.Offset, err = r.constExpr()
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("wasmdecode: unsupported data segment flags %d", flags)
		}
		size, err := r.u32leb()
		if err != nil {
			return err
		}
		b, err := r.bytesN(size)
		if err != nil {
			return err
		}
		seg.Bytes = append([]byte(nil), b...)
		m.Data = append(m.Data, seg)
	}
	return nil
}
