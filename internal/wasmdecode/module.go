// Package wasmdecode implements a minimal, non-validating structural reader
// for the Wasm binary format. spec.md places the Wasm parser/validator
// outside this engine's core ("a dependency boundary — we consume validated
// Wasm events"); this package is the thin structural front end that lets the
// CLI and integration tests drive the translator from a real .wasm byte
// stream, per SPEC_FULL.md's supplemented-features section. It decodes
// section framing, vectors, and LEB128 integers; it performs no control-flow
// or type-soundness validation.
package wasmdecode

// ValType is a Wasm value type as it appears on the wire.
type ValType byte

const (
	ValTypeI32       ValType = 0x7F
	ValTypeI64       ValType = 0x7E
	ValTypeF32       ValType = 0x7D
	ValTypeF64       ValType = 0x7C
	ValTypeV128      ValType = 0x7B
	ValTypeFuncRef   ValType = 0x70
	ValTypeExternRef ValType = 0x6F
)

// FuncType is a function signature: parameter and result value types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports structural equality, used to check import signatures and
// call_indirect targets.
func (f FuncType) Equal(other FuncType) bool {
	if len(f.Params) != len(other.Params) || len(f.Results) != len(other.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != other.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != other.Results[i] {
			return false
		}
	}
	return true
}

// ImportKind tags the kind of entity an import or export refers to.
type ImportKind byte

const (
	ImportFunc ImportKind = iota
	ImportTable
	ImportMemory
	ImportGlobal
)

// Import is one entry of the import section.
type Import struct {
	Module string
	Name   string
	Kind   ImportKind
	// TypeIdx is the type index of a func import and stays 0 for other
	// kinds, whose declared type is carried in Limits, ValType/Mutable or
	// RefType instead.
	TypeIdx    uint32
	Limits     Limits
	ValType    ValType
	Mutable    bool
	RefType    ValType
}

// Limits describes a table or memory's min/max size.
type Limits struct {
	Min     uint32
	Max     uint32
	HasMax  bool
}

// Table is a declared (non-imported) table.
type Table struct {
	RefType ValType
	Limits  Limits
}

// Memory is a declared (non-imported) linear memory.
type Memory struct {
	Limits Limits
}

// Global is a declared (non-imported) global, with its constant
// initializer expression left as a raw operator stream for the translator
// to evaluate.
type Global struct {
	ValType ValType
	Mutable bool
	Init    []byte
}

// Export is one entry of the export section.
type Export struct {
	Name  string
	Kind  ImportKind
	Index uint32
}

// ElemSegment is one entry of the element section.
type ElemSegment struct {
	TableIdx uint32
	Offset   []byte // const-expr, active segments only
	Active   bool
	FuncIdxs []uint32
}

// DataSegment is one entry of the data section.
type DataSegment struct {
	MemIdx uint32
	Offset []byte // const-expr, active segments only
	Active bool
	Bytes  []byte
}

// LocalDecl is one run-length-encoded local declaration in a function body.
type LocalDecl struct {
	Count   uint32
	ValType ValType
}

// Code is one function body: its locals declarations plus the raw operator
// byte stream (not including the function's own size prefix).
type Code struct {
	Locals []LocalDecl
	Body   []byte
}

// Module is the fully-decoded structural form of a .wasm binary.
type Module struct {
	Types   []FuncType
	Imports []Import
	// Funcs holds the type index for each module-defined (non-imported)
	// function, in declaration order.
	Funcs   []uint32
	Tables  []Table
	Mems    []Memory
	Globals []Global
	Exports []Export
	// Start is the start-function index, or nil if the module declares none.
	Start *uint32
	Elems []ElemSegment
	Code  []Code
	Data  []DataSegment
}

// NumFuncImports returns how many of Module.Imports are function imports,
// used to translate a func index into either an import slot or a Code slot.
func (m *Module) NumFuncImports() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == ImportFunc {
			n++
		}
	}
	return n
}
