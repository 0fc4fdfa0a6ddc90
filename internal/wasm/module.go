package wasm

import (
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// Module is a module image after translation: every locally defined
// function's compiled code, the shared type pool, import/export
// descriptors, and the table/memory/global/segment declarations Instantiate
// consumes. Grounded on spec.md §4.H ("A module image after translation
// owns: the code map slice for its functions, the FuncType pool,
// import/export descriptors, table/memory/global types, data/element
// segments, and an optional start-function index").
type Module struct {
	Types []wasmdecode.FuncType

	// Code holds every locally defined function's compiled instructions,
	// shared across every instance of this module.
	Code *ir.CodeMap

	// NumFuncImports is how many entries of the module's function index
	// space (imports first, then locally defined functions) are imports.
	NumFuncImports int
	// FuncTypeIdx[i] is the type index of module-global function i, for
	// every i in the function index space (imports and locals alike).
	FuncTypeIdx []uint32
	// FuncHandles[i] is the compiled code handle for locally defined
	// function i (i.e. FuncTypeIdx[NumFuncImports+i]'s handle); empty for
	// imports, which resolve to host or other-instance code instead.
	FuncHandles []ir.FuncBodyHandle

	Imports []wasmdecode.Import
	Exports []wasmdecode.Export
	Tables  []wasmdecode.Table
	Mems    []wasmdecode.Memory
	Globals []wasmdecode.Global
	Elems   []wasmdecode.ElemSegment
	Data    []wasmdecode.DataSegment

	// Start is the start-function index in the module's function index
	// space, or nil if the module declares none.
	Start *uint32
}

// ExportedFunc returns the function index an export name refers to, if any
// export by that name names a function.
func (m *Module) ExportedFunc(name string) (idx uint32, ok bool) {
	for _, e := range m.Exports {
		if e.Kind == wasmdecode.ImportFunc && e.Name == name {
			return e.Index, true
		}
	}
	return 0, false
}
