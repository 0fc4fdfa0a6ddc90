package wasmi

import (
	"github.com/wasmigo/wasmi/internal/interpreter"
	"github.com/wasmigo/wasmi/internal/wasm"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// Instance is a module's live, instantiated state, produced by
// Linker.Instantiate. Func/Global/Table/Memory handles are obtained from it
// by export name.
type Instance struct {
	module  *Module
	raw     *wasm.Instance
	machine *interpreter.Machine
}

// ExportedFunc returns the Func bound to the named export, or false if no
// such export exists or it does not name a function.
func (i *Instance) ExportedFunc(name string) (*Func, bool) {
	idx, ok := i.raw.Module.ExportedFunc(name)
	if !ok {
		return nil, false
	}
	return &Func{inst: i, idx: idx, typ: i.raw.Funcs[idx].Type}, true
}

// ExportedMemory returns the Memory bound to the named export, or false.
func (i *Instance) ExportedMemory(name string) (*Memory, bool) {
	for _, e := range i.raw.Module.Exports {
		if e.Name == name && e.Kind == wasmdecode.ImportMemory {
			return &Memory{raw: i.raw.Memories[e.Index]}, true
		}
	}
	return nil, false
}

// ExportedTable returns the Table bound to the named export, or false.
func (i *Instance) ExportedTable(name string) (*Table, bool) {
	for _, e := range i.raw.Module.Exports {
		if e.Name == name && e.Kind == wasmdecode.ImportTable {
			return &Table{raw: i.raw.Tables[e.Index]}, true
		}
	}
	return nil, false
}

// ExportedGlobal returns the Global bound to the named export, or false.
func (i *Instance) ExportedGlobal(name string) (*Global, bool) {
	for _, e := range i.raw.Module.Exports {
		if e.Name == name && e.Kind == wasmdecode.ImportGlobal {
			return &Global{raw: i.raw.Globals[e.Index]}, true
		}
	}
	return nil, false
}
