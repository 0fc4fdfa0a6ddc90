package wasm

import (
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// HostFunc is a host-defined function importable by a Wasm module. Args and
// results are the cell-encoded core.Value form the interpreter already
// speaks, so calling a host function costs no extra marshaling step at the
// Wasm/host boundary.
type HostFunc func(args []core.Value) ([]core.Value, *core.Trap)

// FuncRef resolves one entry of an instance's function index space to
// either locally compiled code or a host function. Type is carried directly
// on the value rather than as an index into some owner's type pool, since a
// host function has no owner to index into and the interpreter needs the
// signature (argument/result arity) at every call site regardless of which
// kind of function it resolves to.
type FuncRef struct {
	Type wasmdecode.FuncType

	// Local code, valid when Host == nil: Owner is the instance whose Code
	// map holds Handle (itself, for a locally defined function; an
	// imported instance, for a re-exported one).
	Owner  *Instance
	Handle ir.FuncBodyHandle

	Host HostFunc
}

// IsHost reports whether this entry calls out to host code.
func (f FuncRef) IsHost() bool { return f.Host != nil }

// Instance is a module's live, instantiated state: its resolved function
// index space plus its own memories/tables/globals. Grounded on spec.md
// §4.H's instantiation description; "the store owns its memory/table/global
// arenas" (§5) is realized by every Instance's Memories/Tables/Globals being
// owned here rather than shared.
type Instance struct {
	Module *Module

	Funcs   []FuncRef
	Memories []*Memory
	Tables   []*Table
	Globals  []*Global
}
