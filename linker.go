package wasmi

import (
	"fmt"

	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/interpreter"
	"github.com/wasmigo/wasmi/internal/wasm"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// HostFunc is a host-defined function importable into a linked Module. It
// receives the Store it was defined against, giving it access to Data(), and
// returns a Trap (never a Go error) on failure, per spec.md §7: "a trap from
// a host function carries the host's error payload opaquely."
type HostFunc[T any] func(store *Store[T], args []Value) ([]Value, *Trap)

// Linker wires a Module's imports to host functions, globals, memories, and
// tables by (module, name) pair, then instantiates the result. Mirrors
// spec.md §6's "Linker<T> for import wiring by (module, name) pairs, with
// duplicate-definition errors" (grounded on wazero's builder.go/namespace.go
// import-resolution idiom, generalized to this engine's Store[T]/FuncRef
// shapes).
type Linker[T any] struct {
	store   *Store[T]
	imports *wasm.Imports
	defined map[string]struct{}
}

// NewLinker constructs an empty Linker bound to store; host functions
// defined through it receive store at call time.
func NewLinker[T any](store *Store[T]) *Linker[T] {
	return &Linker[T]{store: store, imports: wasm.NewImports(), defined: map[string]struct{}{}}
}

func (l *Linker[T]) markDefined(kind, module, name string) error {
	key := kind + "\x00" + module + "\x00" + name
	if _, dup := l.defined[key]; dup {
		return fmt.Errorf("%w: %s %s.%s", ErrDuplicateDefinition, kind, module, name)
	}
	l.defined[key] = struct{}{}
	return nil
}

// DefineFunc registers a host function importable under (module, name).
func (l *Linker[T]) DefineFunc(module, name string, ft wasmdecode.FuncType, fn HostFunc[T]) error {
	if err := l.markDefined("func", module, name); err != nil {
		return err
	}
	l.imports.DefineFunc(module, name, wasm.FuncRef{
		Type: ft,
		Host: func(args []core.Value) ([]core.Value, *core.Trap) { return fn(l.store, args) },
	})
	return nil
}

// DefineGlobal registers a host-owned global importable under (module, name).
func (l *Linker[T]) DefineGlobal(module, name string, g *Global) error {
	if err := l.markDefined("global", module, name); err != nil {
		return err
	}
	l.imports.DefineGlobal(module, name, g.raw)
	return nil
}

// DefineMemory registers a host-owned memory importable under
// (module, name).
func (l *Linker[T]) DefineMemory(module, name string, m *Memory) error {
	if err := l.markDefined("memory", module, name); err != nil {
		return err
	}
	l.imports.DefineMemory(module, name, m.raw)
	return nil
}

// DefineTable registers a host-owned table importable under (module, name).
func (l *Linker[T]) DefineTable(module, name string, t *Table) error {
	if err := l.markDefined("table", module, name); err != nil {
		return err
	}
	l.imports.DefineTable(module, name, t.raw)
	return nil
}

// Instantiate resolves mod's imports against every definition registered so
// far, allocates its own tables/memories/globals, applies active element
// and data segments, and — unlike internal/wasm.Instantiate, which
// deliberately stops short of this (see that package's doc comment) — runs
// the module's start function if it declares one, unwinding instantiation
// on a start-function trap per spec.md §4.H.
func (l *Linker[T]) Instantiate(mod *Module) (*Instance, error) {
	raw, err := wasm.Instantiate(mod.image, l.imports, l.store.limiter())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstantiation, err)
	}

	inst := &Instance{module: mod, raw: raw, machine: l.store.machine}

	if mod.image.Start != nil {
		if _, trap := l.callStart(*mod.image.Start, inst.machine, raw); trap != nil {
			return nil, fmt.Errorf("%w: start function: %w", ErrInstantiation, trap)
		}
	}

	return inst, nil
}

func (l *Linker[T]) callStart(idx uint32, machine *interpreter.Machine, raw *wasm.Instance) ([]core.Value, *core.Trap) {
	return machine.Call(raw, idx, nil)
}
