package wasm

import (
	"errors"
	"fmt"

	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// Imports resolves (module, name) import requests to already-instantiated
// definitions, built by a Linker (the root package owns that wiring; this
// package only consumes the resolved result).
type Imports struct {
	Funcs    map[string]FuncRef
	Globals  map[string]*Global
	Memories map[string]*Memory
	Tables   map[string]*Table
}

func importKey(module, name string) string { return module + "\x00" + name }

// NewImports constructs an empty import set.
func NewImports() *Imports {
	return &Imports{
		Funcs:    map[string]FuncRef{},
		Globals:  map[string]*Global{},
		Memories: map[string]*Memory{},
		Tables:   map[string]*Table{},
	}
}

// DefineFunc registers a host or re-exported function as importable under
// (module, name).
func (im *Imports) DefineFunc(module, name string, f FuncRef) {
	im.Funcs[importKey(module, name)] = f
}

// DefineGlobal registers an importable global.
func (im *Imports) DefineGlobal(module, name string, g *Global) {
	im.Globals[importKey(module, name)] = g
}

// DefineMemory registers an importable memory.
func (im *Imports) DefineMemory(module, name string, m *Memory) {
	im.Memories[importKey(module, name)] = m
}

// DefineTable registers an importable table.
func (im *Imports) DefineTable(module, name string, t *Table) {
	im.Tables[importKey(module, name)] = t
}

// ErrDuplicateDefinition is returned by a Linker when two definitions
// collide on the same (module, name) pair, per spec.md §6's "Linker<T> for
// import wiring by (module, name) pairs, with duplicate-definition errors".
var ErrDuplicateDefinition = errors.New("wasm: duplicate import definition")

// ErrImportNotFound is returned by Instantiate when a module's import
// cannot be resolved against the supplied Imports.
var ErrImportNotFound = errors.New("wasm: import not found")

// ErrImportTypeMismatch is returned by Instantiate when a resolved import's
// type does not match the module's declared import type.
var ErrImportTypeMismatch = errors.New("wasm: import type mismatch")

// Instantiate resolves mod's imports against imports, allocates its locally
// declared tables/memories/globals (honoring limiter), evaluates global
// initializers and active element/data segments, and returns the resulting
// Instance. It does NOT run the module's start function: spec.md §4.H says
// a trap during start unwinds the whole instantiation, which this package
// realizes by leaving start invocation to the caller (the root package,
// which alone imports the interpreter) — an Instance this function returns
// is only "fully instantiated" once the caller has also run start
// successfully; see DESIGN.md component H for this package-boundary
// rationale.
func Instantiate(mod *Module, imports *Imports, limiter ResourceLimiter) (*Instance, error) {
	if imports == nil {
		imports = NewImports()
	}

	inst := &Instance{Module: mod}

	if err := resolveImports(mod, imports, inst); err != nil {
		return nil, err
	}

	for _, g := range mod.Globals {
		v, err := evalConstExpr(g.Init, inst.Globals)
		if err != nil {
			return nil, fmt.Errorf("wasm: global initializer: %w", err)
		}
		inst.Globals = append(inst.Globals, &Global{Type: g.ValType, Mutable: g.Mutable, Value: v})
	}

	for _, t := range mod.Tables {
		table := NewTable(t.RefType, 0, t.Limits.Max, t.Limits.HasMax)
		if _, ok := table.Grow(t.Limits.Min, NullElem, limiter); !ok {
			return nil, fmt.Errorf("wasm: initial table allocation of %d elements denied", t.Limits.Min)
		}
		inst.Tables = append(inst.Tables, table)
	}

	for _, m := range mod.Mems {
		mem := NewMemory(0, m.Limits.Max, m.Limits.HasMax)
		if _, ok := mem.Grow(m.Limits.Min, limiter); !ok {
			return nil, fmt.Errorf("wasm: initial memory allocation of %d pages denied", m.Limits.Min)
		}
		inst.Memories = append(inst.Memories, mem)
	}

	for i := range mod.FuncTypeIdx[mod.NumFuncImports:] {
		typeIdx := mod.FuncTypeIdx[mod.NumFuncImports+i]
		inst.Funcs = append(inst.Funcs, FuncRef{
			Type:   mod.Types[typeIdx],
			Owner:  inst,
			Handle: mod.FuncHandles[i],
		})
	}

	if err := applyElemSegments(mod, inst); err != nil {
		return nil, err
	}
	if err := applyDataSegments(mod, inst); err != nil {
		return nil, err
	}

	return inst, nil
}

func resolveImports(mod *Module, imports *Imports, inst *Instance) error {
	funcImportIdx := 0
	for _, imp := range mod.Imports {
		key := importKey(imp.Module, imp.Name)
		switch imp.Kind {
		case wasmdecode.ImportFunc:
			f, ok := imports.Funcs[key]
			if !ok {
				return fmt.Errorf("%w: func %s.%s", ErrImportNotFound, imp.Module, imp.Name)
			}
			wantType := mod.Types[imp.TypeIdx]
			if !wantType.Equal(f.Type) {
				return fmt.Errorf("%w: func %s.%s", ErrImportTypeMismatch, imp.Module, imp.Name)
			}
			inst.Funcs = append(inst.Funcs, f)
			funcImportIdx++
		case wasmdecode.ImportGlobal:
			g, ok := imports.Globals[key]
			if !ok {
				return fmt.Errorf("%w: global %s.%s", ErrImportNotFound, imp.Module, imp.Name)
			}
			if g.Type != imp.ValType || g.Mutable != imp.Mutable {
				return fmt.Errorf("%w: global %s.%s", ErrImportTypeMismatch, imp.Module, imp.Name)
			}
			inst.Globals = append(inst.Globals, g)
		case wasmdecode.ImportMemory:
			m, ok := imports.Memories[key]
			if !ok {
				return fmt.Errorf("%w: memory %s.%s", ErrImportNotFound, imp.Module, imp.Name)
			}
			inst.Memories = append(inst.Memories, m)
		case wasmdecode.ImportTable:
			t, ok := imports.Tables[key]
			if !ok {
				return fmt.Errorf("%w: table %s.%s", ErrImportNotFound, imp.Module, imp.Name)
			}
			inst.Tables = append(inst.Tables, t)
		}
	}
	return nil
}

func applyElemSegments(mod *Module, inst *Instance) error {
	for _, seg := range mod.Elems {
		if !seg.Active {
			continue
		}
		if int(seg.TableIdx) >= len(inst.Tables) {
			return fmt.Errorf("wasm: element segment references table %d out of range", seg.TableIdx)
		}
		off, err := evalConstExprI32(seg.Offset, inst.Globals)
		if err != nil {
			return fmt.Errorf("wasm: element segment offset: %w", err)
		}
		table := inst.Tables[seg.TableIdx]
		for i, fn := range seg.FuncIdxs {
			if int(fn) >= len(inst.Funcs) {
				return fmt.Errorf("wasm: element segment references function %d out of range", fn)
			}
			if !table.Set(off+uint32(i), TableElem{Func: &inst.Funcs[fn]}) {
				return fmt.Errorf("wasm: element segment out of bounds on table %d", seg.TableIdx)
			}
		}
	}
	return nil
}

func applyDataSegments(mod *Module, inst *Instance) error {
	for _, seg := range mod.Data {
		if !seg.Active {
			continue
		}
		if int(seg.MemIdx) >= len(inst.Memories) {
			return fmt.Errorf("wasm: data segment references memory %d out of range", seg.MemIdx)
		}
		off, err := evalConstExprI32(seg.Offset, inst.Globals)
		if err != nil {
			return fmt.Errorf("wasm: data segment offset: %w", err)
		}
		mem := inst.Memories[seg.MemIdx]
		end := uint64(off) + uint64(len(seg.Bytes))
		if end > uint64(len(mem.Bytes())) {
			return fmt.Errorf("wasm: data segment out of bounds on memory %d", seg.MemIdx)
		}
		copy(mem.Bytes()[off:], seg.Bytes)
	}
	return nil
}
