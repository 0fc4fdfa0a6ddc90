// Package interpreter implements the engine's instruction dispatch loop:
// the component spec.md §4.G describes as "three tightly coupled subsystems
// — the value stack, call stack, and instruction dispatch loop — executing
// the register IR component E emits". It is the only package that imports
// both internal/ir (to decode compiled function bodies) and internal/wasm
// (to read/mutate live instance state), matching internal/wasm's own
// package-boundary note that running a module's start function is left to
// the caller that owns this package.
package interpreter

import (
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/exec"
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasm"
)

// Machine is one interpreter activation: its own value stack and call stack,
// an optional fuel counter, and the ResourceLimiter in effect for the store
// it executes against. A Machine is not safe for concurrent use — spec.md §5
// gives each concurrent caller its own Store and, transitively, its own
// Machine.
type Machine struct {
	values *exec.ValueStack
	calls  *exec.CallStack

	fuelEnabled bool
	fuel        int64

	limiter wasm.ResourceLimiter
}

// Config bounds a Machine's resource usage, mirroring the subset of
// spec.md §6's engine Config that execution itself consults (compile-time
// knobs like the translator's peephole settings live with the translator).
type Config struct {
	MaxValueStackCells int
	MaxRecursionDepth  int
	FuelEnabled        bool
	Limiter            wasm.ResourceLimiter
}

// NewMachine constructs a Machine per cfg.
func NewMachine(cfg Config) *Machine {
	return &Machine{
		values:      exec.NewValueStack(cfg.MaxValueStackCells),
		calls:       exec.NewCallStack(cfg.MaxRecursionDepth),
		fuelEnabled: cfg.FuelEnabled,
		limiter:     cfg.Limiter,
	}
}

// SetFuel sets the fuel counter available to subsequent calls. Only
// meaningful when the Machine was configured with FuelEnabled.
func (m *Machine) SetFuel(fuel int64) { m.fuel = fuel }

// Fuel returns the fuel counter remaining after the most recent call.
func (m *Machine) Fuel() int64 { return m.fuel }

// Call invokes the function named by funcIdx in inst's function index space
// with args, running it to completion (or to a trap). A host function is
// invoked directly with no interpreter frame pushed; a locally compiled
// function drives the dispatch loop in run.
func (m *Machine) Call(inst *wasm.Instance, funcIdx uint32, args []core.Value) ([]core.Value, *core.Trap) {
	ref := inst.Funcs[funcIdx]
	if ref.IsHost() {
		return ref.Host(args)
	}

	hdr := ref.Owner.Module.Code.Header(ref.Handle)
	base, trap := m.values.Reserve(int(hdr.LenRegisters))
	if trap != nil {
		return nil, trap
	}
	for i, v := range args {
		m.values.Set(base, ir.Slot(i), v)
	}

	root := exec.CallFrame{
		InstrPtr:   ir.InstructionPtr{Handle: ref.Handle, Offset: 0},
		FrameBase:  base,
		BaseBase:   base,
		ResultsLen: uint16(len(ref.Type.Results)),
		Instance:   ref.Owner,
	}
	depth := m.calls.Len()
	if trap := m.calls.Push(root); trap != nil {
		m.values.Truncate(base)
		return nil, trap
	}

	results, trap := m.run()
	if trap != nil {
		// A trap unwinds the whole call: drop every frame and cell this
		// invocation reserved, root included.
		for m.calls.Len() > depth {
			m.calls.Pop()
		}
		m.values.Truncate(base)
		return nil, trap
	}
	return results, nil
}

func (m *Machine) get(frame *exec.CallFrame, slot ir.Slot) core.Value {
	return m.values.Get(frame.FrameBase, slot)
}

func (m *Machine) set(frame *exec.CallFrame, slot ir.Slot, v core.Value) {
	m.values.Set(frame.FrameBase, slot, v)
}

// rhsOf resolves an instruction's right-hand operand per the ImmUsed
// convention: when set, the operand is the materialized inst.Imm bit
// pattern rather than a value-stack read of inst.Rhs.
func rhsOf(m *Machine, frame *exec.CallFrame, inst ir.Instruction) core.Value {
	if inst.ImmUsed {
		return core.Value(inst.Imm)
	}
	return m.get(frame, inst.Rhs)
}

// run drives the dispatch loop until the root frame returns or a trap is
// raised. It owns no panic/recover: every trap this loop can produce is a
// plain *core.Trap return threaded back up through ordinary Go control flow,
// since the call stack this loop walks is this package's own explicit data
// structure, not Go's — there is no native stack to unwind.
func (m *Machine) run() ([]core.Value, *core.Trap) {
	for {
		frame := m.calls.Peek()
		dec := ir.NewDecoder(frame.Instance.Module.Code.Bytes(frame.InstrPtr.Handle))
		dec.Seek(frame.InstrPtr.Offset)
		instrStart := frame.InstrPtr.Offset

		inst, err := dec.Next()
		if err != nil {
			return nil, core.NewTrap(core.TrapUnreachableCodeReached)
		}

		switch inst.Op {
		case ir.OpUnreachable:
			return nil, core.NewTrap(core.TrapUnreachableCodeReached)

		case ir.OpTrap:
			return nil, core.NewTrap(core.TrapCode(inst.TrapCode))

		case ir.OpConsumeFuel:
			if m.fuelEnabled {
				m.fuel -= int64(inst.Fuel)
				if m.fuel < 0 {
					return nil, core.NewTrap(core.TrapOutOfFuel)
				}
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpCopy:
			m.set(frame, inst.Result, rhsOf(m, frame, inst))
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpCopyMany:
			vals := make([]core.Value, inst.SpanLen)
			for i := range vals {
				vals[i] = m.get(frame, inst.Span.At(uint16(i)))
			}
			for i, v := range vals {
				m.set(frame, ir.Slot(uint16(inst.Result)+uint16(i)), v)
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpBr:
			frame.InstrPtr.Offset = uint32(int32(instrStart) + int32(inst.Branch))

		case ir.OpBrIfEqz:
			if m.get(frame, inst.Lhs).U32() == 0 {
				frame.InstrPtr.Offset = uint32(int32(instrStart) + int32(inst.Branch))
			} else {
				frame.InstrPtr.Offset = dec.Pos()
			}

		case ir.OpBrIfNez:
			if m.get(frame, inst.Lhs).U32() != 0 {
				frame.InstrPtr.Offset = uint32(int32(instrStart) + int32(inst.Branch))
			} else {
				frame.InstrPtr.Offset = dec.Pos()
			}

		case ir.OpBrTable:
			idx := int(m.get(frame, inst.Lhs).U32())
			if idx < 0 || idx >= len(inst.Targets) {
				idx = len(inst.Targets) - 1
			}
			frame.InstrPtr.Offset = uint32(int32(instrStart) + int32(inst.Targets[idx]))

		case ir.OpCmpBranch:
			lhs := m.get(frame, inst.Lhs)
			rhs := rhsOf(m, frame, inst)
			if evalCompare(inst.CmpOp, inst.Type, lhs, rhs) {
				frame.InstrPtr.Offset = uint32(int32(instrStart) + int32(inst.Branch))
			} else {
				frame.InstrPtr.Offset = dec.Pos()
			}

		case ir.OpSelect:
			cond := m.get(frame, ir.Slot(inst.GlobalIdx))
			if cond.U32() != 0 {
				m.set(frame, inst.Result, m.get(frame, inst.Lhs))
			} else {
				m.set(frame, inst.Result, m.get(frame, inst.Rhs))
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpCmpSelect:
			// Never emitted by the translator (see translateSelect); kept
			// total for decoder symmetry.
			return nil, core.NewTrap(core.TrapUnreachableCodeReached)

		case ir.OpReturn, ir.OpReturnMany, ir.OpReturnNez:
			if inst.Op == ir.OpReturnNez && m.get(frame, inst.Lhs).U32() == 0 {
				frame.InstrPtr.Offset = dec.Pos()
				continue
			}
			values := gatherReturn(m, frame, inst)
			popped, wasRoot := m.calls.Pop()
			m.values.Truncate(popped.FrameBase)
			if wasRoot {
				return values, nil
			}
			caller := m.calls.Peek()
			for i := 0; i < int(popped.ResultsLen) && i < len(values); i++ {
				m.set(caller, popped.Results.At(uint16(i)), values[i])
			}

		case ir.OpCall:
			callee := frame.Instance.Funcs[inst.FuncIdx]
			frame.InstrPtr.Offset = dec.Pos()
			if trap := m.doCall(frame, callee, inst.Span, int(inst.SpanLen), inst.Result, len(callee.Type.Results)); trap != nil {
				return nil, trap
			}

		case ir.OpCallIndirect:
			target, trap := m.resolveIndirect(frame, inst)
			if trap != nil {
				return nil, trap
			}
			frame.InstrPtr.Offset = dec.Pos()
			if trap := m.doCall(frame, target, inst.Span, int(inst.SpanLen), inst.Result, len(target.Type.Results)); trap != nil {
				return nil, trap
			}

		case ir.OpReturnCall, ir.OpReturnCallIndirect:
			var target wasm.FuncRef
			if inst.Op == ir.OpReturnCall {
				target = frame.Instance.Funcs[inst.FuncIdx]
			} else {
				var trap *core.Trap
				target, trap = m.resolveIndirect(frame, inst)
				if trap != nil {
					return nil, trap
				}
			}
			args := make([]core.Value, inst.SpanLen)
			for i := range args {
				args[i] = m.get(frame, inst.Span.At(uint16(i)))
			}
			popped, wasRoot := m.calls.Pop()
			m.values.Truncate(popped.FrameBase)

			if target.IsHost() {
				results, trap := target.Host(args)
				if trap != nil {
					return nil, trap
				}
				if wasRoot {
					return results, nil
				}
				caller := m.calls.Peek()
				for i := 0; i < int(popped.ResultsLen) && i < len(results); i++ {
					m.set(caller, popped.Results.At(uint16(i)), results[i])
				}
				continue
			}

			hdr := target.Owner.Module.Code.Header(target.Handle)
			base, trap := m.values.Reserve(int(hdr.LenRegisters))
			if trap != nil {
				return nil, trap
			}
			for i, v := range args {
				m.values.Set(base, ir.Slot(i), v)
			}
			newFrame := exec.CallFrame{
				InstrPtr:   ir.InstructionPtr{Handle: target.Handle, Offset: 0},
				FrameBase:  base,
				BaseBase:   base,
				Results:    popped.Results,
				ResultsLen: popped.ResultsLen,
				Instance:   target.Owner,
			}
			if trap := m.calls.Push(newFrame); trap != nil {
				return nil, trap
			}

		case ir.OpUnary:
			v, trap := evalUnary(inst.UnOp, inst.Type, m.get(frame, inst.Lhs))
			if trap != nil {
				return nil, trap
			}
			m.set(frame, inst.Result, v)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpBinary:
			v, trap := evalBinary(inst.BinOp, inst.Type, m.get(frame, inst.Lhs), rhsOf(m, frame, inst))
			if trap != nil {
				return nil, trap
			}
			m.set(frame, inst.Result, v)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpCompare:
			lhs := m.get(frame, inst.Lhs)
			rhs := rhsOf(m, frame, inst)
			var result core.Value
			if evalCompare(inst.CmpOp, inst.Type, lhs, rhs) {
				result = core.ValueFromI32(1)
			}
			m.set(frame, inst.Result, result)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpLoad:
			v, trap := m.execLoad(frame, inst)
			if trap != nil {
				return nil, trap
			}
			m.set(frame, inst.Result, v)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpStore:
			if trap := m.execStore(frame, inst); trap != nil {
				return nil, trap
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpMemorySize:
			mem := frame.Instance.Memories[inst.Mem.MemoryIndex]
			m.set(frame, inst.Result, core.ValueFromU32(mem.PageCount()))
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpMemoryGrow:
			mem := frame.Instance.Memories[inst.Mem.MemoryIndex]
			delta := m.get(frame, inst.Lhs).U32()
			prev, ok := mem.Grow(delta, m.limiter)
			if !ok {
				m.set(frame, inst.Result, core.ValueFromU32(0xFFFFFFFF))
			} else {
				m.set(frame, inst.Result, core.ValueFromU32(prev))
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpMemoryFill, ir.OpMemoryCopy, ir.OpMemoryInit:
			if trap := m.execMemoryBulk(frame, inst); trap != nil {
				return nil, trap
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpTableGet, ir.OpTableSet, ir.OpTableSize, ir.OpTableGrow,
			ir.OpTableFill, ir.OpTableCopy, ir.OpTableInit:
			if trap := m.execTable(frame, inst); trap != nil {
				return nil, trap
			}
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpGlobalGet:
			g := frame.Instance.Globals[inst.GlobalIdx]
			m.set(frame, inst.Result, g.Value)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpGlobalSet:
			g := frame.Instance.Globals[inst.GlobalIdx]
			g.Value = m.get(frame, inst.Lhs)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpRefFunc:
			m.set(frame, inst.Result, core.ValueFromU64(uint64(inst.FuncIdx)+1))
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpRefIsNull:
			var result core.Value
			if m.get(frame, inst.Lhs).U64() == 0 {
				result = core.ValueFromI32(1)
			}
			m.set(frame, inst.Result, result)
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpRefNull:
			m.set(frame, inst.Result, core.ValueFromU64(0))
			frame.InstrPtr.Offset = dec.Pos()

		case ir.OpV128Splat, ir.OpV128ExtractLane, ir.OpV128ReplaceLane, ir.OpV128LoadLane:
			// v128 has no value representation in this engine (see DESIGN.md
			// component C); the translator never emits these opcodes.
			return nil, core.NewTrap(core.TrapUnreachableCodeReached)

		default:
			return nil, core.NewTrap(core.TrapUnreachableCodeReached)
		}
	}
}

// gatherReturn reads the values a Return/ReturnMany/ReturnNez instruction
// hands back to the caller, out of the CURRENTLY EXECUTING frame's cells
// (the callee's, not the caller's) before that frame is popped.
func gatherReturn(m *Machine, frame *exec.CallFrame, inst ir.Instruction) []core.Value {
	switch frame.ResultsLen {
	case 0:
		return nil
	case 1:
		if inst.Op == ir.OpReturnMany {
			return []core.Value{m.get(frame, inst.Span.At(0))}
		}
		return []core.Value{m.get(frame, inst.Result)}
	default:
		out := make([]core.Value, inst.SpanLen)
		for i := range out {
			out[i] = m.get(frame, inst.Span.At(uint16(i)))
		}
		return out
	}
}

// resolveIndirect performs a call_indirect's table lookup and signature
// check, trapping per spec.md §4.G/§8's indirect-call scenarios.
func (m *Machine) resolveIndirect(frame *exec.CallFrame, inst ir.Instruction) (wasm.FuncRef, *core.Trap) {
	idx := m.get(frame, inst.Lhs).U32()
	table := frame.Instance.Tables[inst.TableIdx]
	elem, ok := table.Get(idx)
	if !ok {
		return wasm.FuncRef{}, core.NewTrap(core.TrapTableOutOfBounds)
	}
	if elem.IsNull() {
		return wasm.FuncRef{}, core.NewTrap(core.TrapIndirectCallToNull)
	}
	expected := frame.Instance.Module.Types[inst.TypeIdx]
	if !expected.Equal(elem.Func.Type) {
		return wasm.FuncRef{}, core.NewTrap(core.TrapBadSignature)
	}
	return *elem.Func, nil
}

// doCall executes an ordinary (non-tail) call: args come from the caller
// frame's own argSpan, and results land back in the caller frame at
// resultHead once the callee — host or local — finishes.
func (m *Machine) doCall(frame *exec.CallFrame, target wasm.FuncRef, argSpan ir.SlotSpan, nargs int, resultHead ir.Slot, resultsLen int) *core.Trap {
	args := make([]core.Value, nargs)
	for i := range args {
		args[i] = m.get(frame, argSpan.At(uint16(i)))
	}

	if target.IsHost() {
		results, trap := target.Host(args)
		if trap != nil {
			return trap
		}
		for i := 0; i < resultsLen && i < len(results); i++ {
			m.set(frame, ir.SlotSpan{Head: resultHead}.At(uint16(i)), results[i])
		}
		return nil
	}

	hdr := target.Owner.Module.Code.Header(target.Handle)
	base, trap := m.values.Reserve(int(hdr.LenRegisters))
	if trap != nil {
		return trap
	}
	for i, v := range args {
		m.values.Set(base, ir.Slot(i), v)
	}
	newFrame := exec.CallFrame{
		InstrPtr:   ir.InstructionPtr{Handle: target.Handle, Offset: 0},
		FrameBase:  base,
		BaseBase:   base,
		Results:    ir.SlotSpan{Head: resultHead},
		ResultsLen: uint16(resultsLen),
		Instance:   target.Owner,
	}
	return m.calls.Push(newFrame)
}
