package interpreter

import (
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/exec"
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasm"
)

// execTable handles the table.* instruction family. Like execMemoryBulk,
// none of these are emitted by the translator today (see DESIGN.md component
// G) — wasmdecode's operator decoder doesn't yet surface table.get/set/grow
// /fill/copy/init or the reference-types opcodes that would produce them.
// They're implemented for dispatch-loop totality and as the landing spot for
// a future translator extension, with one documented limitation: a funcref
// cell's only runtime representation in this engine is a *wasm.FuncRef
// pointer inside a TableElem, which doesn't round-trip through the 64-bit
// core.Value cells the rest of the machine uses — so table.get/set on a
// funcref table here only supports the null element; a non-null funcref
// round trip would need a side table this opcode family never gets to
// exercise in practice.
//
// Operand convention (this package's own choice, since no encoder emits
// these): TableIdx selects the primary table; Lhs/Rhs are idx/val (get/set)
// or dst/src (fill/copy); Span.Head is a length operand (fill/copy/init);
// TypeIdx is reused as the source table index for table.copy; FuncIdx is
// reused as the segment index for table.init.
func (m *Machine) execTable(frame *exec.CallFrame, inst ir.Instruction) *core.Trap {
	table := frame.Instance.Tables[inst.TableIdx]

	switch inst.Op {
	case ir.OpTableGet:
		idx := m.get(frame, inst.Lhs).U32()
		elem, ok := table.Get(idx)
		if !ok {
			return core.NewTrap(core.TrapTableOutOfBounds)
		}
		if elem.IsNull() {
			m.set(frame, inst.Result, core.ValueFromU64(0))
			return nil
		}
		m.set(frame, inst.Result, core.ValueFromU64(elem.Extern))
		return nil

	case ir.OpTableSet:
		idx := m.get(frame, inst.Lhs).U32()
		v := m.get(frame, inst.Rhs).U64()
		elem := wasm.TableElem{Extern: v}
		if !table.Set(idx, elem) {
			return core.NewTrap(core.TrapTableOutOfBounds)
		}
		return nil

	case ir.OpTableSize:
		m.set(frame, inst.Result, core.ValueFromU32(table.Size()))
		return nil

	case ir.OpTableGrow:
		delta := m.get(frame, inst.Lhs).U32()
		prev, ok := table.Grow(delta, wasm.NullElem, m.limiter)
		if !ok {
			m.set(frame, inst.Result, core.ValueFromU32(0xFFFFFFFF))
			return nil
		}
		m.set(frame, inst.Result, core.ValueFromU32(prev))
		return nil

	case ir.OpTableFill:
		dst := m.get(frame, inst.Lhs).U32()
		length := m.get(frame, inst.Span.At(0)).U32()
		val := wasm.TableElem{Extern: m.get(frame, inst.Rhs).U64()}
		for i := uint32(0); i < length; i++ {
			if !table.Set(dst+i, val) {
				return core.NewTrap(core.TrapTableOutOfBounds)
			}
		}
		return nil

	case ir.OpTableCopy:
		src := frame.Instance.Tables[inst.TypeIdx]
		dst := m.get(frame, inst.Lhs).U32()
		srcIdx := m.get(frame, inst.Rhs).U32()
		length := m.get(frame, inst.Span.At(0)).U32()
		for i := uint32(0); i < length; i++ {
			elem, ok := src.Get(srcIdx + i)
			if !ok || !table.Set(dst+i, elem) {
				return core.NewTrap(core.TrapTableOutOfBounds)
			}
		}
		return nil

	case ir.OpTableInit:
		segIdx := inst.FuncIdx
		if int(segIdx) >= len(frame.Instance.Module.Elems) {
			return core.NewTrap(core.TrapTableOutOfBounds)
		}
		seg := frame.Instance.Module.Elems[segIdx]
		dst := m.get(frame, inst.Lhs).U32()
		srcIdx := m.get(frame, inst.Rhs).U32()
		length := m.get(frame, inst.Span.At(0)).U32()
		for i := uint32(0); i < length; i++ {
			if uint64(srcIdx+i) >= uint64(len(seg.FuncIdxs)) {
				return core.NewTrap(core.TrapTableOutOfBounds)
			}
			fn := seg.FuncIdxs[srcIdx+i]
			if int(fn) >= len(frame.Instance.Funcs) {
				return core.NewTrap(core.TrapTableOutOfBounds)
			}
			if !table.Set(dst+i, wasm.TableElem{Func: &frame.Instance.Funcs[fn]}) {
				return core.NewTrap(core.TrapTableOutOfBounds)
			}
		}
		return nil
	}
	return core.NewTrap(core.TrapUnreachableCodeReached)
}
