package interpreter

import (
	"encoding/binary"

	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/exec"
	"github.com/wasmigo/wasmi/internal/ir"
)

// widthOf returns the byte width a load/store instruction's Type occupies in
// linear memory; the translator only ever emits the full-width i32/i64/f32/f64
// forms (no 8/16-bit partial loads — isLoad/isStore in the translator accept
// only those four opcodes each), so this is
// total over every Type the decoder can actually produce for OpLoad/OpStore.
func widthOf(ty ir.ValueType) uint64 {
	switch ty {
	case ir.TypeI64, ir.TypeF64:
		return 8
	default:
		return 4
	}
}

// effectiveAddress computes a load/store's byte address and bounds-checks it
// against mem's current size, per spec.md §4.G: "ptr + offset computed in
// u64 with an overflow check; the result is bounds-checked against the
// target memory's current size before any byte is touched."
func effectiveAddress(ptr uint32, offset ir.Offset16, width uint64, memLen int) (uint64, *core.Trap) {
	addr := uint64(ptr) + uint64(offset)
	if addr < uint64(ptr) { // overflow, unreachable at these operand widths but checked regardless
		return 0, core.NewTrap(core.TrapMemoryOutOfBounds)
	}
	if addr+width > uint64(memLen) || addr+width < addr {
		return 0, core.NewTrap(core.TrapMemoryOutOfBounds)
	}
	return addr, nil
}

func (m *Machine) execLoad(frame *exec.CallFrame, inst ir.Instruction) (core.Value, *core.Trap) {
	mem := frame.Instance.Memories[inst.Mem.MemoryIndex]
	ptr := m.get(frame, inst.Lhs).U32()
	width := widthOf(inst.Type)
	addr, trap := effectiveAddress(ptr, inst.Offset, width, len(mem.Bytes()))
	if trap != nil {
		return 0, trap
	}
	b := mem.Bytes()[addr : addr+width]
	if width == 8 {
		return core.Value(binary.LittleEndian.Uint64(b)), nil
	}
	return core.ValueFromU32(binary.LittleEndian.Uint32(b)), nil
}

func (m *Machine) execStore(frame *exec.CallFrame, inst ir.Instruction) *core.Trap {
	mem := frame.Instance.Memories[inst.Mem.MemoryIndex]
	ptr := m.get(frame, inst.Lhs).U32()
	width := widthOf(inst.Type)
	addr, trap := effectiveAddress(ptr, inst.Offset, width, len(mem.Bytes()))
	if trap != nil {
		return trap
	}
	val := rhsOf(m, frame, inst)
	b := mem.Bytes()[addr : addr+width]
	if width == 8 {
		binary.LittleEndian.PutUint64(b, val.U64())
	} else {
		binary.LittleEndian.PutUint32(b, val.U32())
	}
	return nil
}

// execMemoryBulk handles memory.fill/copy/init. None of these are emitted by
// the translator today (wasmdecode doesn't decode the bulk-memory opcodes —
// see DESIGN.md component G), so this is unreachable from any current
// translation; it exists so the dispatch loop is total over ir.Opcode's
// declared range, and so a future bulk-memory lowering in the translator has
// somewhere correct to land. Operand convention, since these opcodes never
// flow through the encoder today: Lhs=dst, Rhs=val/src, Span.Head=len,
// FuncIdx=segment index (init only), Mem.MemoryIndex=the target memory.
func (m *Machine) execMemoryBulk(frame *exec.CallFrame, inst ir.Instruction) *core.Trap {
	mem := frame.Instance.Memories[inst.Mem.MemoryIndex]
	dst := m.get(frame, inst.Lhs).U32()
	length := m.get(frame, inst.Span.At(0)).U32()

	switch inst.Op {
	case ir.OpMemoryFill:
		val := byte(m.get(frame, inst.Rhs).U32())
		if uint64(dst)+uint64(length) > uint64(len(mem.Bytes())) {
			return core.NewTrap(core.TrapMemoryOutOfBounds)
		}
		region := mem.Bytes()[dst : dst+length]
		for i := range region {
			region[i] = val
		}
		return nil

	case ir.OpMemoryCopy:
		src := m.get(frame, inst.Rhs).U32()
		if uint64(dst)+uint64(length) > uint64(len(mem.Bytes())) || uint64(src)+uint64(length) > uint64(len(mem.Bytes())) {
			return core.NewTrap(core.TrapMemoryOutOfBounds)
		}
		copy(mem.Bytes()[dst:dst+length], mem.Bytes()[src:src+length])
		return nil

	case ir.OpMemoryInit:
		segIdx := inst.FuncIdx
		if int(segIdx) >= len(frame.Instance.Module.Data) {
			return core.NewTrap(core.TrapMemoryOutOfBounds)
		}
		data := frame.Instance.Module.Data[segIdx].Bytes
		src := m.get(frame, inst.Rhs).U32()
		if uint64(src)+uint64(length) > uint64(len(data)) || uint64(dst)+uint64(length) > uint64(len(mem.Bytes())) {
			return core.NewTrap(core.TrapMemoryOutOfBounds)
		}
		copy(mem.Bytes()[dst:dst+length], data[src:src+length])
		return nil
	}
	return core.NewTrap(core.TrapUnreachableCodeReached)
}
