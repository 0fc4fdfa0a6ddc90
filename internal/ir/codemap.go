package ir

import "fmt"

// FuncHeader describes one compiled function's region within the code map's
// shared byte arena.
type FuncHeader struct {
	// Iref is the byte offset into the code map's arena where this
	// function's encoded instructions begin.
	Iref uint32
	// LenRegisters is the number of cells (parameters + locals +
	// temporaries) this function's frame reserves on entry.
	LenRegisters uint16
	// LenInstrs is the number of instructions (not bytes) in the function
	// body, used only for diagnostics/iteration bounds.
	LenInstrs uint32
}

// FuncBodyHandle is an index into a CodeMap's header table, naming one
// compiled function.
type FuncBodyHandle uint32

// CodeMap holds the encoded instruction bytes of every compiled function in
// one shared arena, alongside a parallel table of function headers. A
// function's compiled code is immutable once translation completes.
type CodeMap struct {
	bytes   []byte
	headers []FuncHeader
}

// NewCodeMap constructs an empty code map.
func NewCodeMap() *CodeMap {
	return &CodeMap{}
}

// Reserve returns the byte offset at which the next function's instructions
// will be appended (the function's future Iref). It allocates and writes
// nothing; Append is what grows the arena.
func (cm *CodeMap) Reserve() uint32 {
	return uint32(len(cm.bytes))
}

// Append extends the shared arena with a compiled function's encoded bytes
// and registers its header, returning the new function's handle. iref must
// equal the value previously returned by Reserve, and the caller must not
// have appended anything else to the map in between.
func (cm *CodeMap) Append(iref uint32, lenRegisters uint16, lenInstrs uint32, encoded []byte) FuncBodyHandle {
	if iref != uint32(len(cm.bytes)) {
		panic(fmt.Sprintf("ir: CodeMap.Append iref %d does not match arena tail %d", iref, len(cm.bytes)))
	}
	cm.bytes = append(cm.bytes, encoded...)
	h := FuncBodyHandle(len(cm.headers))
	cm.headers = append(cm.headers, FuncHeader{Iref: iref, LenRegisters: lenRegisters, LenInstrs: lenInstrs})
	return h
}

// Header returns the header for a compiled function handle.
func (cm *CodeMap) Header(h FuncBodyHandle) FuncHeader { return cm.headers[h] }

// Bytes returns the function's encoded byte region, for a Decoder to walk.
func (cm *CodeMap) Bytes(h FuncBodyHandle) []byte {
	hdr := cm.headers[h]
	// The region spans from this function's Iref up to the next function's
	// Iref (or the arena's end for the last function appended).
	end := uint32(len(cm.bytes))
	if int(h)+1 < len(cm.headers) {
		end = cm.headers[h+1].Iref
	}
	return cm.bytes[hdr.Iref:end]
}

// InstructionPtr addresses one instruction within a function's byte region by
// byte offset from the region's start (not from the shared arena's start).
type InstructionPtr struct {
	Handle FuncBodyHandle
	Offset uint32
}

// Len returns the number of compiled functions registered so far.
func (cm *CodeMap) Len() int { return len(cm.headers) }
