package arena

// ConstSlot identifies a materialized constant-pool entry. Const-pool slots
// live outside a function's temporary region; the interpreter reads them
// through the same Slot-indexed access path as ordinary cells, via an offset
// applied by the caller. The translator does not use a const pool: it
// materializes immediates into temporaries with OpCopy.
type ConstSlot uint16

// ConstPool deduplicates materialized immediate values that don't fit an
// instruction's inline slot (typically 64-bit immediates referenced by a
// 16-bit slot index). Each distinct value is allocated exactly one slot.
type ConstPool struct {
	values []uint64
	lookup map[uint64]ConstSlot
}

// NewConstPool constructs an empty constant pool.
func NewConstPool() *ConstPool {
	return &ConstPool{lookup: make(map[uint64]ConstSlot)}
}

// Intern returns the slot holding v, allocating a new one if v hasn't been
// seen yet.
func (p *ConstPool) Intern(v uint64) ConstSlot {
	if s, ok := p.lookup[v]; ok {
		return s
	}
	s := ConstSlot(len(p.values))
	p.values = append(p.values, v)
	p.lookup[v] = s
	return s
}

// Value returns the raw bit pattern stored at slot s.
func (p *ConstPool) Value(s ConstSlot) uint64 { return p.values[s] }

// Len returns the number of distinct constants interned.
func (p *ConstPool) Len() int { return len(p.values) }

// Values returns the pool's backing slice in slot order, read-only.
func (p *ConstPool) Values() []uint64 { return p.values }
