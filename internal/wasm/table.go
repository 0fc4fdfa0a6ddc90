package wasm

import "github.com/wasmigo/wasmi/internal/wasmdecode"

// TableElem is one table slot. A funcref slot carries a resolved Func
// (nil means null); an externref slot carries an opaque Extern handle
// (zero means null). Resolving the callee eagerly at element-segment or
// table.set time, rather than storing a raw index, avoids re-resolving
// which instance's function index space an index belongs to on every
// call_indirect.
type TableElem struct {
	Func   *FuncRef
	Extern uint64
}

// NullElem is the null reference shared by every reference type.
var NullElem = TableElem{}

// IsNull reports whether the element is the null reference.
func (e TableElem) IsNull() bool { return e.Func == nil && e.Extern == 0 }

// Table is a Wasm table instance: a vector of reference-typed elements.
type Table struct {
	elems   []TableElem
	refType wasmdecode.ValType
	max     uint32
	hasMax  bool
}

// NewTable allocates a table of min null elements, bounded by max if hasMax.
func NewTable(refType wasmdecode.ValType, min, max uint32, hasMax bool) *Table {
	return &Table{elems: make([]TableElem, min), refType: refType, max: max, hasMax: hasMax}
}

// Size returns the table's current element count.
func (t *Table) Size() uint32 { return uint32(len(t.elems)) }

// RefType reports the table's declared reference type.
func (t *Table) RefType() wasmdecode.ValType { return t.refType }

// Get reads the element at idx; ok is false when idx is out of bounds.
func (t *Table) Get(idx uint32) (elem TableElem, ok bool) {
	if idx >= uint32(len(t.elems)) {
		return TableElem{}, false
	}
	return t.elems[idx], true
}

// Set writes the element at idx; ok is false when idx is out of bounds.
func (t *Table) Set(idx uint32, v TableElem) (ok bool) {
	if idx >= uint32(len(t.elems)) {
		return false
	}
	t.elems[idx] = v
	return true
}

// Grow extends the table by delta elements, each initialized to init,
// consulting limiter if non-nil. Mirrors Memory.Grow's contract.
func (t *Table) Grow(delta uint32, init TableElem, limiter ResourceLimiter) (previous uint32, ok bool) {
	current := t.Size()
	desired := current + delta
	if desired < current {
		return current, false
	}
	if t.hasMax && desired > t.max {
		return current, false
	}
	if limiter != nil {
		allow, err := limiter.TableGrowing(current, desired, t.max, t.hasMax)
		if err != nil {
			limiter.TableGrowFailed(err)
			return current, false
		}
		if !allow {
			return current, false
		}
	}
	grown := make([]TableElem, delta)
	for i := range grown {
		grown[i] = init
	}
	t.elems = append(t.elems, grown...)
	return current, true
}
