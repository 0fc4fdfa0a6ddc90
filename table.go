package wasmi

import "github.com/wasmigo/wasmi/internal/wasm"

// Table is an exported or host-defined table handle. Element access is left
// at the internal/wasm.TableElem granularity (a resolved *wasm.FuncRef or an
// opaque externref handle); the root package doesn't add a typed wrapper on
// top since no current component needs to inspect table contents from
// outside the interpreter.
type Table struct {
	raw *wasm.Table
}

// NewTable constructs a host-owned table for import wiring via
// Linker.DefineTable.
func NewTable(refType ValueType, min, max uint32, hasMax bool) *Table {
	return &Table{raw: wasm.NewTable(refType.raw, min, max, hasMax)}
}

// Size returns the table's current element count.
func (t *Table) Size() uint32 { return t.raw.Size() }

// Grow extends the table by delta elements, consulting limiter.
func (t *Table) Grow(delta uint32, limiter ResourceLimiter) (previous uint32, err error) {
	prev, ok := t.raw.Grow(delta, wasm.NullElem, limiter)
	if !ok {
		return prev, ErrGrowthDenied
	}
	return prev, nil
}
