package wasmi

import "github.com/wasmigo/wasmi/internal/wasm"

// PageSize is the Wasm linear memory page size in bytes (64 KiB).
const PageSize = wasm.PageSize

// Memory is an exported or host-defined linear memory handle.
type Memory struct {
	raw *wasm.Memory
}

// NewMemory constructs a host-owned memory for import wiring via
// Linker.DefineMemory.
func NewMemory(min, max uint32, hasMax bool) *Memory {
	return &Memory{raw: wasm.NewMemory(min, max, hasMax)}
}

// Size returns the memory's current size in pages.
func (m *Memory) Size() uint32 { return m.raw.PageCount() }

// Bytes returns the memory's backing slice for direct access.
func (m *Memory) Bytes() []byte { return m.raw.Bytes() }

// Grow extends the memory by delta pages, consulting limiter if it is
// non-nil. It returns the previous page count
// and an error if growth was denied, per spec.md §6's "grow returns the
// previous size or an error."
func (m *Memory) Grow(delta uint32, limiter ResourceLimiter) (previous uint32, err error) {
	prev, ok := m.raw.Grow(delta, limiter)
	if !ok {
		return prev, ErrGrowthDenied
	}
	return prev, nil
}
