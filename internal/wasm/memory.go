package wasm

// PageSize is the Wasm linear memory page size in bytes (64 KiB).
// ResourceLimiter memory amounts are counted in pages, not bytes.
const PageSize = 65536

// Memory is a linear memory instance: a contiguous byte slice whose length
// is always a multiple of PageSize.
type Memory struct {
	data   []byte
	max    uint32
	hasMax bool
}

// NewMemory allocates a memory of min pages, bounded by max if hasMax.
func NewMemory(min, max uint32, hasMax bool) *Memory {
	return &Memory{data: make([]byte, uint64(min)*PageSize), max: max, hasMax: hasMax}
}

// PageCount returns the memory's current size in pages.
func (m *Memory) PageCount() uint32 { return uint32(uint64(len(m.data)) / PageSize) }

// Bytes returns the memory's backing slice for direct load/store access.
func (m *Memory) Bytes() []byte { return m.data }

// Grow extends the memory by delta pages, consulting limiter if non-nil.
// It returns the previous page count and whether growth succeeded; a denied
// or out-of-bounds growth returns ok=false without modifying the memory, as
// spec.md §8's resource-limiter obedience property requires (memory.grow
// then returns -1 to the caller).
func (m *Memory) Grow(delta uint32, limiter ResourceLimiter) (previous uint32, ok bool) {
	current := m.PageCount()
	desired := current + delta
	if desired < current { // overflow
		return current, false
	}
	if m.hasMax && desired > m.max {
		return current, false
	}
	if limiter != nil {
		allow, err := limiter.MemoryGrowing(current, desired, m.max, m.hasMax)
		if err != nil {
			limiter.MemoryGrowFailed(err)
			return current, false
		}
		if !allow {
			return current, false
		}
	}
	m.data = append(m.data, make([]byte, uint64(delta)*PageSize)...)
	return current, true
}
