package wasmi

import "github.com/wasmigo/wasmi/internal/wasm"

// Global is an exported or host-defined global variable handle.
type Global struct {
	raw *wasm.Global
}

// NewGlobal constructs a host-owned global for import wiring via
// Linker.DefineGlobal.
func NewGlobal(typ ValueType, mutable bool, init Value) *Global {
	return &Global{raw: &wasm.Global{Type: typ.raw, Mutable: mutable, Value: init}}
}

// Get returns the global's current value.
func (g *Global) Get() Value { return g.raw.Value }

// Set updates the global's value. Per spec.md §6, callers are responsible
// for only calling Set on a global constructed with mutable=true; nothing in
// this package enforces that at the Set call site, matching internal/wasm's
// own Instantiate, which likewise trusts import-site mutability checks
// rather than re-checking it per write.
func (g *Global) Set(v Value) { g.raw.Value = v }

// IsMutable reports whether the global was declared mutable.
func (g *Global) IsMutable() bool { return g.raw.Mutable }
