package wasmi

import (
	"errors"

	"github.com/wasmigo/wasmi/internal/wasm"
)

// Translation/validation error sentinels, per spec.md §7's first taxonomy
// ("surfaced at Module::new: malformed bytes, validation failure, unsupported
// feature, branch-offset overflow, too-many-slots, type-mismatch in const
// expressions, duplicate linker definition"). Callers distinguish these with
// errors.Is, matching wazero's internal/wasm exported-sentinel-error idiom.
var (
	// ErrMalformedBinary is returned by NewModule when the input bytes are
	// not structurally well-formed Wasm.
	ErrMalformedBinary = errors.New("wasmi: malformed wasm binary")
	// ErrTranslation wraps any error internal/translator returns while
	// compiling a function body (branch-offset overflow, too-many-slots,
	// unsupported block type, const-expression type mismatch, and so on).
	ErrTranslation = errors.New("wasmi: translation error")
	// ErrInstantiation is returned by Linker.Instantiate when internal/wasm's
	// Instantiate fails (import resolution, growth denied by the
	// ResourceLimiter, segment out of bounds).
	ErrInstantiation = errors.New("wasmi: instantiation error")
	// ErrFunctionNotFound is returned when a requested export does not name
	// a function.
	ErrFunctionNotFound = errors.New("wasmi: exported function not found")
	// ErrSignatureMismatch is returned by TypedFunc when the requested Go
	// generic signature does not match the exported function's Wasm type.
	ErrSignatureMismatch = errors.New("wasmi: typed function signature mismatch")
)

// ErrDuplicateDefinition is returned by Linker when two definitions collide
// on the same (module, name) pair. Re-exported from internal/wasm (the same
// error value) so embedders can use errors.Is without importing an internal
// package.
var ErrDuplicateDefinition = wasm.ErrDuplicateDefinition

// ErrImportNotFound is returned by Linker.Instantiate when a module's import
// cannot be resolved against the Linker's definitions.
var ErrImportNotFound = wasm.ErrImportNotFound

// ErrImportTypeMismatch is returned by Linker.Instantiate when a resolved
// import's type does not match the module's declared import type.
var ErrImportTypeMismatch = wasm.ErrImportTypeMismatch
