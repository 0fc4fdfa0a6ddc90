package wasmi

import "github.com/wasmigo/wasmi/internal/core"

// Trap is the error value delivered to the embedder when Wasm execution
// aborts, per spec.md §7's second taxonomy ("runtime traps ... delivered to
// the embedder as an error containing the code. A trap from a host function
// carries the host's error payload opaquely"). It is a type alias for
// internal/core's Trap so the interpreter never has to translate between two
// equivalent trap representations at the package boundary.
type Trap = core.Trap

// TrapCode identifies why execution aborted. See core.TrapCode's doc comment
// for the closed set of kinds.
type TrapCode = core.TrapCode

// The closed TrapCode enum, re-exported for embedders.
const (
	TrapUnreachableCodeReached = core.TrapUnreachableCodeReached
	TrapMemoryOutOfBounds      = core.TrapMemoryOutOfBounds
	TrapTableOutOfBounds       = core.TrapTableOutOfBounds
	TrapIndirectCallToNull     = core.TrapIndirectCallToNull
	TrapIntegerDivisionByZero  = core.TrapIntegerDivisionByZero
	TrapIntegerOverflow        = core.TrapIntegerOverflow
	TrapBadConversionToInteger = core.TrapBadConversionToInteger
	TrapStackOverflow          = core.TrapStackOverflow
	TrapBadSignature           = core.TrapBadSignature
	TrapOutOfFuel              = core.TrapOutOfFuel
	TrapGrowthOperationLimited = core.TrapGrowthOperationLimited
)
