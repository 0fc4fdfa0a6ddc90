package wasmi

import "github.com/wasmigo/wasmi/internal/core"

// Value is a raw 64-bit Wasm value cell; see core.Value's doc comment. Calls
// through Func and TypedFunc both speak this type at the embedder boundary,
// the same type the interpreter hot path uses internally, so no marshaling
// happens at Func.Call.
type Value = core.Value

// F32 and F64 are the NaN-preserving float newtypes Value.F32()/F64() and
// ValueFromF32/ValueFromF64 exchange; see core.F32/core.F64's doc comments.
type F32 = core.F32
type F64 = core.F64

// Constructors, re-exported from internal/core for embedders.
var (
	ValueFromI32  = core.ValueFromI32
	ValueFromI64  = core.ValueFromI64
	ValueFromU32  = core.ValueFromU32
	ValueFromU64  = core.ValueFromU64
	ValueFromF32  = core.ValueFromF32
	ValueFromF64  = core.ValueFromF64
	F32FromFloat32 = core.F32FromFloat32
	F64FromFloat64 = core.F64FromFloat64
)
