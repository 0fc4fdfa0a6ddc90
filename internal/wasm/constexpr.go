package wasm

import (
	"fmt"

	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// evalConstExpr evaluates a const-expression byte stream (a global
// initializer, or an element/data segment's offset expression): exactly one
// constant-producing operator followed by `end`. global.get reads from
// globals, the globals already built for the instantiating instance (its
// imported globals, then module globals initialized earlier); an index past
// those fails with an error (the initialization-order rule this repo's
// DESIGN.md records as an Open Question decision).
func evalConstExpr(body []byte, globals []*Global) (core.Value, error) {
	r := wasmdecode.NewOpReader(body)
	op, err := r.Next()
	if err != nil {
		return 0, fmt.Errorf("wasm: const expr: %w", err)
	}
	var v core.Value
	switch op.Code {
	case wasmdecode.OpI32Const:
		v = core.ValueFromI32(op.I32)
	case wasmdecode.OpI64Const:
		v = core.ValueFromI64(op.I64)
	case wasmdecode.OpF32Const:
		v = core.Value(uint64(op.F32))
	case wasmdecode.OpF64Const:
		v = core.Value(op.F64)
	case wasmdecode.OpGlobalGet:
		if int(op.GlobalIdx) >= len(globals) {
			return 0, fmt.Errorf("wasm: const expr references global %d before it exists", op.GlobalIdx)
		}
		v = globals[op.GlobalIdx].Value
	default:
		return 0, fmt.Errorf("wasm: unsupported const expr opcode %#x", op.Code)
	}
	end, err := r.Next()
	if err != nil {
		return 0, fmt.Errorf("wasm: const expr: %w", err)
	}
	if end.Code != wasmdecode.OpEnd {
		return 0, fmt.Errorf("wasm: const expr has more than one operator")
	}
	return v, nil
}

// evalConstExprI32 is the common case (table/memory/data segment offsets),
// which must evaluate to an i32.
func evalConstExprI32(body []byte, globals []*Global) (uint32, error) {
	v, err := evalConstExpr(body, globals)
	if err != nil {
		return 0, err
	}
	return v.U32(), nil
}
