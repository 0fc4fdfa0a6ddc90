package wasmi

import "github.com/wasmigo/wasmi/internal/wasmdecode"

// ValueType names a Wasm value type for building host-side Global/Table
// definitions without requiring callers to import internal/wasmdecode.
type ValueType struct{ raw wasmdecode.ValType }

var (
	ValueTypeI32       = ValueType{wasmdecode.ValTypeI32}
	ValueTypeI64       = ValueType{wasmdecode.ValTypeI64}
	ValueTypeF32       = ValueType{wasmdecode.ValTypeF32}
	ValueTypeF64       = ValueType{wasmdecode.ValTypeF64}
	ValueTypeFuncRef   = ValueType{wasmdecode.ValTypeFuncRef}
	ValueTypeExternRef = ValueType{wasmdecode.ValTypeExternRef}
)

// FuncType builds a wasmdecode.FuncType from params/results, used to define
// host functions via Linker.DefineFunc without importing internal/wasmdecode
// directly.
func FuncType(params, results []ValueType) wasmdecode.FuncType {
	ft := wasmdecode.FuncType{}
	for _, p := range params {
		ft.Params = append(ft.Params, p.raw)
	}
	for _, r := range results {
		ft.Results = append(ft.Results, r.raw)
	}
	return ft
}
