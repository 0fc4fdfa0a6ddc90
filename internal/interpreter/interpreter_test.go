package interpreter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/translator"
	"github.com/wasmigo/wasmi/internal/wasm"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// buildModule translates a list of raw Wasm function bodies into a single
// wasm.Module with no imports, mirroring the pipeline the root package
// drives (decode -> translate -> wasm.Module -> Instantiate ->
// interpreter.Call).
func buildModule(t *testing.T, types []wasmdecode.FuncType, bodies [][]byte, fuel bool) *wasm.Module {
	t.Helper()
	decMod := &wasmdecode.Module{Types: types}
	code := ir.NewCodeMap()
	var handles []ir.FuncBodyHandle
	for i, body := range bodies {
		tr := translator.NewTranslator(decMod, fuel)
		res, err := tr.Translate(types[i], wasmdecode.Code{Body: body})
		require.NoError(t, err)
		iref := code.Reserve()
		handles = append(handles, code.Append(iref, res.LenRegisters, 0, res.Encoded))
	}
	funcTypeIdx := make([]uint32, len(types))
	for i := range funcTypeIdx {
		funcTypeIdx[i] = uint32(i)
	}
	return &wasm.Module{
		Types:       types,
		Code:        code,
		FuncTypeIdx: funcTypeIdx,
		FuncHandles: handles,
	}
}

func instantiate(t *testing.T, mod *wasm.Module) *wasm.Instance {
	t.Helper()
	inst, err := wasm.Instantiate(mod, nil, nil)
	require.NoError(t, err)
	return inst
}

func i32Type(params, results int) wasmdecode.FuncType {
	ft := wasmdecode.FuncType{}
	for i := 0; i < params; i++ {
		ft.Params = append(ft.Params, wasmdecode.ValTypeI32)
	}
	for i := 0; i < results; i++ {
		ft.Results = append(ft.Results, wasmdecode.ValTypeI32)
	}
	return ft
}

func TestCallI32AddWrapsOnOverflow(t *testing.T) {
	// (func (param i32 i32) (result i32) local.get 0 local.get 1 i32.add)
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpLocalGet, 0x01,
		0x6A, // i32.add
		wasmdecode.OpEnd,
	}
	mod := buildModule(t, []wasmdecode.FuncType{i32Type(2, 1)}, [][]byte{body}, false)
	inst := instantiate(t, mod)

	m := NewMachine(Config{})
	results, trap := m.Call(inst, 0, []core.Value{
		core.ValueFromI32(math.MaxInt32),
		core.ValueFromI32(1),
	})
	require.Nil(t, trap)
	require.Len(t, results, 1)
	require.Equal(t, int32(math.MinInt32), results[0].I32())
}

func TestCallI32DivSByZeroTraps(t *testing.T) {
	// (func (param i32 i32) (result i32) local.get 0 local.get 1 i32.div_s)
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpLocalGet, 0x01,
		0x6D, // i32.div_s
		wasmdecode.OpEnd,
	}
	mod := buildModule(t, []wasmdecode.FuncType{i32Type(2, 1)}, [][]byte{body}, false)
	inst := instantiate(t, mod)

	m := NewMachine(Config{})
	_, trap := m.Call(inst, 0, []core.Value{core.ValueFromI32(1), core.ValueFromI32(0)})
	require.NotNil(t, trap)
	require.Equal(t, core.TrapIntegerDivisionByZero, trap.Code)
}

func TestCallI32LoadOutOfBoundsTraps(t *testing.T) {
	// (func (param i32) (result i32) local.get 0 i32.load)
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpI32Load, 0x00, 0x00, // align, offset
		wasmdecode.OpEnd,
	}
	mod := buildModule(t, []wasmdecode.FuncType{i32Type(1, 1)}, [][]byte{body}, false)
	mod.Mems = []wasmdecode.Memory{{Limits: wasmdecode.Limits{Min: 1}}}
	inst := instantiate(t, mod)

	m := NewMachine(Config{})
	_, trap := m.Call(inst, 0, []core.Value{core.ValueFromI32(int32(wasm.PageSize))})
	require.NotNil(t, trap)
	require.Equal(t, core.TrapMemoryOutOfBounds, trap.Code)
}

func TestCallOutOfFuelTraps(t *testing.T) {
	// (func (result i32) i32.const 1 i32.const 2 i32.add)
	body := []byte{
		wasmdecode.OpI32Const, 0x01,
		wasmdecode.OpI32Const, 0x02,
		0x6A, // i32.add -- folded at translate time, so the only runtime
		// instruction emitted is the materializing Copy plus Return, each
		// still preceded by the function's single ConsumeFuel instruction.
		wasmdecode.OpEnd,
	}
	ft := wasmdecode.FuncType{Results: []wasmdecode.ValType{wasmdecode.ValTypeI32}}
	mod := buildModule(t, []wasmdecode.FuncType{ft}, [][]byte{body}, true)
	inst := instantiate(t, mod)

	m := NewMachine(Config{FuelEnabled: true})
	m.SetFuel(0)
	_, trap := m.Call(inst, 0, nil)
	require.NotNil(t, trap)
	require.Equal(t, core.TrapOutOfFuel, trap.Code)
}

func TestCallIndirectSignatureMismatchTraps(t *testing.T) {
	// Function 0: (func (param i32) (result i32) local.get 0)
	calleeBody := []byte{wasmdecode.OpLocalGet, 0x00, wasmdecode.OpEnd}
	// Function 1: (func (param i32) (result i32 i32) local.get 0 i32.const 0 call_indirect (type 1) (table 0))
	// We call through the table at index 0 expecting a type with 2 results,
	// but the table holds function 0 whose type has 1 result.
	callerBody := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpI32Const, 0x00, // table index
		wasmdecode.OpCallIndirect, 0x01, 0x00, // type idx 1, table idx 0
		wasmdecode.OpEnd,
	}
	calleeType := i32Type(1, 1)
	callerType := wasmdecode.FuncType{Params: []wasmdecode.ValType{wasmdecode.ValTypeI32}, Results: []wasmdecode.ValType{wasmdecode.ValTypeI32, wasmdecode.ValTypeI32}}

	mod := buildModule(t, []wasmdecode.FuncType{calleeType, callerType}, [][]byte{calleeBody, callerBody}, false)
	mod.Tables = []wasmdecode.Table{{RefType: wasmdecode.ValTypeFuncRef, Limits: wasmdecode.Limits{Min: 1, Max: 1, HasMax: true}}}
	mod.Elems = []wasmdecode.ElemSegment{{
		TableIdx: 0,
		Active:   true,
		Offset:   []byte{wasmdecode.OpI32Const, 0x00, wasmdecode.OpEnd},
		FuncIdxs: []uint32{0},
	}}
	inst := instantiate(t, mod)

	m := NewMachine(Config{})
	_, trap := m.Call(inst, 1, []core.Value{core.ValueFromI32(5)})
	require.NotNil(t, trap)
	require.Equal(t, core.TrapBadSignature, trap.Code)
}

func TestCallF64RoundTripsNaNPayload(t *testing.T) {
	// (func (param f64) (result f64) local.get 0)
	body := []byte{wasmdecode.OpLocalGet, 0x00, wasmdecode.OpEnd}
	ft := wasmdecode.FuncType{Params: []wasmdecode.ValType{wasmdecode.ValTypeF64}, Results: []wasmdecode.ValType{wasmdecode.ValTypeF64}}
	mod := buildModule(t, []wasmdecode.FuncType{ft}, [][]byte{body}, false)
	inst := instantiate(t, mod)

	m := NewMachine(Config{})
	nan := core.F64FromBits(0x7FF8000000000001)
	results, trap := m.Call(inst, 0, []core.Value{core.ValueFromF64(nan)})
	require.Nil(t, trap)
	require.Len(t, results, 1)
	require.Equal(t, nan.ToBits(), results[0].F64().ToBits())
}

func TestCallHostFunctionImport(t *testing.T) {
	ft := i32Type(1, 1)
	hostType := i32Type(1, 1)
	imports := wasm.NewImports()
	imports.DefineFunc("env", "double", wasm.FuncRef{
		Type: hostType,
		Host: func(args []core.Value) ([]core.Value, *core.Trap) {
			return []core.Value{core.ValueFromI32(args[0].I32() * 2)}, nil
		},
	})

	// (func (param i32) (result i32) local.get 0 call 0)
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpCall, 0x00,
		wasmdecode.OpEnd,
	}
	decMod := &wasmdecode.Module{
		Types:   []wasmdecode.FuncType{hostType, ft},
		Imports: []wasmdecode.Import{{Module: "env", Name: "double", Kind: wasmdecode.ImportFunc, TypeIdx: 0}},
	}
	code := ir.NewCodeMap()
	tr := translator.NewTranslator(decMod, false)
	res, err := tr.Translate(ft, wasmdecode.Code{Body: body})
	require.NoError(t, err)
	handle := code.Append(code.Reserve(), res.LenRegisters, 0, res.Encoded)

	mod := &wasm.Module{
		Types:          decMod.Types,
		Code:           code,
		NumFuncImports: 1,
		FuncTypeIdx:    []uint32{0, 1},
		FuncHandles:    []ir.FuncBodyHandle{handle},
		Imports:        decMod.Imports,
	}
	inst, err := wasm.Instantiate(mod, imports, nil)
	require.NoError(t, err)

	m := NewMachine(Config{})
	results, trap := m.Call(inst, 1, []core.Value{core.ValueFromI32(21)})
	require.Nil(t, trap)
	require.Equal(t, int32(42), results[0].I32())
}
