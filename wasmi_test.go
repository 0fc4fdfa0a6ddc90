package wasmi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	wasmi "github.com/wasmigo/wasmi"
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// addModuleBytes is (module (func (export "add") (param i32 i32) (result
// i32) local.get 0 local.get 1 i32.add)), hand-encoded per the Wasm MVP
// binary format wasmdecode.Decode expects (no text-format front end exists
// in this engine; see cmd/wasmi's .wat rejection).
var addModuleBytes = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
	0x0A, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,
}

// divsModuleBytes is (module (func (export "divs") (param i32 i32) (result
// i32) local.get 0 local.get 1 i32.div_s)).
var divsModuleBytes = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x08, 0x01, 0x04, 0x64, 0x69, 0x76, 0x73, 0x00, 0x00,
	0x0A, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6D, 0x0B,
}

// hostImportModuleBytes is (module (import "env" "double" (func (param i32)
// (result i32))) (func (export "call_double") (param i32) (result i32)
// local.get 0 call 0)).
var hostImportModuleBytes = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x06, 0x01, 0x60, 0x01, 0x7F, 0x01, 0x7F,
	0x02, 0x0E, 0x01, 0x03, 0x65, 0x6E, 0x76, 0x06, 0x64, 0x6F, 0x75, 0x62, 0x6C, 0x65, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0F, 0x01, 0x0B, 0x63, 0x61, 0x6C, 0x6C, 0x5F, 0x64, 0x6F, 0x75, 0x62, 0x6C, 0x65, 0x00, 0x01,
	0x0A, 0x08, 0x01, 0x06, 0x00, 0x20, 0x00, 0x10, 0x00, 0x0B,
}

func TestEndToEndExportedFunctionCall(t *testing.T) {
	engine := wasmi.NewEngine(nil)

	mod, err := wasmi.NewModule(engine, addModuleBytes)
	require.NoError(t, err)
	require.Equal(t, []string{"add"}, mod.ExportedFunctionNames())

	store := wasmi.NewStore[any](engine, nil)
	linker := wasmi.NewLinker[any](store)

	inst, err := linker.Instantiate(mod)
	require.NoError(t, err)

	fn, ok := inst.ExportedFunc("add")
	require.True(t, ok)
	require.Equal(t, []wasmdecode.ValType{wasmdecode.ValTypeI32, wasmdecode.ValTypeI32}, fn.Type().Params)

	results, err := fn.Call(wasmi.ValueFromI32(2), wasmi.ValueFromI32(3))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int32(5), results[0].I32())
}

func TestEndToEndTypedFunc(t *testing.T) {
	engine := wasmi.NewEngine(nil)
	mod, err := wasmi.NewModule(engine, addModuleBytes)
	require.NoError(t, err)

	store := wasmi.NewStore[any](engine, nil)
	linker := wasmi.NewLinker[any](store)
	inst, err := linker.Instantiate(mod)
	require.NoError(t, err)

	fn, ok := inst.ExportedFunc("add")
	require.True(t, ok)

	// add's real signature is (i32,i32)->i32, so binding it as a 1-param/
	// 1-result TypedFunc must fail arity checking at construction time.
	_, err = wasmi.NewTypedFunc1_1(fn,
		func(v int32) []wasmi.Value { return []wasmi.Value{wasmi.ValueFromI32(v)} },
		func(vs []wasmi.Value) int32 { return vs[0].I32() },
	)
	require.ErrorIs(t, err, wasmi.ErrSignatureMismatch)
}

func TestEndToEndTrapUnwindsAsError(t *testing.T) {
	engine := wasmi.NewEngine(nil)
	mod, err := wasmi.NewModule(engine, divsModuleBytes)
	require.NoError(t, err)

	store := wasmi.NewStore[any](engine, nil)
	linker := wasmi.NewLinker[any](store)
	inst, err := linker.Instantiate(mod)
	require.NoError(t, err)

	fn, ok := inst.ExportedFunc("divs")
	require.True(t, ok)

	_, err = fn.Call(wasmi.ValueFromI32(7), wasmi.ValueFromI32(0))
	require.Error(t, err)

	var trap *wasmi.Trap
	require.True(t, errors.As(err, &trap))
	require.Equal(t, wasmi.TrapIntegerDivisionByZero, trap.Code)
}

func TestEndToEndHostFuncImport(t *testing.T) {
	engine := wasmi.NewEngine(nil)
	mod, err := wasmi.NewModule(engine, hostImportModuleBytes)
	require.NoError(t, err)

	store := wasmi.NewStore[any](engine, nil)
	linker := wasmi.NewLinker[any](store)

	doubleType := wasmdecode.FuncType{
		Params:  []wasmdecode.ValType{wasmdecode.ValTypeI32},
		Results: []wasmdecode.ValType{wasmdecode.ValTypeI32},
	}
	err = linker.DefineFunc("env", "double", doubleType, func(s *wasmi.Store[any], args []wasmi.Value) ([]wasmi.Value, *wasmi.Trap) {
		return []wasmi.Value{wasmi.ValueFromI32(args[0].I32() * 2)}, nil
	})
	require.NoError(t, err)

	// Defining the same import twice must be rejected.
	err = linker.DefineFunc("env", "double", doubleType, func(s *wasmi.Store[any], args []wasmi.Value) ([]wasmi.Value, *wasmi.Trap) {
		return args, nil
	})
	require.ErrorIs(t, err, wasmi.ErrDuplicateDefinition)

	inst, err := linker.Instantiate(mod)
	require.NoError(t, err)

	fn, ok := inst.ExportedFunc("call_double")
	require.True(t, ok)

	results, err := fn.Call(wasmi.ValueFromI32(21))
	require.NoError(t, err)
	require.Equal(t, int32(42), results[0].I32())
}

func TestEndToEndMissingHostImportFailsInstantiation(t *testing.T) {
	engine := wasmi.NewEngine(nil)
	mod, err := wasmi.NewModule(engine, hostImportModuleBytes)
	require.NoError(t, err)

	store := wasmi.NewStore[any](engine, nil)
	linker := wasmi.NewLinker[any](store)

	_, err = linker.Instantiate(mod)
	require.ErrorIs(t, err, wasmi.ErrInstantiation)
}

func TestEndToEndFuelExhaustionTraps(t *testing.T) {
	engine := wasmi.NewEngine(wasmi.NewConfig().WithFuel(true))
	mod, err := wasmi.NewModule(engine, addModuleBytes)
	require.NoError(t, err)

	store := wasmi.NewStore[any](engine, nil)
	store.SetFuel(0)
	linker := wasmi.NewLinker[any](store)
	inst, err := linker.Instantiate(mod)
	require.NoError(t, err)

	fn, ok := inst.ExportedFunc("add")
	require.True(t, ok)

	_, err = fn.Call(wasmi.ValueFromI32(1), wasmi.ValueFromI32(1))
	require.Error(t, err)

	var trap *wasmi.Trap
	if errors.As(err, &trap) {
		require.Equal(t, wasmi.TrapOutOfFuel, trap.Code)
	}
}

func TestNewModuleRejectsMalformedBinary(t *testing.T) {
	engine := wasmi.NewEngine(nil)
	_, err := wasmi.NewModule(engine, []byte{0x00, 0x01, 0x02})
	require.ErrorIs(t, err, wasmi.ErrMalformedBinary)
}

func TestValidateModule(t *testing.T) {
	require.NoError(t, wasmi.ValidateModule(nil, addModuleBytes))
	require.Error(t, wasmi.ValidateModule(nil, []byte("not wasm")))
}

func TestExportedFuncNotFound(t *testing.T) {
	engine := wasmi.NewEngine(nil)
	mod, err := wasmi.NewModule(engine, addModuleBytes)
	require.NoError(t, err)

	store := wasmi.NewStore[any](engine, nil)
	linker := wasmi.NewLinker[any](store)
	inst, err := linker.Instantiate(mod)
	require.NoError(t, err)

	_, ok := inst.ExportedFunc("missing")
	require.False(t, ok)
}

func TestValueRoundTrip(t *testing.T) {
	v := wasmi.ValueFromF64(wasmi.F64FromFloat64(3.5))
	require.Equal(t, 3.5, v.F64().ToFloat64())
	require.IsType(t, core.Value(0), v)
}
