package translator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

func mustTranslate(t *testing.T, mod *wasmdecode.Module, ft wasmdecode.FuncType, body []byte, fuel bool) Result {
	t.Helper()
	tr := NewTranslator(mod, fuel)
	res, err := tr.Translate(ft, wasmdecode.Code{Body: body})
	require.NoError(t, err)
	return res
}

func decodeAll(t *testing.T, encoded []byte) []ir.Instruction {
	t.Helper()
	d := ir.NewDecoder(encoded)
	var out []ir.Instruction
	for d.Pos() < uint32(len(encoded)) {
		inst, err := d.Next()
		require.NoError(t, err)
		out = append(out, inst)
	}
	return out
}

func TestTranslateI32AddReturnsLocalsSummedIntoReturn(t *testing.T) {
	// (func (param i32 i32) (result i32) local.get 0 local.get 1 i32.add)
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpLocalGet, 0x01,
		0x6A, // i32.add
		wasmdecode.OpEnd,
	}
	mod := &wasmdecode.Module{}
	ft := wasmdecode.FuncType{Params: []wasmdecode.ValType{wasmdecode.ValTypeI32, wasmdecode.ValTypeI32}, Results: []wasmdecode.ValType{wasmdecode.ValTypeI32}}
	res := mustTranslate(t, mod, ft, body, false)

	instrs := decodeAll(t, res.Encoded)
	require.Len(t, instrs, 2)
	require.Equal(t, ir.OpBinary, instrs[0].Op)
	require.Equal(t, ir.BinAdd, instrs[0].BinOp)
	require.Equal(t, ir.Slot(0), instrs[0].Lhs)
	require.Equal(t, ir.Slot(1), instrs[0].Rhs)
	require.Equal(t, ir.OpReturn, instrs[1].Op)
	require.Equal(t, instrs[0].Result, instrs[1].Result)
}

func TestTranslateConstantFoldsImmediateBinary(t *testing.T) {
	// (func (result i32) i32.const 2 i32.const 3 i32.add)
	body := []byte{
		wasmdecode.OpI32Const, 0x02,
		wasmdecode.OpI32Const, 0x03,
		0x6A, // i32.add
		wasmdecode.OpEnd,
	}
	mod := &wasmdecode.Module{}
	ft := wasmdecode.FuncType{Results: []wasmdecode.ValType{wasmdecode.ValTypeI32}}
	res := mustTranslate(t, mod, ft, body, false)

	instrs := decodeAll(t, res.Encoded)
	// Folded away: only the materializing Copy (for the folded immediate) and
	// the Return remain.
	require.Len(t, instrs, 2)
	require.Equal(t, ir.OpCopy, instrs[0].Op)
	require.True(t, instrs[0].ImmUsed)
	require.Equal(t, uint64(5), instrs[0].Imm)
	require.Equal(t, ir.OpReturn, instrs[1].Op)
}

func TestTranslateIfElseBothArmsJoinAtEnd(t *testing.T) {
	// (func (param i32) (result i32)
	//   local.get 0
	//   if (result i32)
	//     i32.const 1
	//   else
	//     i32.const 2
	//   end)
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpIf, byte(wasmdecode.ValTypeI32),
		wasmdecode.OpI32Const, 0x01,
		wasmdecode.OpElse,
		wasmdecode.OpI32Const, 0x02,
		wasmdecode.OpEnd,
		wasmdecode.OpEnd,
	}
	mod := &wasmdecode.Module{}
	ft := wasmdecode.FuncType{Params: []wasmdecode.ValType{wasmdecode.ValTypeI32}, Results: []wasmdecode.ValType{wasmdecode.ValTypeI32}}
	res := mustTranslate(t, mod, ft, body, false)

	instrs := decodeAll(t, res.Encoded)
	require.NotEmpty(t, instrs)
	require.Equal(t, ir.OpBrIfEqz, instrs[0].Op)
	// Every branch offset must land within the encoded stream.
	for _, inst := range instrs {
		switch inst.Op {
		case ir.OpBrIfEqz, ir.OpBr:
			require.NotZero(t, inst.Branch)
		}
	}
	last := instrs[len(instrs)-1]
	require.Equal(t, ir.OpReturn, last.Op)
}

func TestTranslateLoopLabelPinsAtEntry(t *testing.T) {
	// (func
	//   loop
	//     i32.const 5
	//     i32.clz
	//     drop
	//     br 0
	//   end)
	body := []byte{
		wasmdecode.OpLoop, 0x40,
		wasmdecode.OpI32Const, 0x05,
		0x67, // i32.clz
		wasmdecode.OpDrop,
		wasmdecode.OpBr, 0x00,
		wasmdecode.OpEnd,
		wasmdecode.OpEnd,
	}
	mod := &wasmdecode.Module{}
	ft := wasmdecode.FuncType{}
	res := mustTranslate(t, mod, ft, body, false)

	instrs := decodeAll(t, res.Encoded)
	require.Len(t, instrs, 4) // materialize(5), clz, backward br, implicit return
	require.Equal(t, ir.OpBr, instrs[2].Op)
	require.Negative(t, int32(instrs[2].Branch))
	require.Equal(t, ir.OpReturn, instrs[3].Op)
}

func TestTranslateCallWiresArgsAndResultSpan(t *testing.T) {
	// Function 1 calls function 0, forwarding one i32 argument.
	mod := &wasmdecode.Module{
		Types: []wasmdecode.FuncType{
			{Params: []wasmdecode.ValType{wasmdecode.ValTypeI32}, Results: []wasmdecode.ValType{wasmdecode.ValTypeI32}},
		},
		Funcs: []uint32{0, 0},
	}
	body := []byte{
		wasmdecode.OpLocalGet, 0x00,
		wasmdecode.OpCall, 0x00,
		wasmdecode.OpEnd,
	}
	ft := mod.Types[0]
	res := mustTranslate(t, mod, ft, body, false)

	instrs := decodeAll(t, res.Encoded)
	require.Len(t, instrs, 3) // copy arg into span, call, return
	require.Equal(t, ir.OpCopy, instrs[0].Op)
	require.Equal(t, ir.OpCall, instrs[1].Op)
	require.EqualValues(t, 0, instrs[1].FuncIdx)
	require.Equal(t, ir.OpReturn, instrs[2].Op)
	require.Equal(t, instrs[1].Result, instrs[2].Result)
}

func TestTranslateUnsupportedOpcodeErrors(t *testing.T) {
	body := []byte{0xFC, wasmdecode.OpEnd} // saturating-truncation prefix, unsupported
	mod := &wasmdecode.Module{}
	ft := wasmdecode.FuncType{}
	tr := NewTranslator(mod, false)
	_, err := tr.Translate(ft, wasmdecode.Code{Body: body})
	require.Error(t, err)
}

func TestTranslateFuelEnabledPatchesConsumeFuel(t *testing.T) {
	body := []byte{
		wasmdecode.OpI32Const, 0x01,
		wasmdecode.OpEnd,
	}
	mod := &wasmdecode.Module{}
	ft := wasmdecode.FuncType{Results: []wasmdecode.ValType{wasmdecode.ValTypeI32}}
	res := mustTranslate(t, mod, ft, body, true)

	instrs := decodeAll(t, res.Encoded)
	require.Equal(t, ir.OpConsumeFuel, instrs[0].Op)
	// Only the i32.const is dispatched through translateOp; the terminating
	// `end` triggers the implicit-return path directly and isn't counted.
	require.Equal(t, ir.BlockFuel(1), instrs[0].Fuel)
}
