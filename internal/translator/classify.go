package translator

import (
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// numericKind distinguishes how classify interprets a numeric Wasm opcode:
// as a unary, binary, or comparison instruction.
type numericKind uint8

const (
	numNone numericKind = iota
	numUnary
	numBinary
	numCompare
)

// numericClass is the result of classifying one Wasm numeric opcode byte
// into this engine's reduced IR operator set (spec.md §3's "unary, binary,
// compare-branch, compare-select" union, folded here into OpUnary/OpBinary/
// OpCompare with an operator-selecting sub-field — see DESIGN.md component C
// for the scope rationale).
type numericClass struct {
	kind  numericKind
	unOp  ir.UnaryOp
	binOp ir.BinaryOp
	cmpOp ir.CompareOp
	// operandType is the type the operator's operands are read as;
	// resultType is the type its result is written as (they differ for
	// conversions, which classify as numUnary with distinct operand/result
	// types).
	operandType ir.ValueType
	resultType  ir.ValueType
}

// classify maps a raw Wasm opcode byte to its numericClass, or reports
// numNone if the opcode isn't a numeric instruction classify handles (i.e.
// it's a control, variable-access, or memory instruction the translator's
// main switch already handles directly).
func classify(code byte) numericClass {
	switch code {
	// i32 comparisons
	case 0x45:
		return numericClass{kind: numUnary, unOp: ir.UnEqz, operandType: ir.TypeI32, resultType: ir.TypeI32}
	case 0x46:
		return cmp(ir.CmpEq, ir.TypeI32)
	case 0x47:
		return cmp(ir.CmpNe, ir.TypeI32)
	case 0x48:
		return cmp(ir.CmpLtS, ir.TypeI32)
	case 0x49:
		return cmp(ir.CmpLtU, ir.TypeI32)
	case 0x4A:
		return cmp(ir.CmpGtS, ir.TypeI32)
	case 0x4B:
		return cmp(ir.CmpGtU, ir.TypeI32)
	case 0x4C:
		return cmp(ir.CmpLeS, ir.TypeI32)
	case 0x4D:
		return cmp(ir.CmpLeU, ir.TypeI32)
	case 0x4E:
		return cmp(ir.CmpGeS, ir.TypeI32)
	case 0x4F:
		return cmp(ir.CmpGeU, ir.TypeI32)

	// i64 comparisons
	case 0x50:
		return numericClass{kind: numUnary, unOp: ir.UnEqz, operandType: ir.TypeI64, resultType: ir.TypeI32}
	case 0x51:
		return cmp(ir.CmpEq, ir.TypeI64)
	case 0x52:
		return cmp(ir.CmpNe, ir.TypeI64)
	case 0x53:
		return cmp(ir.CmpLtS, ir.TypeI64)
	case 0x54:
		return cmp(ir.CmpLtU, ir.TypeI64)
	case 0x55:
		return cmp(ir.CmpGtS, ir.TypeI64)
	case 0x56:
		return cmp(ir.CmpGtU, ir.TypeI64)
	case 0x57:
		return cmp(ir.CmpLeS, ir.TypeI64)
	case 0x58:
		return cmp(ir.CmpLeU, ir.TypeI64)
	case 0x59:
		return cmp(ir.CmpGeS, ir.TypeI64)
	case 0x5A:
		return cmp(ir.CmpGeU, ir.TypeI64)

	// f32/f64 comparisons
	case 0x5B:
		return cmp(ir.CmpEq, ir.TypeF32)
	case 0x5C:
		return cmp(ir.CmpNe, ir.TypeF32)
	case 0x5D:
		return cmp(ir.CmpLtF, ir.TypeF32)
	case 0x5E:
		return cmp(ir.CmpGtF, ir.TypeF32)
	case 0x5F:
		return cmp(ir.CmpLeF, ir.TypeF32)
	case 0x60:
		return cmp(ir.CmpGeF, ir.TypeF32)
	case 0x61:
		return cmp(ir.CmpEq, ir.TypeF64)
	case 0x62:
		return cmp(ir.CmpNe, ir.TypeF64)
	case 0x63:
		return cmp(ir.CmpLtF, ir.TypeF64)
	case 0x64:
		return cmp(ir.CmpGtF, ir.TypeF64)
	case 0x65:
		return cmp(ir.CmpLeF, ir.TypeF64)
	case 0x66:
		return cmp(ir.CmpGeF, ir.TypeF64)

	// i32 unary / binary
	case 0x67:
		return un(ir.UnClz, ir.TypeI32, ir.TypeI32)
	case 0x68:
		return un(ir.UnCtz, ir.TypeI32, ir.TypeI32)
	case 0x69:
		return un(ir.UnPopcnt, ir.TypeI32, ir.TypeI32)
	case 0x6A:
		return bin(ir.BinAdd, ir.TypeI32)
	case 0x6B:
		return bin(ir.BinSub, ir.TypeI32)
	case 0x6C:
		return bin(ir.BinMul, ir.TypeI32)
	case 0x6D:
		return bin(ir.BinDivS, ir.TypeI32)
	case 0x6E:
		return bin(ir.BinDivU, ir.TypeI32)
	case 0x6F:
		return bin(ir.BinRemS, ir.TypeI32)
	case 0x70:
		return bin(ir.BinRemU, ir.TypeI32)
	case 0x71:
		return bin(ir.BinAnd, ir.TypeI32)
	case 0x72:
		return bin(ir.BinOr, ir.TypeI32)
	case 0x73:
		return bin(ir.BinXor, ir.TypeI32)
	case 0x74:
		return bin(ir.BinShl, ir.TypeI32)
	case 0x75:
		return bin(ir.BinShrS, ir.TypeI32)
	case 0x76:
		return bin(ir.BinShrU, ir.TypeI32)
	case 0x77:
		return bin(ir.BinRotl, ir.TypeI32)
	case 0x78:
		return bin(ir.BinRotr, ir.TypeI32)

	// i64 unary / binary
	case 0x79:
		return un(ir.UnClz, ir.TypeI64, ir.TypeI64)
	case 0x7A:
		return un(ir.UnCtz, ir.TypeI64, ir.TypeI64)
	case 0x7B:
		return un(ir.UnPopcnt, ir.TypeI64, ir.TypeI64)
	case 0x7C:
		return bin(ir.BinAdd, ir.TypeI64)
	case 0x7D:
		return bin(ir.BinSub, ir.TypeI64)
	case 0x7E:
		return bin(ir.BinMul, ir.TypeI64)
	case 0x7F:
		return bin(ir.BinDivS, ir.TypeI64)
	case 0x80:
		return bin(ir.BinDivU, ir.TypeI64)
	case 0x81:
		return bin(ir.BinRemS, ir.TypeI64)
	case 0x82:
		return bin(ir.BinRemU, ir.TypeI64)
	case 0x83:
		return bin(ir.BinAnd, ir.TypeI64)
	case 0x84:
		return bin(ir.BinOr, ir.TypeI64)
	case 0x85:
		return bin(ir.BinXor, ir.TypeI64)
	case 0x86:
		return bin(ir.BinShl, ir.TypeI64)
	case 0x87:
		return bin(ir.BinShrS, ir.TypeI64)
	case 0x88:
		return bin(ir.BinShrU, ir.TypeI64)
	case 0x89:
		return bin(ir.BinRotl, ir.TypeI64)
	case 0x8A:
		return bin(ir.BinRotr, ir.TypeI64)

	// f32 unary / binary
	case 0x8B:
		return un(ir.UnAbs, ir.TypeF32, ir.TypeF32)
	case 0x8C:
		return un(ir.UnNeg, ir.TypeF32, ir.TypeF32)
	case 0x8D:
		return un(ir.UnCeil, ir.TypeF32, ir.TypeF32)
	case 0x8E:
		return un(ir.UnFloor, ir.TypeF32, ir.TypeF32)
	case 0x8F:
		return un(ir.UnTrunc, ir.TypeF32, ir.TypeF32)
	case 0x90:
		return un(ir.UnNearest, ir.TypeF32, ir.TypeF32)
	case 0x91:
		return un(ir.UnSqrt, ir.TypeF32, ir.TypeF32)
	case 0x92:
		return bin(ir.BinAdd, ir.TypeF32)
	case 0x93:
		return bin(ir.BinSub, ir.TypeF32)
	case 0x94:
		return bin(ir.BinMul, ir.TypeF32)
	case 0x95:
		return bin(ir.BinDivS, ir.TypeF32) // reuses DivS discriminant for float divide
	case 0x96:
		return bin(ir.BinMin, ir.TypeF32)
	case 0x97:
		return bin(ir.BinMax, ir.TypeF32)
	case 0x98:
		return bin(ir.BinCopySign, ir.TypeF32)

	// f64 unary / binary
	case 0x99:
		return un(ir.UnAbs, ir.TypeF64, ir.TypeF64)
	case 0x9A:
		return un(ir.UnNeg, ir.TypeF64, ir.TypeF64)
	case 0x9B:
		return un(ir.UnCeil, ir.TypeF64, ir.TypeF64)
	case 0x9C:
		return un(ir.UnFloor, ir.TypeF64, ir.TypeF64)
	case 0x9D:
		return un(ir.UnTrunc, ir.TypeF64, ir.TypeF64)
	case 0x9E:
		return un(ir.UnNearest, ir.TypeF64, ir.TypeF64)
	case 0x9F:
		return un(ir.UnSqrt, ir.TypeF64, ir.TypeF64)
	case 0xA0:
		return bin(ir.BinAdd, ir.TypeF64)
	case 0xA1:
		return bin(ir.BinSub, ir.TypeF64)
	case 0xA2:
		return bin(ir.BinMul, ir.TypeF64)
	case 0xA3:
		return bin(ir.BinDivS, ir.TypeF64)
	case 0xA4:
		return bin(ir.BinMin, ir.TypeF64)
	case 0xA5:
		return bin(ir.BinMax, ir.TypeF64)
	case 0xA6:
		return bin(ir.BinCopySign, ir.TypeF64)

	// conversions (unary, possibly changing the operand/result type)
	case 0xA7:
		return un(ir.UnWrap64To32, ir.TypeI64, ir.TypeI32)
	case 0xA8:
		return un(ir.UnTruncToIntS32, ir.TypeF32, ir.TypeI32)
	case 0xA9:
		return un(ir.UnTruncToIntU32, ir.TypeF32, ir.TypeI32)
	case 0xAA:
		return un(ir.UnTruncToIntS32, ir.TypeF64, ir.TypeI32)
	case 0xAB:
		return un(ir.UnTruncToIntU32, ir.TypeF64, ir.TypeI32)
	case 0xAC:
		return un(ir.UnExtendS32To64, ir.TypeI32, ir.TypeI64)
	case 0xAD:
		return un(ir.UnExtendU32To64, ir.TypeI32, ir.TypeI64)
	case 0xAE:
		return un(ir.UnTruncToIntS64, ir.TypeF32, ir.TypeI64)
	case 0xAF:
		return un(ir.UnTruncToIntU64, ir.TypeF32, ir.TypeI64)
	case 0xB0:
		return un(ir.UnTruncToIntS64, ir.TypeF64, ir.TypeI64)
	case 0xB1:
		return un(ir.UnTruncToIntU64, ir.TypeF64, ir.TypeI64)
	case 0xB2:
		return un(ir.UnConvertSToFloat32, ir.TypeI32, ir.TypeF32)
	case 0xB3:
		return un(ir.UnConvertUToFloat32, ir.TypeI32, ir.TypeF32)
	case 0xB4:
		return un(ir.UnConvertSToFloat32, ir.TypeI64, ir.TypeF32)
	case 0xB5:
		return un(ir.UnConvertUToFloat32, ir.TypeI64, ir.TypeF32)
	case 0xB6:
		return un(ir.UnDemoteF64ToF32, ir.TypeF64, ir.TypeF32)
	case 0xB7:
		return un(ir.UnConvertSToFloat64, ir.TypeI32, ir.TypeF64)
	case 0xB8:
		return un(ir.UnConvertUToFloat64, ir.TypeI32, ir.TypeF64)
	case 0xB9:
		return un(ir.UnConvertSToFloat64, ir.TypeI64, ir.TypeF64)
	case 0xBA:
		return un(ir.UnConvertUToFloat64, ir.TypeI64, ir.TypeF64)
	case 0xBB:
		return un(ir.UnPromoteF32ToF64, ir.TypeF32, ir.TypeF64)
	case 0xBC:
		return un(ir.UnReinterpret, ir.TypeF32, ir.TypeI32)
	case 0xBD:
		return un(ir.UnReinterpret, ir.TypeF64, ir.TypeI64)
	case 0xBE:
		return un(ir.UnReinterpret, ir.TypeI32, ir.TypeF32)
	case 0xBF:
		return un(ir.UnReinterpret, ir.TypeI64, ir.TypeF64)
	case 0xC0:
		return un(ir.UnExtend8S, ir.TypeI32, ir.TypeI32)
	case 0xC1:
		return un(ir.UnExtend16S, ir.TypeI32, ir.TypeI32)
	case 0xC2:
		return un(ir.UnExtend8S, ir.TypeI64, ir.TypeI64)
	case 0xC3:
		return un(ir.UnExtend16S, ir.TypeI64, ir.TypeI64)
	case 0xC4:
		return un(ir.UnExtend32S, ir.TypeI64, ir.TypeI64)
	}
	return numericClass{kind: numNone}
}

func cmp(op ir.CompareOp, ty ir.ValueType) numericClass {
	return numericClass{kind: numCompare, cmpOp: op, operandType: ty, resultType: ir.TypeI32}
}

func bin(op ir.BinaryOp, ty ir.ValueType) numericClass {
	return numericClass{kind: numBinary, binOp: op, operandType: ty, resultType: ty}
}

func un(op ir.UnaryOp, operandTy, resultTy ir.ValueType) numericClass {
	return numericClass{kind: numUnary, unOp: op, operandType: operandTy, resultType: resultTy}
}

// valTypeFromIR converts an ir.ValueType back to the wasmdecode.ValType wire
// encoding, used when pushing a freshly computed result onto the operand
// stack.
func valTypeFromIR(ty ir.ValueType) wasmdecode.ValType {
	switch ty {
	case ir.TypeI32:
		return wasmdecode.ValTypeI32
	case ir.TypeI64:
		return wasmdecode.ValTypeI64
	case ir.TypeF32:
		return wasmdecode.ValTypeF32
	case ir.TypeF64:
		return wasmdecode.ValTypeF64
	default:
		return wasmdecode.ValTypeI32
	}
}

// irValueType converts a wasmdecode.ValType wire encoding to the IR's
// ValueType.
func irValueType(ty wasmdecode.ValType) ir.ValueType {
	switch ty {
	case wasmdecode.ValTypeI32:
		return ir.TypeI32
	case wasmdecode.ValTypeI64:
		return ir.TypeI64
	case wasmdecode.ValTypeF32:
		return ir.TypeF32
	case wasmdecode.ValTypeF64:
		return ir.TypeF64
	case wasmdecode.ValTypeV128:
		return ir.TypeV128
	case wasmdecode.ValTypeFuncRef:
		return ir.TypeFuncRef
	case wasmdecode.ValTypeExternRef:
		return ir.TypeExternRef
	default:
		return ir.TypeI32
	}
}
