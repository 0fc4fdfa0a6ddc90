package translator

import (
	"math/bits"

	"github.com/wasmigo/wasmi/internal/ir"
)

// isIntegerFoldable reports whether op can be constant-folded at translation
// time when both its operands are Immediate. Integer division/remainder are
// deliberately excluded: folding them would require replicating the
// interpreter's trap semantics (division by zero, INT_MIN/-1 overflow) at
// translate time, so those are left for the interpreter to evaluate even
// when both operands happen to be constants.
func isIntegerFoldable(op ir.BinaryOp) bool {
	switch op {
	case ir.BinAdd, ir.BinSub, ir.BinMul, ir.BinAnd, ir.BinOr, ir.BinXor,
		ir.BinShl, ir.BinShrS, ir.BinShrU, ir.BinRotl, ir.BinRotr:
		return true
	default:
		return false
	}
}

// foldBinaryInt evaluates an integer binary operator over two immediate bit
// patterns, returning the result's bit pattern.
func foldBinaryInt(nc numericClass, lhs, rhs uint64) uint64 {
	if nc.operandType == ir.TypeI32 {
		a, b := uint32(lhs), uint32(rhs)
		var r uint32
		switch nc.binOp {
		case ir.BinAdd:
			r = a + b
		case ir.BinSub:
			r = a - b
		case ir.BinMul:
			r = a * b
		case ir.BinAnd:
			r = a & b
		case ir.BinOr:
			r = a | b
		case ir.BinXor:
			r = a ^ b
		case ir.BinShl:
			r = a << (b & 31)
		case ir.BinShrS:
			r = uint32(int32(a) >> (b & 31))
		case ir.BinShrU:
			r = a >> (b & 31)
		case ir.BinRotl:
			r = bits.RotateLeft32(a, int(b&31))
		case ir.BinRotr:
			r = bits.RotateLeft32(a, -int(b&31))
		}
		return uint64(r)
	}
	a, b := lhs, rhs
	var r uint64
	switch nc.binOp {
	case ir.BinAdd:
		r = a + b
	case ir.BinSub:
		r = a - b
	case ir.BinMul:
		r = a * b
	case ir.BinAnd:
		r = a & b
	case ir.BinOr:
		r = a | b
	case ir.BinXor:
		r = a ^ b
	case ir.BinShl:
		r = a << (b & 63)
	case ir.BinShrS:
		r = uint64(int64(a) >> (b & 63))
	case ir.BinShrU:
		r = a >> (b & 63)
	case ir.BinRotl:
		r = bits.RotateLeft64(a, int(b&63))
	case ir.BinRotr:
		r = bits.RotateLeft64(a, -int(b&63))
	}
	return r
}

// foldCompare evaluates an integer comparison operator over two immediate
// bit patterns, returning 1 or 0 as an i32 bit pattern.
func foldCompare(nc numericClass, lhs, rhs uint64) int32 {
	var result bool
	switch nc.operandType {
	case ir.TypeI32:
		a, b := int32(uint32(lhs)), int32(uint32(rhs))
		ua, ub := uint32(lhs), uint32(rhs)
		switch nc.cmpOp {
		case ir.CmpEq:
			result = lhs == rhs
		case ir.CmpNe:
			result = lhs != rhs
		case ir.CmpLtS:
			result = a < b
		case ir.CmpLtU:
			result = ua < ub
		case ir.CmpGtS:
			result = a > b
		case ir.CmpGtU:
			result = ua > ub
		case ir.CmpLeS:
			result = a <= b
		case ir.CmpLeU:
			result = ua <= ub
		case ir.CmpGeS:
			result = a >= b
		case ir.CmpGeU:
			result = ua >= ub
		}
	case ir.TypeI64:
		a, b := int64(lhs), int64(rhs)
		switch nc.cmpOp {
		case ir.CmpEq:
			result = lhs == rhs
		case ir.CmpNe:
			result = lhs != rhs
		case ir.CmpLtS:
			result = a < b
		case ir.CmpLtU:
			result = lhs < rhs
		case ir.CmpGtS:
			result = a > b
		case ir.CmpGtU:
			result = lhs > rhs
		case ir.CmpLeS:
			result = a <= b
		case ir.CmpLeU:
			result = lhs <= rhs
		case ir.CmpGeS:
			result = a >= b
		case ir.CmpGeU:
			result = lhs >= rhs
		}
	}
	if result {
		return 1
	}
	return 0
}
