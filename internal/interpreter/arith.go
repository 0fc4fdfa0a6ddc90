package interpreter

import (
	"math"
	"math/bits"

	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/ir"
)

// evalCompare evaluates a CompareOp over lhs/rhs interpreted as ty, mirroring
// the translator's own const_fold.go (foldCompare) so that folded and
// unfolded comparisons agree bit-for-bit.
func evalCompare(op ir.CompareOp, ty ir.ValueType, lhs, rhs core.Value) bool {
	switch ty {
	case ir.TypeI32:
		a, b := lhs.I32(), rhs.I32()
		ua, ub := lhs.U32(), rhs.U32()
		switch op {
		case ir.CmpEq:
			return ua == ub
		case ir.CmpNe:
			return ua != ub
		case ir.CmpLtS:
			return a < b
		case ir.CmpLtU:
			return ua < ub
		case ir.CmpGtS:
			return a > b
		case ir.CmpGtU:
			return ua > ub
		case ir.CmpLeS:
			return a <= b
		case ir.CmpLeU:
			return ua <= ub
		case ir.CmpGeS:
			return a >= b
		case ir.CmpGeU:
			return ua >= ub
		}
	case ir.TypeI64:
		a, b := lhs.I64(), rhs.I64()
		ua, ub := lhs.U64(), rhs.U64()
		switch op {
		case ir.CmpEq:
			return ua == ub
		case ir.CmpNe:
			return ua != ub
		case ir.CmpLtS:
			return a < b
		case ir.CmpLtU:
			return ua < ub
		case ir.CmpGtS:
			return a > b
		case ir.CmpGtU:
			return ua > ub
		case ir.CmpLeS:
			return a <= b
		case ir.CmpLeU:
			return ua <= ub
		case ir.CmpGeS:
			return a >= b
		case ir.CmpGeU:
			return ua >= ub
		}
	case ir.TypeF32:
		a, b := lhs.F32(), rhs.F32()
		switch op {
		case ir.CmpEq:
			return a.Eq(b)
		case ir.CmpNe:
			return !a.Eq(b)
		case ir.CmpLtF:
			return a.Lt(b)
		case ir.CmpGtF:
			return a.Gt(b)
		case ir.CmpLeF:
			return a.Le(b)
		case ir.CmpGeF:
			return a.Ge(b)
		}
	case ir.TypeF64:
		a, b := lhs.F64(), rhs.F64()
		switch op {
		case ir.CmpEq:
			return a.Eq(b)
		case ir.CmpNe:
			return !a.Eq(b)
		case ir.CmpLtF:
			return a.Lt(b)
		case ir.CmpGtF:
			return a.Gt(b)
		case ir.CmpLeF:
			return a.Le(b)
		case ir.CmpGeF:
			return a.Ge(b)
		}
	}
	panic("interpreter: compare op/type combination never emitted by the translator")
}

// evalBinary evaluates a BinaryOp over lhs/rhs interpreted as ty. Integer
// div/rem report traps per spec.md §4.G; every other operator is total.
func evalBinary(op ir.BinaryOp, ty ir.ValueType, lhs, rhs core.Value) (core.Value, *core.Trap) {
	switch ty {
	case ir.TypeI32:
		return evalBinaryI32(op, lhs, rhs)
	case ir.TypeI64:
		return evalBinaryI64(op, lhs, rhs)
	case ir.TypeF32:
		return evalBinaryF32(op, lhs, rhs), nil
	case ir.TypeF64:
		return evalBinaryF64(op, lhs, rhs), nil
	}
	panic("interpreter: binary op on a type the translator never emits")
}

func evalBinaryI32(op ir.BinaryOp, lhs, rhs core.Value) (core.Value, *core.Trap) {
	a, b := lhs.I32(), rhs.I32()
	ua, ub := lhs.U32(), rhs.U32()
	switch op {
	case ir.BinAdd:
		return core.ValueFromU32(ua + ub), nil
	case ir.BinSub:
		return core.ValueFromU32(ua - ub), nil
	case ir.BinMul:
		return core.ValueFromU32(ua * ub), nil
	case ir.BinDivS:
		if b == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		if a == math.MinInt32 && b == -1 {
			return 0, core.NewTrap(core.TrapIntegerOverflow)
		}
		return core.ValueFromI32(a / b), nil
	case ir.BinDivU:
		if ub == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		return core.ValueFromU32(ua / ub), nil
	case ir.BinRemS:
		if b == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		if a == math.MinInt32 && b == -1 {
			return core.ValueFromI32(0), nil
		}
		return core.ValueFromI32(a % b), nil
	case ir.BinRemU:
		if ub == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		return core.ValueFromU32(ua % ub), nil
	case ir.BinAnd:
		return core.ValueFromU32(ua & ub), nil
	case ir.BinOr:
		return core.ValueFromU32(ua | ub), nil
	case ir.BinXor:
		return core.ValueFromU32(ua ^ ub), nil
	case ir.BinShl:
		return core.ValueFromU32(ua << (ub & 31)), nil
	case ir.BinShrS:
		return core.ValueFromI32(a >> (ub & 31)), nil
	case ir.BinShrU:
		return core.ValueFromU32(ua >> (ub & 31)), nil
	case ir.BinRotl:
		return core.ValueFromU32(bits.RotateLeft32(ua, int(ub&31))), nil
	case ir.BinRotr:
		return core.ValueFromU32(bits.RotateLeft32(ua, -int(ub&31))), nil
	}
	panic("interpreter: unsupported i32 binary op")
}

func evalBinaryI64(op ir.BinaryOp, lhs, rhs core.Value) (core.Value, *core.Trap) {
	a, b := lhs.I64(), rhs.I64()
	ua, ub := lhs.U64(), rhs.U64()
	switch op {
	case ir.BinAdd:
		return core.ValueFromU64(ua + ub), nil
	case ir.BinSub:
		return core.ValueFromU64(ua - ub), nil
	case ir.BinMul:
		return core.ValueFromU64(ua * ub), nil
	case ir.BinDivS:
		if b == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		if a == math.MinInt64 && b == -1 {
			return 0, core.NewTrap(core.TrapIntegerOverflow)
		}
		return core.ValueFromI64(a / b), nil
	case ir.BinDivU:
		if ub == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		return core.ValueFromU64(ua / ub), nil
	case ir.BinRemS:
		if b == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		if a == math.MinInt64 && b == -1 {
			return core.ValueFromI64(0), nil
		}
		return core.ValueFromI64(a % b), nil
	case ir.BinRemU:
		if ub == 0 {
			return 0, core.NewTrap(core.TrapIntegerDivisionByZero)
		}
		return core.ValueFromU64(ua % ub), nil
	case ir.BinAnd:
		return core.ValueFromU64(ua & ub), nil
	case ir.BinOr:
		return core.ValueFromU64(ua | ub), nil
	case ir.BinXor:
		return core.ValueFromU64(ua ^ ub), nil
	case ir.BinShl:
		return core.ValueFromU64(ua << (ub & 63)), nil
	case ir.BinShrS:
		return core.ValueFromI64(a >> (ub & 63)), nil
	case ir.BinShrU:
		return core.ValueFromU64(ua >> (ub & 63)), nil
	case ir.BinRotl:
		return core.ValueFromU64(bits.RotateLeft64(ua, int(ub&63))), nil
	case ir.BinRotr:
		return core.ValueFromU64(bits.RotateLeft64(ua, -int(ub&63))), nil
	}
	panic("interpreter: unsupported i64 binary op")
}

func evalBinaryF32(op ir.BinaryOp, lhs, rhs core.Value) core.Value {
	a, b := lhs.F32(), rhs.F32()
	switch op {
	case ir.BinAdd:
		return core.ValueFromF32(core.F32FromFloat32(a.ToFloat32() + b.ToFloat32()))
	case ir.BinSub:
		return core.ValueFromF32(core.F32FromFloat32(a.ToFloat32() - b.ToFloat32()))
	case ir.BinMul:
		return core.ValueFromF32(core.F32FromFloat32(a.ToFloat32() * b.ToFloat32()))
	case ir.BinDivS: // reuses the DivS discriminant for float divide, per classify.go
		return core.ValueFromF32(core.F32FromFloat32(a.ToFloat32() / b.ToFloat32()))
	case ir.BinMin:
		return core.ValueFromF32(a.Min(b))
	case ir.BinMax:
		return core.ValueFromF32(a.Max(b))
	case ir.BinCopySign:
		return core.ValueFromF32(a.CopySign(b))
	}
	panic("interpreter: unsupported f32 binary op")
}

func evalBinaryF64(op ir.BinaryOp, lhs, rhs core.Value) core.Value {
	a, b := lhs.F64(), rhs.F64()
	switch op {
	case ir.BinAdd:
		return core.ValueFromF64(core.F64FromFloat64(a.ToFloat64() + b.ToFloat64()))
	case ir.BinSub:
		return core.ValueFromF64(core.F64FromFloat64(a.ToFloat64() - b.ToFloat64()))
	case ir.BinMul:
		return core.ValueFromF64(core.F64FromFloat64(a.ToFloat64() * b.ToFloat64()))
	case ir.BinDivS:
		return core.ValueFromF64(core.F64FromFloat64(a.ToFloat64() / b.ToFloat64()))
	case ir.BinMin:
		return core.ValueFromF64(a.Min(b))
	case ir.BinMax:
		return core.ValueFromF64(a.Max(b))
	case ir.BinCopySign:
		return core.ValueFromF64(a.CopySign(b))
	}
	panic("interpreter: unsupported f64 binary op")
}

// evalUnary evaluates a UnaryOp; ty is the operand's type (Instruction.Type
// stores only the source type — see ir.UnaryOp's doc comment on why the
// trunc/convert family is split by result width instead of relying on a
// second type field).
func evalUnary(op ir.UnaryOp, ty ir.ValueType, v core.Value) (core.Value, *core.Trap) {
	switch op {
	case ir.UnEqz:
		var zero bool
		if ty == ir.TypeI64 {
			zero = v.U64() == 0
		} else {
			zero = v.U32() == 0
		}
		if zero {
			return core.ValueFromI32(1), nil
		}
		return core.ValueFromI32(0), nil
	case ir.UnClz:
		if ty == ir.TypeI64 {
			return core.ValueFromI64(int64(bits.LeadingZeros64(v.U64()))), nil
		}
		return core.ValueFromI32(int32(bits.LeadingZeros32(v.U32()))), nil
	case ir.UnCtz:
		if ty == ir.TypeI64 {
			return core.ValueFromI64(int64(bits.TrailingZeros64(v.U64()))), nil
		}
		return core.ValueFromI32(int32(bits.TrailingZeros32(v.U32()))), nil
	case ir.UnPopcnt:
		if ty == ir.TypeI64 {
			return core.ValueFromI64(int64(bits.OnesCount64(v.U64()))), nil
		}
		return core.ValueFromI32(int32(bits.OnesCount32(v.U32()))), nil
	case ir.UnExtend8S:
		if ty == ir.TypeI64 {
			return core.ValueFromI64(int64(int8(v.U64()))), nil
		}
		return core.ValueFromI32(int32(int8(v.U32()))), nil
	case ir.UnExtend16S:
		if ty == ir.TypeI64 {
			return core.ValueFromI64(int64(int16(v.U64()))), nil
		}
		return core.ValueFromI32(int32(int16(v.U32()))), nil
	case ir.UnExtend32S:
		return core.ValueFromI64(int64(int32(v.U64()))), nil
	case ir.UnWrap64To32:
		return core.ValueFromI32(int32(v.U64())), nil
	case ir.UnExtendS32To64:
		return core.ValueFromI64(int64(v.I32())), nil
	case ir.UnExtendU32To64:
		return core.ValueFromU64(uint64(v.U32())), nil
	case ir.UnNeg:
		if ty == ir.TypeF64 {
			return core.ValueFromF64(v.F64().Neg()), nil
		}
		return core.ValueFromF32(v.F32().Neg()), nil
	case ir.UnAbs:
		if ty == ir.TypeF64 {
			return core.ValueFromF64(v.F64().Abs()), nil
		}
		return core.ValueFromF32(v.F32().Abs()), nil
	case ir.UnSqrt:
		if ty == ir.TypeF64 {
			return core.ValueFromF64(core.F64FromFloat64(math.Sqrt(v.F64().ToFloat64()))), nil
		}
		return core.ValueFromF32(core.F32FromFloat32(float32(math.Sqrt(float64(v.F32().ToFloat32()))))), nil
	case ir.UnCeil:
		return roundF(ty, v, math.Ceil), nil
	case ir.UnFloor:
		return roundF(ty, v, math.Floor), nil
	case ir.UnTrunc:
		return roundF(ty, v, math.Trunc), nil
	case ir.UnNearest:
		return roundF(ty, v, math.RoundToEven), nil
	case ir.UnConvertSToFloat32:
		if ty == ir.TypeI64 {
			return core.ValueFromF32(core.F32FromFloat32(float32(v.I64()))), nil
		}
		return core.ValueFromF32(core.F32FromFloat32(float32(v.I32()))), nil
	case ir.UnConvertUToFloat32:
		if ty == ir.TypeI64 {
			return core.ValueFromF32(core.F32FromFloat32(float32(v.U64()))), nil
		}
		return core.ValueFromF32(core.F32FromFloat32(float32(v.U32()))), nil
	case ir.UnConvertSToFloat64:
		if ty == ir.TypeI64 {
			return core.ValueFromF64(core.F64FromFloat64(float64(v.I64()))), nil
		}
		return core.ValueFromF64(core.F64FromFloat64(float64(v.I32()))), nil
	case ir.UnConvertUToFloat64:
		if ty == ir.TypeI64 {
			return core.ValueFromF64(core.F64FromFloat64(float64(v.U64()))), nil
		}
		return core.ValueFromF64(core.F64FromFloat64(float64(v.U32()))), nil
	case ir.UnTruncToIntS32:
		return truncToInt(sourceFloat(ty, v), -2147483648, 2147483648, func(f float64) core.Value {
			return core.ValueFromI32(int32(f))
		})
	case ir.UnTruncToIntU32:
		return truncToInt(sourceFloat(ty, v), 0, 4294967296, func(f float64) core.Value {
			return core.ValueFromU32(uint32(f))
		})
	case ir.UnTruncToIntS64:
		return truncToInt(sourceFloat(ty, v), -9223372036854775808, 9223372036854775808, func(f float64) core.Value {
			return core.ValueFromI64(int64(f))
		})
	case ir.UnTruncToIntU64:
		return truncToInt(sourceFloat(ty, v), 0, 18446744073709551616, func(f float64) core.Value {
			return core.ValueFromU64(floatToUint64(f))
		})
	case ir.UnTruncSatToIntS32:
		return core.ValueFromI32(truncSat32(sourceFloat(ty, v), -2147483648, 2147483647)), nil
	case ir.UnTruncSatToIntU32:
		return core.ValueFromU32(uint32(truncSatU(sourceFloat(ty, v), 4294967295))), nil
	case ir.UnTruncSatToIntS64:
		f := sourceFloat(ty, v)
		if math.IsNaN(f) {
			return core.ValueFromI64(0), nil
		}
		if f <= -9223372036854775808 {
			return core.ValueFromI64(math.MinInt64), nil
		}
		if f >= 9223372036854775808 {
			return core.ValueFromI64(math.MaxInt64), nil
		}
		return core.ValueFromI64(int64(f)), nil
	case ir.UnTruncSatToIntU64:
		f := sourceFloat(ty, v)
		if f <= 0 || math.IsNaN(f) {
			return core.ValueFromU64(0), nil
		}
		if f >= 18446744073709551615 {
			return core.ValueFromU64(math.MaxUint64), nil
		}
		return core.ValueFromU64(floatToUint64(f)), nil
	case ir.UnDemoteF64ToF32:
		return core.ValueFromF32(core.F32FromFloat32(float32(v.F64().ToFloat64()))), nil
	case ir.UnPromoteF32ToF64:
		return core.ValueFromF64(core.F64FromFloat64(float64(v.F32().ToFloat32()))), nil
	case ir.UnReinterpret:
		// The cell already carries the operand's raw bit pattern; reinterpret
		// is a type-system fiction at this level.
		return v, nil
	}
	panic("interpreter: unsupported unary op")
}

func roundF(ty ir.ValueType, v core.Value, f func(float64) float64) core.Value {
	if ty == ir.TypeF64 {
		return core.ValueFromF64(core.F64FromFloat64(f(v.F64().ToFloat64())))
	}
	return core.ValueFromF32(core.F32FromFloat32(float32(f(float64(v.F32().ToFloat32())))))
}

func sourceFloat(ty ir.ValueType, v core.Value) float64 {
	if ty == ir.TypeF64 {
		return v.F64().ToFloat64()
	}
	return float64(v.F32().ToFloat32())
}

// truncToInt realizes the trapping float-to-int conversion: NaN or an
// out-of-range operand raises BadConversionToInteger.
func truncToInt(f float64, lo, hi float64, pack func(float64) core.Value) (core.Value, *core.Trap) {
	if math.IsNaN(f) || f < lo || f >= hi {
		return 0, core.NewTrap(core.TrapBadConversionToInteger)
	}
	return pack(math.Trunc(f)), nil
}

func truncSat32(f float64, lo, hi float64) int32 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= lo {
		return int32(lo)
	}
	if f >= hi {
		return int32(hi)
	}
	return int32(f)
}

func truncSatU(f float64, hi float64) uint32 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= hi {
		return uint32(hi)
	}
	return uint32(f)
}

// floatToUint64 converts a float64 known to be within [0, 2^64) to uint64,
// working around Go's direct float64->uint64 conversion being undefined for
// values at or above 2^63.
func floatToUint64(f float64) uint64 {
	const twoPow63 = 9223372036854775808.0
	if f < twoPow63 {
		return uint64(int64(f))
	}
	return uint64(int64(f-twoPow63)) | (1 << 63)
}
