// Package core implements the engine's value representation and trap
// taxonomy: a tagged 64-bit value cell, NaN-preserving float newtypes, and the
// closed set of trap kinds the interpreter can raise.
package core

import "math"

// Value is a raw 64-bit cell interpreted per use-site as i32/i64/f32/f64/v128
// low-half, or a reference's bit pattern. Conversions to and from the
// bit-level integer types are identities on bits.
type Value uint64

// ValueFromI32 packs a signed 32-bit integer into a cell.
func ValueFromI32(v int32) Value { return Value(uint32(v)) }

// ValueFromI64 packs a signed 64-bit integer into a cell.
func ValueFromI64(v int64) Value { return Value(uint64(v)) }

// ValueFromU32 packs an unsigned 32-bit integer into a cell.
func ValueFromU32(v uint32) Value { return Value(v) }

// ValueFromU64 packs an unsigned 64-bit integer into a cell.
func ValueFromU64(v uint64) Value { return Value(v) }

// ValueFromF32 packs an f32 into a cell, preserving its exact bit pattern.
func ValueFromF32(v F32) Value { return Value(v.ToBits()) }

// ValueFromF64 packs an f64 into a cell, preserving its exact bit pattern.
func ValueFromF64(v F64) Value { return Value(v.ToBits()) }

// I32 reinterprets the low 32 bits of the cell as a signed integer.
func (v Value) I32() int32 { return int32(uint32(v)) }

// I64 reinterprets the cell as a signed 64-bit integer.
func (v Value) I64() int64 { return int64(v) }

// U32 reinterprets the low 32 bits of the cell as an unsigned integer.
func (v Value) U32() uint32 { return uint32(v) }

// U64 reinterprets the cell as an unsigned 64-bit integer.
func (v Value) U64() uint64 { return uint64(v) }

// F32 reinterprets the low 32 bits of the cell as an f32, bit-exact.
func (v Value) F32() F32 { return F32FromBits(uint32(v)) }

// F64 reinterprets the cell as an f64, bit-exact.
func (v Value) F64() F64 { return F64FromBits(uint64(v)) }

// F32 is a NaN-preserving wrapper around a raw IEEE-754 single-precision bit
// pattern. Unlike a native float32, equality and ordering on F32 delegate to
// the native float (so NaN != NaN), but negation and absolute-value operate
// on the bit pattern directly so that NaN payloads survive exactly.
type F32 struct{ bits uint32 }

// F32FromBits constructs an F32 from its raw bit pattern. Identity on bits.
func F32FromBits(bits uint32) F32 { return F32{bits: bits} }

// F32FromFloat32 constructs an F32 by reinterpreting a native float32.
func F32FromFloat32(f float32) F32 { return F32{bits: math.Float32bits(f)} }

// ToBits returns the raw bit pattern. Identity on bits.
func (f F32) ToBits() uint32 { return f.bits }

// ToFloat32 reinterprets the bit pattern as a native float32.
func (f F32) ToFloat32() float32 { return math.Float32frombits(f.bits) }

// Neg flips only the sign bit, preserving NaN payloads exactly.
func (f F32) Neg() F32 { return F32{bits: f.bits ^ 0x8000_0000} }

// Abs clears the sign bit, preserving NaN payloads exactly.
func (f F32) Abs() F32 { return F32{bits: f.bits &^ 0x8000_0000} }

// Sign reports the sign of f as a Sign[F32] tag.
func (f F32) Sign() Sign[F32] {
	if f.bits&0x8000_0000 != 0 {
		return SignNeg[F32]()
	}
	return SignPos[F32]()
}

// CopySign returns f with the sign of other.
func (f F32) CopySign(other F32) F32 {
	return F32{bits: (f.bits &^ 0x8000_0000) | (other.bits & 0x8000_0000)}
}

// IsNaN reports whether f is a NaN.
func (f F32) IsNaN() bool { return math.IsNaN(float64(f.ToFloat32())) }

// Eq delegates to native float equality (NaN != NaN).
func (f F32) Eq(other F32) bool { return f.ToFloat32() == other.ToFloat32() }

// Lt delegates to native float ordering.
func (f F32) Lt(other F32) bool { return f.ToFloat32() < other.ToFloat32() }

// Le delegates to native float ordering.
func (f F32) Le(other F32) bool { return f.ToFloat32() <= other.ToFloat32() }

// Gt delegates to native float ordering.
func (f F32) Gt(other F32) bool { return f.ToFloat32() > other.ToFloat32() }

// Ge delegates to native float ordering.
func (f F32) Ge(other F32) bool { return f.ToFloat32() >= other.ToFloat32() }

// Min delegates to the native float minimum (propagating NaN per Wasm rules:
// if either operand is NaN, the result is NaN).
func (f F32) Min(other F32) F32 {
	a, b := f.ToFloat32(), other.ToFloat32()
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return F32FromFloat32(float32(math.NaN()))
	}
	if a == 0 && b == 0 {
		// Negative zero is smaller than positive zero.
		if f.bits&0x8000_0000 != 0 || other.bits&0x8000_0000 != 0 {
			return F32{bits: 0x8000_0000}
		}
		return F32{bits: 0}
	}
	if a < b {
		return f
	}
	return other
}

// Max delegates to the native float maximum (propagating NaN per Wasm rules).
func (f F32) Max(other F32) F32 {
	a, b := f.ToFloat32(), other.ToFloat32()
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return F32FromFloat32(float32(math.NaN()))
	}
	if a == 0 && b == 0 {
		if f.bits&0x8000_0000 == 0 || other.bits&0x8000_0000 == 0 {
			return F32{bits: 0}
		}
		return F32{bits: 0x8000_0000}
	}
	if a > b {
		return f
	}
	return other
}

// F64 is the double-precision analogue of F32.
type F64 struct{ bits uint64 }

// F64FromBits constructs an F64 from its raw bit pattern. Identity on bits.
func F64FromBits(bits uint64) F64 { return F64{bits: bits} }

// F64FromFloat64 constructs an F64 by reinterpreting a native float64.
func F64FromFloat64(f float64) F64 { return F64{bits: math.Float64bits(f)} }

// ToBits returns the raw bit pattern. Identity on bits.
func (f F64) ToBits() uint64 { return f.bits }

// ToFloat64 reinterprets the bit pattern as a native float64.
func (f F64) ToFloat64() float64 { return math.Float64frombits(f.bits) }

// Neg flips only the sign bit, preserving NaN payloads exactly.
func (f F64) Neg() F64 { return F64{bits: f.bits ^ 0x8000_0000_0000_0000} }

// Abs clears the sign bit, preserving NaN payloads exactly.
func (f F64) Abs() F64 { return F64{bits: f.bits &^ 0x8000_0000_0000_0000} }

// Sign reports the sign of f as a Sign[F64] tag.
func (f F64) Sign() Sign[F64] {
	if f.bits&0x8000_0000_0000_0000 != 0 {
		return SignNeg[F64]()
	}
	return SignPos[F64]()
}

// CopySign returns f with the sign of other.
func (f F64) CopySign(other F64) F64 {
	return F64{bits: (f.bits &^ 0x8000_0000_0000_0000) | (other.bits & 0x8000_0000_0000_0000)}
}

// IsNaN reports whether f is a NaN.
func (f F64) IsNaN() bool { return math.IsNaN(f.ToFloat64()) }

// Eq delegates to native float equality (NaN != NaN).
func (f F64) Eq(other F64) bool { return f.ToFloat64() == other.ToFloat64() }

// Lt delegates to native float ordering.
func (f F64) Lt(other F64) bool { return f.ToFloat64() < other.ToFloat64() }

// Le delegates to native float ordering.
func (f F64) Le(other F64) bool { return f.ToFloat64() <= other.ToFloat64() }

// Gt delegates to native float ordering.
func (f F64) Gt(other F64) bool { return f.ToFloat64() > other.ToFloat64() }

// Ge delegates to native float ordering.
func (f F64) Ge(other F64) bool { return f.ToFloat64() >= other.ToFloat64() }

// Min delegates to the native float minimum (propagating NaN per Wasm rules).
func (f F64) Min(other F64) F64 {
	a, b := f.ToFloat64(), other.ToFloat64()
	if math.IsNaN(a) || math.IsNaN(b) {
		return F64FromFloat64(math.NaN())
	}
	if a == 0 && b == 0 {
		if f.bits&0x8000_0000_0000_0000 != 0 || other.bits&0x8000_0000_0000_0000 != 0 {
			return F64{bits: 0x8000_0000_0000_0000}
		}
		return F64{bits: 0}
	}
	if a < b {
		return f
	}
	return other
}

// Max delegates to the native float maximum (propagating NaN per Wasm rules).
func (f F64) Max(other F64) F64 {
	a, b := f.ToFloat64(), other.ToFloat64()
	if math.IsNaN(a) || math.IsNaN(b) {
		return F64FromFloat64(math.NaN())
	}
	if a == 0 && b == 0 {
		if f.bits&0x8000_0000_0000_0000 == 0 || other.bits&0x8000_0000_0000_0000 == 0 {
			return F64{bits: 0}
		}
		return F64{bits: 0x8000_0000_0000_0000}
	}
	if a > b {
		return f
	}
	return other
}

// Sign is a two-state tag (positive/negative) parameterized by a float type,
// used as an inline immediate for the copysign family of operators.
type Sign[T any] struct{ negative bool }

// SignPos returns the positive sign tag.
func SignPos[T any]() Sign[T] { return Sign[T]{negative: false} }

// SignNeg returns the negative sign tag.
func SignNeg[T any]() Sign[T] { return Sign[T]{negative: true} }

// Negative reports whether the tag denotes a negative sign.
func (s Sign[T]) Negative() bool { return s.negative }
