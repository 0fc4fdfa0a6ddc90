package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestF32NegPreservesNaNPayload(t *testing.T) {
	for _, bits := range []uint32{
		0xFF80_3210,
		0x7F80_3210,
		0x7FC0_0000, // canonical quiet NaN
		0x7F80_0001, // smallest signaling NaN payload
	} {
		f := F32FromBits(bits)
		require.Equal(t, bits^0x8000_0000, f.Neg().ToBits())
	}
}

func TestF32AbsClearsSignBit(t *testing.T) {
	require.Equal(t, uint32(0x7F80_3210), F32FromBits(0xFF80_3210).Abs().ToBits())
	require.Equal(t, uint32(0x7F80_3210), F32FromBits(0x7F80_3210).Abs().ToBits())
}

func TestF64NegPreservesNaNPayload(t *testing.T) {
	for _, bits := range []uint64{
		0xFFF0_0000_0000_0001,
		0x7FF8_0000_0000_0000,
	} {
		f := F64FromBits(bits)
		require.Equal(t, bits^0x8000_0000_0000_0000, f.Neg().ToBits())
	}
}

func TestValueRoundTripIsIdentityOnBits(t *testing.T) {
	require.Equal(t, int32(-1), ValueFromI32(-1).I32())
	require.Equal(t, int64(-1), ValueFromI64(-1).I64())
	require.Equal(t, uint32(0xDEADBEEF), ValueFromU32(0xDEADBEEF).U32())

	f := F32FromBits(0x7F80_3210)
	require.Equal(t, f.ToBits(), ValueFromF32(f).F32().ToBits())
}

func TestF32EqIsNativeFloatEquality(t *testing.T) {
	nan := F32FromBits(0x7FC0_0000)
	require.False(t, nan.Eq(nan))
}

func TestTrapCodeCanonicalMessages(t *testing.T) {
	require.Equal(t, "integer divide by zero", TrapIntegerDivisionByZero.String())
	require.Equal(t, "call stack exhausted", TrapStackOverflow.String())
}

func TestTrapHostErrorUnwraps(t *testing.T) {
	inner := errTestSentinel{}
	trp := NewHostTrap(inner)
	require.ErrorIs(t, trp, inner)
}

type errTestSentinel struct{}

func (errTestSentinel) Error() string { return "sentinel" }
