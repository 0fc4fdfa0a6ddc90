package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Op: OpUnreachable},
		{Op: OpBinary, Result: 3, Lhs: 1, Rhs: 2, BinOp: BinAdd, Type: TypeI32},
		{Op: OpCompare, Result: 5, Lhs: 1, Rhs: 2, CmpOp: CmpLtS, Type: TypeI64},
		{Op: OpBr, Branch: 42},
		{Op: OpBrTable, Targets: []BranchOffset{1, 2, 3, -4}},
		{Op: OpLoad, Result: 1, Lhs: 2, Offset: 16, Mem: MemArg{MemoryIndex: 0}, Type: TypeF64},
		{Op: OpCall, FuncIdx: 7, Span: SlotSpan{Head: 4}, SpanLen: 2},
		{Op: OpConsumeFuel, Fuel: 128},
		{Op: OpV128ExtractLane, Result: 1, Lhs: 2, Lane: NewImmLaneIdx(3, 4)},
		{Op: OpTrap, TrapCode: 9},
	}

	enc := NewEncoder()
	positions := make([]OpPos, len(cases))
	for i, c := range cases {
		positions[i] = enc.Push(c)
	}

	dec := NewDecoder(enc.Bytes())
	for i, want := range cases {
		require.Equal(t, positions[i], OpPos(dec.Pos()))
		got, err := dec.Next()
		require.NoError(t, err)
		require.Equal(t, want.Op, got.Op)
		require.Equal(t, want.Result, got.Result)
		require.Equal(t, want.Lhs, got.Lhs)
		require.Equal(t, want.Rhs, got.Rhs)
		require.Equal(t, want.Branch, got.Branch)
		require.Equal(t, want.Targets, got.Targets)
		require.Equal(t, want.FuncIdx, got.FuncIdx)
		require.Equal(t, want.Fuel, got.Fuel)
		require.Equal(t, want.TrapCode, got.TrapCode)
	}
}

func TestDecodeTruncatedStreamErrors(t *testing.T) {
	enc := NewEncoder()
	enc.Push(Instruction{Op: OpUnreachable})
	truncated := enc.Bytes()[:3]
	dec := NewDecoder(truncated)
	_, err := dec.Next()
	require.ErrorIs(t, err, ErrOutOfBytes)
}

func TestDecodeInvalidOpcode(t *testing.T) {
	enc := NewEncoder()
	enc.Push(Instruction{Op: OpUnreachable})
	buf := enc.Bytes()
	// Corrupt the opcode discriminant to an out-of-range value.
	buf[0] = 0xFF
	buf[1] = 0xFF
	dec := NewDecoder(buf)
	_, err := dec.Next()
	require.ErrorIs(t, err, ErrInvalidBitPattern)
}

func TestPatchBranchRewritesInPlace(t *testing.T) {
	enc := NewEncoder()
	pos := enc.Push(Instruction{Op: OpBr, Branch: 0})
	enc.PatchBranch(pos, 99)

	dec := NewDecoder(enc.Bytes())
	got, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, BranchOffset(99), got.Branch)
}

func TestLabelRegistryForwardAndBackwardBranches(t *testing.T) {
	reg := NewLabelRegistry()
	enc := NewEncoder()

	// Backward branch: pin the label first, then resolve against it.
	loopLabel := reg.NewLabel()
	loopPos := enc.Pos()
	require.NoError(t, reg.Pin(loopLabel, loopPos))

	brPos := enc.Push(Instruction{Op: OpBr})
	offset, ok, err := reg.TryResolveLabel(loopLabel, brPos)
	require.NoError(t, err)
	require.True(t, ok)
	require.Negative(t, int32(offset))

	// Forward branch: reference the label before it pins.
	exitLabel := reg.NewLabel()
	fwdPos := enc.Push(Instruction{Op: OpBrIfNez})
	_, ok, err = reg.TryResolveLabel(exitLabel, fwdPos)
	require.NoError(t, err)
	require.False(t, ok)

	exitPos := enc.Pos()
	require.NoError(t, reg.Pin(exitLabel, exitPos))

	resolved, err := reg.ResolvedUsers()
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, fwdPos, resolved[0].User)
	require.Equal(t, exitPos, OpPos(int32(fwdPos)+int32(resolved[0].Offset)))
}

func TestLabelPinnedTwiceErrors(t *testing.T) {
	reg := NewLabelRegistry()
	label := reg.NewLabel()
	require.NoError(t, reg.Pin(label, 0))
	require.ErrorIs(t, reg.Pin(label, 10), ErrLabelAlreadyPinned)
}

func TestImmLaneIdxOutOfBoundsPanics(t *testing.T) {
	require.Panics(t, func() { NewImmLaneIdx(4, 4) })
}

func TestCodeMapHeaderAndBytes(t *testing.T) {
	cm := NewCodeMap()

	enc1 := NewEncoder()
	enc1.Push(Instruction{Op: OpUnreachable})
	iref1 := cm.Reserve()
	h1 := cm.Append(iref1, 2, 1, enc1.Bytes())

	enc2 := NewEncoder()
	enc2.Push(Instruction{Op: OpReturn})
	enc2.Push(Instruction{Op: OpTrap})
	iref2 := cm.Reserve()
	h2 := cm.Append(iref2, 3, 2, enc2.Bytes())

	require.Equal(t, uint16(2), cm.Header(h1).LenRegisters)
	require.Equal(t, uint16(3), cm.Header(h2).LenRegisters)
	require.Equal(t, enc1.Bytes(), cm.Bytes(h1))
	require.Equal(t, enc2.Bytes(), cm.Bytes(h2))
}
