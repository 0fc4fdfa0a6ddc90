package exec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/ir"
)

func TestValueStackReserveTruncate(t *testing.T) {
	vs := NewValueStack(16)
	base, trap := vs.Reserve(4)
	require.Nil(t, trap)
	require.Equal(t, 0, base)
	require.Equal(t, 4, vs.StackPtr())

	vs.Set(base, ir.Slot(1), core.ValueFromI32(42))
	require.Equal(t, int32(42), vs.Get(base, ir.Slot(1)).I32())

	vs.Truncate(base)
	require.Equal(t, 0, vs.StackPtr())
}

func TestValueStackOverflowTraps(t *testing.T) {
	vs := NewValueStack(4)
	_, trap := vs.Reserve(8)
	require.NotNil(t, trap)
	require.Equal(t, core.TrapStackOverflow, trap.Code)
}

func TestCallStackRecursionLimit(t *testing.T) {
	cs := NewCallStack(2)
	require.Nil(t, cs.Push(CallFrame{}))
	require.Nil(t, cs.Push(CallFrame{}))
	trap := cs.Push(CallFrame{})
	require.NotNil(t, trap)
	require.Equal(t, core.TrapStackOverflow, trap.Code)
	require.Equal(t, 2, cs.Len())
}

func TestCallStackPopReportsRoot(t *testing.T) {
	cs := NewCallStack(4)
	cs.Push(CallFrame{FrameBase: 0})
	cs.Push(CallFrame{FrameBase: 10})

	_, wasRoot := cs.Pop()
	require.False(t, wasRoot)

	_, wasRoot = cs.Pop()
	require.True(t, wasRoot)
}

func TestCallStackPeek2(t *testing.T) {
	cs := NewCallStack(4)
	cs.Push(CallFrame{FrameBase: 0})
	callee, caller := cs.Peek2()
	require.NotNil(t, callee)
	require.Nil(t, caller)

	cs.Push(CallFrame{FrameBase: 10})
	callee, caller = cs.Peek2()
	require.Equal(t, 10, callee.FrameBase)
	require.Equal(t, 0, caller.FrameBase)
}

func TestDefaultRecursionLimit(t *testing.T) {
	cs := NewCallStack(0)
	require.Equal(t, DefaultMaxRecursionDepth, cs.limit)
}
