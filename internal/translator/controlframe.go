package translator

import (
	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// controlFrameKind distinguishes the four structured Wasm constructs a
// ControlFrame can represent.
type controlFrameKind uint8

const (
	frameBlock controlFrameKind = iota
	frameLoop
	frameIf
	frameElse
)

// ControlFrame is one entry of the translator's control-frame stack, one per
// open Wasm structured construct. Each frame records its branch target
// label and the operand-stack height at entry (so branching out can truncate
// values pushed inside the frame). Frames carry no fuel bookkeeping: with
// fuel metering enabled, Translate emits a single ConsumeFuel at function
// entry that covers the whole body.
type ControlFrame struct {
	Kind  controlFrameKind
	Block wasmdecode.BlockType

	// Label is the branch target: for a loop, branching targets the frame's
	// entry (a backward branch, continue-like); for block/if/else,
	// branching targets the frame's exit (a forward branch, break-like).
	Label ir.LabelRef

	// ElseLabel is valid only for Kind == frameIf: the target of the
	// conditional branch guarding the then-arm, pinned at the `else` opcode
	// (or, if no else arm appears, at the matching `end`).
	ElseLabel ir.LabelRef
	// HasElse records whether an `else` opcode was seen before the matching
	// `end`, so `end` knows whether ElseLabel still needs pinning.
	HasElse bool

	// OperandHeight is the operand-stack height when the frame was entered.
	OperandHeight int
	// TempMark is the temp-slot bump-allocator position when the frame was
	// entered. It is only recorded: the allocator is not rewound when the
	// frame closes, so sibling constructs do not reuse temp slots.
	TempMark int

	// ResultSlots is where branches to this frame's label must copy their
	// values before jumping, and where the frame's own fallthrough result
	// lands.
	ResultSlots ir.SlotSpan
	NumResults  int

	// Reachable is set to true when the frame opens and is never cleared or
	// read: code after an unreachable/br/return inside the frame is
	// translated and emitted as if reachable.
	Reachable bool

	// FuelPos is never set by the translator and stays 0; fuel is charged by
	// the function's single entry ConsumeFuel (see Translate).
	FuelPos int32
}

// ControlFrameStack is the translator's stack of open structured-control
// frames.
type ControlFrameStack struct {
	frames []ControlFrame
}

// NewControlFrameStack constructs an empty control-frame stack.
func NewControlFrameStack() *ControlFrameStack { return &ControlFrameStack{} }

// Push opens a new control frame.
func (c *ControlFrameStack) Push(f ControlFrame) { c.frames = append(c.frames, f) }

// Pop closes and returns the innermost control frame.
func (c *ControlFrameStack) Pop() ControlFrame {
	n := len(c.frames)
	f := c.frames[n-1]
	c.frames = c.frames[:n-1]
	return f
}

// Len returns the current control-frame depth.
func (c *ControlFrameStack) Len() int { return len(c.frames) }

// Top returns the innermost control frame.
func (c *ControlFrameStack) Top() *ControlFrame { return &c.frames[len(c.frames)-1] }

// Nth returns the frame N levels from the top (0 = innermost), as addressed
// by a `br N` instruction.
func (c *ControlFrameStack) Nth(n uint32) *ControlFrame {
	return &c.frames[len(c.frames)-1-int(n)]
}

// IsEmpty reports whether there are no open control frames (i.e. the
// translator is at the function body's outermost level).
func (c *ControlFrameStack) IsEmpty() bool { return len(c.frames) == 0 }
