package ir

// Instruction is the in-memory, decoded form of one IR instruction: a single
// struct carrying an opcode discriminant plus the union of fields any shape
// might populate. Only the fields relevant to Op are meaningful, but the
// encoder packs every field at a fixed width for every opcode (see
// Encoder.Push).
//
// This single-struct-with-discriminant shape mirrors the teacher's own
// UnionOperation pattern in internal/wazeroir (a Kind field plus a shared set
// of union-style payload fields), generalized here to the register machine's
// slot-addressed operands instead of wazero's stack-machine operations.
type Instruction struct {
	Op Opcode

	// Result / Lhs / Rhs are the common three-slot shape shared by unary,
	// binary, compare, and load/store-address instructions.
	Result Slot
	Lhs    Slot
	Rhs    Slot

	// Imm carries a materialized immediate operand (e.g. the rhs of a
	// CmpBranch against a constant, or the value of a Store whose operand
	// was an Immediate on the translator's operand stack).
	Imm     uint64
	ImmUsed bool

	// BinOp / UnOp / CmpOp select the concrete operator for OpBinary/OpUnary
	// /OpCompare/OpCmpBranch/OpCmpSelect.
	BinOp BinaryOp
	UnOp  UnaryOp
	CmpOp CompareOp
	Type  ValueType

	// Branch carries the byte offset for Br/BrIfEqz/BrIfNez/CmpBranch/
	// ReturnNez; it is a placeholder until the target label is pinned (see
	// LabelRegistry).
	Branch BranchOffset

	// Targets holds the branch-table arms for OpBrTable (including the
	// trailing default arm).
	Targets []BranchOffset

	// Offset / Mem describe a load/store's effective-address computation.
	Offset Offset16
	Mem    MemArg

	// Span / SpanLen describe a contiguous multi-slot operand, used by
	// OpCopyMany, OpReturnMany, and call parameter/result spans.
	Span    SlotSpan
	SpanLen uint16

	// FuncIdx / TypeIdx / TableIdx / GlobalIdx address module-level entities
	// for call, call_indirect, global access, and table access instructions.
	// OpSelect reuses GlobalIdx to carry its condition operand's Slot (cast
	// to uint32): Select only needs three slot operands (condition, lhs,
	// rhs) plus a result, one more than the Result/Lhs/Rhs triple provides,
	// and every field is already packed at a fixed width regardless of
	// opcode, so borrowing an otherwise-unused module-index field avoids
	// growing the common instruction shape for one opcode.
	FuncIdx   uint32
	TypeIdx   uint32
	TableIdx  uint32
	GlobalIdx uint32

	// Fuel is the ConsumeFuel amount for OpConsumeFuel.
	Fuel BlockFuel

	// Lane is the validated lane index for the v128 lane instructions.
	Lane ImmLaneIdx

	// TrapCode identifies the trap for OpTrap.
	TrapCode uint8
}
