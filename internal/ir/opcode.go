package ir

// Opcode is a 16-bit discriminant identifying an instruction shape. The set
// is the union spec.md §3 describes: unary, binary, compare-branch,
// compare-select, load/store, table get/set, control, v128 lane ops, and
// housekeeping — represented here as roughly forty concrete shapes rather
// than the several-hundred-variant enumeration the original Rust
// implementation uses for its per-width/per-encoding specializations (see
// DESIGN.md component C for the scope rationale).
type Opcode uint16

const (
	OpUnreachable Opcode = iota
	OpTrap
	OpConsumeFuel
	OpCopy
	OpCopyMany

	OpBr
	OpBrIfEqz
	OpBrIfNez
	OpBrTable

	OpCmpBranch
	OpCmpSelect
	OpSelect

	OpReturn
	OpReturnMany
	OpReturnNez

	OpCall
	OpCallIndirect
	OpReturnCall
	OpReturnCallIndirect

	OpUnary
	OpBinary
	OpCompare

	OpLoad
	OpStore

	OpMemorySize
	OpMemoryGrow
	OpMemoryFill
	OpMemoryCopy
	OpMemoryInit

	OpTableGet
	OpTableSet
	OpTableSize
	OpTableGrow
	OpTableFill
	OpTableCopy
	OpTableInit

	OpGlobalGet
	OpGlobalSet

	OpRefFunc
	OpRefIsNull
	OpRefNull

	OpV128Splat
	OpV128ExtractLane
	OpV128ReplaceLane
	OpV128LoadLane

	opcodeCount
)

var opcodeNames = [...]string{
	OpUnreachable:         "unreachable",
	OpTrap:                "trap",
	OpConsumeFuel:         "consume_fuel",
	OpCopy:                "copy",
	OpCopyMany:            "copy_many",
	OpBr:                  "br",
	OpBrIfEqz:             "br_if_eqz",
	OpBrIfNez:             "br_if_nez",
	OpBrTable:             "br_table",
	OpCmpBranch:           "cmp_branch",
	OpCmpSelect:           "cmp_select",
	OpSelect:              "select",
	OpReturn:              "return",
	OpReturnMany:          "return_many",
	OpReturnNez:           "return_nez",
	OpCall:                "call",
	OpCallIndirect:        "call_indirect",
	OpReturnCall:          "return_call",
	OpReturnCallIndirect:  "return_call_indirect",
	OpUnary:               "unary",
	OpBinary:              "binary",
	OpCompare:             "compare",
	OpLoad:                "load",
	OpStore:               "store",
	OpMemorySize:          "memory.size",
	OpMemoryGrow:          "memory.grow",
	OpMemoryFill:          "memory.fill",
	OpMemoryCopy:          "memory.copy",
	OpMemoryInit:          "memory.init",
	OpTableGet:            "table.get",
	OpTableSet:            "table.set",
	OpTableSize:           "table.size",
	OpTableGrow:           "table.grow",
	OpTableFill:           "table.fill",
	OpTableCopy:           "table.copy",
	OpTableInit:           "table.init",
	OpGlobalGet:           "global.get",
	OpGlobalSet:           "global.set",
	OpRefFunc:             "ref.func",
	OpRefIsNull:           "ref.is_null",
	OpRefNull:             "ref.null",
	OpV128Splat:           "v128.splat",
	OpV128ExtractLane:     "v128.extract_lane",
	OpV128ReplaceLane:     "v128.replace_lane",
	OpV128LoadLane:        "v128.load_lane",
}

// String returns the opcode's mnemonic.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "unknown"
}

// Valid reports whether op is within the declared opcode range, as the
// decoder must check before trusting a discriminant read off the wire.
func (op Opcode) Valid() bool { return op < opcodeCount }

// ValueType identifies the Wasm value type an arithmetic or load/store
// instruction operates over.
type ValueType uint8

const (
	TypeI32 ValueType = iota
	TypeI64
	TypeF32
	TypeF64
	TypeV128
	TypeFuncRef
	TypeExternRef
)

// BinaryOp enumerates the binary arithmetic/bitwise/float operators folded
// into the single OpBinary instruction shape.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDivS
	BinDivU
	BinRemS
	BinRemU
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShrS
	BinShrU
	BinRotl
	BinRotr
	BinMin
	BinMax
	BinCopySign
	BinAndNot // fused i64.and + i64.eqz-style nand/nor/xnor family root
	BinOrNot
	BinXorNot
)

// UnaryOp enumerates the unary operators folded into the single OpUnary
// instruction shape.
type UnaryOp uint8

const (
	UnEqz UnaryOp = iota
	UnClz
	UnCtz
	UnPopcnt
	UnExtend8S
	UnExtend16S
	UnExtend32S
	UnWrap64To32
	UnExtendS32To64
	UnExtendU32To64
	UnNeg
	UnAbs
	UnSqrt
	UnCeil
	UnFloor
	UnTrunc
	UnNearest
	// ConvertXToFloatY / TruncToIntXY / TruncSatToIntXY are split by result
	// width, not just source-type and signedness: operandType alone (the
	// only type this instruction shape stores — see Instruction.Type) can't
	// disambiguate e.g. i32.trunc_f32_s (-> i32) from i64.trunc_f32_s
	// (-> i64), since both share operand type f32 and the trapping-signed
	// truncation operator.
	UnConvertSToFloat32
	UnConvertUToFloat32
	UnConvertSToFloat64
	UnConvertUToFloat64
	UnTruncToIntS32
	UnTruncToIntU32
	UnTruncToIntS64
	UnTruncToIntU64
	UnTruncSatToIntS32
	UnTruncSatToIntU32
	UnTruncSatToIntS64
	UnTruncSatToIntU64
	UnDemoteF64ToF32
	UnPromoteF32ToF64
	UnReinterpret
)

// CompareOp enumerates the comparison operators used both standalone
// (OpCompare) and fused into OpCmpBranch/OpCmpSelect.
type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLtS
	CmpLtU
	CmpGtS
	CmpGtU
	CmpLeS
	CmpLeU
	CmpGeS
	CmpGeU
	CmpLtF
	CmpGtF
	CmpLeF
	CmpGeF
)
