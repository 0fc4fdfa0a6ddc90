package translator

import (
	"fmt"

	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// FuelPerInstruction is the fixed fuel cost Translate charges per translated
// Wasm operator, rather than a per-opcode weighted cost table. With fuel
// metering enabled, Translate emits one ConsumeFuel instruction at function
// entry and patches its amount to the number of operators in the body (the
// function's final `end` excluded) times this cost. Blocks, loops and ifs get
// no ConsumeFuel of their own, so each call charges the body's static
// operator count once: a loop's repeated iterations are not charged again.
const FuelPerInstruction = 1

// Result is the output of translating one function body: its encoded
// instruction bytes and the frame-header metadata the code map stores
// alongside them.
type Result struct {
	Encoded      []byte
	LenRegisters uint16
}

// Translator converts one validated Wasm function body into the register
// IR, emitting into a fresh Encoder per function (the caller appends the
// result into the shared CodeMap arena).
type Translator struct {
	module      *wasmdecode.Module
	layout      *StackLayout
	operands    *OperandStack
	frames      *ControlFrameStack
	labels      *ir.LabelRegistry
	enc         *ir.Encoder
	fuelEnabled bool

	// lastCompare records the most recently emitted OpCompare instruction's
	// position and result slot, so that an immediately following br_if can
	// fuse into CmpBranch instead of re-deriving the condition from a
	// materialized i32 (select is never fused; see translateSelect).
	// Invalidated by any intervening emission.
	lastCompare struct {
		valid  bool
		pos    ir.OpPos
		result ir.Slot
		cmpOp  ir.CompareOp
		ty     ir.ValueType
	}
}

// NewTranslator constructs a translator for one function of mod.
func NewTranslator(mod *wasmdecode.Module, fuelEnabled bool) *Translator {
	return &Translator{module: mod, fuelEnabled: fuelEnabled}
}

// Translate lowers one function body (its declared signature funcType plus
// its locals/operator stream in code) into encoded IR bytes.
func (t *Translator) Translate(funcType wasmdecode.FuncType, code wasmdecode.Code) (Result, error) {
	t.layout = NewStackLayout(funcType.Params, code.Locals)
	t.operands = NewOperandStack(t.layout)
	t.frames = NewControlFrameStack()
	t.labels = ir.NewLabelRegistry()
	t.enc = ir.NewEncoder()

	var fuelPos ir.OpPos
	var fuelAmount ir.BlockFuel
	if t.fuelEnabled {
		fuelPos = t.enc.Pos()
		t.enc.Push(ir.Instruction{Op: ir.OpConsumeFuel, Fuel: 0})
	}

	r := wasmdecode.NewOpReader(code.Body)
	for !r.Done() {
		op, err := r.Next()
		if err != nil {
			return Result{}, err
		}
		if op.Code == wasmdecode.OpEnd && t.frames.IsEmpty() {
			if err := t.emitImplicitReturn(funcType); err != nil {
				return Result{}, err
			}
			break
		}
		if err := t.translateOp(op, funcType); err != nil {
			return Result{}, err
		}
		if t.fuelEnabled {
			fuelAmount += FuelPerInstruction
		}
	}

	resolved, err := t.labels.ResolvedUsers()
	if err != nil {
		return Result{}, err
	}
	for _, ru := range resolved {
		t.enc.PatchBranch(ru.User, ru.Offset)
	}
	if t.fuelEnabled {
		t.enc.PatchFuel(fuelPos, fuelAmount)
	}

	return Result{Encoded: t.enc.Bytes(), LenRegisters: t.layout.LenRegisters()}, nil
}

func (t *Translator) emitImplicitReturn(funcType wasmdecode.FuncType) error {
	return t.emitReturn(len(funcType.Results))
}

// emitReturn pops n result operands and emits the appropriate Return*
// instruction: a single result is returned from the slot it occupies
// (materialized first if it is an Immediate); several results are copied
// into a freshly allocated contiguous temp span that OpReturnMany returns.
func (t *Translator) emitReturn(n int) error {
	if n == 0 {
		t.emit(ir.Instruction{Op: ir.OpReturn})
		return nil
	}
	slots := make([]ir.Slot, n)
	for i := n - 1; i >= 0; i-- {
		slots[i] = t.materialize(t.operands.Pop())
	}
	if n == 1 {
		t.emit(ir.Instruction{Op: ir.OpReturn, Result: slots[0]})
		return nil
	}
	span := t.layout.AllocTempSpan(n)
	for i, s := range slots {
		t.emitCopy(span.At(uint16(i)), s)
	}
	t.emit(ir.Instruction{Op: ir.OpReturnMany, Span: span, SpanLen: uint16(n)})
	return nil
}

// emit appends inst, invalidating any pending compare-fusion opportunity
// unless the caller is itself performing the fusion (see translateCompare,
// which pushes through the encoder directly).
func (t *Translator) emit(inst ir.Instruction) ir.OpPos {
	t.lastCompare.valid = false
	return t.enc.Push(inst)
}

func (t *Translator) emitCopy(dst, src ir.Slot) ir.Slot {
	if dst == src {
		return dst
	}
	t.emit(ir.Instruction{Op: ir.OpCopy, Result: dst, Lhs: src})
	return dst
}

// materialize ensures operand o is available as a concrete Slot, allocating
// a temp and emitting a Copy/constant materialization if o was Local or
// Immediate.
func (t *Translator) materialize(o Operand) ir.Slot {
	switch {
	case o.IsLocal():
		return t.layout.LocalSlot(o.LocalIndex())
	case o.IsImmediate():
		slot := t.layout.AllocTemp()
		t.emit(ir.Instruction{Op: ir.OpCopy, Result: slot, Imm: o.ImmediateBits(), ImmUsed: true})
		return slot
	default:
		return o.slotOf()
	}
}

func (o Operand) slotOf() ir.Slot { return o.slot }

func (t *Translator) translateOp(op wasmdecode.Op, funcType wasmdecode.FuncType) error {
	switch op.Code {
	case wasmdecode.OpUnreachable:
		t.emit(ir.Instruction{Op: ir.OpUnreachable})
		return nil
	case wasmdecode.OpNop:
		return nil
	case wasmdecode.OpDrop:
		t.operands.Pop()
		return nil

	case wasmdecode.OpBlock, wasmdecode.OpLoop:
		return t.translateBlockOrLoop(op)
	case wasmdecode.OpIf:
		return t.translateIf(op)
	case wasmdecode.OpElse:
		return t.translateElse()
	case wasmdecode.OpEnd:
		return t.translateEnd()

	case wasmdecode.OpBr:
		return t.translateBr(op.LocalIdx)
	case wasmdecode.OpBrIf:
		return t.translateBrIf(op.LocalIdx)
	case wasmdecode.OpBrTable:
		return t.translateBrTable(op)
	case wasmdecode.OpReturn:
		return t.emitReturn(len(funcType.Results))

	case wasmdecode.OpCall:
		return t.translateCall(op.FuncIdx)
	case wasmdecode.OpCallIndirect:
		return t.translateCallIndirect(op)

	case wasmdecode.OpSelect:
		return t.translateSelect()

	case wasmdecode.OpLocalGet:
		t.operands.PushLocal(op.LocalIdx, t.layout.LocalType(op.LocalIdx))
		return nil
	case wasmdecode.OpLocalSet:
		return t.translateLocalSet(op.LocalIdx, false)
	case wasmdecode.OpLocalTee:
		return t.translateLocalSet(op.LocalIdx, true)
	case wasmdecode.OpGlobalGet:
		slot := t.layout.AllocTemp()
		t.emit(ir.Instruction{Op: ir.OpGlobalGet, Result: slot, GlobalIdx: op.GlobalIdx})
		t.operands.PushTemp(slot, t.globalType(op.GlobalIdx))
		return nil
	case wasmdecode.OpGlobalSet:
		v := t.materialize(t.operands.Pop())
		t.emit(ir.Instruction{Op: ir.OpGlobalSet, Lhs: v, GlobalIdx: op.GlobalIdx})
		return nil

	case wasmdecode.OpI32Const:
		t.operands.PushImmediate(uint64(uint32(op.I32)), wasmdecode.ValTypeI32)
		return nil
	case wasmdecode.OpI64Const:
		t.operands.PushImmediate(uint64(op.I64), wasmdecode.ValTypeI64)
		return nil
	case wasmdecode.OpF32Const:
		t.operands.PushImmediate(uint64(op.F32), wasmdecode.ValTypeF32)
		return nil
	case wasmdecode.OpF64Const:
		t.operands.PushImmediate(op.F64, wasmdecode.ValTypeF64)
		return nil

	case wasmdecode.OpMemorySize:
		slot := t.layout.AllocTemp()
		t.emit(ir.Instruction{Op: ir.OpMemorySize, Result: slot})
		t.operands.PushTemp(slot, wasmdecode.ValTypeI32)
		return nil
	case wasmdecode.OpMemoryGrow:
		delta := t.materialize(t.operands.Pop())
		slot := t.layout.AllocTemp()
		t.emit(ir.Instruction{Op: ir.OpMemoryGrow, Result: slot, Lhs: delta})
		t.operands.PushTemp(slot, wasmdecode.ValTypeI32)
		return nil
	}

	if isLoad(op.Code) {
		return t.translateLoad(op)
	}
	if isStore(op.Code) {
		return t.translateStore(op)
	}

	nc := classify(op.Code)
	switch nc.kind {
	case numCompare:
		return t.translateCompare(nc)
	case numBinary:
		return t.translateBinary(nc)
	case numUnary:
		return t.translateUnary(nc)
	}
	return fmt.Errorf("translator: unsupported opcode 0x%02x", op.Code)
}

func (t *Translator) globalType(idx uint32) wasmdecode.ValType {
	numImported := 0
	for _, imp := range t.module.Imports {
		if imp.Kind == wasmdecode.ImportGlobal {
			if uint32(numImported) == idx {
				return imp.ValType
			}
			numImported++
		}
	}
	return t.module.Globals[int(idx)-numImported].ValType
}

func (t *Translator) translateLocalSet(idx uint32, isTee bool) error {
	o := t.operands.Pop()
	v := t.materialize(o)
	dst := t.layout.LocalSlot(idx)
	if t.operands.LocalIsObserved(idx) {
		t.operands.MaterializeLocal(idx, func(from ir.Slot) ir.Slot {
			fresh := t.layout.AllocTemp()
			t.emitCopy(fresh, from)
			return fresh
		})
	}
	t.emitCopy(dst, v)
	if isTee {
		t.operands.PushTemp(dst, t.layout.LocalType(idx))
	}
	return nil
}

func (t *Translator) translateSelect() error {
	cond := t.operands.Pop()
	b := t.operands.Pop()
	a := t.operands.Pop()

	// A select whose condition is the immediately preceding compare's result
	// is intentionally left unfused: OpCmpSelect would need four slot
	// operands (the compare's pair plus the select's pair) and the common
	// instruction shape only has room for three, the same ceiling that made
	// OpSelect itself borrow GlobalIdx for its condition slot. Materializing
	// the compare's boolean result and feeding it through the general
	// OpSelect path below costs one extra temp write, not an extra
	// instruction dispatch, since the compare was already going to execute.
	condSlot := t.materialize(cond)
	lhs := t.materialize(a)
	rhs := t.materialize(b)
	result := t.layout.AllocTemp()
	t.emit(ir.Instruction{Op: ir.OpSelect, Result: result, Lhs: lhs, Rhs: rhs, GlobalIdx: uint32(condSlot)})
	t.operands.PushTemp(result, a.Type())
	return nil
}

func isLoad(code byte) bool  { return code >= wasmdecode.OpI32Load && code <= wasmdecode.OpF64Load }
func isStore(code byte) bool { return code >= wasmdecode.OpI32Store && code <= wasmdecode.OpF64Store }

func (t *Translator) translateLoad(op wasmdecode.Op) error {
	addr := t.materialize(t.operands.Pop())
	var ty ir.ValueType
	switch op.Code {
	case wasmdecode.OpI32Load:
		ty = ir.TypeI32
	case wasmdecode.OpI64Load:
		ty = ir.TypeI64
	case wasmdecode.OpF32Load:
		ty = ir.TypeF32
	case wasmdecode.OpF64Load:
		ty = ir.TypeF64
	}
	result := t.layout.AllocTemp()
	t.emit(ir.Instruction{
		Op: ir.OpLoad, Result: result, Lhs: addr,
		Offset: ir.Offset16(op.Mem.Offset), Type: ty,
	})
	t.operands.PushTemp(result, valTypeFromIR(ty))
	return nil
}

func (t *Translator) translateStore(op wasmdecode.Op) error {
	val := t.materialize(t.operands.Pop())
	addr := t.materialize(t.operands.Pop())
	var ty ir.ValueType
	switch op.Code {
	case wasmdecode.OpI32Store:
		ty = ir.TypeI32
	case wasmdecode.OpI64Store:
		ty = ir.TypeI64
	case wasmdecode.OpF32Store:
		ty = ir.TypeF32
	case wasmdecode.OpF64Store:
		ty = ir.TypeF64
	}
	t.emit(ir.Instruction{
		Op: ir.OpStore, Lhs: addr, Rhs: val,
		Offset: ir.Offset16(op.Mem.Offset), Type: ty,
	})
	return nil
}

func (t *Translator) translateCall(funcIdx uint32) error {
	ft := t.funcTypeOf(funcIdx)
	args := make([]ir.Slot, len(ft.Params))
	for i := len(ft.Params) - 1; i >= 0; i-- {
		args[i] = t.materialize(t.operands.Pop())
	}
	span := t.layout.AllocTempSpan(len(args))
	for i, a := range args {
		t.emitCopy(span.At(uint16(i)), a)
	}
	resultSpan := t.layout.AllocTempSpan(len(ft.Results))
	t.emit(ir.Instruction{
		Op: ir.OpCall, FuncIdx: funcIdx,
		Span: span, SpanLen: uint16(len(args)),
		Result: resultSpan.Head,
	})
	for i, rty := range ft.Results {
		t.operands.PushTemp(resultSpan.At(uint16(i)), rty)
	}
	return nil
}

func (t *Translator) translateCallIndirect(op wasmdecode.Op) error {
	idx := t.materialize(t.operands.Pop())
	ft := t.module.Types[op.TypeIdx]
	args := make([]ir.Slot, len(ft.Params))
	for i := len(ft.Params) - 1; i >= 0; i-- {
		args[i] = t.materialize(t.operands.Pop())
	}
	span := t.layout.AllocTempSpan(len(args))
	for i, a := range args {
		t.emitCopy(span.At(uint16(i)), a)
	}
	resultSpan := t.layout.AllocTempSpan(len(ft.Results))
	t.emit(ir.Instruction{
		Op: ir.OpCallIndirect, TypeIdx: op.TypeIdx, TableIdx: op.TableIdx,
		Lhs: idx, Span: span, SpanLen: uint16(len(args)), Result: resultSpan.Head,
	})
	for i, rty := range ft.Results {
		t.operands.PushTemp(resultSpan.At(uint16(i)), rty)
	}
	return nil
}

func (t *Translator) funcTypeOf(funcIdx uint32) wasmdecode.FuncType {
	numImportedFuncs := 0
	for _, imp := range t.module.Imports {
		if imp.Kind == wasmdecode.ImportFunc {
			if uint32(numImportedFuncs) == funcIdx {
				return t.module.Types[imp.TypeIdx]
			}
			numImportedFuncs++
		}
	}
	typeIdx := t.module.Funcs[int(funcIdx)-numImportedFuncs]
	return t.module.Types[typeIdx]
}

func (t *Translator) translateCompare(nc numericClass) error {
	rhs := t.operands.Pop()
	lhs := t.operands.Pop()
	foldable := nc.operandType == ir.TypeI32 || nc.operandType == ir.TypeI64
	if foldable && lhs.IsImmediate() && rhs.IsImmediate() {
		result := foldCompare(nc, lhs.ImmediateBits(), rhs.ImmediateBits())
		t.operands.PushImmediate(uint64(result), wasmdecode.ValTypeI32)
		return nil
	}
	l := t.materialize(lhs)
	r := t.materialize(rhs)
	resultSlot := t.layout.AllocTemp()
	pos := t.enc.Push(ir.Instruction{Op: ir.OpCompare, Result: resultSlot, Lhs: l, Rhs: r, CmpOp: nc.cmpOp, Type: nc.operandType})
	t.lastCompare = struct {
		valid  bool
		pos    ir.OpPos
		result ir.Slot
		cmpOp  ir.CompareOp
		ty     ir.ValueType
	}{valid: true, pos: pos, result: resultSlot, cmpOp: nc.cmpOp, ty: nc.operandType}
	t.operands.PushTemp(resultSlot, wasmdecode.ValTypeI32)
	return nil
}

func (t *Translator) translateBinary(nc numericClass) error {
	rhs := t.operands.Pop()
	lhs := t.operands.Pop()
	if lhs.IsImmediate() && rhs.IsImmediate() && isIntegerFoldable(nc.binOp) {
		result := foldBinaryInt(nc, lhs.ImmediateBits(), rhs.ImmediateBits())
		t.operands.PushImmediate(result, lhs.Type())
		return nil
	}
	l := t.materialize(lhs)
	r := t.materialize(rhs)
	result := t.layout.AllocTemp()
	t.emit(ir.Instruction{Op: ir.OpBinary, Result: result, Lhs: l, Rhs: r, BinOp: nc.binOp, Type: nc.operandType})
	t.operands.PushTemp(result, valTypeFromIR(nc.resultType))
	return nil
}

func (t *Translator) translateUnary(nc numericClass) error {
	o := t.operands.Pop()
	v := t.materialize(o)
	result := t.layout.AllocTemp()
	t.emit(ir.Instruction{Op: ir.OpUnary, Result: result, Lhs: v, UnOp: nc.unOp, Type: nc.operandType})
	t.operands.PushTemp(result, valTypeFromIR(nc.resultType))
	return nil
}

// blockResultArity reports the arity and (for a single-result block) the
// value type of a structured construct's block type. Only the empty and
// single-value-type encodings are supported; a type-index block type (full
// multi-value signature) is rejected — see DESIGN.md component E for this
// scope reduction.
func (t *Translator) blockResultArity(bt wasmdecode.BlockType) (int, wasmdecode.ValType, error) {
	if bt.HasType {
		return 0, 0, fmt.Errorf("translator: multi-value block types are not supported")
	}
	if bt.Empty {
		return 0, 0, nil
	}
	return 1, bt.Single, nil
}

func (t *Translator) translateBlockOrLoop(op wasmdecode.Op) error {
	kind := frameBlock
	if op.Code == wasmdecode.OpLoop {
		kind = frameLoop
	}
	numResults, _, err := t.blockResultArity(op.Block)
	if err != nil {
		return err
	}
	label := t.labels.NewLabel()
	var resultSlots ir.SlotSpan
	if numResults > 0 {
		resultSlots = t.layout.AllocTempSpan(numResults)
	}
	if kind == frameLoop {
		if err := t.labels.Pin(label, t.enc.Pos()); err != nil {
			return err
		}
	}
	t.frames.Push(ControlFrame{
		Kind: kind, Block: op.Block, Label: label,
		OperandHeight: t.operands.Height(), TempMark: t.layout.TempMark(),
		ResultSlots: resultSlots, NumResults: numResults, Reachable: true,
	})
	return nil
}

func (t *Translator) translateIf(op wasmdecode.Op) error {
	numResults, _, err := t.blockResultArity(op.Block)
	if err != nil {
		return err
	}
	cond := t.materialize(t.operands.Pop())
	elseLabel := t.labels.NewLabel()
	endLabel := t.labels.NewLabel()

	pos := t.emit(ir.Instruction{Op: ir.OpBrIfEqz, Lhs: cond})
	if off, ok, rerr := t.labels.TryResolveLabel(elseLabel, pos); rerr != nil {
		return rerr
	} else if ok {
		t.enc.PatchBranch(pos, off)
	}

	var resultSlots ir.SlotSpan
	if numResults > 0 {
		resultSlots = t.layout.AllocTempSpan(numResults)
	}
	t.frames.Push(ControlFrame{
		Kind: frameIf, Block: op.Block, Label: endLabel, ElseLabel: elseLabel,
		OperandHeight: t.operands.Height(), TempMark: t.layout.TempMark(),
		ResultSlots: resultSlots, NumResults: numResults, Reachable: true,
	})
	return nil
}

// copyResultsInto pops f.NumResults operands off the stack (innermost last)
// and copies them into f.ResultSlots, the shared landing pad every branch to
// f's label — and f's own fallthrough — writes into.
func (t *Translator) copyResultsInto(f *ControlFrame) {
	for i := f.NumResults - 1; i >= 0; i-- {
		v := t.materialize(t.operands.Pop())
		t.emitCopy(f.ResultSlots.At(uint16(i)), v)
	}
}

func (t *Translator) pushFrameResults(f *ControlFrame) {
	for i := 0; i < f.NumResults; i++ {
		t.operands.PushTemp(f.ResultSlots.At(uint16(i)), f.Block.Single)
	}
}

func (t *Translator) translateElse() error {
	f := t.frames.Top()
	t.copyResultsInto(f)
	pos := t.emit(ir.Instruction{Op: ir.OpBr})
	if off, ok, err := t.labels.TryResolveLabel(f.Label, pos); err != nil {
		return err
	} else if ok {
		t.enc.PatchBranch(pos, off)
	}
	if err := t.labels.Pin(f.ElseLabel, t.enc.Pos()); err != nil {
		return err
	}
	f.HasElse = true
	t.operands.Truncate(f.OperandHeight)
	return nil
}

func (t *Translator) translateEnd() error {
	f := t.frames.Pop()
	switch f.Kind {
	case frameBlock:
		t.copyResultsInto(&f)
		if err := t.labels.Pin(f.Label, t.enc.Pos()); err != nil {
			return err
		}
	case frameLoop:
		t.copyResultsInto(&f)
		// f.Label (the loop header) was already pinned on entry.
	case frameIf:
		if !f.HasElse {
			if err := t.labels.Pin(f.ElseLabel, t.enc.Pos()); err != nil {
				return err
			}
		}
		t.copyResultsInto(&f)
		if err := t.labels.Pin(f.Label, t.enc.Pos()); err != nil {
			return err
		}
	}
	t.pushFrameResults(&f)
	return nil
}

func (t *Translator) branchToDepth(depth uint32, conditional bool, condSlot ir.Slot, condIsNez bool) error {
	f := t.frames.Nth(depth)
	isLoopBack := f.Kind == frameLoop
	if !isLoopBack {
		// A conditional branch must not destructively consume the operand
		// stack's result values, since the fallthrough path still needs
		// them; peek-and-copy instead of pop-and-copy when conditional.
		if conditional {
			for i := 0; i < f.NumResults; i++ {
				v := t.materialize(t.operands.PeekAt(f.NumResults - 1 - i))
				t.emitCopy(f.ResultSlots.At(uint16(i)), v)
			}
		} else {
			t.copyResultsInto(f)
		}
	}
	var pos ir.OpPos
	switch {
	case !conditional:
		pos = t.emit(ir.Instruction{Op: ir.OpBr})
	case condIsNez:
		pos = t.emit(ir.Instruction{Op: ir.OpBrIfNez, Lhs: condSlot})
	default:
		pos = t.emit(ir.Instruction{Op: ir.OpBrIfEqz, Lhs: condSlot})
	}
	off, ok, err := t.labels.TryResolveLabel(f.Label, pos)
	if err != nil {
		return err
	}
	if ok {
		t.enc.PatchBranch(pos, off)
	}
	// Code between an unconditional branch and the next else/end is dead;
	// this translator does not model Wasm's unreachable-stack polymorphism
	// for it and instead relies on that code being absent or itself
	// stack-consistent (see DESIGN.md component E).
	return nil
}

func (t *Translator) translateBr(depth uint32) error {
	return t.branchToDepth(depth, false, 0, false)
}

func (t *Translator) translateBrIf(depth uint32) error {
	cond := t.operands.Pop()
	if t.lastCompare.valid && !cond.IsImmediate() && !cond.IsLocal() && cond.slotOf() == t.lastCompare.result {
		f := t.frames.Nth(depth)
		if f.Kind != frameLoop {
			for i := 0; i < f.NumResults; i++ {
				v := t.materialize(t.operands.PeekAt(f.NumResults - 1 - i))
				t.emitCopy(f.ResultSlots.At(uint16(i)), v)
			}
		}
		t.enc.RewriteOp(t.lastCompare.pos, ir.OpCmpBranch)
		off, ok, err := t.labels.TryResolveLabel(f.Label, t.lastCompare.pos)
		if err != nil {
			return err
		}
		if ok {
			t.enc.PatchBranch(t.lastCompare.pos, off)
		}
		t.lastCompare.valid = false
		return nil
	}
	condSlot := t.materialize(cond)
	return t.branchToDepth(depth, true, condSlot, true)
}

// translateBrTable lowers br_table to a linear if-else chain of equality
// tests against the index followed by an unconditional branch to the
// default target, rather than a true indexed jump table. Supported only
// when every arm is a 0-result branch target (the common void-switch usage);
// see DESIGN.md component E.
func (t *Translator) translateBrTable(op wasmdecode.Op) error {
	index := t.materialize(t.operands.Pop())
	for i, depth := range op.BrTargets {
		f := t.frames.Nth(depth)
		if f.NumResults != 0 {
			return fmt.Errorf("translator: br_table arms carrying block results are not supported")
		}
		armResult := t.layout.AllocTemp()
		t.emit(ir.Instruction{
			Op: ir.OpCompare, Result: armResult, Lhs: index,
			Imm: uint64(uint32(i)), ImmUsed: true, CmpOp: ir.CmpEq, Type: ir.TypeI32,
		})
		pos := t.emit(ir.Instruction{Op: ir.OpBrIfNez, Lhs: armResult})
		off, ok, err := t.labels.TryResolveLabel(f.Label, pos)
		if err != nil {
			return err
		}
		if ok {
			t.enc.PatchBranch(pos, off)
		}
	}
	defaultFrame := t.frames.Nth(op.BrDefault)
	if defaultFrame.NumResults != 0 {
		return fmt.Errorf("translator: br_table default arm carrying block results is not supported")
	}
	pos := t.emit(ir.Instruction{Op: ir.OpBr})
	off, ok, err := t.labels.TryResolveLabel(defaultFrame.Label, pos)
	if err != nil {
		return err
	}
	if ok {
		t.enc.PatchBranch(pos, off)
	}
	return nil
}
