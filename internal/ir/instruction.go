package ir

import "mimicc/internal/types"

// InstKind tags the closed set of instruction variants from the data
// model. Dispatch is by type switch on the concrete struct, not by this
// tag, but the tag is convenient for printers and passes that only need
// to branch on shape.
type InstKind int

const (
	KindLoad InstKind = iota
	KindStore
	KindAlloca
	KindAccessPointer
	KindAccessElement
	KindBinary
	KindUnary
	KindCast
	KindCall
	KindBranch
	KindJump
	KindReturn
	KindPhi
	KindPhiOperand
	KindSelect
)

// BinOp enumerates the binary opcodes a Binary instruction may carry.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpUDiv
	OpSDiv
	OpURem
	OpSRem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor
	OpEq
	OpNeq
	OpULt
	OpSLt
	OpULe
	OpSLe
	OpUGt
	OpSGt
	OpUGe
	OpSGe
)

var binOpNames = map[BinOp]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul",
	OpUDiv: "udiv", OpSDiv: "sdiv", OpURem: "urem", OpSRem: "srem",
	OpShl: "shl", OpLShr: "lshr", OpAShr: "ashr",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpEq: "eq", OpNeq: "neq",
	OpULt: "ult", OpSLt: "slt", OpULe: "ule", OpSLe: "sle",
	OpUGt: "ugt", OpSGt: "sgt", OpUGe: "uge", OpSGe: "sge",
}

func (op BinOp) String() string { return binOpNames[op] }

// UnOp enumerates the unary opcodes a Unary instruction may carry.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpLogicNot
)

var unOpNames = map[UnOp]string{OpNeg: "neg", OpNot: "not", OpLogicNot: "lnot"}

func (op UnOp) String() string { return unOpNames[op] }

// EffectKind classifies what an instruction does to memory, generalizing
// the per-instruction GetEffects() partition into a closed set: an
// instruction is pure, reads through a pointer, writes through a
// pointer, or may do anything (a call). Dead-code elimination reads
// this to decide what may be deleted; LICM classifies instructions by
// their concrete kind instead.
type EffectKind int

const (
	EffectPure EffectKind = iota
	EffectReads
	EffectWrites
	EffectCall
)

// Effect is one entry in an instruction's effect set. Ptr is populated
// for EffectReads/EffectWrites and names the pointer operand the
// read/write goes through.
type Effect struct {
	Kind EffectKind
	Ptr  Value
}

// Instruction is the common interface every concrete instruction kind
// implements: a Value (so it can be used as an operand) plus the
// bookkeeping a builder, analysis or pass needs (parent block, ordered
// operand list, terminator-ness, effect classification).
type Instruction interface {
	Value
	Kind() InstKind
	Parent() *Block
	setParent(*Block)
	Operands() []*Use
	setOperand(int, *Use)
	IsTerminator() bool
	Effects() []Effect
	// Successors lists the blocks a terminator may transfer control to,
	// in textual-dump order; nil for non-terminators.
	Successors() []*Block
}

// instBase factors the parent-block link and operand-use-list every
// concrete instruction carries.
type instBase struct {
	valueBase
	parent   *Block
	operands []*Use
}

func (i *instBase) Parent() *Block             { return i.parent }
func (i *instBase) setParent(b *Block)         { i.parent = b }
func (i *instBase) Operands() []*Use           { return i.operands }
func (i *instBase) setOperand(idx int, u *Use) { i.operands[idx] = u }
func (i *instBase) IsTerminator() bool         { return false }
func (i *instBase) Successors() []*Block       { return nil }

func (i *instBase) operandValue(idx int) Value {
	if i.operands[idx] == nil {
		return nil
	}
	return i.operands[idx].Value
}

// DetachOperands unlinks inst's outgoing operand Uses from each
// operand's use-list, without touching inst's own incoming uses. Callers
// removing an instruction outright (dead-code elimination) call this
// first so operands don't retain a stale reference to a deleted user.
func DetachOperands(inst Instruction) {
	for _, u := range inst.Operands() {
		if u == nil {
			continue
		}
		u.Value.removeUse(u)
	}
}

func initOperands(i *instBase, user Instruction, vals ...Value) {
	i.operands = make([]*Use, len(vals))
	for idx, v := range vals {
		setOperandValue(user, i.operands, idx, v)
	}
}

// --- Load ---

type LoadInst struct {
	instBase
	IsRef bool
}

func (l *LoadInst) Kind() InstKind { return KindLoad }
func (l *LoadInst) Ptr() Value     { return l.operandValue(0) }
func (l *LoadInst) Effects() []Effect {
	return []Effect{{Kind: EffectReads, Ptr: l.Ptr()}}
}

// --- Store ---

type StoreInst struct {
	instBase
}

func (s *StoreInst) Kind() InstKind { return KindStore }
func (s *StoreInst) Val() Value     { return s.operandValue(0) }
func (s *StoreInst) Ptr() Value     { return s.operandValue(1) }
func (s *StoreInst) Effects() []Effect {
	return []Effect{{Kind: EffectWrites, Ptr: s.Ptr()}}
}

// --- Alloca ---

type AllocaInst struct {
	instBase
	Elem types.Type
}

func (a *AllocaInst) Kind() InstKind    { return KindAlloca }
func (a *AllocaInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }

// --- Access (Pointer | Element) ---

type AccessKind int

const (
	AccessPointer AccessKind = iota
	AccessElement
)

type AccessInst struct {
	instBase
	AccessOf AccessKind
	ElemType types.Type
}

func (a *AccessInst) Kind() InstKind {
	if a.AccessOf == AccessPointer {
		return KindAccessPointer
	}
	return KindAccessElement
}
func (a *AccessInst) Base() Value  { return a.operandValue(0) }
func (a *AccessInst) Index() Value { return a.operandValue(1) }
func (a *AccessInst) Effects() []Effect {
	return []Effect{{Kind: EffectPure}}
}

// --- Binary ---

type BinaryInst struct {
	instBase
	Op BinOp
}

func (b *BinaryInst) Kind() InstKind    { return KindBinary }
func (b *BinaryInst) LHS() Value        { return b.operandValue(0) }
func (b *BinaryInst) RHS() Value        { return b.operandValue(1) }
func (b *BinaryInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }

// --- Unary ---

type UnaryInst struct {
	instBase
	Op UnOp
}

func (u *UnaryInst) Kind() InstKind    { return KindUnary }
func (u *UnaryInst) X() Value          { return u.operandValue(0) }
func (u *UnaryInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }

// --- Cast ---

type CastInst struct {
	instBase
}

func (c *CastInst) Kind() InstKind    { return KindCast }
func (c *CastInst) Src() Value        { return c.operandValue(0) }
func (c *CastInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }

// --- Call ---

type CallInst struct {
	instBase
}

func (c *CallInst) Kind() InstKind { return KindCall }
func (c *CallInst) Callee() Value  { return c.operandValue(0) }
func (c *CallInst) Args() []Value {
	out := make([]Value, len(c.operands)-1)
	for i := 1; i < len(c.operands); i++ {
		out[i-1] = c.operandValue(i)
	}
	return out
}
func (c *CallInst) Effects() []Effect { return []Effect{{Kind: EffectCall}} }

// --- Branch ---

type BranchInst struct {
	instBase
}

func (b *BranchInst) Kind() InstKind       { return KindBranch }
func (b *BranchInst) IsTerminator() bool   { return true }
func (b *BranchInst) Cond() Value          { return b.operandValue(0) }
func (b *BranchInst) TrueBlock() *Block    { return b.operandValue(1).(*Block) }
func (b *BranchInst) FalseBlock() *Block   { return b.operandValue(2).(*Block) }
func (b *BranchInst) Effects() []Effect    { return []Effect{{Kind: EffectPure}} }
func (b *BranchInst) Successors() []*Block { return []*Block{b.TrueBlock(), b.FalseBlock()} }

// --- Jump ---

type JumpInst struct {
	instBase
}

func (j *JumpInst) Kind() InstKind       { return KindJump }
func (j *JumpInst) IsTerminator() bool   { return true }
func (j *JumpInst) Target() *Block       { return j.operandValue(0).(*Block) }
func (j *JumpInst) Effects() []Effect    { return []Effect{{Kind: EffectPure}} }
func (j *JumpInst) Successors() []*Block { return []*Block{j.Target()} }

// --- Return ---

type ReturnInst struct {
	instBase
}

func (r *ReturnInst) Kind() InstKind     { return KindReturn }
func (r *ReturnInst) IsTerminator() bool { return true }
func (r *ReturnInst) Effects() []Effect  { return []Effect{{Kind: EffectPure}} }
func (r *ReturnInst) Value_() Value {
	if len(r.operands) == 0 {
		return nil
	}
	return r.operandValue(0)
}

// --- PhiOperand ---

// PhiOperandInst pairs an incoming value with the predecessor block it
// arrives from; a Phi's operands are exclusively PhiOperandInst values,
// one per predecessor of the phi's parent block.
type PhiOperandInst struct {
	instBase
}

func (p *PhiOperandInst) Kind() InstKind    { return KindPhiOperand }
func (p *PhiOperandInst) Incoming() Value   { return p.operandValue(0) }
func (p *PhiOperandInst) From() *Block      { return p.operandValue(1).(*Block) }
func (p *PhiOperandInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }

// --- Phi ---

type PhiInst struct {
	instBase
}

func (p *PhiInst) Kind() InstKind    { return KindPhi }
func (p *PhiInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }
func (p *PhiInst) IncomingOperands() []*PhiOperandInst {
	out := make([]*PhiOperandInst, len(p.operands))
	for i, u := range p.operands {
		out[i] = u.Value.(*PhiOperandInst)
	}
	return out
}

// AddIncoming appends a new PhiOperandInst use to this phi for (val,
// from). Called by the builder's AddPhiIncoming; preheader synthesis
// does not add edges, it retargets an existing PhiOperandInst's From
// block with RedirectUse.
func (p *PhiInst) AddIncoming(op *PhiOperandInst) {
	idx := len(p.operands)
	p.operands = append(p.operands, nil)
	setOperandValue(p, p.operands, idx, op)
}

// --- Select ---

type SelectInst struct {
	instBase
}

func (s *SelectInst) Kind() InstKind    { return KindSelect }
func (s *SelectInst) Cond() Value       { return s.operandValue(0) }
func (s *SelectInst) TrueVal() Value    { return s.operandValue(1) }
func (s *SelectInst) FalseVal() Value   { return s.operandValue(2) }
func (s *SelectInst) Effects() []Effect { return []Effect{{Kind: EffectPure}} }
