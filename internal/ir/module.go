package ir

import (
	"strconv"

	"mimicc/internal/diag"
	"mimicc/internal/types"
)

// Module is both the owner of every top-level IR value (functions,
// global variables) and the builder that constructs them: state is
// shared (the current insert point, the lazily-created global
// constructor) so the two roles live on one struct.
type Module struct {
	GlobalVars []*GlobalVar
	Functions  []*Function

	insertBlock *Block

	ctorFunc   *Function
	ctorEntry  *Block
	ctorExit   *Block
	ctorSealed bool

	Diag *diag.Context
}

// NewModule returns an empty module with no insert point set; callers
// must CreateBlock + SetInsertPoint (or EnterGlobalCtor) before the
// first Create* call that needs one.
func NewModule() *Module {
	return &Module{Diag: &diag.Context{}}
}

func (m *Module) scope() string {
	if m.Diag == nil {
		return ""
	}
	return m.Diag.Scope()
}

func (m *Module) fail(code, format string, args ...interface{}) {
	diag.Fatalf(code, m.scope(), format, args...)
}

// SetInsertPoint moves the builder's current block. Pass nil to detach
// (only legal while building constants, which never insert).
func (m *Module) SetInsertPoint(b *Block) { m.insertBlock = b }

func (m *Module) InsertBlock() *Block { return m.insertBlock }

func (m *Module) insert(inst Instruction) {
	if m.insertBlock == nil {
		m.fail(diag.CodeContractViolation, "no insert point set")
	}
	if t := m.insertBlock.Terminator(); t != nil {
		m.fail(diag.CodeContractViolation, "cannot insert %T after block %q's terminator", inst, m.insertBlock.Name())
	}
	m.insertBlock.append(inst)
}

// CreateFunction appends a new Function of the given signature to the
// module's function list.
func (m *Module) CreateFunction(linkage Linkage, name string, fnType types.Type) *Function {
	if !types.IsFunction(fnType) {
		m.fail(diag.CodeContractViolation, "create_function: %s is not a function type", fnType)
	}
	fn := &Function{valueBase: valueBase{name: name, typ: fnType}, Linkage: linkage}
	m.Functions = append(m.Functions, fn)
	return fn
}

// CreateBlock appends a new Block to parent; it does not move the
// current insert point.
func (m *Module) CreateBlock(parent *Function, name string) *Block {
	if name == "" {
		name = parent.freshBlockName("bb")
	} else {
		name = parent.freshBlockName(name)
	}
	b := newBlock(parent, name)
	parent.Blocks = append(parent.Blocks, b)
	return b
}

// CreateArgRef returns the Value denoting parameter index of fn.
func (m *Module) CreateArgRef(fn *Function, index int) *ArgRef {
	params := fn.ParamTypes()
	if index < 0 || index >= len(params) {
		m.fail(diag.CodeContractViolation, "create_arg_ref: index %d out of range for %s", index, fn.Name())
	}
	ref := &ArgRef{valueBase: valueBase{typ: params[index], name: "arg" + strconv.Itoa(index)}, Index: index}
	fn.Args = append(fn.Args, ref)
	return ref
}

func (m *Module) nameResult(v Value) {
	if fn := m.currentFunction(); fn != nil && v.Name() == "" {
		v.Rename(fn.freshValueName())
	}
}

func (m *Module) currentFunction() *Function {
	if m.insertBlock == nil {
		return nil
	}
	return m.insertBlock.Func
}

// --- memory instructions ---

// CreateAlloca reserves stack storage for a value of type t, returning a
// Pointer(t) value. t must not be Void.
func (m *Module) CreateAlloca(t types.Type) *AllocaInst {
	if types.IsVoid(t) {
		m.fail(diag.CodeContractViolation, "create_alloca: cannot allocate void")
	}
	inst := &AllocaInst{Elem: t}
	inst.typ = types.MakePointer(t, true)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

// CreateLoad reads through ptr. When isRef, the result is itself loaded
// once more (a reference-typed local is materialized as a pointer to
// pointer; this unwraps one level).
func (m *Module) CreateLoad(ptr Value, isRef bool) Value {
	pointee, ok := types.Deref(ptr.TypeOf())
	if !ok {
		m.fail(diag.CodeContractViolation, "create_load: %q has non-pointer type %s", ptr.Name(), ptr.TypeOf())
	}
	inst := &LoadInst{IsRef: isRef}
	inst.typ = pointee
	initOperands(&inst.instBase, inst, ptr)
	m.insert(inst)
	m.nameResult(inst)
	if isRef {
		return m.CreateLoad(inst, false)
	}
	return inst
}

// CreateStore writes val through ptr, repeatedly dereferencing ptr while
// its pointee cannot accept val's type (the reference-local case), and
// inserting an implicit cast on val when the final pointee accepts but
// does not match identically.
func (m *Module) CreateStore(val Value, ptr Value) *StoreInst {
	for {
		pointee, ok := types.Deref(ptr.TypeOf())
		if !ok {
			m.fail(diag.CodeContractViolation, "create_store: %q has non-pointer type %s", ptr.Name(), ptr.TypeOf())
		}
		if types.CanAccept(pointee, val.TypeOf()) {
			if !types.IsIdentical(pointee, val.TypeOf()) {
				val = m.CreateCast(val, pointee)
			}
			break
		}
		ptr = m.CreateLoad(ptr, false)
	}
	inst := &StoreInst{}
	inst.typ = types.MakeVoid()
	initOperands(&inst.instBase, inst, val, ptr)
	m.insert(inst)
	return inst
}

// CreateInit is create_store's counterpart for initialization sites: when
// isRef, ptr already holds the address being initialized (a fresh
// reference local) and val — itself an address — is stored verbatim,
// skipping the accept-driven dereference loop create_store performs.
func (m *Module) CreateInit(val Value, ptr Value, isRef bool) *StoreInst {
	if !isRef {
		return m.CreateStore(val, ptr)
	}
	pointee, ok := types.Deref(ptr.TypeOf())
	if !ok {
		m.fail(diag.CodeContractViolation, "create_init: %q has non-pointer type %s", ptr.Name(), ptr.TypeOf())
	}
	assertAcceptable(m.scope(), "create_init", pointee, val)
	inst := &StoreInst{}
	inst.typ = types.MakeVoid()
	initOperands(&inst.instBase, inst, val, ptr)
	m.insert(inst)
	return inst
}

// --- control flow ---

// CreateJump inserts an unconditional terminator to target; target's own
// use-list (its predecessor list) is updated automatically.
func (m *Module) CreateJump(target *Block) *JumpInst {
	inst := &JumpInst{}
	inst.typ = types.MakeVoid()
	initOperands(&inst.instBase, inst, target)
	m.insert(inst)
	return inst
}

// CreateBranch inserts a conditional terminator; cond must be
// integer- or bool-typed.
func (m *Module) CreateBranch(cond Value, tBlock, fBlock *Block) *BranchInst {
	if !types.IsInteger(cond.TypeOf()) && !types.IsIdentical(cond.TypeOf(), types.MakeBool()) {
		m.fail(diag.CodeContractViolation, "create_branch: condition %q is not integer- or bool-typed (%s)", cond.Name(), cond.TypeOf())
	}
	inst := &BranchInst{}
	inst.typ = types.MakeVoid()
	initOperands(&inst.instBase, inst, cond, tBlock, fBlock)
	m.insert(inst)
	return inst
}

// CreateReturn terminates the current block. value must be nil iff the
// enclosing function's return type is void.
func (m *Module) CreateReturn(value Value) *ReturnInst {
	fn := m.currentFunction()
	if fn == nil {
		m.fail(diag.CodeContractViolation, "create_return: no current function")
	}
	retTy := fn.ReturnType()
	inst := &ReturnInst{}
	inst.typ = types.MakeVoid()
	if value == nil {
		if !types.IsVoid(retTy) {
			m.fail(diag.CodeContractViolation, "create_return: function %q returns %s, got no value", fn.Name(), retTy)
		}
		inst.operands = nil
	} else {
		if !types.IsIdentical(retTy, value.TypeOf()) {
			m.fail(diag.CodeContractViolation, "create_return: function %q returns %s, got %s", fn.Name(), retTy, value.TypeOf())
		}
		initOperands(&inst.instBase, inst, value)
	}
	m.insert(inst)
	return inst
}

// CreateCall applies callee to args, inserting an implicit cast on each
// argument whose type does not already identically match the callee's
// trivialized parameter type.
func (m *Module) CreateCall(callee Value, args []Value) *CallInst {
	params, ok := types.Args(callee.TypeOf())
	if !ok {
		m.fail(diag.CodeContractViolation, "create_call: %q is not callable (%s)", callee.Name(), callee.TypeOf())
	}
	if len(args) != len(params) && !(isVariadicCallee(callee) && len(args) >= len(params)) {
		m.fail(diag.CodeContractViolation, "create_call: %q expects %d argument(s), got %d", callee.Name(), len(params), len(args))
	}
	coerced := make([]Value, len(args))
	for i, a := range args {
		if i < len(params) {
			if !types.IsIdentical(params[i], a.TypeOf()) {
				assertAcceptable(m.scope(), "create_call", params[i], a)
				a = m.CreateCast(a, params[i])
			}
		}
		coerced[i] = a
	}
	ret, _ := types.Return(callee.TypeOf())
	inst := &CallInst{}
	inst.typ = ret
	vals := append([]Value{callee}, coerced...)
	initOperands(&inst.instBase, inst, vals...)
	m.insert(inst)
	if !types.IsVoid(ret) {
		m.nameResult(inst)
	}
	return inst
}

func isVariadicCallee(callee Value) bool {
	if f, ok := callee.TypeOf().(*types.Function); ok {
		return f.Variadic
	}
	return false
}

// --- addressing ---

// CreatePtrAccess computes ptr + index*sizeof(pointee), returning a
// value of ptr's own pointer type.
func (m *Module) CreatePtrAccess(ptr Value, index Value) *AccessInst {
	if !types.IsPointer(ptr.TypeOf()) {
		m.fail(diag.CodeContractViolation, "create_ptr_access: %q is not a pointer (%s)", ptr.Name(), ptr.TypeOf())
	}
	inst := &AccessInst{AccessOf: AccessPointer}
	inst.typ = ptr.TypeOf()
	initOperands(&inst.instBase, inst, ptr, index)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

// CreateElemAccess computes the address of element index of the
// array/struct that base denotes, returning Pointer(elemType). A base
// that is not itself pointer-typed is first auto-addressed by spilling
// it to a fresh temporary.
func (m *Module) CreateElemAccess(base Value, index Value, elemType types.Type) *AccessInst {
	ptr := base
	if !types.IsPointer(base.TypeOf()) {
		tmp := m.CreateAlloca(base.TypeOf())
		m.CreateStore(base, tmp)
		ptr = tmp
	}
	pointee, ok := types.Deref(ptr.TypeOf())
	if !ok {
		m.fail(diag.CodeContractViolation, "create_elem_access: %q has non-pointer type %s", ptr.Name(), ptr.TypeOf())
	}
	if _, ok := types.Length(pointee); !ok {
		m.fail(diag.CodeContractViolation, "create_elem_access: %s has no defined length", pointee)
	}
	inst := &AccessInst{AccessOf: AccessElement, ElemType: elemType}
	inst.typ = types.MakePointer(elemType, true)
	initOperands(&inst.instBase, inst, ptr, index)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

// --- binary / unary ---

// CreateBinary is the low-level binary-instruction factory; the typed
// wrappers below compute op and resultType from the operand types and
// call through this.
func (m *Module) CreateBinary(op BinOp, l, r Value, resultType types.Type) *BinaryInst {
	inst := &BinaryInst{Op: op}
	inst.typ = resultType
	initOperands(&inst.instBase, inst, l, r)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

// CreateUnary is the low-level unary-instruction factory.
func (m *Module) CreateUnary(op UnOp, x Value, t types.Type) *UnaryInst {
	inst := &UnaryInst{Op: op}
	inst.typ = t
	initOperands(&inst.instBase, inst, x)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

func (m *Module) assertSameInt(op string, l, r Value) types.Type {
	if !types.IsInteger(l.TypeOf()) || !types.IsInteger(r.TypeOf()) {
		m.fail(diag.CodeContractViolation, "%s: operands must be integer (got %s, %s)", op, l.TypeOf(), r.TypeOf())
	}
	if !types.IsIdentical(l.TypeOf(), r.TypeOf()) {
		m.fail(diag.CodeContractViolation, "%s: operand types differ (%s vs %s)", op, l.TypeOf(), r.TypeOf())
	}
	return l.TypeOf()
}

func i32() types.Type { return types.MakePrim(types.Int32, true) }

func (m *Module) CreateAdd(l, r Value) *BinaryInst { return m.CreateBinary(OpAdd, l, r, m.assertSameInt("add", l, r)) }
func (m *Module) CreateSub(l, r Value) *BinaryInst { return m.CreateBinary(OpSub, l, r, m.assertSameInt("sub", l, r)) }
func (m *Module) CreateMul(l, r Value) *BinaryInst { return m.CreateBinary(OpMul, l, r, m.assertSameInt("mul", l, r)) }

func (m *Module) CreateDiv(l, r Value) *BinaryInst {
	t := m.assertSameInt("div", l, r)
	op := OpSDiv
	if types.IsUnsigned(t) {
		op = OpUDiv
	}
	return m.CreateBinary(op, l, r, t)
}

func (m *Module) CreateRem(l, r Value) *BinaryInst {
	t := m.assertSameInt("rem", l, r)
	op := OpSRem
	if types.IsUnsigned(t) {
		op = OpURem
	}
	return m.CreateBinary(op, l, r, t)
}

func (m *Module) CreateShr(l, r Value) *BinaryInst {
	t := m.assertSameInt("shr", l, r)
	op := OpAShr
	if types.IsUnsigned(t) {
		op = OpLShr
	}
	return m.CreateBinary(op, l, r, t)
}

func (m *Module) CreateShl(l, r Value) *BinaryInst {
	return m.CreateBinary(OpShl, l, r, m.assertSameInt("shl", l, r))
}
func (m *Module) CreateAnd(l, r Value) *BinaryInst {
	return m.CreateBinary(OpAnd, l, r, m.assertSameInt("and", l, r))
}
func (m *Module) CreateOr(l, r Value) *BinaryInst {
	return m.CreateBinary(OpOr, l, r, m.assertSameInt("or", l, r))
}
func (m *Module) CreateXor(l, r Value) *BinaryInst {
	return m.CreateBinary(OpXor, l, r, m.assertSameInt("xor", l, r))
}

func (m *Module) relOp(name string, unsignedOrPtr bool, sOp, uOp BinOp, l, r Value) *BinaryInst {
	if unsignedOrPtr {
		return m.CreateBinary(uOp, l, r, i32())
	}
	return m.CreateBinary(sOp, l, r, i32())
}

func isUnsignedOrPointer(t types.Type) bool {
	return types.IsUnsigned(t) || types.IsPointer(t)
}

func (m *Module) CreateLess(l, r Value) *BinaryInst {
	return m.relOp("less", isUnsignedOrPointer(l.TypeOf()), OpSLt, OpULt, l, r)
}
func (m *Module) CreateLessEq(l, r Value) *BinaryInst {
	return m.relOp("less_eq", isUnsignedOrPointer(l.TypeOf()), OpSLe, OpULe, l, r)
}
func (m *Module) CreateGreat(l, r Value) *BinaryInst {
	return m.relOp("great", isUnsignedOrPointer(l.TypeOf()), OpSGt, OpUGt, l, r)
}
func (m *Module) CreateGreatEq(l, r Value) *BinaryInst {
	return m.relOp("great_eq", isUnsignedOrPointer(l.TypeOf()), OpSGe, OpUGe, l, r)
}

func (m *Module) CreateEqual(l, r Value) *BinaryInst {
	m.assertComparable("equal", l, r)
	return m.CreateBinary(OpEq, l, r, i32())
}
func (m *Module) CreateNotEq(l, r Value) *BinaryInst {
	m.assertComparable("not_eq", l, r)
	return m.CreateBinary(OpNeq, l, r, i32())
}

func (m *Module) assertComparable(op string, l, r Value) {
	ok := func(t types.Type) bool { return types.IsInteger(t) || types.IsFunction(t) || types.IsPointer(t) }
	if !ok(l.TypeOf()) || !ok(r.TypeOf()) {
		m.fail(diag.CodeContractViolation, "%s: operands must be integer, function or pointer (got %s, %s)", op, l.TypeOf(), r.TypeOf())
	}
}

func (m *Module) CreateNeg(x Value) *UnaryInst {
	if !types.IsInteger(x.TypeOf()) {
		m.fail(diag.CodeContractViolation, "neg: operand must be integer (got %s)", x.TypeOf())
	}
	return m.CreateUnary(OpNeg, x, x.TypeOf())
}

func (m *Module) CreateNot(x Value) *UnaryInst {
	if !types.IsInteger(x.TypeOf()) {
		m.fail(diag.CodeContractViolation, "not: operand must be integer (got %s)", x.TypeOf())
	}
	return m.CreateUnary(OpNot, x, x.TypeOf())
}

func (m *Module) CreateLogicNot(x Value) *UnaryInst {
	if !types.IsInteger(x.TypeOf()) {
		m.fail(diag.CodeContractViolation, "lnot: operand must be integer (got %s)", x.TypeOf())
	}
	return m.CreateUnary(OpLogicNot, x, i32())
}

// --- phi / select ---

// CreatePhi inserts an empty Phi of type t; incoming edges are appended
// with AddIncoming once predecessor values are known (typically while
// sealing a loop header).
func (m *Module) CreatePhi(t types.Type) *PhiInst {
	inst := &PhiInst{}
	inst.typ = t
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

// AddPhiIncoming appends one (value, predecessor) edge to phi.
func (m *Module) AddPhiIncoming(phi *PhiInst, val Value, from *Block) {
	assertAcceptable(m.scope(), "phi_operand", phi.TypeOf(), val)
	op := &PhiOperandInst{}
	op.typ = phi.TypeOf()
	initOperands(&op.instBase, op, val, from)
	phi.AddIncoming(op)
}

// CreateSelect is the ternary value-select instruction.
func (m *Module) CreateSelect(cond, tVal, fVal Value) *SelectInst {
	if !types.IsInteger(cond.TypeOf()) {
		m.fail(diag.CodeContractViolation, "select: condition must be integer (got %s)", cond.TypeOf())
	}
	if !types.IsIdentical(tVal.TypeOf(), fVal.TypeOf()) {
		m.fail(diag.CodeContractViolation, "select: branch types differ (%s vs %s)", tVal.TypeOf(), fVal.TypeOf())
	}
	inst := &SelectInst{}
	inst.typ = tVal.TypeOf()
	initOperands(&inst.instBase, inst, cond, tVal, fVal)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

// --- cast ---

// CreateCast converts value to dst. Identical types return value
// unchanged; array operands are addressed (decayed to a pointer to their
// first element) before casting; constant operands produce a detached
// Cast node that is never inserted into any block, since it is a pure
// constant expression rather than a runtime instruction.
func (m *Module) CreateCast(value Value, dst types.Type) Value {
	if types.IsIdentical(value.TypeOf(), dst) {
		return value
	}
	if arr, ok := value.TypeOf().(*types.Array); ok {
		value = m.CreateElemAccess(value, m.constZeroIndex(), arr.Elem)
	}
	if !types.CanCastTo(dst, value.TypeOf()) {
		m.fail(diag.CodeContractViolation, "create_cast: %s is not castable to %s", value.TypeOf(), dst)
	}
	inst := &CastInst{}
	inst.typ = dst
	if c, ok := value.(Constant); ok {
		initOperands(&inst.instBase, inst, c)
		return inst
	}
	initOperands(&inst.instBase, inst, value)
	m.insert(inst)
	m.nameResult(inst)
	return inst
}

func (m *Module) constZeroIndex() Constant { return newConstInt(0, i32()) }

// --- constants ---

// GetUndef returns the unspecified-value placeholder of type t, used to
// seed an SSA slot (e.g. a loop-carried phi) before its real defining
// edge is known.
func (m *Module) GetUndef(t types.Type) *Undef { return newUndef(t) }

func (m *Module) GetZero(t types.Type) Constant { return &ConstZero{valueBase: valueBase{typ: t}} }

func (m *Module) GetInt(value uint32, t types.Type) Constant {
	if !types.IsInteger(t) {
		m.fail(diag.CodeContractViolation, "get_int: %s is not integer", t)
	}
	return newConstInt(value, t)
}

func (m *Module) GetInt32(value int32) Constant { return newConstInt(uint32(value), i32()) }
func (m *Module) GetBool(b bool) Constant {
	v := uint32(0)
	if b {
		v = 1
	}
	return newConstInt(v, types.MakeBool())
}

func (m *Module) GetString(bytes []byte, charPtrType types.Type) Constant {
	return &ConstStr{valueBase: valueBase{typ: charPtrType}, Bytes: bytes}
}

func (m *Module) GetStruct(fields []Constant, t types.Type) Constant {
	s, ok := t.(*types.Struct)
	if !ok || len(s.Fields) != len(fields) {
		m.fail(diag.CodeContractViolation, "get_struct: %s does not match %d field(s)", t, len(fields))
	}
	for i, f := range fields {
		if !types.IsIdentical(s.Fields[i], f.TypeOf()) {
			m.fail(diag.CodeContractViolation, "get_struct: field %d type %s does not match %s", i, f.TypeOf(), s.Fields[i])
		}
	}
	return &ConstStruct{valueBase: valueBase{typ: t}, Fields: fields}
}

func (m *Module) GetArray(elems []Constant, t types.Type) Constant {
	a, ok := t.(*types.Array)
	if !ok || a.Length != len(elems) {
		m.fail(diag.CodeContractViolation, "get_array: %s does not match %d element(s)", t, len(elems))
	}
	for _, e := range elems {
		if !types.IsIdentical(a.Elem, e.TypeOf()) {
			m.fail(diag.CodeContractViolation, "get_array: element type %s does not match %s", e.TypeOf(), a.Elem)
		}
	}
	return &ConstArray{valueBase: valueBase{typ: t}, Elems: elems}
}

// --- globals ---

// CreateGlobalVar appends a module-level variable. Its primary type is
// always Pointer(t, mutable=false) regardless of isMutable — the pointer
// denoting a global's address is never itself reseatable — while its
// original type preserves the declared (possibly mutable) pointee type.
func (m *Module) CreateGlobalVar(linkage Linkage, isMutable bool, name string, t types.Type, init Constant) *GlobalVar {
	if init != nil && !types.IsIdentical(t, init.TypeOf()) {
		m.fail(diag.CodeContractViolation, "create_global_var: initializer type %s does not match %s", init.TypeOf(), t)
	}
	g := &GlobalVar{
		valueBase: valueBase{name: name, typ: types.MakePointer(t, false)},
		Linkage:   linkage,
		IsMutable: isMutable,
	}
	g.setOriginalType(types.OriginalType{Type: types.MakePointer(t, isMutable)})
	g.Initializer = init
	m.GlobalVars = append(m.GlobalVars, g)
	return g
}

// --- global constructor ---

func (m *Module) ensureCtor() {
	if m.ctorFunc != nil {
		return
	}
	fnType := types.MakeFunc(nil, types.MakeVoid(), false)
	m.ctorFunc = m.CreateFunction(GlobalCtor, "_$ctor", fnType)
	m.ctorEntry = m.CreateBlock(m.ctorFunc, "entry")
	m.ctorExit = m.CreateBlock(m.ctorFunc, "exit")
	saved := m.insertBlock
	m.insertBlock = m.ctorExit
	m.CreateReturn(nil)
	m.insertBlock = saved
}

// EnterGlobalCtor scoped-acquires the constructor's entry block as the
// insert point, creating the constructor on first use. The returned
// closer restores the previous insert point; call as
// `defer m.EnterGlobalCtor()()`.
func (m *Module) EnterGlobalCtor() func() {
	m.ensureCtor()
	prev := m.insertBlock
	m.insertBlock = m.ctorEntry
	return func() { m.insertBlock = prev }
}

// SealGlobalCtor links the constructor's entry to its exit with an
// unconditional jump, if a constructor was ever created and has not
// already been sealed. Idempotent: safe to call from every whole-module
// entry point (dump, run-passes, generate-code) without double-sealing.
func (m *Module) SealGlobalCtor() {
	if m.ctorSealed || m.ctorFunc == nil {
		return
	}
	m.ctorSealed = true
	saved := m.insertBlock
	m.insertBlock = m.ctorEntry
	m.CreateJump(m.ctorExit)
	m.insertBlock = saved
}

// GlobalCtorFunc returns the lazily-created constructor, or nil if no
// global needed one.
func (m *Module) GlobalCtorFunc() *Function { return m.ctorFunc }
