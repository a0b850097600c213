package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimicc/internal/codegen"
	"mimicc/internal/ir"
	"mimicc/internal/types"
)

func i32() types.Type { return types.MakePrim(types.Int32, true) }

// recordingVisitor logs the sequence of Visit* calls it receives, enough
// to assert both dispatch correctness and walk order.
type recordingVisitor struct {
	events []string
}

func (r *recordingVisitor) VisitGlobalVar(g *ir.GlobalVar) { r.events = append(r.events, "global:"+g.Name()) }
func (r *recordingVisitor) VisitFunction(fn *ir.Function)  { r.events = append(r.events, "fn:"+fn.Name()) }
func (r *recordingVisitor) VisitBlock(b *ir.Block)         { r.events = append(r.events, "block:"+b.Name()) }

func (r *recordingVisitor) VisitLoad(i *ir.LoadInst)     { r.events = append(r.events, "load") }
func (r *recordingVisitor) VisitStore(i *ir.StoreInst)   { r.events = append(r.events, "store") }
func (r *recordingVisitor) VisitAlloca(i *ir.AllocaInst) { r.events = append(r.events, "alloca") }
func (r *recordingVisitor) VisitAccess(i *ir.AccessInst) { r.events = append(r.events, "access") }
func (r *recordingVisitor) VisitBinary(i *ir.BinaryInst) { r.events = append(r.events, "binary") }
func (r *recordingVisitor) VisitUnary(i *ir.UnaryInst)   { r.events = append(r.events, "unary") }
func (r *recordingVisitor) VisitCast(i *ir.CastInst)     { r.events = append(r.events, "cast") }
func (r *recordingVisitor) VisitCall(i *ir.CallInst)     { r.events = append(r.events, "call") }
func (r *recordingVisitor) VisitBranch(i *ir.BranchInst) { r.events = append(r.events, "branch") }
func (r *recordingVisitor) VisitJump(i *ir.JumpInst)     { r.events = append(r.events, "jump") }
func (r *recordingVisitor) VisitReturn(i *ir.ReturnInst) { r.events = append(r.events, "return") }
func (r *recordingVisitor) VisitPhi(i *ir.PhiInst)       { r.events = append(r.events, "phi") }
func (r *recordingVisitor) VisitPhiOperand(i *ir.PhiOperandInst) {
	r.events = append(r.events, "phi_operand")
}
func (r *recordingVisitor) VisitSelect(i *ir.SelectInst) { r.events = append(r.events, "select") }

func TestGenerateSealsOpenGlobalCtor(t *testing.T) {
	m := ir.NewModule()
	closer := m.EnterGlobalCtor()
	closer()

	codegen.Generate(m, &recordingVisitor{})

	ctor := m.GlobalCtorFunc()
	require.NotNil(t, ctor)
	_, ok := ctor.Blocks[0].Terminator().(*ir.JumpInst)
	assert.True(t, ok, "Generate must seal the global constructor before walking the module")
}

func TestDispatchInstructionRoutesByConcreteType(t *testing.T) {
	m := ir.NewModule()
	g := m.CreateGlobalVar(ir.Internal, false, "g", i32(), m.GetInt32(0))

	fnType := types.MakeFunc(nil, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "f", fnType)
	entry := m.CreateBlock(fn, "entry")
	m.SetInsertPoint(entry)
	slot := m.CreateAlloca(i32())
	m.CreateStore(m.GetInt32(1), slot)
	m.CreateReturn(nil)

	v := &recordingVisitor{}
	codegen.Generate(m, v)

	require.Equal(t, []string{
		"global:g",
		"fn:f", "block:entry", "alloca", "store", "return",
	}, v.events)
	_ = g
}
