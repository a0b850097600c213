package licm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimicc/internal/ir"
	"mimicc/internal/passes/licm"
	"mimicc/internal/passmgr"
	"mimicc/internal/types"
)

func i32() types.Type { return types.MakePrim(types.Int32, true) }

// buildHoistableLoop builds a loop whose body recomputes a loop-invariant
// product every iteration: the two arg-derived operands never change
// inside the loop, so the multiply should migrate to the synthesized
// preheader.
func buildHoistableLoop(t *testing.T) (*ir.Module, *ir.Function, *ir.BinaryInst) {
	m := ir.NewModule()
	fnType := types.MakeFunc([]types.Type{i32(), i32()}, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "f", fnType)
	a := m.CreateArgRef(fn, 0)
	b := m.CreateArgRef(fn, 1)

	entry := m.CreateBlock(fn, "entry")
	header := m.CreateBlock(fn, "header")
	body := m.CreateBlock(fn, "body")
	exit := m.CreateBlock(fn, "exit")

	m.SetInsertPoint(entry)
	m.CreateJump(header)

	m.SetInsertPoint(header)
	m.CreateBranch(m.GetBool(true), body, exit)

	m.SetInsertPoint(body)
	invariantMul := m.CreateMul(a, b)
	_ = invariantMul
	m.CreateJump(header)

	m.SetInsertPoint(exit)
	m.CreateReturn(nil)

	require.Len(t, body.Instructions, 2) // mul, jump
	return m, fn, invariantMul
}

func TestLICMHoistsLoopInvariantMultiply(t *testing.T) {
	m, fn, mul := buildHoistableLoop(t)
	pm := passmgr.New(m, 1)
	pm.RegisterAll(licm.Info())

	sweeps := pm.RunPasses()
	assert.True(t, pm.Converged)
	assert.GreaterOrEqual(t, sweeps, 1)

	// the multiply must have left the body...
	body := fn.Blocks[2]
	for _, inst := range body.Instructions {
		assert.NotSame(t, mul, inst)
	}

	// ...and now live in the synthesized preheader, before its jump.
	require.Len(t, fn.Blocks, 5)
	preheader := fn.Blocks[4]
	require.Len(t, preheader.Instructions, 2) // mul, jump
	assert.Same(t, mul, preheader.Instructions[0])
	_, isJump := preheader.Instructions[1].(*ir.JumpInst)
	assert.True(t, isJump)
}

// buildStoreGuardedLoop builds a loop where a load through a pointer
// parameter is preceded, in the same body, by a store through another
// pointer parameter LICM cannot prove distinct from the first: the load
// must stay put because hoisting it above the loop could read stale
// data if the two pointers alias.
func buildStoreGuardedLoop(t *testing.T) (*ir.Module, *ir.Function, *ir.LoadInst) {
	m := ir.NewModule()
	ptrTy := types.MakePointer(i32(), true)
	fnType := types.MakeFunc([]types.Type{ptrTy, ptrTy}, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "f", fnType)
	p := m.CreateArgRef(fn, 0)
	q := m.CreateArgRef(fn, 1)

	entry := m.CreateBlock(fn, "entry")
	header := m.CreateBlock(fn, "header")
	body := m.CreateBlock(fn, "body")
	exit := m.CreateBlock(fn, "exit")

	m.SetInsertPoint(entry)
	m.CreateJump(header)
	m.SetInsertPoint(header)
	m.CreateBranch(m.GetBool(true), body, exit)

	m.SetInsertPoint(body)
	m.CreateStore(m.GetInt32(1), q)
	load := m.CreateLoad(p, false).(*ir.LoadInst)
	m.CreateJump(header)

	m.SetInsertPoint(exit)
	m.CreateReturn(nil)

	return m, fn, load
}

func TestLICMDoesNotHoistLoadAliasedByStore(t *testing.T) {
	m, fn, load := buildStoreGuardedLoop(t)
	pm := passmgr.New(m, 1)
	pm.RegisterAll(licm.Info())
	pm.RunPasses()

	body := fn.Blocks[2]
	found := false
	for _, inst := range body.Instructions {
		if inst == load {
			found = true
		}
	}
	assert.True(t, found, "load through an arg-derived pointer must stay in the loop body once any store taints all pointer args")
}
