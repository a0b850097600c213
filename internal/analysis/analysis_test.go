package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimicc/internal/analysis"
	"mimicc/internal/ir"
	"mimicc/internal/types"
)

func i32() types.Type { return types.MakePrim(types.Int32, true) }

// buildLoop constructs:
//
//	entry -> header -> body -> header (back edge)
//	header -> exit
//
// the canonical single-back-edge while-loop shape LICM and dominance
// tests both want.
func buildLoop(t *testing.T) (*ir.Module, *ir.Function, map[string]*ir.Block) {
	m := ir.NewModule()
	fnType := types.MakeFunc(nil, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "loop", fnType)

	entry := m.CreateBlock(fn, "entry")
	header := m.CreateBlock(fn, "header")
	body := m.CreateBlock(fn, "body")
	exit := m.CreateBlock(fn, "exit")

	m.SetInsertPoint(entry)
	m.CreateJump(header)

	m.SetInsertPoint(header)
	cond := m.GetBool(true)
	m.CreateBranch(cond, body, exit)

	m.SetInsertPoint(body)
	m.CreateJump(header)

	m.SetInsertPoint(exit)
	m.CreateReturn(nil)

	require.Len(t, fn.Blocks, 4)
	return m, fn, map[string]*ir.Block{
		"entry": entry, "header": header, "body": body, "exit": exit,
	}
}

func TestComputeDominance(t *testing.T) {
	_, fn, b := buildLoop(t)
	dom := analysis.ComputeDominance(fn)

	assert.True(t, dom.Dominates(b["entry"], b["header"]))
	assert.True(t, dom.Dominates(b["header"], b["body"]))
	assert.True(t, dom.Dominates(b["header"], b["exit"]))
	assert.True(t, dom.Dominates(b["header"], b["header"])) // reflexive
	assert.False(t, dom.Dominates(b["body"], b["header"]))
	assert.False(t, dom.Dominates(b["exit"], b["header"]))
}

func TestFindLoopsDetectsBackEdge(t *testing.T) {
	_, fn, b := buildLoop(t)
	dom := analysis.ComputeDominance(fn)
	loops := analysis.FindLoops(fn, dom)

	require.Len(t, loops, 1)
	loop := loops[0]
	assert.Same(t, b["header"], loop.Header)
	assert.True(t, loop.Body[b["header"]])
	assert.True(t, loop.Body[b["body"]])
	assert.False(t, loop.Body[b["entry"]])
	assert.False(t, loop.Body[b["exit"]])
}

func TestEnsurePreheaderSplitsSingleExternalPredecessor(t *testing.T) {
	m, fn, b := buildLoop(t)
	dom := analysis.ComputeDominance(fn)
	loops := analysis.FindLoops(fn, dom)
	require.Len(t, loops, 1)

	pre := analysis.EnsurePreheader(m, loops[0])
	require.NotSame(t, b["header"], pre)
	require.Len(t, fn.Blocks, 5)

	// entry now jumps to the new preheader, not directly to header.
	entryJump, ok := b["entry"].Terminator().(*ir.JumpInst)
	require.True(t, ok)
	assert.Same(t, pre, entryJump.Target())

	// the preheader itself jumps straight into header.
	preJump, ok := pre.Terminator().(*ir.JumpInst)
	require.True(t, ok)
	assert.Same(t, b["header"], preJump.Target())

	// header's predecessors are now {preheader, body}, not {entry, body}.
	preds := b["header"].Predecessors()
	assert.Contains(t, preds, pre)
	assert.Contains(t, preds, b["body"])
	assert.NotContains(t, preds, b["entry"])
}

func TestEnsurePreheaderFallsBackOnAmbiguousEntry(t *testing.T) {
	// two external predecessors into header: no unambiguous edge to
	// split, so EnsurePreheader must fall back to the header itself.
	m := ir.NewModule()
	fnType := types.MakeFunc(nil, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "f", fnType)

	e1 := m.CreateBlock(fn, "e1")
	e2 := m.CreateBlock(fn, "e2")
	header := m.CreateBlock(fn, "header")
	body := m.CreateBlock(fn, "body")
	exit := m.CreateBlock(fn, "exit")

	m.SetInsertPoint(e1)
	m.CreateJump(header)
	m.SetInsertPoint(e2)
	m.CreateJump(header)
	m.SetInsertPoint(header)
	m.CreateBranch(m.GetBool(true), body, exit)
	m.SetInsertPoint(body)
	m.CreateJump(header)
	m.SetInsertPoint(exit)
	m.CreateReturn(nil)

	dom := analysis.ComputeDominance(fn)
	loops := analysis.FindLoops(fn, dom)
	require.Len(t, loops, 1)

	pre := analysis.EnsurePreheader(m, loops[0])
	assert.Same(t, header, pre)
}

// buildPhiLoop constructs the same shape as buildLoop but carries an
// induction variable through a header phi, with incoming edges from
// entry and from body — the shape that exposed a phi operand's Use on
// its From block surfacing as a nil entry in that block's predecessors.
func buildPhiLoop(t *testing.T) (*ir.Module, *ir.Function, map[string]*ir.Block) {
	m := ir.NewModule()
	fnType := types.MakeFunc(nil, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "loop", fnType)

	entry := m.CreateBlock(fn, "entry")
	header := m.CreateBlock(fn, "header")
	body := m.CreateBlock(fn, "body")
	exit := m.CreateBlock(fn, "exit")

	m.SetInsertPoint(entry)
	start := m.GetInt32(0)
	m.CreateJump(header)

	m.SetInsertPoint(header)
	phi := m.CreatePhi(i32())
	m.AddPhiIncoming(phi, start, entry)
	m.CreateBranch(m.GetBool(true), body, exit)

	m.SetInsertPoint(body)
	next := m.CreateAdd(phi, m.GetInt32(1))
	m.AddPhiIncoming(phi, next, body)
	m.CreateJump(header)

	m.SetInsertPoint(exit)
	m.CreateReturn(nil)

	require.Len(t, fn.Blocks, 4)
	return m, fn, map[string]*ir.Block{
		"entry": entry, "header": header, "body": body, "exit": exit,
	}
}

func TestFindLoopsHandlesLoopCarriedPhiWithoutPanicking(t *testing.T) {
	_, fn, b := buildPhiLoop(t)
	dom := analysis.ComputeDominance(fn)

	require.NotPanics(t, func() {
		loops := analysis.FindLoops(fn, dom)
		require.Len(t, loops, 1)
		assert.True(t, loops[0].Body[b["header"]])
		assert.True(t, loops[0].Body[b["body"]])
		assert.False(t, loops[0].Body[b["entry"]])
		assert.False(t, loops[0].Body[b["exit"]])
	})
}

func TestEnsurePreheaderCountsOnlyTerminatorEdgesWithPhi(t *testing.T) {
	m, fn, b := buildPhiLoop(t)
	dom := analysis.ComputeDominance(fn)
	loops := analysis.FindLoops(fn, dom)
	require.Len(t, loops, 1)

	pre := analysis.EnsurePreheader(m, loops[0])
	require.NotSame(t, b["header"], pre)

	entryJump, ok := b["entry"].Terminator().(*ir.JumpInst)
	require.True(t, ok)
	assert.Same(t, pre, entryJump.Target())
}

func TestScanParentsMapsEveryInstruction(t *testing.T) {
	_, fn, b := buildLoop(t)
	parents := analysis.ScanParents(fn)
	for _, inst := range b["header"].Instructions {
		assert.Same(t, b["header"], parents.Parent(inst))
	}
}
