package passmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimicc/internal/ir"
	"mimicc/internal/passmgr"
	"mimicc/internal/types"
)

func i32() types.Type { return types.MakePrim(types.Int32, true) }

// countingPass counts how many times it ran and stops reporting change
// after a fixed number of sweeps, letting tests assert both the
// fixed-point-reached and the bailout paths of RunPasses.
type countingPass struct {
	runs    *int
	maxRuns int
}

func (p *countingPass) Name() string { return "counting" }
func (p *countingPass) RunOnFunction(fn *ir.Function, pm *passmgr.PassManager) bool {
	*p.runs++
	return *p.runs < p.maxRuns
}

func buildEmptyFunc(m *ir.Module) *ir.Function {
	fnType := types.MakeFunc(nil, types.MakeVoid(), false)
	fn := m.CreateFunction(ir.Internal, "f", fnType)
	entry := m.CreateBlock(fn, "entry")
	m.SetInsertPoint(entry)
	m.CreateReturn(nil)
	return fn
}

func TestRunPassesReachesFixedPoint(t *testing.T) {
	m := ir.NewModule()
	buildEmptyFunc(m)

	runs := 0
	pm := passmgr.New(m, 1)
	pm.RegisterAll(passmgr.PassInfo{
		Name:        "counting",
		Factory:     func() passmgr.Pass { return &countingPass{runs: &runs, maxRuns: 3} },
		Kind:        passmgr.KindFunction,
		MinOptLevel: 1,
	})

	sweeps := pm.RunPasses()
	assert.True(t, pm.Converged)
	// the pass reports changed while runs < maxRuns, then false once it
	// hits maxRuns on the maxRuns-th sweep.
	assert.Equal(t, 3, sweeps)
	assert.Equal(t, 3, runs)
}

func TestRunPassesBailsOutAtMaxSweeps(t *testing.T) {
	m := ir.NewModule()
	buildEmptyFunc(m)

	runs := 0
	pm := passmgr.New(m, 1)
	pm.RegisterAll(passmgr.PassInfo{
		Name:        "counting",
		Factory:     func() passmgr.Pass { return &countingPass{runs: &runs, maxRuns: passmgr.MaxSweeps + 10} },
		Kind:        passmgr.KindFunction,
		MinOptLevel: 1,
	})

	sweeps := pm.RunPasses()
	assert.False(t, pm.Converged)
	assert.Equal(t, passmgr.MaxSweeps, sweeps)
}

func TestMinOptLevelSkipsPassBelowThreshold(t *testing.T) {
	m := ir.NewModule()
	buildEmptyFunc(m)

	runs := 0
	pm := passmgr.New(m, 0)
	pm.RegisterAll(passmgr.PassInfo{
		Name:        "counting",
		Factory:     func() passmgr.Pass { return &countingPass{runs: &runs, maxRuns: 1} },
		Kind:        passmgr.KindFunction,
		MinOptLevel: 1,
	})

	sweeps := pm.RunPasses()
	assert.Equal(t, 0, runs)
	assert.Equal(t, 1, sweeps)
	assert.True(t, pm.Converged)
}

func TestRunPassesSealsOpenGlobalCtor(t *testing.T) {
	m := ir.NewModule()
	buildEmptyFunc(m)

	closer := m.EnterGlobalCtor()
	closer()

	pm := passmgr.New(m, 1)
	pm.RunPasses()

	ctor := m.GlobalCtorFunc()
	require.NotNil(t, ctor)
	_, ok := ctor.Blocks[0].Terminator().(*ir.JumpInst)
	assert.True(t, ok, "RunPasses must seal the global constructor before optimizing")
}

func TestRequireDominanceIsCached(t *testing.T) {
	m := ir.NewModule()
	fn := buildEmptyFunc(m)
	pm := passmgr.New(m, 1)

	d1 := passmgr.RequireDominance(pm, fn)
	d2 := passmgr.RequireDominance(pm, fn)
	require.Same(t, d1, d2)
}
