// Package passmgr implements the pass registry and fixed-point driver:
// passes are registered as PassInfo records tagged by kind and minimum
// optimization level, and PassManager reruns the full registered list
// until a sweep produces no change or an iteration bound is hit.
//
// Registration is explicit rather than a package-init side effect:
// callers build the list themselves and hand it to RegisterAll, so
// initialization order is never in question.
package passmgr

import (
	"mimicc/internal/analysis"
	"mimicc/internal/diag"
	"mimicc/internal/ir"
)

// Kind is the granularity a pass operates over.
type Kind int

const (
	KindModule Kind = iota
	KindFunction
	KindBlock
)

// Stage groups passes by when in the pipeline they are meant to run.
type Stage int

const (
	PreOpt Stage = iota
	Opt
	PostOpt
)

// Pass is the minimal contract every registered pass satisfies; the
// kind-specific Run* method the manager actually calls is determined by
// PassInfo.Kind and a type assertion against ModulePass/FunctionPass/
// BlockPass.
type Pass interface {
	Name() string
}

type ModulePass interface {
	Pass
	RunOnModule(m *ir.Module, pm *PassManager) bool
}

type FunctionPass interface {
	Pass
	RunOnFunction(fn *ir.Function, pm *PassManager) bool
}

type BlockPass interface {
	Pass
	RunOnBlock(b *ir.Block, pm *PassManager) bool
}

// PassInfo is a pass's static registration record.
type PassInfo struct {
	Name        string
	Factory     func() Pass
	Kind        Kind
	MinOptLevel int
	Stage       Stage
	Requires    []string
}

// MaxSweeps bounds the fixed-point loop: pass non-convergence is
// defensive, not fatal — bail out and emit the last IR rather than loop
// forever on a pathological input.
const MaxSweeps = 64

// PassManager owns the module being optimized, the registered passes
// and a per-function analysis cache.
type PassManager struct {
	Module    *ir.Module
	OptLevel  int
	passes    []PassInfo
	analyses  map[*ir.Function]map[string]any
	Converged bool
}

// New returns a manager over m at the given optimization level.
func New(m *ir.Module, optLevel int) *PassManager {
	return &PassManager{Module: m, OptLevel: optLevel, analyses: make(map[*ir.Function]map[string]any)}
}

// RegisterAll appends infos to the registry, in order; registration
// order is also pass-run order within a sweep, so running the same
// registered list twice on the same module produces the same result.
func (pm *PassManager) RegisterAll(infos ...PassInfo) {
	pm.passes = append(pm.passes, infos...)
}

// invalidate drops every cached analysis for fn, the convention a
// transform pass triggers by reporting changed = true.
func (pm *PassManager) invalidate(fn *ir.Function) {
	delete(pm.analyses, fn)
}

func (pm *PassManager) cacheFor(fn *ir.Function) map[string]any {
	c := pm.analyses[fn]
	if c == nil {
		c = make(map[string]any)
		pm.analyses[fn] = c
	}
	return c
}

// RequireDominance looks up (or computes and caches) fn's dominance
// info. One Require* function per analysis type, rather than a
// string-keyed generic getter, keeps callers type-safe.
func RequireDominance(pm *PassManager, fn *ir.Function) *analysis.Dominance {
	c := pm.cacheFor(fn)
	if d, ok := c["dominance"].(*analysis.Dominance); ok {
		return d
	}
	d := analysis.ComputeDominance(fn)
	c["dominance"] = d
	return d
}

// RequireLoopInfo looks up (or computes and caches) fn's natural loops,
// innermost-first.
func RequireLoopInfo(pm *PassManager, fn *ir.Function) []*analysis.Loop {
	c := pm.cacheFor(fn)
	if l, ok := c["loopinfo"].([]*analysis.Loop); ok {
		return l
	}
	dom := RequireDominance(pm, fn)
	l := analysis.FindLoops(fn, dom)
	c["loopinfo"] = l
	return l
}

// RequireParents looks up (or computes and caches) fn's parent scan.
func RequireParents(pm *PassManager, fn *ir.Function) *analysis.Parents {
	c := pm.cacheFor(fn)
	if p, ok := c["parents"].(*analysis.Parents); ok {
		return p
	}
	p := analysis.ScanParents(fn)
	c["parents"] = p
	return p
}

// RunPasses seals the module's global constructor, then iterates every
// registered pass whose MinOptLevel is at most pm.OptLevel, re-running
// the full list until a sweep changes nothing or MaxSweeps is reached.
// It returns the number of sweeps actually run.
func (pm *PassManager) RunPasses() int {
	pm.Module.SealGlobalCtor()
	sweep := 0
	for ; sweep < MaxSweeps; sweep++ {
		changed := false
		for _, info := range pm.passes {
			if info.MinOptLevel > pm.OptLevel {
				continue
			}
			if pm.runOne(info) {
				changed = true
			}
		}
		if !changed {
			pm.Converged = true
			return sweep + 1
		}
	}
	pm.Converged = false
	return sweep
}

func (pm *PassManager) runOne(info PassInfo) bool {
	p := info.Factory()
	changed := false
	switch typed := p.(type) {
	case ModulePass:
		if typed.RunOnModule(pm.Module, pm) {
			changed = true
			for _, fn := range pm.Module.Functions {
				pm.invalidate(fn)
			}
		}
	case FunctionPass:
		for _, fn := range pm.Module.Functions {
			if fn.IsDeclaration() {
				continue
			}
			if typed.RunOnFunction(fn, pm) {
				changed = true
				pm.invalidate(fn)
			}
		}
	case BlockPass:
		for _, fn := range pm.Module.Functions {
			for _, b := range fn.Blocks {
				if typed.RunOnBlock(b, pm) {
					changed = true
					pm.invalidate(fn)
				}
			}
		}
	default:
		diag.Fatalf(diag.CodeContractViolation, info.Name, "pass %q implements none of ModulePass/FunctionPass/BlockPass", info.Name)
	}
	return changed
}
