// Package licm implements loop-invariant code motion: for each natural
// loop, find instructions whose operands never change across iterations
// and whose own definition dominates every in-loop use, then move them
// to a synthesized preheader so they execute once instead of on every
// iteration.
package licm

import (
	"mimicc/internal/analysis"
	"mimicc/internal/ir"
	"mimicc/internal/passmgr"
	"mimicc/internal/types"
)

// Pass is the LICM FunctionPass; construct via New so it satisfies
// passmgr.FunctionPass.
type Pass struct{}

func New() passmgr.Pass { return &Pass{} }

func (*Pass) Name() string { return "licm" }

// Info is this pass's static registration record: a FunctionPass with no
// minimum optimization level beyond 1 (LICM is never run at -O0) and no
// declared Requires, since it pulls dominance/loop-info through the
// manager's Require* helpers on demand rather than a name-keyed lookup.
func Info() passmgr.PassInfo {
	return passmgr.PassInfo{
		Name:        "licm",
		Factory:     New,
		Kind:        passmgr.KindFunction,
		MinOptLevel: 1,
		Stage:       passmgr.Opt,
	}
}

func (*Pass) RunOnFunction(fn *ir.Function, pm *passmgr.PassManager) bool {
	loops := passmgr.RequireLoopInfo(pm, fn)
	dom := passmgr.RequireDominance(pm, fn)

	changed := false
	for _, loop := range loops {
		if runOnLoop(pm.Module, fn, loop, dom) {
			changed = true
		}
	}
	return changed
}

func runOnLoop(m *ir.Module, fn *ir.Function, loop *analysis.Loop, dom *analysis.Dominance) bool {
	storeSet := discoverStoreSet(fn, loop)
	invariant := findInvariants(fn, loop, dom, storeSet)
	if len(invariant) == 0 {
		return false
	}
	pre := analysis.EnsurePreheader(m, loop)
	if pre == loop.Header {
		// no legitimate pre-header to hoist into; leave the loop alone
		// rather than hoisting into the header itself, which would move
		// invariant code ahead of the loop-entry test.
		return false
	}
	hoist(pre, fn, loop, invariant)
	return true
}

// discoverStoreSet walks every Store in the loop body and records the
// base pointer each one writes through. A base pointer that resolves to
// an ArgRef conservatively taints every pointer-typed parameter of the
// enclosing function, since no alias analysis distinguishes them.
func discoverStoreSet(fn *ir.Function, loop *analysis.Loop) map[ir.Value]bool {
	set := make(map[ir.Value]bool)
	for _, b := range orderedBody(fn, loop) {
		for _, inst := range b.Instructions {
			st, ok := inst.(*ir.StoreInst)
			if !ok {
				continue
			}
			base := basePointer(st.Ptr(), loop, make(map[ir.Value]bool))
			if _, isArg := base.(*ir.ArgRef); isArg {
				for _, a := range fn.Args {
					if types.IsPointer(a.TypeOf()) {
						set[a] = true
					}
				}
				continue
			}
			set[base] = true
		}
	}
	return set
}

// basePointer peels Access and Cast operands and follows non-cyclic Phi
// operands to find the underlying object a pointer value was derived
// from. Ambiguous or cyclic phi cases fall back to returning the phi
// itself, which is sound (it can never alias-match anything else) but
// weakens LICM's precision — a deliberately conservative choice over
// building a real underlying-object (alias) analysis.
func basePointer(v ir.Value, loop *analysis.Loop, seen map[ir.Value]bool) ir.Value {
	switch t := v.(type) {
	case *ir.AccessInst:
		return basePointer(t.Base(), loop, seen)
	case *ir.CastInst:
		return basePointer(t.Src(), loop, seen)
	case *ir.PhiInst:
		if seen[v] {
			return v
		}
		seen[v] = true
		var base ir.Value
		first := true
		for _, op := range t.IncomingOperands() {
			b := basePointer(op.Incoming(), loop, seen)
			if first {
				base, first = b, false
				continue
			}
			if b != base {
				return v
			}
		}
		if first {
			return v
		}
		return base
	default:
		return v
	}
}

// findInvariants runs the invariant fixpoint, returning the set of
// instructions safe to hoist.
func findInvariants(fn *ir.Function, loop *analysis.Loop, dom *analysis.Dominance, storeSet map[ir.Value]bool) map[ir.Instruction]bool {
	invariant := make(map[ir.Instruction]bool)
	body := orderedBody(fn, loop)

	changed := true
	for changed {
		changed = false
		for _, b := range body {
			for _, inst := range b.Instructions {
				if invariant[inst] {
					continue
				}
				if !hoistableKind(inst, loop, storeSet) {
					continue
				}
				if !operandsInvariant(inst, loop, invariant) {
					continue
				}
				if !dominatesInLoopUsers(inst, loop, dom) {
					continue
				}
				invariant[inst] = true
				changed = true
			}
		}
	}
	return invariant
}

func hoistableKind(inst ir.Instruction, loop *analysis.Loop, storeSet map[ir.Value]bool) bool {
	switch t := inst.(type) {
	case *ir.AccessInst, *ir.BinaryInst, *ir.UnaryInst, *ir.CastInst, *ir.SelectInst:
		return true
	case *ir.LoadInst:
		base := basePointer(t.Ptr(), loop, make(map[ir.Value]bool))
		return !storeSet[base]
	default:
		return false
	}
}

func operandsInvariant(inst ir.Instruction, loop *analysis.Loop, invariant map[ir.Instruction]bool) bool {
	for _, u := range inst.Operands() {
		if u == nil {
			continue
		}
		switch vv := u.Value.(type) {
		case ir.Constant, *ir.Undef, *ir.ArgRef, *ir.GlobalVar:
			continue
		case ir.Instruction:
			if !loop.Body[vv.Parent()] {
				continue // defined outside the loop
			}
			if invariant[vv] {
				continue
			}
			return false
		default:
			continue // e.g. a *ir.Block operand on a terminator
		}
	}
	return true
}

// dominatesInLoopUsers requires inst's own block to dominate the parent
// block of every in-loop user, so hoisting inst above the loop can never
// move its definition below a use that still remains inside the body.
func dominatesInLoopUsers(inst ir.Instruction, loop *analysis.Loop, dom *analysis.Dominance) bool {
	for _, u := range inst.Uses() {
		user, ok := u.User.(ir.Instruction)
		if !ok {
			continue
		}
		if !loop.Body[user.Parent()] {
			continue
		}
		if !dom.Dominates(inst.Parent(), user.Parent()) {
			return false
		}
	}
	return true
}

// orderedBody returns loop's blocks in fn's own block order, giving the
// store-set scan and the invariant fixpoint a deterministic iteration
// order, and thus a deterministic hoist order.
func orderedBody(fn *ir.Function, loop *analysis.Loop) []*ir.Block {
	out := make([]*ir.Block, 0, len(loop.Body))
	for _, b := range fn.Blocks {
		if loop.Body[b] {
			out = append(out, b)
		}
	}
	return out
}

// hoist moves every instruction in invariant, in program order, to pre,
// inserted immediately before pre's terminator.
func hoist(pre *ir.Block, fn *ir.Function, loop *analysis.Loop, invariant map[ir.Instruction]bool) {
	mark := pre.Terminator()
	for _, b := range orderedBody(fn, loop) {
		for _, inst := range append([]ir.Instruction(nil), b.Instructions...) {
			if !invariant[inst] {
				continue
			}
			b.RemoveInstruction(inst)
			pre.InsertBefore(mark, inst)
		}
	}
}
