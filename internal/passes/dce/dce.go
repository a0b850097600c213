// Package dce implements dead-instruction elimination: repeatedly strips
// pure, unused instructions from a function until a sweep removes
// nothing. It does not remove unreachable blocks — that requires
// patching every phi with an incoming edge from the removed block, out
// of scope here (see DESIGN.md).
package dce

import (
	"mimicc/internal/ir"
	"mimicc/internal/passmgr"
)

type Pass struct{}

func New() passmgr.Pass { return &Pass{} }

func (*Pass) Name() string { return "dce" }

func Info() passmgr.PassInfo {
	return passmgr.PassInfo{
		Name:        "dce",
		Factory:     New,
		Kind:        passmgr.KindFunction,
		MinOptLevel: 1,
		Stage:       passmgr.Opt,
	}
}

func (*Pass) RunOnFunction(fn *ir.Function, pm *passmgr.PassManager) bool {
	changed := false
	for {
		removedAny := false
		for _, b := range fn.Blocks {
			for _, inst := range append([]ir.Instruction(nil), b.Instructions...) {
				if shouldKeep(inst) {
					continue
				}
				ir.DetachOperands(inst)
				b.RemoveInstruction(inst)
				removedAny = true
			}
		}
		if !removedAny {
			break
		}
		changed = true
	}
	return changed
}

// shouldKeep reports whether inst must survive: terminators and
// anything with a side effect (or a remaining use) survive; a pure,
// unused instruction is dead.
func shouldKeep(inst ir.Instruction) bool {
	if inst.IsTerminator() {
		return true
	}
	if len(inst.Uses()) > 0 {
		return true
	}
	for _, e := range inst.Effects() {
		if e.Kind != ir.EffectPure {
			return true
		}
	}
	return false
}
