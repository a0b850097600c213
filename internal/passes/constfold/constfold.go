// Package constfold implements constant folding for Binary instructions
// over two ConstInt operands, replacing each with the computed
// ConstInt and rewriting its uses. Registered through the same pass
// manager as LICM.
package constfold

import (
	"mimicc/internal/ir"
	"mimicc/internal/passmgr"
)

type Pass struct{}

func New() passmgr.Pass { return &Pass{} }

func (*Pass) Name() string { return "constfold" }

func Info() passmgr.PassInfo {
	return passmgr.PassInfo{
		Name:        "constfold",
		Factory:     New,
		Kind:        passmgr.KindFunction,
		MinOptLevel: 1,
		Stage:       passmgr.Opt,
	}
}

func (*Pass) RunOnFunction(fn *ir.Function, pm *passmgr.PassManager) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, inst := range append([]ir.Instruction(nil), b.Instructions...) {
			bin, ok := inst.(*ir.BinaryInst)
			if !ok {
				continue
			}
			folded, ok := fold(pm.Module, bin)
			if !ok {
				continue
			}
			ir.ReplaceAllUsesWith(bin, folded)
			ir.DetachOperands(bin)
			b.RemoveInstruction(bin)
			changed = true
		}
	}
	return changed
}

func fold(m *ir.Module, bin *ir.BinaryInst) (ir.Constant, bool) {
	lc, lok := bin.LHS().(*ir.ConstInt)
	rc, rok := bin.RHS().(*ir.ConstInt)
	if !lok || !rok {
		return nil, false
	}
	l, r := lc.Val, rc.Val
	var result uint32
	switch bin.Op {
	case ir.OpAdd:
		result = l + r
	case ir.OpSub:
		result = l - r
	case ir.OpMul:
		result = l * r
	case ir.OpAnd:
		result = l & r
	case ir.OpOr:
		result = l | r
	case ir.OpXor:
		result = l ^ r
	case ir.OpShl:
		result = l << r
	case ir.OpLShr:
		result = l >> r
	case ir.OpEq:
		result = boolU32(l == r)
	case ir.OpNeq:
		result = boolU32(l != r)
	case ir.OpULt:
		result = boolU32(l < r)
	case ir.OpULe:
		result = boolU32(l <= r)
	case ir.OpUGt:
		result = boolU32(l > r)
	case ir.OpUGe:
		result = boolU32(l >= r)
	case ir.OpUDiv:
		if r == 0 {
			return nil, false
		}
		result = l / r
	case ir.OpURem:
		if r == 0 {
			return nil, false
		}
		result = l % r
	default:
		return nil, false // signed/shift-arithmetic variants need sign interpretation; left unfolded
	}
	return m.GetInt(result, bin.TypeOf()), true
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
