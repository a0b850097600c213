// Package codegen defines the double-dispatch visitor contract backends
// (a textual generator, an AArch32 generator) implement; the IR core
// never references this package, only the reverse, since the visitor is
// the external collaborator's entry point into the core, not something
// the core depends on.
//
// The kind set is closed, so dispatch is a type switch inside
// Generate/DispatchInstruction rather than an Accept method threaded
// through every IR type — match-style dispatch over a fixed variant set,
// kept here as a free function instead of a method so the ir package
// stays free of any codegen import.
package codegen

import "mimicc/internal/ir"

// Visitor is implemented once per backend. Each method receives one
// concrete instruction kind; Generate drives the whole recursive walk
// (module -> globals/functions -> blocks -> instructions) on the
// backend's behalf.
type Visitor interface {
	VisitGlobalVar(g *ir.GlobalVar)
	VisitFunction(fn *ir.Function)
	VisitBlock(b *ir.Block)

	VisitLoad(i *ir.LoadInst)
	VisitStore(i *ir.StoreInst)
	VisitAlloca(i *ir.AllocaInst)
	VisitAccess(i *ir.AccessInst)
	VisitBinary(i *ir.BinaryInst)
	VisitUnary(i *ir.UnaryInst)
	VisitCast(i *ir.CastInst)
	VisitCall(i *ir.CallInst)
	VisitBranch(i *ir.BranchInst)
	VisitJump(i *ir.JumpInst)
	VisitReturn(i *ir.ReturnInst)
	VisitPhi(i *ir.PhiInst)
	VisitPhiOperand(i *ir.PhiOperandInst)
	VisitSelect(i *ir.SelectInst)
}

// Generate walks m's global variables then its functions in insertion
// order, invoking v on each. It seals the global constructor first, the
// same precondition every whole-module entry point (dump, run-passes,
// generate-code) enforces on itself rather than trusting the caller.
func Generate(m *ir.Module, v Visitor) {
	m.SealGlobalCtor()
	for _, g := range m.GlobalVars {
		v.VisitGlobalVar(g)
	}
	for _, fn := range m.Functions {
		DispatchFunction(fn, v)
	}
}

// DispatchFunction drives a single function through v, including every
// block and instruction it owns; backends that only need one function
// (e.g. incremental codegen) can call this directly instead of Generate.
func DispatchFunction(fn *ir.Function, v Visitor) {
	v.VisitFunction(fn)
	for _, b := range fn.Blocks {
		v.VisitBlock(b)
		for _, inst := range b.Instructions {
			DispatchInstruction(inst, v)
		}
	}
}

// DispatchInstruction routes inst to the matching Visit* method.
func DispatchInstruction(inst ir.Instruction, v Visitor) {
	switch t := inst.(type) {
	case *ir.LoadInst:
		v.VisitLoad(t)
	case *ir.StoreInst:
		v.VisitStore(t)
	case *ir.AllocaInst:
		v.VisitAlloca(t)
	case *ir.AccessInst:
		v.VisitAccess(t)
	case *ir.BinaryInst:
		v.VisitBinary(t)
	case *ir.UnaryInst:
		v.VisitUnary(t)
	case *ir.CastInst:
		v.VisitCast(t)
	case *ir.CallInst:
		v.VisitCall(t)
	case *ir.BranchInst:
		v.VisitBranch(t)
	case *ir.JumpInst:
		v.VisitJump(t)
	case *ir.ReturnInst:
		v.VisitReturn(t)
	case *ir.PhiInst:
		v.VisitPhi(t)
	case *ir.PhiOperandInst:
		v.VisitPhiOperand(t)
	case *ir.SelectInst:
		v.VisitSelect(t)
	}
}
