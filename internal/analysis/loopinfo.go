package analysis

import "mimicc/internal/ir"

// Loop is one natural loop: the set of blocks reachable from a back-edge
// source without passing through the header, plus bookkeeping LICM needs
// (the pre-header it hoists into, once loop-normalization has created
// one, and the back-edge sources themselves).
type Loop struct {
	Header    *ir.Block
	Body      map[*ir.Block]bool
	Preheader *ir.Block
	Tails     []*ir.Block
}

// FindLoops detects every natural loop in fn via back-edges (B -> H
// where H dominates B), merging back-edges that share a header into one
// loop, and returns them innermost-first so LICM always hoists into the
// nearest available pre-header.
func FindLoops(fn *ir.Function, dom *Dominance) []*Loop {
	byHeader := make(map[*ir.Block]*Loop)
	var headers []*ir.Block

	for _, b := range fn.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		for _, s := range term.Successors() {
			if !dom.Dominates(s, b) {
				continue
			}
			loop := byHeader[s]
			if loop == nil {
				loop = &Loop{Header: s, Body: map[*ir.Block]bool{s: true}}
				byHeader[s] = loop
				headers = append(headers, s)
			}
			loop.Tails = append(loop.Tails, b)
			addToNaturalLoop(loop, b)
		}
	}

	loops := make([]*Loop, len(headers))
	for i, h := range headers {
		loops[i] = byHeader[h]
	}
	// innermost-first: a loop nested inside another has a strictly
	// smaller body, so sorting by body size approximates nesting order
	// without needing an explicit loop-nesting tree.
	for i := 1; i < len(loops); i++ {
		for j := i; j > 0 && len(loops[j].Body) < len(loops[j-1].Body); j-- {
			loops[j], loops[j-1] = loops[j-1], loops[j]
		}
	}
	return loops
}

// addToNaturalLoop walks predecessors backward from tail, adding every
// block reachable without already being in the loop — the standard
// natural-loop construction (Aho/Sethi/Ullman).
func addToNaturalLoop(loop *Loop, tail *ir.Block) {
	if loop.Body[tail] {
		return
	}
	loop.Body[tail] = true
	stack := []*ir.Block{tail}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range b.Predecessors() {
			if !loop.Body[p] {
				loop.Body[p] = true
				stack = append(stack, p)
			}
		}
	}
}

// EnsurePreheader returns loop's pre-header, synthesizing one if the
// header has exactly one predecessor outside the loop body (the common
// shape for a structured for/while lowering). When the header has zero
// or several external predecessors the edge to split is ambiguous
// without also rewriting every affected phi's incoming edges, so this
// returns the header itself, which LICM takes as "no pre-header" and
// hoists nothing.
func EnsurePreheader(m *ir.Module, loop *Loop) *ir.Block {
	if loop.Preheader != nil {
		return loop.Preheader
	}
	header := loop.Header
	var external *ir.Use
	count := 0
	for _, u := range header.Uses() {
		user, ok := u.User.(ir.Instruction)
		if !ok || !user.IsTerminator() || loop.Body[user.Parent()] {
			continue
		}
		external = u
		count++
	}
	if count != 1 {
		loop.Preheader = header
		return header
	}

	fromBlock := external.User.(ir.Instruction).Parent()
	pre := m.CreateBlock(header.Func, header.Name()+".preheader")
	ir.RedirectUse(external, pre)

	saved := m.InsertBlock()
	m.SetInsertPoint(pre)
	m.CreateJump(header)
	m.SetInsertPoint(saved)

	for _, inst := range header.Instructions {
		phi, ok := inst.(*ir.PhiInst)
		if !ok {
			break // phis are always leading; first non-phi ends the run
		}
		for _, op := range phi.IncomingOperands() {
			if op.From() == fromBlock {
				ir.RedirectUse(op.Operands()[1], pre)
			}
		}
	}

	loop.Preheader = pre
	return pre
}
