package ir

import "mimicc/internal/types"

// Block is itself a Value: jumps, branches and phi operands reference it
// by Use edge, so a block's own use-list (inherited from valueBase)
// covers its predecessor list, filtered down to the terminator uses by
// Predecessors — no separate bookkeeping is needed to keep the two in
// sync, the builder just has to insert terminators through the normal
// operand-Use path.
type Block struct {
	valueBase
	Func         *Function
	Instructions []Instruction
}

// Predecessors derives the block's predecessor list from its own
// incoming Use edges, keeping only uses whose user is a terminator: a
// PhiOperandInst also references a block (the incoming edge's source),
// but that reference is not itself control flow into the block and must
// be excluded, else an unparented PhiOperandInst would surface as a nil
// predecessor.
func (b *Block) Predecessors() []*Block {
	var out []*Block
	for _, u := range b.Uses() {
		term, ok := u.User.(Instruction)
		if !ok || !term.IsTerminator() {
			continue
		}
		out = append(out, term.Parent())
	}
	return out
}

// Terminator returns the block's last instruction if it is a terminator,
// else nil. A non-empty, well-formed block always has one (invariant 3).
func (b *Block) Terminator() Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

func (b *Block) append(inst Instruction) {
	inst.setParent(b)
	b.Instructions = append(b.Instructions, inst)
}

// RemoveInstruction deletes inst from b's instruction list without
// touching any use edge. Callers that delete inst outright (constant
// folding, DCE) reroute its uses and call DetachOperands themselves;
// LICM's hoist step keeps every edge and re-inserts inst elsewhere.
func (b *Block) RemoveInstruction(inst Instruction) {
	for i, ins := range b.Instructions {
		if ins == inst {
			b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
			return
		}
	}
}

// InsertBefore inserts inst immediately before mark (or at the end if
// mark is nil or not found) — the slot LICM's hoist step needs to place
// hoisted code right before the pre-header's terminator.
func (b *Block) InsertBefore(mark Instruction, inst Instruction) {
	inst.setParent(b)
	for i, ins := range b.Instructions {
		if ins == mark {
			b.Instructions = append(b.Instructions[:i], append([]Instruction{inst}, b.Instructions[i:]...)...)
			return
		}
	}
	b.Instructions = append(b.Instructions, inst)
}

func newBlock(fn *Function, name string) *Block {
	return &Block{valueBase: valueBase{name: name, typ: types.MakeVoid()}, Func: fn}
}
