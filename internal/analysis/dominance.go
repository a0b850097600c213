package analysis

import "mimicc/internal/ir"

// Dominance holds each block's immediate dominator, computed with the
// Cooper-Harvey-Kennedy iterative algorithm: a fixed-point over a
// reverse-postorder walk, simplified here to idom-only since LICM's
// back-edge test only needs Dominates, not a dominance frontier.
type Dominance struct {
	fn    *ir.Function
	idom  map[*ir.Block]*ir.Block
	order map[*ir.Block]int // index into postorder; entry has the highest
}

// ComputeDominance computes dominance info for fn's CFG. fn must have at
// least one block; the first block is taken as the entry.
func ComputeDominance(fn *ir.Function) *Dominance {
	d := &Dominance{fn: fn, idom: make(map[*ir.Block]*ir.Block), order: make(map[*ir.Block]int)}
	if len(fn.Blocks) == 0 {
		return d
	}
	entry := fn.Blocks[0]

	var postorder []*ir.Block
	visited := make(map[*ir.Block]bool)
	var visit func(b *ir.Block)
	visit = func(b *ir.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		if term := b.Terminator(); term != nil {
			for _, s := range term.Successors() {
				visit(s)
			}
		}
		postorder = append(postorder, b)
	}
	visit(entry)

	for i, b := range postorder {
		d.order[b] = i
	}
	d.idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for i := len(postorder) - 2; i >= 0; i-- {
			b := postorder[i]
			var newIdom *ir.Block
			for _, p := range b.Predecessors() {
				if d.idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = d.intersect(newIdom, p)
			}
			if newIdom != nil && d.idom[b] != newIdom {
				d.idom[b] = newIdom
				changed = true
			}
		}
	}
	return d
}

func (d *Dominance) intersect(a, b *ir.Block) *ir.Block {
	for a != b {
		for d.order[a] < d.order[b] {
			a = d.idom[a]
		}
		for d.order[b] < d.order[a] {
			b = d.idom[b]
		}
	}
	return a
}

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (d *Dominance) Dominates(a, b *ir.Block) bool {
	if a == b {
		return true
	}
	cur := d.idom[b]
	for cur != nil {
		if cur == a {
			return true
		}
		if cur == d.idom[cur] {
			break
		}
		cur = d.idom[cur]
	}
	return false
}

// IDom returns b's immediate dominator, or nil for the entry block.
func (d *Dominance) IDom(b *ir.Block) *ir.Block {
	if id := d.idom[b]; id != b {
		return id
	}
	return nil
}
