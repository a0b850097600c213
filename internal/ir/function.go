package ir

import (
	"strconv"

	"mimicc/internal/types"
)

// Linkage is the visibility/semantics tag on a top-level symbol.
type Linkage int

const (
	Internal Linkage = iota
	Inline
	External
	GlobalCtor
	GlobalDtor
)

var linkageNames = map[Linkage]string{
	Internal: "internal", Inline: "inline", External: "external",
	GlobalCtor: "global_ctor", GlobalDtor: "global_dtor",
}

func (l Linkage) String() string { return linkageNames[l] }

// Function is a top-level value: a name, a linkage, a function Type and
// the ordered list of Blocks it owns. Blocks are owned outright (a plain
// slice), not referenced through Use edges, per the ownership invariant
// that a Function owns its Blocks rather than merely pointing at them.
type Function struct {
	valueBase
	Linkage Linkage
	Blocks  []*Block
	Args    []*ArgRef // ArgRef values vended by CreateArgRef, in creation order

	blockNames map[string]int
	valueNames int
}

// IsDeclaration reports whether fn has no body (no blocks). Passes that
// walk function bodies (LICM among them) skip declarations entirely.
func (f *Function) IsDeclaration() bool { return len(f.Blocks) == 0 }

// ParamTypes returns the parameter types implied by the function's own
// Function-variant type.
func (f *Function) ParamTypes() []types.Type {
	args, _ := types.Args(f.typ)
	return args
}

// ReturnType returns the function's declared return type.
func (f *Function) ReturnType() types.Type {
	ret, _ := types.Return(f.typ)
	return ret
}

func (f *Function) freshBlockName(hint string) string {
	if f.blockNames == nil {
		f.blockNames = make(map[string]int)
	}
	if hint == "" {
		hint = "bb"
	}
	n := f.blockNames[hint]
	f.blockNames[hint] = n + 1
	if n == 0 {
		return hint
	}
	return hint + "." + strconv.Itoa(n)
}

// freshValueName returns the next per-function numeric id used to name
// unnamed instructions (the dump's "%N" convention); the counter resets
// implicitly because it lives on the Function, not globally.
func (f *Function) freshValueName() string {
	f.valueNames++
	return strconv.Itoa(f.valueNames)
}
