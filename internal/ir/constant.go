package ir

import (
	"fmt"

	"mimicc/internal/types"
)

// Constant is the closed set of compile-time-known values. Constants are
// shared freely (invariant 6): nothing about a Constant's identity
// matters to SSA form the way an Instruction's does, so the builder is
// free to return the same *ConstInt for two equal-valued requests — it
// does not, for simplicity, but nothing relies on interning.
type Constant interface {
	Value
	isConstant()
}

// ConstInt is a 32-bit-carrier integer constant; its sign interpretation
// comes from its Type, not from the stored bit pattern.
type ConstInt struct {
	valueBase
	Val uint32
}

func (*ConstInt) isConstant() {}
func (c *ConstInt) String() string {
	return fmt.Sprintf("constant %s %d", c.typ, c.Val)
}

// ConstStr is a string literal's byte contents, typically paired with a
// char-pointer type at the use site (get_string).
type ConstStr struct {
	valueBase
	Bytes []byte
}

func (*ConstStr) isConstant() {}
func (c *ConstStr) String() string {
	return fmt.Sprintf("constant %s %q", c.typ, c.Bytes)
}

// ConstStruct is an aggregate constant; every field must itself be a
// Constant of the matching field type (enforced at construction).
type ConstStruct struct {
	valueBase
	Fields []Constant
}

func (*ConstStruct) isConstant() {}
func (c *ConstStruct) String() string {
	return fmt.Sprintf("constant %s {...}", c.typ)
}

// ConstArray is an aggregate constant over a fixed-length array type.
type ConstArray struct {
	valueBase
	Elems []Constant
}

func (*ConstArray) isConstant() {}
func (c *ConstArray) String() string {
	return fmt.Sprintf("constant %s [...]", c.typ)
}

// ConstZero is the canonical zero-value constant of any type: zero for
// integers, false for bool, null for pointers, all-zero recursively for
// aggregates.
type ConstZero struct {
	valueBase
}

func (*ConstZero) isConstant() {}
func (c *ConstZero) String() string { return fmt.Sprintf("constant %s zeroinitializer", c.typ) }

func newConstInt(v uint32, t types.Type) *ConstInt {
	return &ConstInt{valueBase: valueBase{typ: t}, Val: v}
}
