// Package ir implements the SSA value graph: values, their intrusive
// use-lists, instructions, blocks, functions, globals and constants.
// Construction happens exclusively through Module/Builder (module.go);
// this file only defines the data model and its own local invariants
// (use-list bookkeeping, replace-all-uses).
package ir

import (
	"fmt"

	"mimicc/internal/diag"
	"mimicc/internal/types"
)

// Use is one edge in the def-use graph: instruction User reads operand
// number Index from Value. Uses are intrusive — they live on the
// User/Value's own linked list, not in some side table, so
// ReplaceAllUsesWith can walk and rewrite them in place.
type Use struct {
	Value Value
	User  Instruction
	Index int

	prev, next *Use
}

// Value is anything that can appear as an instruction operand: an
// Instruction result, an ArgRef, a GlobalVar, a Constant or Undef. Every
// Value tracks its own use-list so def-use edges can be walked from
// either end.
type Value interface {
	TypeOf() types.Type
	Name() string
	Rename(string)

	addUse(u *Use)
	removeUse(u *Use)
	Uses() []*Use
}

// valueBase factors the use-list and name bookkeeping shared by every
// concrete Value. Embedded, never used standalone.
type valueBase struct {
	name     string
	typ      types.Type
	origType *types.OriginalType
	usesHead *Use
}

func (v *valueBase) TypeOf() types.Type { return v.typ }
func (v *valueBase) Name() string       { return v.name }
func (v *valueBase) Rename(n string)    { v.name = n }

func (v *valueBase) addUse(u *Use) {
	u.next = v.usesHead
	if v.usesHead != nil {
		v.usesHead.prev = u
	}
	u.prev = nil
	v.usesHead = u
}

func (v *valueBase) removeUse(u *Use) {
	if u.prev != nil {
		u.prev.next = u.next
	} else if v.usesHead == u {
		v.usesHead = u.next
	}
	if u.next != nil {
		u.next.prev = u.prev
	}
	u.prev, u.next = nil, nil
}

func (v *valueBase) Uses() []*Use {
	var out []*Use
	for u := v.usesHead; u != nil; u = u.next {
		out = append(out, u)
	}
	return out
}

// OriginalType returns the pre-trivialization type this value's front
// end declared it with, when one was recorded — distinct from a value's
// primary type, which is always the lowered, trivialized form.
func (v *valueBase) OriginalType() (types.OriginalType, bool) {
	if v.origType == nil {
		return types.OriginalType{}, false
	}
	return *v.origType, true
}

func (v *valueBase) setOriginalType(ot types.OriginalType) { v.origType = &ot }

// ReplaceAllUsesWith rewrites every use of old to point at repl instead,
// walking old's use-list and re-homing each Use onto repl's list. This
// is the single place def-use edges move in bulk; passes call it instead
// of touching operand slots by hand.
func ReplaceAllUsesWith(old, repl Value) {
	if old == repl {
		return
	}
	for u := old.Uses(); len(u) > 0; u = old.Uses() {
		use := u[0]
		old.removeUse(use)
		use.Value = repl
		repl.addUse(use)
		use.User.setOperand(use.Index, use)
	}
}

// RedirectUse retargets a single Use (not every use of its current
// value, unlike ReplaceAllUsesWith) to point at to instead. Used by
// loop-preheader synthesis to move one predecessor's edge from a loop
// header onto the new preheader without disturbing the header's other
// incoming edges.
func RedirectUse(u *Use, to Value) {
	u.Value.removeUse(u)
	u.Value = to
	to.addUse(u)
	u.User.setOperand(u.Index, u)
}

// setOperandValue records a new operand at index i on user, registering
// the Use on val's list and detaching any previous occupant.
func setOperandValue(user Instruction, operands []*Use, i int, val Value) *Use {
	if operands[i] != nil {
		operands[i].Value.removeUse(operands[i])
	}
	u := &Use{Value: val, User: user, Index: i}
	val.addUse(u)
	operands[i] = u
	return u
}

// ArgRef is a function parameter: a Value with no defining instruction,
// bound once at function-build time.
type ArgRef struct {
	valueBase
	Index int
}

func (a *ArgRef) String() string { return fmt.Sprintf("%%%s", a.name) }

// Undef is the "unspecified value of type T" placeholder (GetUndef
// builds a fresh one per call), used for uninitialized locals the builder must still give a defined
// SSA value (e.g. loop-carried phis seeded before their back edge runs).
type Undef struct {
	valueBase
}

func (u *Undef) String() string { return fmt.Sprintf("undef %s", u.typ.String()) }

func newUndef(t types.Type) *Undef {
	return &Undef{valueBase: valueBase{typ: t, name: "undef"}}
}

// assertAcceptable aborts with a contract-violation if src cannot be
// used where dst's type is required: a builder-detected well-formedness
// breach is fatal, not recoverable.
func assertAcceptable(scope, op string, dst types.Type, src Value) {
	if !types.CanAccept(dst, src.TypeOf()) {
		diag.Fatalf(diag.CodeContractViolation, scope,
			"%s: value %q of type %s is not acceptable where %s is required",
			op, src.Name(), src.TypeOf(), dst)
	}
}
