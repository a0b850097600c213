package types

import "testing"

func TestSizeAlign(t *testing.T) {
	cases := []struct {
		t    Type
		size int
	}{
		{MakeVoid(), 0},
		{MakePrim(Int8, true), 1},
		{MakePrim(Int32, true), 4},
		{MakeBool(), 1},
		{MakePointer(MakePrim(Int32, true), true), 4},
		{MakeArray(MakePrim(Int8, true), 10), 10},
		{MakeArray(MakePrim(Int32, true), 3), 12},
	}
	for _, c := range cases {
		if got := Size(c.t); got != c.size {
			t.Errorf("Size(%s) = %d, want %d", c.t, got, c.size)
		}
	}
}

func TestStructSizeRespectsAlignment(t *testing.T) {
	s := MakeStruct([]Type{MakePrim(Int8, true), MakePrim(Int32, true)})
	if got := Size(s); got != 8 {
		t.Errorf("Size(struct{i8,i32}) = %d, want 8 (padded)", got)
	}
	if got := Align(s); got != 4 {
		t.Errorf("Align(struct{i8,i32}) = %d, want 4", got)
	}
}

func TestIsIdentical(t *testing.T) {
	a := MakePointer(MakePrim(Int32, true), true)
	b := MakePointer(MakePrim(Int32, true), true)
	if !IsIdentical(a, b) {
		t.Errorf("expected identical pointer types")
	}
	c := MakePointer(MakePrim(Int32, false), true)
	if IsIdentical(a, c) {
		t.Errorf("signed vs unsigned pointee should differ")
	}
}

func TestCanAcceptIntegerWidening(t *testing.T) {
	i8 := MakePrim(Int8, true)
	i32 := MakePrim(Int32, true)
	if !CanAccept(i32, i8) {
		t.Errorf("i32 should accept i8 (widening)")
	}
	if CanAccept(i8, i32) {
		t.Errorf("i8 should not implicitly accept i32 (narrowing)")
	}
}

func TestCanAcceptArrayToPointerDecay(t *testing.T) {
	elem := MakePrim(Int32, true)
	arr := MakeArray(elem, 4)
	ptr := MakePointer(elem, true)
	if !CanAccept(ptr, arr) {
		t.Errorf("pointer-to-elem should accept array-of-elem (decay)")
	}
}

func TestCanAcceptVoidPointer(t *testing.T) {
	i32p := MakePointer(MakePrim(Int32, true), true)
	voidp := MakePointer(MakeVoid(), true)
	if !CanAccept(voidp, i32p) {
		t.Errorf("void* should accept i32*")
	}
	if !CanAccept(i32p, voidp) {
		t.Errorf("i32* should accept void*")
	}
}

func TestCanCastToNarrowingAndIntPointer(t *testing.T) {
	i8 := MakePrim(Int8, true)
	i32 := MakePrim(Int32, true)
	ptr := MakePointer(i32, true)
	if !CanCastTo(i8, i32) {
		t.Errorf("explicit narrowing cast should be allowed")
	}
	if !CanCastTo(ptr, i32) {
		t.Errorf("int-to-pointer cast should be allowed")
	}
	if !CanCastTo(i32, ptr) {
		t.Errorf("pointer-to-int cast should be allowed")
	}
}

func TestFunctionTypeAccessors(t *testing.T) {
	fn := MakeFunc([]Type{MakePrim(Int32, true)}, MakeBool(), false)
	args, ok := Args(fn)
	if !ok || len(args) != 1 {
		t.Fatalf("expected one arg")
	}
	ret, ok := Return(fn)
	if !ok || !IsIdentical(ret, MakeBool()) {
		t.Fatalf("expected bool return")
	}
}
