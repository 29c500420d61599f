package interp

import "testing"

func TestStringifyAtoms(t *testing.T) {
	cases := []struct {
		v    *Value
		want string
	}{
		{Null(), "()"},
		{Bool(true), "#t"},
		{Bool(false), "#f"},
		{Int(42), "42"},
		{Int(-7), "-7"},
		{Flo(1.5), "1.5"},
		{Flo(123), "123.0"},
		{Str("hi"), "hi"},
	}
	for _, c := range cases {
		if got := stringify(c.v, false); got != c.want {
			t.Errorf("stringify(%v, false) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestStringifyQuotedString(t *testing.T) {
	if got := stringify(Str("hi"), true); got != `"hi"` {
		t.Errorf("stringify quoted = %q, want %q", got, `"hi"`)
	}
}

func TestStringifyProperList(t *testing.T) {
	v := list(Int(1), Int(2), Int(3))
	if got := stringify(v, true); got != "(1 2 3)" {
		t.Errorf("stringify list = %q, want (1 2 3)", got)
	}
}

func TestStringifyImproperList(t *testing.T) {
	v := Cons(Int(1), Int(2))
	if got := stringify(v, true); got != "(1 . 2)" {
		t.Errorf("stringify improper list = %q, want (1 . 2)", got)
	}
}

func TestIdenticalSymbols(t *testing.T) {
	tab := newSymbolTable()
	a := symbolVal(tab.intern("foo"))
	b := symbolVal(tab.intern("foo"))
	if !Identical(a, b) {
		t.Error("two interns of the same name must be eq?")
	}
}

func TestIdenticalStringsAreNever(t *testing.T) {
	if Identical(Str("x"), Str("x")) {
		t.Error("distinct String values must never be eq?")
	}
}

func TestNumEqualCrossType(t *testing.T) {
	if !Int(1).NumEqual(Flo(1.0)) {
		t.Error("1 and 1.0 must be numerically equal (eqv?)")
	}
	if Identical(Int(1), Flo(1.0)) {
		t.Error("1 and 1.0 must not be eq?")
	}
}

func TestListLenAndToSlice(t *testing.T) {
	v := list(Int(1), Int(2), Int(3))
	n, proper := listLen(v)
	if !proper || n != 3 {
		t.Fatalf("listLen = (%d, %v), want (3, true)", n, proper)
	}
	slice, proper := listToSlice(v)
	if !proper || len(slice) != 3 {
		t.Fatalf("listToSlice = (%v, %v)", slice, proper)
	}

	improper := Cons(Int(1), Int(2))
	if _, proper := listLen(improper); proper {
		t.Error("listLen must report improper lists as such")
	}
}
