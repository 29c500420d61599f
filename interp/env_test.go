package interp

import "testing"

func TestLookupAndDefineIn(t *testing.T) {
	tab := newSymbolTable()
	g := newGlobalEnv()
	x := tab.intern("x")
	defineIn(g, x, Int(1))

	b, err := lookup(g, x)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if b.val.Int() != 1 {
		t.Errorf("x = %v, want 1", b.val)
	}
}

func TestDefineInShadowsRatherThanOverwrites(t *testing.T) {
	tab := newSymbolTable()
	g := newGlobalEnv()
	x := tab.intern("x")
	defineIn(g, x, Int(1))
	defineIn(g, x, Int(2))

	b, err := lookup(g, x)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if b.val.Int() != 2 {
		t.Errorf("shadowed x = %v, want 2 (most recent define wins)", b.val)
	}
}

func TestDefineInRespectsActivationFrame(t *testing.T) {
	tab := newSymbolTable()
	g := newGlobalEnv()
	x := tab.intern("x")
	defineIn(g, x, Int(1))

	activation := newActivationFrame(g)
	defineIn(activation, x, Int(99))

	// the inner define must not be visible from outside the activation.
	b, err := lookup(g, x)
	if err != nil {
		t.Fatalf("lookup on outer env: %v", err)
	}
	if b.val.Int() != 1 {
		t.Errorf("outer x = %v, want 1 (untouched by inner define)", b.val)
	}

	b, err = lookup(activation, x)
	if err != nil {
		t.Fatalf("lookup on activation env: %v", err)
	}
	if b.val.Int() != 99 {
		t.Errorf("inner x = %v, want 99", b.val)
	}
}

func TestLookupUnboundSymbol(t *testing.T) {
	tab := newSymbolTable()
	g := newGlobalEnv()
	_, err := lookup(g, tab.intern("nope"))
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != KindUnboundSymbol {
		t.Fatalf("lookup of unbound symbol = %v, want KindUnboundSymbol", err)
	}
}

func TestBindParamsExact(t *testing.T) {
	tab := newSymbolTable()
	params := list(symbolVal(tab.intern("a")), symbolVal(tab.intern("b")))
	args := list(Int(1), Int(2))

	env, err := bindParams(params, args, newGlobalEnv())
	if err != nil {
		t.Fatalf("bindParams: %v", err)
	}
	a, err := lookup(env, tab.intern("a"))
	if err != nil || a.val.Int() != 1 {
		t.Errorf("a = %v, %v", a, err)
	}
	b, err := lookup(env, tab.intern("b"))
	if err != nil || b.val.Int() != 2 {
		t.Errorf("b = %v, %v", b, err)
	}
}

func TestBindParamsTooMany(t *testing.T) {
	tab := newSymbolTable()
	params := list(symbolVal(tab.intern("a")))
	args := list(Int(1), Int(2))

	_, err := bindParams(params, args, newGlobalEnv())
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != KindArityMismatch {
		t.Fatalf("bindParams too-many = %v, want KindArityMismatch", err)
	}
}

func TestBindParamsTooFew(t *testing.T) {
	tab := newSymbolTable()
	params := list(symbolVal(tab.intern("a")), symbolVal(tab.intern("b")))
	args := list(Int(1))

	_, err := bindParams(params, args, newGlobalEnv())
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != KindArityMismatch {
		t.Fatalf("bindParams too-few = %v, want KindArityMismatch", err)
	}
}

func TestBindParamsDottedRest(t *testing.T) {
	tab := newSymbolTable()
	x := tab.intern("x")
	xs := tab.intern("xs")
	params := Cons(symbolVal(x), symbolVal(xs))
	args := list(Int(1), Int(2), Int(3))

	env, err := bindParams(params, args, newGlobalEnv())
	if err != nil {
		t.Fatalf("bindParams: %v", err)
	}
	xb, err := lookup(env, x)
	if err != nil || xb.val.Int() != 1 {
		t.Errorf("x = %v, %v", xb, err)
	}
	xsb, err := lookup(env, xs)
	if err != nil {
		t.Fatalf("lookup xs: %v", err)
	}
	n, proper := listLen(xsb.val)
	if !proper || n != 2 {
		t.Errorf("xs = %v, want a 2-element rest list", xsb.val)
	}
}
