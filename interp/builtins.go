package interp

import "fmt"

// installBuiltins populates i.global with every procedure named in
// spec.md §6, plus the call/cc and apply sentinel bindings that
// applyProc recognizes by pointer identity.
func installBuiltins(i *Interpreter) {
	def := func(name string, arity int, fn func(*Interpreter, *Value) (*Value, error)) {
		sym := i.symtab.intern(name)
		defineIn(i.global, sym, IntrinsicVal(&Intrinsic{Name: name, Arity: arity, Fn: fn}))
	}

	def("car", 1, biCar)
	def("cdr", 1, biCdr)
	def("cons", 2, biCons)
	def("eq?", 2, biEq)
	def("eqv?", 2, biEqv)
	def("pair?", 1, biPairP)
	def("null?", 1, biNullP)
	def("not", 1, biNot)
	def("list", -1, biList)
	def("display", 1, biDisplay)
	def("newline", 0, biNewline)
	def("read", 0, biRead)
	def("eof-object?", 1, biEofP)
	def("symbol?", 1, biSymbolP)
	def("+", 2, biAdd)
	def("-", 2, biSub)
	def("*", 2, biMul)
	def("<", 2, biLt)
	def("=", 2, biNumEq)
	def("error", 2, biError)
	def("globals", 0, biGlobals)
	def("command-line", 0, biCommandLine)

	defineIn(i.global, i.sf.apply, IntrinsicVal(applyMarker))
	defineIn(i.global, i.sf.callCC, IntrinsicVal(callCCMarker))
}

func biCar(_ *Interpreter, args *Value) (*Value, error) {
	p := args.car
	if !p.IsPair() {
		return nil, newUserError("car: not a pair: " + stringify(p, true))
	}
	return p.Car(), nil
}

func biCdr(_ *Interpreter, args *Value) (*Value, error) {
	p := args.car
	if !p.IsPair() {
		return nil, newUserError("cdr: not a pair: " + stringify(p, true))
	}
	return p.Cdr(), nil
}

func biCons(_ *Interpreter, args *Value) (*Value, error) {
	return Cons(args.car, args.cdr.car), nil
}

func biEq(_ *Interpreter, args *Value) (*Value, error) {
	return Bool(Identical(args.car, args.cdr.car)), nil
}

func biEqv(_ *Interpreter, args *Value) (*Value, error) {
	a, b := args.car, args.cdr.car
	if a.IsNumber() && b.IsNumber() {
		return Bool(a.NumEqual(b)), nil
	}
	return Bool(Identical(a, b)), nil
}

func biPairP(_ *Interpreter, args *Value) (*Value, error) { return Bool(args.car.IsPair()), nil }
func biNullP(_ *Interpreter, args *Value) (*Value, error) { return Bool(args.car.IsNull()), nil }
func biNot(_ *Interpreter, args *Value) (*Value, error)   { return Bool(args.car.IsFalse()), nil }

// list is the identity on its already-evaluated argument list: the
// trampoline built args as a proper list, which is exactly what list
// returns.
func biList(_ *Interpreter, args *Value) (*Value, error) { return args, nil }

func biDisplay(i *Interpreter, args *Value) (*Value, error) {
	fmt.Fprint(i.stdout, stringify(args.car, false))
	return VoidVal(), nil
}

func biNewline(i *Interpreter, _ *Value) (*Value, error) {
	fmt.Fprintln(i.stdout)
	return VoidVal(), nil
}

func biRead(i *Interpreter, _ *Value) (*Value, error) {
	return i.reader.ReadExpr()
}

func biEofP(_ *Interpreter, args *Value) (*Value, error)    { return Bool(args.car.IsEof()), nil }
func biSymbolP(_ *Interpreter, args *Value) (*Value, error) { return Bool(args.car.IsSymbol()), nil }

// numArgs extracts the two numeric operands of a binary arithmetic or
// comparison built-in, per spec.md §6's exact /2 arities.
func numArgs(name string, args *Value) (*Value, *Value, error) {
	a, b := args.car, args.cdr.car
	if !a.IsNumber() {
		return nil, nil, newUserError(name + ": not a number: " + stringify(a, true))
	}
	if !b.IsNumber() {
		return nil, nil, newUserError(name + ": not a number: " + stringify(b, true))
	}
	return a, b, nil
}

func biAdd(_ *Interpreter, args *Value) (*Value, error) {
	a, b, err := numArgs("+", args)
	if err != nil {
		return nil, err
	}
	if a.IsFloat() || b.IsFloat() {
		return Flo(toFloat(a) + toFloat(b)), nil
	}
	return Int(a.Int() + b.Int()), nil
}

func biSub(_ *Interpreter, args *Value) (*Value, error) {
	a, b, err := numArgs("-", args)
	if err != nil {
		return nil, err
	}
	if a.IsFloat() || b.IsFloat() {
		return Flo(toFloat(a) - toFloat(b)), nil
	}
	return Int(a.Int() - b.Int()), nil
}

func biMul(_ *Interpreter, args *Value) (*Value, error) {
	a, b, err := numArgs("*", args)
	if err != nil {
		return nil, err
	}
	if a.IsFloat() || b.IsFloat() {
		return Flo(toFloat(a) * toFloat(b)), nil
	}
	return Int(a.Int() * b.Int()), nil
}

func biLt(_ *Interpreter, args *Value) (*Value, error) {
	a, b, err := numArgs("<", args)
	if err != nil {
		return nil, err
	}
	return Bool(toFloat(a) < toFloat(b)), nil
}

func biNumEq(_ *Interpreter, args *Value) (*Value, error) {
	a, b, err := numArgs("=", args)
	if err != nil {
		return nil, err
	}
	return Bool(a.NumEqual(b)), nil
}

func toFloat(v *Value) float64 {
	if v.IsFloat() {
		return v.Float()
	}
	return float64(v.Int())
}

// error raises a KindUserError built from a message plus one irritant,
// per spec.md §6/§7: the message displays unquoted, the irritant prints
// quoted, matching how the REPL would echo it back.
func biError(_ *Interpreter, args *Value) (*Value, error) {
	msg := stringify(args.car, false) + " " + stringify(args.cdr.car, true)
	return nil, newUserError(msg)
}

func biGlobals(i *Interpreter, _ *Value) (*Value, error) {
	var syms []*Value
	for e := i.global; e != nil; e = e.next {
		if !e.marker {
			syms = append(syms, symbolVal(e.sym))
		}
	}
	return list(syms...), nil
}

func biCommandLine(i *Interpreter, _ *Value) (*Value, error) {
	vals := make([]*Value, len(i.args))
	for idx, a := range i.args {
		vals[idx] = Str(a)
	}
	return list(vals...), nil
}
