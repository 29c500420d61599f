package interp

// evalLoop is the two-phase trampoline of spec.md §4.5: it holds the
// mutable state (exp, env, k) and interprets special forms, applications,
// and continuation resumption without ever growing the Go call stack by
// more than a handful of frames, regardless of Scheme-level recursion
// depth or tail-call count.
func (i *Interpreter) evalLoop(exp *Value, env *Env, k *Continuation) (result *Value, err error) {
	for {
		// ---- Phase A: analyze exp until it is self-evaluating ----
		for {
			advance := false
			exp, env, advance, err = i.analyze(exp, env, k)
			if err != nil {
				return nil, err.(*SchemeError).Attach(k)
			}
			if !advance {
				break
			}
		}

		// ---- Phase B: resume k with value exp ----
		for {
			if k.isEmpty() {
				return exp, nil
			}
			var gotoA bool
			exp, env, gotoA, err = i.resume(exp, env, k)
			if err != nil {
				return nil, err.(*SchemeError).Attach(k)
			}
			if gotoA {
				break
			}
		}
	}
}

// analyze performs one step of Phase A. advance is true when exp changed
// and analysis should continue (another Phase A iteration); it is false
// once exp has become self-evaluating and Phase B should take over.
func (i *Interpreter) analyze(exp *Value, env *Env, k *Continuation) (*Value, *Env, bool, error) {
	if exp.IsSymbol() {
		b, err := lookup(env, exp.Sym())
		if err != nil {
			return nil, nil, false, err
		}
		return b.val, env, false, nil
	}

	if !exp.IsPair() {
		// Self-evaluating atom: Integer, Float, String, Boolean, Null,
		// Closure/Intrinsic/Continuation/Void/Eof literals.
		return exp, env, false, nil
	}

	h := exp.car
	sf := i.sf
	if h.IsSymbol() {
		switch h.Sym() {
		case sf.quote:
			return exp.cdr.car, env, false, nil

		case sf.ifSym:
			test := exp.cdr.car
			alts := exp.cdr.cdr
			k.push(frame{op: opThen, val: alts})
			return test, env, true, nil

		case sf.begin:
			body := exp.cdr
			if body.IsNull() {
				return VoidVal(), env, false, nil
			}
			head, tail := body.car, body.cdr
			if !tail.IsNull() {
				k.push(frame{op: opBegin, val: tail})
			}
			return head, env, true, nil

		case sf.lambda:
			params := exp.cdr.car
			body := exp.cdr.cdr
			clo := ClosureVal(&Closure{Params: params, Body: body, Env: env})
			return clo, env, false, nil

		case sf.define:
			target := exp.cdr.car
			if target.IsPair() {
				// (define (name . params) body...) sugar for
				// (define name (lambda params body...)).
				name := target.car
				if !name.IsSymbol() {
					return nil, nil, false, newInternalError("define target is not a symbol")
				}
				params := target.cdr
				body := exp.cdr.cdr
				lambdaExpr := Cons(symbolVal(sf.lambda), Cons(params, body))
				k.push(frame{op: opDefine, sym: name.Sym()})
				return lambdaExpr, env, true, nil
			}
			if !target.IsSymbol() {
				return nil, nil, false, newInternalError("define target is not a symbol")
			}
			valueExpr := exp.cdr.cdr.car
			k.push(frame{op: opDefine, sym: target.Sym()})
			return valueExpr, env, true, nil

		case sf.setBang:
			sym := exp.cdr.car.Sym()
			binding, err := lookup(env, sym)
			if err != nil {
				return nil, nil, false, err
			}
			valueExpr := exp.cdr.cdr.car
			k.push(frame{op: opSetQ, env: binding})
			return valueExpr, env, true, nil

		default:
			// fall through to application
		}
	}

	args := exp.cdr
	k.push(frame{op: opApply, val: args})
	return h, env, true, nil
}

// resume performs one step of Phase B. gotoA is true when the caller
// should return to Phase A with the returned (exp, env); it is false when
// another Phase B iteration (pop the next frame) should run instead.
func (i *Interpreter) resume(exp *Value, env *Env, k *Continuation) (*Value, *Env, bool, error) {
	f := k.pop()
	switch f.op {
	case opThen:
		e2 := f.val.car
		var e3 *Value
		if f.val.cdr.IsPair() {
			e3 = f.val.cdr.car
		}
		if exp.IsFalse() {
			if e3 == nil {
				return VoidVal(), env, false, nil
			}
			return e3, env, true, nil
		}
		return e2, env, true, nil

	case opBegin:
		rest := f.val
		if !rest.cdr.IsNull() {
			k.push(frame{op: opBegin, val: rest.cdr})
		}
		return rest.car, env, true, nil

	case opDefine:
		defineIn(env, f.sym, exp)
		return VoidVal(), env, false, nil

	case opSetQ:
		f.env.val = exp
		return VoidVal(), env, false, nil

	case opApply:
		args := f.val
		if args.IsNull() {
			v, e, err := i.applyProc(exp, theNull, env, k)
			return v, e, false, err
		}
		nonLast, last, err := splitLast(args)
		if err != nil {
			return nil, nil, false, err
		}
		k.push(frame{op: opApplyFun, val: exp})
		for _, a := range nonLast {
			k.push(frame{op: opEvalArg, val: a})
		}
		k.push(frame{op: opConsArgs, val: theNull})
		return last, env, true, nil

	case opConsArgs:
		acc := Cons(exp, f.val)
		next := k.pop()
		switch next.op {
		case opEvalArg:
			k.push(frame{op: opConsArgs, val: acc})
			return next.val, env, true, nil
		case opApplyFun:
			v, e, err := i.applyProc(next.val, acc, env, k)
			return v, e, false, err
		default:
			return nil, nil, false, newInternalError("unexpected opcode %s after ConsArgs", next.op)
		}

	case opRestoreEnv:
		return exp, f.env, false, nil

	default:
		return nil, nil, false, newInternalError("unknown continuation opcode %s", f.op)
	}
}

// splitLast splits a proper, non-empty list into its non-last elements
// (in order) and its last element.
func splitLast(args *Value) ([]*Value, *Value, error) {
	items, proper := listToSlice(args)
	if !proper {
		return nil, nil, newImproperListError("argument list")
	}
	if len(items) == 0 {
		return nil, nil, newInternalError("splitLast called on empty list")
	}
	return items[:len(items)-1], items[len(items)-1], nil
}
