package interp

// callCCMarker and applyMarker are sentinel intrinsics bound to the names
// "call/cc" and "apply" in the global environment (see builtins.go). They
// carry no callable Fn: applyProc recognizes them by pointer identity and
// peels them before any ordinary dispatch, per spec.md §4.6.
var (
	callCCMarker = &Intrinsic{Name: "call/cc", Arity: -2}
	applyMarker  = &Intrinsic{Name: "apply", Arity: -2}
)

// applyProc dispatches a fully-evaluated operator against a fully-evaluated
// argument list. It first peels call/cc and apply, which are not ordinary
// callables but rewrite (op, args) and loop again, then dispatches on the
// remaining operator's kind.
func (i *Interpreter) applyProc(op *Value, args *Value, env *Env, k *Continuation) (*Value, *Env, error) {
	for {
		if op.IsIntrinsic() && op.Intrinsic() == callCCMarker {
			if args.IsNull() || !args.IsPair() {
				return nil, nil, newArityError("call/cc", 1, 0)
			}
			real := args.car
			k.pushRestoreEnv(env)
			snap := k.reify()
			op = real
			args = list(ContinuationVal(snap))
			continue
		}
		if op.IsIntrinsic() && op.Intrinsic() == applyMarker {
			if !args.IsPair() || !args.cdr.IsPair() {
				n, _ := listLen(args)
				return nil, nil, newArityError("apply", 2, n)
			}
			real := args.car
			realArgs := args.cdr.car
			op = real
			args = realArgs
			continue
		}
		break
	}

	switch {
	case op.IsIntrinsic():
		in := op.Intrinsic()
		n, proper := listLen(args)
		if !proper {
			return nil, nil, newImproperListError("argument list")
		}
		if in.Arity >= 0 && n != in.Arity {
			return nil, nil, newArityError(in.Name, in.Arity, n)
		}
		result, err := in.Fn(i, args)
		if err != nil {
			return nil, nil, err
		}
		return result, env, nil

	case op.IsClosure():
		clo := op.Closure()
		newEnv, err := bindParams(clo.Params, args, clo.Env)
		if err != nil {
			return nil, nil, err
		}
		k.pushRestoreEnv(env)
		activation := newActivationFrame(newEnv)
		k.push(frame{op: opBegin, val: clo.Body})
		return VoidVal(), activation, nil

	case op.IsContinuation():
		k.restore(op.Continuation())
		if !args.IsPair() {
			return nil, nil, newArityError("continuation", 1, 0)
		}
		return args.car, env, nil

	default:
		return nil, nil, newNotCallableError(op)
	}
}
