package interp

import "testing"

func TestAttachSkipsUserError(t *testing.T) {
	k := newContinuation()
	k.push(frame{op: opBegin, val: Int(1)})

	e := newUserError("boom")
	e.Attach(k)
	if e.Trace != "" {
		t.Errorf("Trace = %q, want empty: user errors propagate unchanged", e.Trace)
	}
	if e.DumpFrames() != "" {
		t.Errorf("DumpFrames() = %q, want empty for a user error", e.DumpFrames())
	}
}

func TestAttachRendersTraceForOtherKinds(t *testing.T) {
	k := newContinuation()
	k.push(frame{op: opBegin, val: Int(1)})

	e := newUnboundSymbolError("x")
	e.Attach(k)
	if e.Trace == "" {
		t.Error("Trace must be populated for non-user errors once attached to a nonempty continuation")
	}
	if e.DumpFrames() == "" {
		t.Error("DumpFrames() must report the snapshotted frame")
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	k1 := newContinuation()
	k1.push(frame{op: opBegin, val: Int(1)})
	k2 := newContinuation()
	k2.push(frame{op: opBegin, val: Int(2)})
	k2.push(frame{op: opBegin, val: Int(3)})

	e := newInternalError("oops")
	e.Attach(k1)
	first := e.Trace
	e.Attach(k2)
	if e.Trace != first {
		t.Error("a second Attach must not overwrite the first trace")
	}
}

func TestErrorStringIncludesTrace(t *testing.T) {
	k := newContinuation()
	k.push(frame{op: opBegin, val: Int(1)})
	e := newArityError("f", 2, 1)
	e.Attach(k)
	if e.Error() == e.Message {
		t.Error("Error() must include the rendered trace once attached")
	}
}

func TestInternalErrorUnwraps(t *testing.T) {
	e := newInternalError("broken invariant")
	if e.Unwrap() == nil {
		t.Error("KindInternal errors must wrap an underlying cause")
	}
}
