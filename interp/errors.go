package interp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies CORE errors per spec.md §7.
type ErrorKind uint8

const (
	KindRead ErrorKind = iota
	KindUnboundSymbol
	KindArityMismatch
	KindNotCallable
	KindImproperList
	KindUserError
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindRead:
		return "read-error"
	case KindUnboundSymbol:
		return "unbound-symbol"
	case KindArityMismatch:
		return "arity-mismatch"
	case KindNotCallable:
		return "not-callable"
	case KindImproperList:
		return "improper-list"
	case KindUserError:
		return "user-error"
	case KindInternal:
		return "internal"
	default:
		return "error"
	}
}

// SchemeError is the error type raised by the evaluator and the reader.
// An error raised during evaluation, of any kind other than KindUserError,
// carries a rendering of the continuation at the point of failure, composed
// lazily by Attach once the evaluator knows its live continuation (errors
// are constructed deep inside eval/apply, before the trampoline has a
// chance to snapshot k). Read errors are returned without a trace.
type SchemeError struct {
	Kind    ErrorKind
	Message string
	Trace   string  // continuation pseudo stack trace, set by Attach
	frames  []frame // snapshot of k at Attach time, for DumpFrames
	cause   error   // wrapped Go error (github.com/pkg/errors) for KindInternal
}

func (e *SchemeError) Error() string {
	if e.Trace == "" {
		return e.Message
	}
	return e.Message + "\n" + e.Trace
}

func (e *SchemeError) Unwrap() error { return e.cause }

// Attach renders the continuation k as a pseudo stack trace and stores it
// on the error, per spec.md §7 ("other errors are augmented with a
// rendering of the current continuation ... before being raised"). It is a
// no-op for KindUserError, which "propagates unchanged".
func (e *SchemeError) Attach(k *Continuation) *SchemeError {
	if e.Kind == KindUserError || e.Trace != "" {
		return e
	}
	e.Trace = renderTrace(k)
	if k != nil {
		snap := k.reify()
		e.frames = snap.frames
	}
	return e
}

// renderTrace mirrors robpike-lisp's Context.StackTrace: most recent frame
// first, trimming long middles instead of printing every frame.
func renderTrace(k *Continuation) string {
	if k == nil || k.isEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("stack:")
	n := len(k.frames)
	const headTail = 10
	for i := n - 1; i >= 0; i-- {
		shown := n - 1 - i
		if n > 2*headTail && shown == headTail {
			fmt.Fprintf(&b, "\n\t... (%d more frames)", n-2*headTail)
		}
		if n > 2*headTail && shown >= headTail && shown < n-headTail {
			continue
		}
		fmt.Fprintf(&b, "\n\t%s", k.frames[i].describe())
	}
	return b.String()
}

func newReadError(format string, args ...interface{}) *SchemeError {
	return &SchemeError{Kind: KindRead, Message: "read-error: " + fmt.Sprintf(format, args...)}
}

func newUnboundSymbolError(name string) *SchemeError {
	return &SchemeError{Kind: KindUnboundSymbol, Message: "unbound-symbol: " + name}
}

func newArityError(name string, want int, got int) *SchemeError {
	msg := fmt.Sprintf("arity-mismatch: %s expects %d argument(s), got %d", name, want, got)
	if want < 0 {
		msg = fmt.Sprintf("arity-mismatch: %s expects at least 1 argument, got %d", name, got)
	}
	return &SchemeError{Kind: KindArityMismatch, Message: msg}
}

func newTooFewArgsError() *SchemeError {
	return &SchemeError{Kind: KindArityMismatch, Message: "too-few-arguments"}
}

func newTooManyArgsError() *SchemeError {
	return &SchemeError{Kind: KindArityMismatch, Message: "too-many-arguments"}
}

func newNotCallableError(v *Value) *SchemeError {
	return &SchemeError{Kind: KindNotCallable, Message: "not-callable: " + stringify(v, true)}
}

func newImproperListError(context string) *SchemeError {
	return &SchemeError{Kind: KindImproperList, Message: "improper-list: " + context}
}

func newUserError(message string) *SchemeError {
	return &SchemeError{Kind: KindUserError, Message: message}
}

// newInternalError wraps an unexpected condition (a bug indicator, per
// spec.md §7) with a captured Go stack trace via github.com/pkg/errors.
// The stack lives in the wrapped cause, reachable through Unwrap; Error()
// returns only the message and the Scheme continuation trace.
func newInternalError(format string, args ...interface{}) *SchemeError {
	msg := fmt.Sprintf(format, args...)
	return &SchemeError{Kind: KindInternal, Message: "internal: " + msg, cause: errors.New(msg)}
}
