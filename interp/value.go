package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// kind tags the variant held by a Value. Dispatch is a switch over kind,
// not subtype polymorphism, so the hot paths in eval/apply stay a single
// jump table instead of an interface method call per node.
type kind uint8

const (
	kNull kind = iota
	kBoolean
	kInteger
	kFloat
	kString
	kSymbol
	kPair
	kClosure
	kIntrinsic
	kContinuation
	kVoid
	kEof
)

// Value is a tagged union over every runtime Scheme value: Null, Boolean,
// Integer, Float, String, Symbol, Pair, Closure, Intrinsic, Continuation,
// Void, and Eof. Values are immutable except for a Pair's fields (never
// mutated by this interpreter; set! only ever mutates a binding's slot),
// a binding's value slot, and the global frame's next pointer.
type Value struct {
	k kind

	b bool    // Boolean
	i int64   // Integer
	f float64 // Float
	s string  // String, Symbol name

	car, cdr *Value // Pair

	sym *symbol // Symbol identity (kSymbol only; s mirrors sym.name)

	clo *Closure
	in  *Intrinsic
	k_  *Continuation
}

// Closure is a user-defined procedure: a formal-parameter list (a list of
// symbols, possibly improper for a rest argument), a non-empty body list
// of expressions, and the environment captured at definition time.
type Closure struct {
	Params *Value
	Body   *Value
	Env    *Env
}

// Intrinsic is a built-in procedure: a name, an arity (a non-negative
// exact count, or -1 for variadic), and a host callable. The call/cc and
// apply sentinels in apply.go use arity -2 and have no callable.
type Intrinsic struct {
	Name  string
	Arity int
	Fn    func(i *Interpreter, args *Value) (*Value, error)
}

var (
	theNull = &Value{k: kNull}
	theTrue = &Value{k: kBoolean, b: true}
	theFalse = &Value{k: kBoolean, b: false}
	theVoid = &Value{k: kVoid}
	theEof  = &Value{k: kEof}
)

// Null returns the unique empty-list value.
func Null() *Value { return theNull }

// VoidVal returns the unique side-effect-result singleton.
func VoidVal() *Value { return theVoid }

// EofVal returns the unique end-of-input singleton.
func EofVal() *Value { return theEof }

// Bool wraps a Go bool as the unique #t/#f Value.
func Bool(b bool) *Value {
	if b {
		return theTrue
	}
	return theFalse
}

// Int wraps a Go int64 as an Integer Value.
func Int(n int64) *Value { return &Value{k: kInteger, i: n} }

// Flo wraps a Go float64 as a Float Value.
func Flo(f float64) *Value { return &Value{k: kFloat, f: f} }

// Str wraps a Go string as an (immutable) String Value.
func Str(s string) *Value { return &Value{k: kString, s: s} }

// Cons builds a new Pair with the given car and cdr.
func Cons(car, cdr *Value) *Value { return &Value{k: kPair, car: car, cdr: cdr} }

// ClosureVal wraps a Closure as a callable Value.
func ClosureVal(c *Closure) *Value { return &Value{k: kClosure, clo: c} }

// IntrinsicVal wraps an Intrinsic as a callable Value.
func IntrinsicVal(in *Intrinsic) *Value { return &Value{k: kIntrinsic, in: in} }

// ContinuationVal wraps a reified Continuation as a callable Value.
func ContinuationVal(k *Continuation) *Value { return &Value{k: kContinuation, k_: k} }

func symbolVal(s *symbol) *Value { return &Value{k: kSymbol, s: s.name, sym: s} }

func (v *Value) IsNull() bool         { return v.k == kNull }
func (v *Value) IsBoolean() bool      { return v.k == kBoolean }
func (v *Value) IsInteger() bool      { return v.k == kInteger }
func (v *Value) IsFloat() bool        { return v.k == kFloat }
func (v *Value) IsNumber() bool       { return v.k == kInteger || v.k == kFloat }
func (v *Value) IsString() bool       { return v.k == kString }
func (v *Value) IsSymbol() bool       { return v.k == kSymbol }
func (v *Value) IsPair() bool         { return v.k == kPair }
func (v *Value) IsClosure() bool      { return v.k == kClosure }
func (v *Value) IsIntrinsic() bool    { return v.k == kIntrinsic }
func (v *Value) IsContinuation() bool { return v.k == kContinuation }
func (v *Value) IsVoid() bool         { return v.k == kVoid }
func (v *Value) IsEof() bool          { return v.k == kEof }

// IsFalse reports whether v is the Scheme falsy value. Only #f is falsy;
// Null, 0, and "" are all true, per spec.
func (v *Value) IsFalse() bool { return v.k == kBoolean && !v.b }

func (v *Value) Bool() bool { return v.b }
func (v *Value) Int() int64 { return v.i }
func (v *Value) Float() float64 {
	if v.k == kInteger {
		return float64(v.i)
	}
	return v.f
}
func (v *Value) Str() string   { return v.s }
func (v *Value) Car() *Value   { return v.car }
func (v *Value) Cdr() *Value   { return v.cdr }
func (v *Value) Sym() *symbol  { return v.sym }
func (v *Value) Closure() *Closure         { return v.clo }
func (v *Value) Intrinsic() *Intrinsic     { return v.in }
func (v *Value) Continuation() *Continuation { return v.k_ }

// NumEqual reports numeric equality across int/float, as eqv? requires.
func (v *Value) NumEqual(o *Value) bool {
	if !v.IsNumber() || !o.IsNumber() {
		return false
	}
	if v.k == kInteger && o.k == kInteger {
		return v.i == o.i
	}
	return v.Float() == o.Float()
}

// Identical reports reference/identity equality (eq?). Symbols compare by
// interned identity; numbers and booleans compare by Go value equality of
// their variant payload, since this implementation does not box every atom
// behind a pointer. Two distinct String values are never identical, even
// with equal contents.
func Identical(a, b *Value) bool {
	if a == b {
		return true
	}
	if a.k != b.k {
		return false
	}
	switch a.k {
	case kNull, kVoid, kEof:
		return true
	case kBoolean:
		return a.b == b.b
	case kInteger:
		return a.i == b.i
	case kFloat:
		return a.f == b.f
	case kSymbol:
		return a.sym == b.sym
	case kString:
		return false // distinct string objects are never eq?, even if equal
	default:
		return false
	}
}

// list constructs a proper list from the given Values.
func list(vs ...*Value) *Value {
	res := theNull
	for i := len(vs) - 1; i >= 0; i-- {
		res = Cons(vs[i], res)
	}
	return res
}

// listLen returns the length of v as a proper list, and whether v is
// indeed a proper (Null-terminated) list.
func listLen(v *Value) (int, bool) {
	n := 0
	for v.IsPair() {
		n++
		v = v.cdr
	}
	return n, v.IsNull()
}

// listToSlice flattens a proper list into a Go slice. Improper lists
// return the elements collected before the non-pair tail, and false.
func listToSlice(v *Value) ([]*Value, bool) {
	var out []*Value
	for v.IsPair() {
		out = append(out, v.car)
		v = v.cdr
	}
	return out, v.IsNull()
}

// stringify renders v in the printed form spec.md §6 describes. quoted
// controls whether a String Value prints with surrounding quotes (used by
// the reader round-trip and by `write`-style contexts) or raw (used by
// `display`).
func stringify(v *Value, quoted bool) string {
	var b strings.Builder
	writeValue(&b, v, quoted)
	return b.String()
}

func writeValue(b *strings.Builder, v *Value, quoted bool) {
	switch v.k {
	case kNull:
		b.WriteString("()")
	case kBoolean:
		if v.b {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case kInteger:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case kFloat:
		writeFloat(b, v.f)
	case kString:
		if quoted {
			b.WriteByte('"')
			b.WriteString(v.s)
			b.WriteByte('"')
		} else {
			b.WriteString(v.s)
		}
	case kSymbol:
		b.WriteString(v.s)
	case kPair:
		writePair(b, v, quoted)
	case kClosure:
		fmt.Fprintf(b, "#<closure %p>", v.clo)
	case kIntrinsic:
		fmt.Fprintf(b, "#<intrinsic %s>", v.in.Name)
	case kContinuation:
		fmt.Fprintf(b, "#<continuation %p>", v.k_)
	case kVoid:
		b.WriteString("#<void>")
	case kEof:
		b.WriteString("#<eof>")
	}
}

func writeFloat(b *strings.Builder, f float64) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	b.WriteString(s)
}

func writePair(b *strings.Builder, v *Value, quoted bool) {
	b.WriteByte('(')
	first := true
	for {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		writeValue(b, v.car, quoted)
		next := v.cdr
		if next.IsNull() {
			break
		}
		if !next.IsPair() {
			b.WriteString(" . ")
			writeValue(b, next, quoted)
			break
		}
		v = next
	}
	b.WriteByte(')')
}
