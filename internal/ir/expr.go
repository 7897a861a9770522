package ir

// ExprKind classifies a reference expression at a call site.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	// ExprCall invokes a function or constructor accessor.
	ExprCall
	// ExprGetField reads a field directly.
	ExprGetField
	// ExprSetField writes a field directly.
	ExprSetField
	// ExprNew instantiates a class through one of its constructors.
	ExprNew
)

func (k ExprKind) String() string {
	switch k {
	case ExprCall:
		return "call"
	case ExprGetField:
		return "get-field"
	case ExprSetField:
		return "set-field"
	case ExprNew:
		return "new"
	default:
		return "invalid"
	}
}

// Expr is a reference expression whose Target may be retargeted by the
// call-site rewriter. Receiver, Args and Value are opaque operand references
// the rewriter must leave untouched.
type Expr struct {
	Kind   ExprKind `msgpack:"kind"`
	Target DeclID   `msgpack:"target"`
	// Super names the ancestor class of an explicit super-qualified call.
	Super    DeclID   `msgpack:"super,omitempty"`
	Receiver ExprID   `msgpack:"receiver,omitempty"`
	Args     []ExprID `msgpack:"args,omitempty"`
	Value    ExprID   `msgpack:"value,omitempty"`
}

// CallSite pairs a reference expression with the lexical scope chain active
// where it occurs. Owners lists enclosing class owners innermost first; the
// slice is built per query by the front end and is not otherwise persisted.
type CallSite struct {
	Expr   ExprID   `msgpack:"expr"`
	Owners []DeclID `msgpack:"owners,omitempty"`
}
