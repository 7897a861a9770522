package accessors

import "kiln/internal/ir"

// RewriteCall retargets a reference expression at its resolved accessor.
// Receiver and argument operands are left untouched; field references become
// calls because the accessor is a function. Idempotent: rewriting an already
// rewritten expression with the same accessor changes nothing.
func RewriteCall(expr *ir.Expr, accessor ir.DeclID) {
	if expr == nil || !accessor.IsValid() {
		return
	}
	if expr.Target == accessor {
		return
	}
	expr.Target = accessor
	expr.Kind = ir.ExprCall
	// The accessor encodes super dispatch in its own body; the call site no
	// longer carries the qualifier.
	expr.Super = ir.NoDeclID
}

// RewriteNew retargets an instantiation at a constructor accessor. The
// expression stays an ExprNew: the accessor is itself a constructor.
func RewriteNew(expr *ir.Expr, accessor ir.DeclID) {
	if expr == nil || !accessor.IsValid() {
		return
	}
	expr.Target = accessor
}
