package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Decls stores all declarations in a compact slice-based arena.
type Decls struct {
	data []Decl
}

// NewDecls creates an arena with optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 64
	}
	return &Decls{
		data: make([]Decl, 1, capacity+1), // index 0 reserved for NoDeclID
	}
}

// New allocates a declaration in the arena and returns its ID.
func (d *Decls) New(decl *Decl) DeclID {
	if decl == nil {
		panic("ir.Decls.New: nil declaration")
	}
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("decl arena overflow: %w", err))
	}
	id := DeclID(value)
	d.data = append(d.data, *decl)
	return id
}

// Get returns a declaration pointer or nil for invalid ID.
func (d *Decls) Get(id DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Len reports number of stored declarations excluding the sentinel.
func (d *Decls) Len() int { return len(d.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (d *Decls) Data() []Decl {
	if len(d.data) <= 1 {
		return nil
	}
	return d.data[1:]
}

// Exprs stores reference expressions in a compact arena.
type Exprs struct {
	data []Expr
}

// NewExprs creates an expression arena with optional capacity hint.
func NewExprs(capacity uint32) *Exprs {
	if capacity == 0 {
		capacity = 64
	}
	return &Exprs{
		data: make([]Expr, 1, capacity+1), // index 0 reserved for NoExprID
	}
}

// New allocates an expression in the arena and returns its ID.
func (e *Exprs) New(expr *Expr) ExprID {
	if expr == nil {
		panic("ir.Exprs.New: nil expression")
	}
	value, err := safecast.Conv[uint32](len(e.data))
	if err != nil {
		panic(fmt.Errorf("expr arena overflow: %w", err))
	}
	id := ExprID(value)
	e.data = append(e.data, *expr)
	return id
}

// Get returns an expression pointer or nil for invalid ID.
func (e *Exprs) Get(id ExprID) *Expr {
	if !id.IsValid() || int(id) >= len(e.data) {
		return nil
	}
	return &e.data[id]
}

// Len reports number of stored expressions excluding the sentinel.
func (e *Exprs) Len() int { return len(e.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (e *Exprs) Data() []Expr {
	if len(e.data) <= 1 {
		return nil
	}
	return e.data[1:]
}
