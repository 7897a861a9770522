package ir

// DeclID identifies a declaration in the module arena.
type DeclID uint32

const (
	// NoDeclID marks the absence of a declaration reference.
	NoDeclID DeclID = 0
)

// IsValid reports whether the ID refers to an allocated declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// ExprID identifies an expression in the module arena.
type ExprID uint32

const (
	// NoExprID marks the absence of an expression reference.
	NoExprID ExprID = 0
)

// IsValid reports whether the ID refers to an allocated expression.
func (id ExprID) IsValid() bool { return id != NoExprID }
