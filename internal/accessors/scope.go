package accessors

import "kiln/internal/ir"

// ScopeStack is the ordered chain of lexically enclosing program-structure
// nodes active at a call site, innermost first. It is built per query and
// never persisted.
type ScopeStack struct {
	owners []ir.DeclID
}

// NewScopeStack builds a stack from class owners listed innermost first.
// Frames without a class owner are represented by ir.NoDeclID and skipped by
// the candidate enumeration.
func NewScopeStack(owners ...ir.DeclID) ScopeStack {
	return ScopeStack{owners: owners}
}

// Innermost returns the nearest class owner in the stack, or ir.NoDeclID.
func (s ScopeStack) Innermost(m *ir.Module) ir.DeclID {
	for _, owner := range s.owners {
		if owner.IsValid() && m.Decls.Get(owner) != nil {
			return owner
		}
	}
	return ir.NoDeclID
}

// Outermost returns the last class owner in the stack, or ir.NoDeclID.
func (s ScopeStack) Outermost(m *ir.Module) ir.DeclID {
	for i := len(s.owners) - 1; i >= 0; i-- {
		if owner := s.owners[i]; owner.IsValid() && m.Decls.Get(owner) != nil {
			return owner
		}
	}
	return ir.NoDeclID
}

// CandidateContainers derives the ordered container candidate set for
// accessor placement: anonymous-object classes found in any frame, then
// companion objects of classes found in any frame, then the class scopes
// themselves. Frame order is preserved inside each group.
func (s ScopeStack) CandidateContainers(m *ir.Module) []ir.DeclID {
	candidates := make([]ir.DeclID, 0, len(s.owners)*2)
	for _, owner := range s.owners {
		if decl := m.Decls.Get(owner); decl != nil && decl.IsAnonymous() {
			candidates = append(candidates, owner)
		}
	}
	for _, owner := range s.owners {
		if companion := m.CompanionOf(owner); companion.IsValid() {
			candidates = append(candidates, companion)
		}
	}
	for _, owner := range s.owners {
		if decl := m.Decls.Get(owner); decl != nil && decl.IsClassLike() && !decl.IsAnonymous() {
			candidates = append(candidates, owner)
		}
	}
	return candidates
}
