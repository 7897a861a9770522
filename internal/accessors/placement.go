package accessors

import (
	"fmt"

	"kiln/internal/ir"
)

// ResolveContainer picks the declaration-container that will own a new
// accessor for decl, given the scopes active at the triggering call site.
//
// Only the protected-static tier needs a search: such members must be reached
// through a receiver class inside the owner's hierarchy, so the accessor has
// to live in a candidate that is a subclass-or-self of the natural owner. The
// candidate set is ordered (anonymous objects, companions, classes) and the
// last qualifying candidate wins; when none qualifies the outermost class
// scope is used. Every other tier keeps the declaration's natural parent.
func ResolveContainer(m *ir.Module, decl ir.DeclID, scopes ScopeStack) (ir.DeclID, error) {
	d := m.Decls.Get(decl)
	if d == nil {
		return ir.NoDeclID, fmt.Errorf("accessors: resolve container: unknown declaration %d", decl)
	}
	if d.Visibility != ir.VisProtectedStatic {
		return m.EnclosingClass(decl), nil
	}

	owner := m.EnclosingClass(decl)
	chosen := ir.NoDeclID
	for _, candidate := range scopes.CandidateContainers(m) {
		if m.IsSubclassOfOrSelf(candidate, owner) {
			chosen = candidate
		}
	}
	if chosen.IsValid() {
		return chosen, nil
	}
	if outer := scopes.Outermost(m); outer.IsValid() {
		return outer, nil
	}
	// The front end guarantees a solvable placement; reaching this point is an
	// internal-consistency failure, not a user error.
	return ir.NoDeclID, fmt.Errorf("accessors: no legal container for %s %q", d.Kind, d.Name)
}
