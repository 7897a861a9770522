package accessors

import "kiln/internal/ir"

// AccessorKind identifies which flavor of accessor a declaration needs. The
// set is closed; per-platform variation goes through the Platform interface,
// not through new kinds.
type AccessorKind uint8

const (
	AccessorInvalid AccessorKind = iota
	// AccessorFunction wraps a function call.
	AccessorFunction
	// AccessorFieldGetter wraps a field read.
	AccessorFieldGetter
	// AccessorFieldSetter wraps a field write.
	AccessorFieldSetter
	// AccessorConstructorMangled wraps a hidden constructor with mangled
	// parameters.
	AccessorConstructorMangled
	// AccessorConstructorSealed wraps a hidden constructor of a sealed class.
	AccessorConstructorSealed
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorFunction:
		return "function"
	case AccessorFieldGetter:
		return "field-getter"
	case AccessorFieldSetter:
		return "field-setter"
	case AccessorConstructorMangled:
		return "constructor-mangled"
	case AccessorConstructorSealed:
		return "constructor-sealed"
	default:
		return "invalid"
	}
}

// MarkerKind distinguishes the disambiguating suffix markers an accessor name
// may carry.
type MarkerKind uint8

const (
	// MarkerInterfaceDefault marks access from an interface default-impls
	// holder.
	MarkerInterfaceDefault MarkerKind = iota
	// MarkerSuperQualifier marks a super-qualified or protected-static
	// access; Qualifier names the disambiguating class.
	MarkerSuperQualifier
	// MarkerCompanionProperty marks a relocated companion backing field.
	MarkerCompanionProperty
	// MarkerProperty marks an ordinary field access.
	MarkerProperty
)

// Marker is one suffix marker plus its qualifying class, when the kind takes
// one.
type Marker struct {
	Kind      MarkerKind
	Qualifier ir.DeclID
}

// ClassifyFunction decides the suffix markers for a function accessor. Pure;
// evaluated with the precedence fixed by the emitted-name scheme:
//
//  1. access from the function's own interface default-impls holder adds the
//     interface-default marker, except for private functions (no clash risk);
//  2. top-level functions never get suffix markers;
//  3. a super-qualified call adds the super marker for the named ancestor;
//  4. otherwise a protected static function adds the super marker for its own
//     owning class, telling apart accessors reached through different
//     branches of the hierarchy.
func ClassifyFunction(m *ir.Module, fn ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) []Marker {
	decl := m.Decls.Get(fn)
	if decl == nil {
		return nil
	}

	var markers []Marker
	if inner := scopes.Innermost(m); inner.IsValid() {
		if holder := m.Decls.Get(inner); holder != nil &&
			holder.Origin == ir.OriginDefaultImpls &&
			holder.Parent == decl.Parent &&
			decl.Visibility != ir.VisPrivate {
			markers = append(markers, Marker{Kind: MarkerInterfaceDefault})
		}
	}

	if m.IsTopLevel(fn) {
		return markers
	}

	switch {
	case superQualifier.IsValid():
		markers = append(markers, Marker{Kind: MarkerSuperQualifier, Qualifier: superQualifier})
	case decl.IsStatic() && isProtectedTier(decl.Visibility):
		markers = append(markers, Marker{Kind: MarkerSuperQualifier, Qualifier: decl.Parent})
	}
	return markers
}

// ClassifyField decides the suffix markers for a field accessor: the
// companion-property marker when the backing field was relocated out of a
// companion, the generic property marker otherwise, plus the super marker
// under the same rules as for functions.
func ClassifyField(m *ir.Module, field ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) []Marker {
	decl := m.Decls.Get(field)
	if decl == nil {
		return nil
	}

	var markers []Marker
	if decl.Origin == ir.OriginMovedCompanionField {
		markers = append(markers, Marker{Kind: MarkerCompanionProperty})
	} else {
		markers = append(markers, Marker{Kind: MarkerProperty})
	}

	if m.IsTopLevel(field) {
		return markers
	}

	switch {
	case superQualifier.IsValid():
		markers = append(markers, Marker{Kind: MarkerSuperQualifier, Qualifier: superQualifier})
	case decl.IsStatic() && isProtectedTier(decl.Visibility):
		markers = append(markers, Marker{Kind: MarkerSuperQualifier, Qualifier: decl.Parent})
	}
	return markers
}

func isProtectedTier(v ir.Visibility) bool {
	return v == ir.VisProtected || v == ir.VisProtectedStatic
}

// ConstructorKind selects between the constructor accessor variants, or
// reports that the constructor needs none. A constructor qualifies only when
// its origin already masks it from user code; an accessor itself never gets
// another one, so re-lowering a lowered module is a no-op.
func ConstructorKind(m *ir.Module, ctor ir.DeclID) (AccessorKind, bool) {
	decl := m.Decls.Get(ctor)
	if decl == nil || decl.Kind != ir.DeclConstructor ||
		decl.Origin == ir.OriginSyntheticAccessor || !decl.Origin.IsMasked() {
		return AccessorInvalid, false
	}
	class := m.Decls.Get(decl.Parent)
	if class == nil {
		return AccessorInvalid, false
	}

	if class.Modality == ir.ModalitySealed && decl.Visibility != ir.VisPublic {
		return AccessorConstructorSealed, true
	}

	original := m.Decls.Get(m.OriginalConstructor(ctor))
	if decl.Visibility != ir.VisPrivate &&
		!class.IsValueClass() &&
		original != nil && original.HasMangledParams() &&
		!class.IsAnonymous() {
		return AccessorConstructorMangled, true
	}
	return AccessorInvalid, false
}

// NeedsFunctionAccessor reports whether referencing fn from the given scopes
// crosses a boundary the platform's own access checks would reject.
func NeedsFunctionAccessor(m *ir.Module, fn ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) bool {
	return needsMemberAccessor(m, fn, scopes, superQualifier)
}

// NeedsFieldAccessor reports whether a direct field reference from the given
// scopes needs bridging.
func NeedsFieldAccessor(m *ir.Module, field ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) bool {
	return needsMemberAccessor(m, field, scopes, superQualifier)
}

func needsMemberAccessor(m *ir.Module, member ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) bool {
	decl := m.Decls.Get(member)
	if decl == nil || decl.Origin == ir.OriginSyntheticAccessor {
		return false
	}
	// Explicit super-qualified dispatch cannot be expressed from a nested
	// context on the platform; it always needs a bridge.
	if superQualifier.IsValid() {
		return true
	}
	switch decl.Visibility {
	case ir.VisPrivate:
		// Legal only from the member's own class.
		return scopes.Innermost(m) != m.EnclosingClass(member)
	case ir.VisProtected, ir.VisProtectedStatic:
		// Legal from any enclosing class inside the owner's hierarchy.
		owner := m.EnclosingClass(member)
		for _, candidate := range scopes.CandidateContainers(m) {
			if m.IsSubclassOfOrSelf(candidate, owner) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
