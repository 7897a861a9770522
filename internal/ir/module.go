package ir

// Module is one compilation unit's declaration tree plus the call sites the
// front end flagged for accessor lowering. All cross-references are arena IDs.
type Module struct {
	Name  string
	Decls *Decls
	Exprs *Exprs

	// Roots lists top-level declarations in source order.
	Roots []DeclID

	// Sites lists the references the lowering must inspect, in source order.
	Sites []CallSite

	// ValueClassReplacements maps a constructor synthesized for a
	// multi-field value class back to the constructor it replaced.
	ValueClassReplacements map[DeclID]DeclID
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:                   name,
		Decls:                  NewDecls(0),
		Exprs:                  NewExprs(0),
		ValueClassReplacements: make(map[DeclID]DeclID),
	}
}

// NewDecl allocates a declaration and, when its parent is valid, registers it
// as a member of the parent.
func (m *Module) NewDecl(decl *Decl) DeclID {
	id := m.Decls.New(decl)
	if decl.Parent.IsValid() {
		if parent := m.Decls.Get(decl.Parent); parent != nil {
			parent.Members = append(parent.Members, id)
		}
	} else {
		m.Roots = append(m.Roots, id)
	}
	return id
}

// Attach moves a declaration under a new container. Used when the placement
// resolver picks a container other than the natural parent.
func (m *Module) Attach(child, container DeclID) {
	decl := m.Decls.Get(child)
	if decl == nil {
		return
	}
	if old := m.Decls.Get(decl.Parent); old != nil {
		for i, member := range old.Members {
			if member == child {
				old.Members = append(old.Members[:i], old.Members[i+1:]...)
				break
			}
		}
	}
	decl.Parent = container
	if parent := m.Decls.Get(container); parent != nil {
		parent.Members = append(parent.Members, child)
	}
}

// IsSubclassOfOrSelf walks the superclass chain of sub looking for super.
func (m *Module) IsSubclassOfOrSelf(sub, super DeclID) bool {
	if !sub.IsValid() || !super.IsValid() {
		return false
	}
	for cur := sub; cur.IsValid(); {
		if cur == super {
			return true
		}
		decl := m.Decls.Get(cur)
		if decl == nil {
			return false
		}
		cur = decl.Super
	}
	return false
}

// CompanionOf returns the companion object declared inside class, or NoDeclID.
func (m *Module) CompanionOf(class DeclID) DeclID {
	decl := m.Decls.Get(class)
	if decl == nil || !decl.IsClassLike() {
		return NoDeclID
	}
	for _, member := range decl.Members {
		if md := m.Decls.Get(member); md != nil && md.Kind == DeclClass && md.IsCompanion() {
			return member
		}
	}
	return NoDeclID
}

// EnclosingClass returns the nearest class-like ancestor of id, or id itself
// when it already is one.
func (m *Module) EnclosingClass(id DeclID) DeclID {
	for cur := id; cur.IsValid(); {
		decl := m.Decls.Get(cur)
		if decl == nil {
			return NoDeclID
		}
		if decl.IsClassLike() {
			return cur
		}
		cur = decl.Parent
	}
	return NoDeclID
}

// IsTopLevel reports whether the declaration has no enclosing container.
func (m *Module) IsTopLevel(id DeclID) bool {
	decl := m.Decls.Get(id)
	return decl != nil && !decl.Parent.IsValid()
}

// OriginalConstructor resolves a constructor through the multi-field
// value-class replacement mapping, if any.
func (m *Module) OriginalConstructor(ctor DeclID) DeclID {
	if orig, ok := m.ValueClassReplacements[ctor]; ok && orig.IsValid() {
		return orig
	}
	return ctor
}

// TransplantMetadata moves the metadata descriptor and all annotations from
// one declaration to another and clears them on the source. Parameter
// annotations on the source are cleared as well; the destination keeps its
// own parameter annotations (already copied during synthesis).
func (m *Module) TransplantMetadata(from, to DeclID) {
	src := m.Decls.Get(from)
	dst := m.Decls.Get(to)
	if src == nil || dst == nil {
		return
	}
	dst.Metadata = src.Metadata
	dst.Annotations = src.Annotations
	src.Metadata = nil
	src.Annotations = nil
	for i := range src.Params {
		src.Params[i].Annotations = nil
	}
}
