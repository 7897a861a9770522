package accessors

import (
	"testing"

	"kiln/internal/ir"
)

func newLowererFixture(t *testing.T) (*Lowerer, *ir.Module) {
	t.Helper()
	m := ir.NewModule("synth")
	return NewLowerer(m, NewJVMPlatform(DefaultMarkers())), m
}

func TestFunctionAccessorNameIsStable(t *testing.T) {
	// Same declaration, fresh lowerer per "recompile": names must come out
	// byte-identical because they depend on nothing but the declaration and
	// the call-site classification.
	var names []string
	for i := 0; i < 2; i++ {
		l, m := newLowererFixture(t)
		outer := m.NewDecl(&ir.Decl{Name: "C", Kind: ir.DeclClass})
		inner := m.NewDecl(&ir.Decl{Name: "Inner", Kind: ir.DeclClass, Parent: outer})
		fn := m.NewDecl(&ir.Decl{Name: "m", Kind: ir.DeclFunction, Visibility: ir.VisPrivate, Parent: outer})

		id, err := l.GetOrCreateFunctionAccessor(fn, NewScopeStack(inner, outer), ir.NoDeclID)
		if err != nil {
			t.Fatalf("synthesis failed: %v", err)
		}
		names = append(names, m.Decls.Get(id).Name)
	}
	if names[0] != names[1] {
		t.Fatalf("accessor names differ across runs: %q vs %q", names[0], names[1])
	}
	if names[0] != "access$m" {
		t.Fatalf("private method with no markers: got %q, want %q", names[0], "access$m")
	}
}

func TestFunctionAccessorForwardsPositionally(t *testing.T) {
	l, m := newLowererFixture(t)
	outer := m.NewDecl(&ir.Decl{Name: "C", Kind: ir.DeclClass})
	inner := m.NewDecl(&ir.Decl{Name: "Inner", Kind: ir.DeclClass, Parent: outer})
	fn := m.NewDecl(&ir.Decl{
		Name: "calc", Kind: ir.DeclFunction,
		Visibility: ir.VisPrivate, Parent: outer,
		Params:     []ir.Param{{Name: "a", Type: "Int"}, {Name: "b", Type: "String"}},
		ReturnType: "Long",
	})

	id, err := l.GetOrCreateFunctionAccessor(fn, NewScopeStack(inner, outer), ir.NoDeclID)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	acc := m.Decls.Get(id)
	if acc.Origin != ir.OriginSyntheticAccessor {
		t.Fatalf("accessor must carry the synthetic origin, got %v", acc.Origin)
	}
	if !acc.IsStatic() {
		t.Fatalf("accessors are emitted as statics")
	}
	if acc.ReturnType != "Long" {
		t.Fatalf("return type must pass through unchanged, got %q", acc.ReturnType)
	}
	// Instance member: leading receiver, then the original params in order.
	wantParams := []string{"$this", "a", "b"}
	if len(acc.Params) != len(wantParams) {
		t.Fatalf("got %d params, want %d", len(acc.Params), len(wantParams))
	}
	for i, want := range wantParams {
		if acc.Params[i].Name != want {
			t.Fatalf("param %d is %q, want %q", i, acc.Params[i].Name, want)
		}
	}
	if acc.Body == nil || acc.Body.Target != fn || acc.Body.Dispatch != ir.DispatchVirtual {
		t.Fatalf("body must forward virtually to the original, got %+v", acc.Body)
	}
	if acc.Modality != ir.ModalityFinal {
		t.Fatalf("class-owned accessors are final, got %v", acc.Modality)
	}
}

func TestInterfaceOwnedAccessorStaysOpen(t *testing.T) {
	l, m := newLowererFixture(t)
	iface := m.NewDecl(&ir.Decl{Name: "Iface", Kind: ir.DeclInterface, Modality: ir.ModalityAbstract})
	impls := m.NewDecl(&ir.Decl{Name: "DefaultImpls", Kind: ir.DeclClass, Origin: ir.OriginDefaultImpls, Parent: iface})
	fn := m.NewDecl(&ir.Decl{Name: "hidden", Kind: ir.DeclFunction, Visibility: ir.VisPrivate, Parent: iface})

	id, err := l.GetOrCreateFunctionAccessor(fn, NewScopeStack(impls, iface), ir.NoDeclID)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	acc := m.Decls.Get(id)
	if m.Decls.Get(acc.Parent).Kind != ir.DeclInterface {
		t.Fatalf("accessor should live on the interface, got parent %d", acc.Parent)
	}
	if acc.Modality != ir.ModalityOpen {
		t.Fatalf("interface-owned accessors stay overridable, got %v", acc.Modality)
	}
}

func TestFieldAccessorNames(t *testing.T) {
	l, m := newLowererFixture(t)
	host := m.NewDecl(&ir.Decl{Name: "Host", Kind: ir.DeclClass})
	nested := m.NewDecl(&ir.Decl{Name: "Nested", Kind: ir.DeclClass, Parent: host})
	field := m.NewDecl(&ir.Decl{
		Name: "state", Kind: ir.DeclField,
		Visibility: ir.VisPrivate, Parent: host, ReturnType: "Int",
	})
	scopes := NewScopeStack(nested, host)

	getter, err := l.GetOrCreateFieldGetter(field, scopes, ir.NoDeclID)
	if err != nil {
		t.Fatalf("getter synthesis failed: %v", err)
	}
	setter, err := l.GetOrCreateFieldSetter(field, scopes, ir.NoDeclID)
	if err != nil {
		t.Fatalf("setter synthesis failed: %v", err)
	}

	g := m.Decls.Get(getter)
	s := m.Decls.Get(setter)
	if g.Name != "access$getState$p" {
		t.Fatalf("getter name %q, want %q", g.Name, "access$getState$p")
	}
	if s.Name != "access$setState$p" {
		t.Fatalf("setter name %q, want %q", s.Name, "access$setState$p")
	}
	if g.ReturnType != "Int" {
		t.Fatalf("getter returns the field type, got %q", g.ReturnType)
	}
	if s.ReturnType != "" {
		t.Fatalf("setter returns nothing, got %q", s.ReturnType)
	}
	last := s.Params[len(s.Params)-1]
	if last.Name != "value" || last.Type != "Int" {
		t.Fatalf("setter takes a trailing value param, got %+v", last)
	}
	if g.Body.Dispatch != ir.DispatchGetField || s.Body.Dispatch != ir.DispatchSetField {
		t.Fatalf("field accessors must use field dispatch, got %v/%v", g.Body.Dispatch, s.Body.Dispatch)
	}
}

func TestCompanionFieldAccessorName(t *testing.T) {
	l, m := newLowererFixture(t)
	host := m.NewDecl(&ir.Decl{Name: "Host", Kind: ir.DeclClass})
	nested := m.NewDecl(&ir.Decl{Name: "Nested", Kind: ir.DeclClass, Parent: host})
	field := m.NewDecl(&ir.Decl{
		Name: "shared", Kind: ir.DeclField,
		Visibility: ir.VisPrivate, Origin: ir.OriginMovedCompanionField,
		Parent: host, ReturnType: "Int",
	})

	id, err := l.GetOrCreateFieldGetter(field, NewScopeStack(nested, host), ir.NoDeclID)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	if got := m.Decls.Get(id).Name; got != "access$getShared$cp" {
		t.Fatalf("got %q, want %q", got, "access$getShared$cp")
	}
}

func TestSuperQualifiedAccessorNameAndDispatch(t *testing.T) {
	l, m := newLowererFixture(t)
	base := m.NewDecl(&ir.Decl{Name: "Base", Kind: ir.DeclClass, Modality: ir.ModalityOpen})
	derived := m.NewDecl(&ir.Decl{Name: "Derived", Kind: ir.DeclClass, Super: base})
	fn := m.NewDecl(&ir.Decl{Name: "greet", Kind: ir.DeclFunction, Visibility: ir.VisPublic, Parent: base})

	id, err := l.GetOrCreateFunctionAccessor(fn, NewScopeStack(derived), base)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	acc := m.Decls.Get(id)
	// "Base".hashCode() == 2063089.
	if acc.Name != "access$greet$s2063089" {
		t.Fatalf("got %q, want %q", acc.Name, "access$greet$s2063089")
	}
	if acc.Body.Dispatch != ir.DispatchSuper || acc.Body.Super != base {
		t.Fatalf("super call must keep super dispatch to Base, got %+v", acc.Body)
	}
}

func TestMangledConstructorAccessorTransplantsMetadata(t *testing.T) {
	l, m := newLowererFixture(t)
	class := m.NewDecl(&ir.Decl{Name: "Payload", Kind: ir.DeclClass})
	ctor := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPackage, Origin: ir.OriginDefaultParamStub,
		Flags:       ir.FlagMangledParams,
		Parent:      class,
		Params:      []ir.Param{{Name: "data", Type: "String", Annotations: []ir.Annotation{{Name: "Named"}}}},
		Annotations: []ir.Annotation{{Name: "Serial"}},
		Metadata:    &ir.Metadata{Raw: []byte{0xCA, 0xFE}},
	})

	id, err := l.GetOrCreateConstructorAccessor(ctor)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	acc := m.Decls.Get(id)
	orig := m.Decls.Get(ctor)

	if acc.Metadata == nil || len(acc.Metadata.Raw) != 2 {
		t.Fatalf("mangled accessor must carry the transplanted descriptor")
	}
	if len(acc.Annotations) != 1 || acc.Annotations[0].Name != "Serial" {
		t.Fatalf("mangled accessor must carry the annotations, got %v", acc.Annotations)
	}
	if orig.Metadata != nil || orig.Annotations != nil {
		t.Fatalf("original descriptor and annotations must be cleared")
	}
	if orig.Params[0].Annotations != nil {
		t.Fatalf("original parameter annotations must be cleared")
	}
	last := acc.Params[len(acc.Params)-1]
	if last.Type != constructorMarkerType {
		t.Fatalf("accessor signature needs the trailing marker param, got %+v", last)
	}
	if acc.Body.Dispatch != ir.DispatchNew || acc.Body.Target != ctor {
		t.Fatalf("accessor must delegate to the original constructor, got %+v", acc.Body)
	}
}

func TestSealedConstructorAccessorKeepsMetadataInPlace(t *testing.T) {
	l, m := newLowererFixture(t)
	class := m.NewDecl(&ir.Decl{Name: "Shape", Kind: ir.DeclClass, Modality: ir.ModalitySealed})
	ctor := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisProtected, Origin: ir.OriginExternalStub,
		Parent:      class,
		Annotations: []ir.Annotation{{Name: "Serial"}},
		Metadata:    &ir.Metadata{Raw: []byte{0xBE, 0xEF}},
	})

	id, err := l.GetOrCreateConstructorAccessor(ctor)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	acc := m.Decls.Get(id)
	orig := m.Decls.Get(ctor)

	if acc.Metadata != nil || acc.Annotations != nil {
		t.Fatalf("sealed-class accessor must not take the descriptor or annotations")
	}
	if orig.Metadata == nil || len(orig.Annotations) != 1 {
		t.Fatalf("sealed hierarchy keeps the original descriptor intact")
	}
}

func TestConstructorAccessorNotNeeded(t *testing.T) {
	l, m := newLowererFixture(t)
	class := m.NewDecl(&ir.Decl{Name: "Plain", Kind: ir.DeclClass})
	ctor := m.NewDecl(&ir.Decl{Name: "<init>", Kind: ir.DeclConstructor, Visibility: ir.VisPublic, Parent: class})

	id, err := l.GetOrCreateConstructorAccessor(ctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.IsValid() {
		t.Fatalf("ordinary public constructor needs no accessor, got %d", id)
	}
	if l.Cache().Len() != 0 {
		t.Fatalf("nothing should be cached, got %d entries", l.Cache().Len())
	}
}
