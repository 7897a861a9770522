package accessors

import (
	"testing"

	"kiln/internal/ir"
)

// fixture builds a small hierarchy shared by the classifier and placement
// tests:
//
//	interface Iface { private fun secret(); fun visible() }  + DefaultImpls
//	open class Base { protected static fun shared() }
//	class Derived : Base
func newClassifierFixture(t *testing.T) (*ir.Module, map[string]ir.DeclID) {
	t.Helper()
	m := ir.NewModule("classify")
	ids := make(map[string]ir.DeclID)

	ids["Iface"] = m.NewDecl(&ir.Decl{Name: "Iface", Kind: ir.DeclInterface, Modality: ir.ModalityAbstract})
	ids["secret"] = m.NewDecl(&ir.Decl{Name: "secret", Kind: ir.DeclFunction, Visibility: ir.VisPrivate, Parent: ids["Iface"]})
	ids["visible"] = m.NewDecl(&ir.Decl{Name: "visible", Kind: ir.DeclFunction, Visibility: ir.VisPublic, Parent: ids["Iface"]})
	ids["DefaultImpls"] = m.NewDecl(&ir.Decl{Name: "DefaultImpls", Kind: ir.DeclClass, Origin: ir.OriginDefaultImpls, Parent: ids["Iface"]})

	ids["Base"] = m.NewDecl(&ir.Decl{Name: "Base", Kind: ir.DeclClass, Modality: ir.ModalityOpen})
	ids["shared"] = m.NewDecl(&ir.Decl{
		Name: "shared", Kind: ir.DeclFunction,
		Visibility: ir.VisProtectedStatic, Flags: ir.FlagStatic,
		Parent: ids["Base"],
	})
	ids["Derived"] = m.NewDecl(&ir.Decl{Name: "Derived", Kind: ir.DeclClass, Super: ids["Base"]})

	ids["topLevel"] = m.NewDecl(&ir.Decl{Name: "topLevel", Kind: ir.DeclFunction, Visibility: ir.VisPrivate})

	return m, ids
}

func TestClassifyPrivateFromDefaultImplsGetsNoDefaultMarker(t *testing.T) {
	m, ids := newClassifierFixture(t)
	scopes := NewScopeStack(ids["DefaultImpls"], ids["Iface"])

	markers := ClassifyFunction(m, ids["secret"], scopes, ir.NoDeclID)
	for _, marker := range markers {
		if marker.Kind == MarkerInterfaceDefault {
			t.Fatalf("private interface members never get the interface-default marker")
		}
	}
}

func TestClassifyNonPrivateFromDefaultImplsGetsDefaultMarker(t *testing.T) {
	m, ids := newClassifierFixture(t)
	scopes := NewScopeStack(ids["DefaultImpls"], ids["Iface"])

	markers := ClassifyFunction(m, ids["visible"], scopes, ir.NoDeclID)
	if len(markers) != 1 || markers[0].Kind != MarkerInterfaceDefault {
		t.Fatalf("expected exactly the interface-default marker, got %v", markers)
	}
}

func TestClassifyTopLevelGetsNoSuffix(t *testing.T) {
	m, ids := newClassifierFixture(t)
	scopes := NewScopeStack(ids["Derived"])

	// Even a super-qualified request contributes nothing for top-level
	// symbols: their names cannot clash.
	markers := ClassifyFunction(m, ids["topLevel"], scopes, ids["Base"])
	if len(markers) != 0 {
		t.Fatalf("top-level functions take no suffix markers, got %v", markers)
	}
}

func TestClassifySuperQualifiedCall(t *testing.T) {
	m, ids := newClassifierFixture(t)
	scopes := NewScopeStack(ids["Derived"])

	markers := ClassifyFunction(m, ids["visible"], scopes, ids["Base"])
	if len(markers) != 1 || markers[0].Kind != MarkerSuperQualifier || markers[0].Qualifier != ids["Base"] {
		t.Fatalf("expected super marker qualified by Base, got %v", markers)
	}
}

func TestClassifyProtectedStaticUsesOwnClassQualifier(t *testing.T) {
	m, ids := newClassifierFixture(t)
	scopes := NewScopeStack(ids["Derived"])

	markers := ClassifyFunction(m, ids["shared"], scopes, ir.NoDeclID)
	if len(markers) != 1 || markers[0].Kind != MarkerSuperQualifier || markers[0].Qualifier != ids["Base"] {
		t.Fatalf("expected super marker qualified by the owning class, got %v", markers)
	}
}

func TestClassifyFieldMarkers(t *testing.T) {
	m := ir.NewModule("fields")
	host := m.NewDecl(&ir.Decl{Name: "Host", Kind: ir.DeclClass})
	plain := m.NewDecl(&ir.Decl{Name: "count", Kind: ir.DeclField, Visibility: ir.VisPrivate, Parent: host})
	moved := m.NewDecl(&ir.Decl{
		Name: "state", Kind: ir.DeclField,
		Visibility: ir.VisPrivate, Origin: ir.OriginMovedCompanionField,
		Parent: host,
	})
	scopes := NewScopeStack(host)

	markers := ClassifyField(m, plain, scopes, ir.NoDeclID)
	if len(markers) != 1 || markers[0].Kind != MarkerProperty {
		t.Fatalf("ordinary field takes the generic property marker, got %v", markers)
	}

	markers = ClassifyField(m, moved, scopes, ir.NoDeclID)
	if len(markers) != 1 || markers[0].Kind != MarkerCompanionProperty {
		t.Fatalf("relocated companion field takes the companion marker, got %v", markers)
	}
}

func TestConstructorKindSelection(t *testing.T) {
	m := ir.NewModule("ctors")

	sealed := m.NewDecl(&ir.Decl{Name: "Sealed", Kind: ir.DeclClass, Modality: ir.ModalitySealed})
	sealedCtor := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisProtected, Origin: ir.OriginDefaultParamStub,
		Parent: sealed,
	})

	plain := m.NewDecl(&ir.Decl{Name: "Plain", Kind: ir.DeclClass})
	mangledCtor := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPackage, Origin: ir.OriginExternalStub,
		Flags: ir.FlagMangledParams, Parent: plain,
	})
	userCtor := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPackage, Flags: ir.FlagMangledParams, Parent: plain,
	})
	privateCtor := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPrivate, Origin: ir.OriginExternalStub,
		Flags: ir.FlagMangledParams, Parent: plain,
	})

	if kind, ok := ConstructorKind(m, sealedCtor); !ok || kind != AccessorConstructorSealed {
		t.Fatalf("hidden non-public sealed-class constructor: got %v/%v", kind, ok)
	}
	if kind, ok := ConstructorKind(m, mangledCtor); !ok || kind != AccessorConstructorMangled {
		t.Fatalf("hidden mangled constructor: got %v/%v", kind, ok)
	}
	if _, ok := ConstructorKind(m, userCtor); ok {
		t.Fatalf("user-code constructors are never origin-masked")
	}
	if _, ok := ConstructorKind(m, privateCtor); ok {
		t.Fatalf("private constructors take no mangled accessor")
	}

	accessorCtor := m.NewDecl(&ir.Decl{
		Name: "access$<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPackage, Origin: ir.OriginSyntheticAccessor,
		Parent: sealed,
	})
	if _, ok := ConstructorKind(m, accessorCtor); ok {
		t.Fatalf("an already synthesized accessor never gets another one")
	}
}

func TestConstructorKindFollowsValueClassReplacement(t *testing.T) {
	m := ir.NewModule("ctors")
	class := m.NewDecl(&ir.Decl{Name: "Holder", Kind: ir.DeclClass})
	orig := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPackage, Flags: ir.FlagMangledParams, Parent: class,
	})
	repl := m.NewDecl(&ir.Decl{
		Name: "<init>", Kind: ir.DeclConstructor,
		Visibility: ir.VisPackage, Origin: ir.OriginExternalStub, Parent: class,
	})
	m.ValueClassReplacements[repl] = orig

	// The replacement itself carries no mangled flag; the original does.
	if kind, ok := ConstructorKind(m, repl); !ok || kind != AccessorConstructorMangled {
		t.Fatalf("mangling must be read off the replacement-resolved original, got %v/%v", kind, ok)
	}
}
