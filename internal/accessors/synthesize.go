package accessors

import (
	"fmt"

	"kiln/internal/ir"
)

// constructorMarkerType is the extra trailing parameter that keeps a
// synthesized constructor's signature from clashing with the original.
const constructorMarkerType = "DefaultConstructorMarker"

func (l *Lowerer) synthesizeFunction(fn ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID, put func(ir.DeclID)) (ir.DeclID, error) {
	original := l.Module.Decls.Get(fn)
	if original == nil {
		return ir.NoDeclID, fmt.Errorf("accessors: synthesize function: unknown declaration %d", fn)
	}

	container, err := ResolveContainer(l.Module, fn, scopes)
	if err != nil {
		return ir.NoDeclID, err
	}
	if !container.IsValid() {
		container = l.Platform.AccessorDefaultParent(l.Module, fn)
	}

	markers := ClassifyFunction(l.Module, fn, scopes, superQualifier)
	var b NameBuilder
	l.Platform.ContributeFunctionName(&b, original)
	l.Platform.ContributeFunctionSuffix(&b, l.Module, markers)

	dispatch := ir.DispatchVirtual
	switch {
	case superQualifier.IsValid():
		dispatch = ir.DispatchSuper
	case original.IsStatic():
		dispatch = ir.DispatchStatic
	}

	id := l.Module.NewDecl(&ir.Decl{
		Name:       b.Build(),
		Kind:       ir.DeclFunction,
		Visibility: ir.VisPackage,
		Modality:   l.Platform.AccessorModality(l.Module.Decls.Get(container)),
		Origin:     ir.OriginSyntheticAccessor,
		Flags:      ir.FlagStatic,
		Parent:     container,
		Params:     forwardedParams(l.Module, original, container, nil),
		ReturnType: original.ReturnType,
		Body:       &ir.Body{Dispatch: dispatch, Target: fn, Super: superQualifier},
	})
	put(id)
	return id, nil
}

func (l *Lowerer) synthesizeFieldAccessor(kind AccessorKind, field ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID, put func(ir.DeclID)) (ir.DeclID, error) {
	original := l.Module.Decls.Get(field)
	if original == nil {
		return ir.NoDeclID, fmt.Errorf("accessors: synthesize field %s: unknown declaration %d", kind, field)
	}

	container, err := ResolveContainer(l.Module, field, scopes)
	if err != nil {
		return ir.NoDeclID, err
	}
	if !container.IsValid() {
		container = l.Platform.AccessorDefaultParent(l.Module, field)
	}

	markers := ClassifyField(l.Module, field, scopes, superQualifier)
	var b NameBuilder
	dispatch := ir.DispatchGetField
	returnType := original.ReturnType
	var extra []ir.Param
	if kind == AccessorFieldSetter {
		l.Platform.ContributeFieldSetterName(&b, original)
		dispatch = ir.DispatchSetField
		returnType = ""
		extra = []ir.Param{{Name: "value", Type: original.ReturnType}}
	} else {
		l.Platform.ContributeFieldGetterName(&b, original)
	}
	l.Platform.ContributeFieldAccessorSuffix(&b, l.Module, markers)

	id := l.Module.NewDecl(&ir.Decl{
		Name:       b.Build(),
		Kind:       ir.DeclFunction,
		Visibility: ir.VisPackage,
		Modality:   l.Platform.AccessorModality(l.Module.Decls.Get(container)),
		Origin:     ir.OriginSyntheticAccessor,
		Flags:      ir.FlagStatic,
		Parent:     container,
		Params:     forwardedParams(l.Module, original, container, extra),
		ReturnType: returnType,
		Body:       &ir.Body{Dispatch: dispatch, Target: field, Super: superQualifier},
	})
	put(id)
	return id, nil
}

func (l *Lowerer) synthesizeConstructor(kind AccessorKind, ctor ir.DeclID, put func(ir.DeclID)) (ir.DeclID, error) {
	original := l.Module.Decls.Get(ctor)
	if original == nil {
		return ir.NoDeclID, fmt.Errorf("accessors: synthesize constructor: unknown declaration %d", ctor)
	}
	class := l.Module.Decls.Get(original.Parent)
	if class == nil {
		return ir.NoDeclID, fmt.Errorf("accessors: constructor %q has no owning class", original.Name)
	}

	params := make([]ir.Param, 0, len(original.Params)+1)
	for _, p := range original.Params {
		params = append(params, ir.Param{
			Name:        p.Name,
			Type:        p.Type,
			Annotations: append([]ir.Annotation(nil), p.Annotations...),
		})
	}
	params = append(params, ir.Param{Name: "$marker", Type: constructorMarkerType})

	id := l.Module.NewDecl(&ir.Decl{
		Name:       original.Name,
		Kind:       ir.DeclConstructor,
		Visibility: ir.VisPackage,
		Modality:   ir.ModalityFinal,
		Origin:     ir.OriginSyntheticAccessor,
		Parent:     original.Parent,
		Params:     params,
		ReturnType: original.ReturnType,
		Body:       &ir.Body{Dispatch: ir.DispatchNew, Target: ctor},
	})
	put(id)

	// Downstream consumers must find the signature-accurate descriptor on
	// whichever constructor carries the mangled signature, so the mangled
	// variant takes the original's metadata and annotations with it. Sealed
	// hierarchies are closed and keep their descriptor in place.
	if kind == AccessorConstructorMangled && class.Modality != ir.ModalitySealed {
		l.Module.TransplantMetadata(ctor, id)
	}
	return id, nil
}

// forwardedParams builds the accessor parameter list: a leading receiver for
// instance members, the original parameters with their annotations, then any
// accessor-specific extras.
func forwardedParams(m *ir.Module, original *ir.Decl, container ir.DeclID, extra []ir.Param) []ir.Param {
	params := make([]ir.Param, 0, len(original.Params)+len(extra)+1)
	if !original.IsStatic() {
		ownerType := ""
		if owner := m.Decls.Get(m.EnclosingClass(original.Parent)); owner != nil {
			ownerType = owner.Name
		} else if c := m.Decls.Get(container); c != nil {
			ownerType = c.Name
		}
		params = append(params, ir.Param{Name: "$this", Type: ownerType})
	}
	for _, p := range original.Params {
		params = append(params, ir.Param{
			Name:        p.Name,
			Type:        p.Type,
			Annotations: append([]ir.Annotation(nil), p.Annotations...),
		})
	}
	return append(params, extra...)
}
