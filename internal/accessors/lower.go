// Package accessors synthesizes the forwarding declarations a JVM-like
// target needs when a reference crosses one of its visibility boundaries:
// private members reached from nested classes, protected statics reached
// through another hierarchy branch, super-qualified dispatch from lambdas,
// and hidden constructors. Each accessor is a thin positional forwarder,
// named deterministically from structural facts about the call site, placed
// in a container the platform's own access checks accept, and memoized per
// compilation unit.
package accessors

import (
	"fmt"

	"kiln/internal/ir"
)

// Lowerer drives accessor synthesis for one compilation unit. It owns the
// unit's cache and must be used from a single goroutine.
type Lowerer struct {
	Module   *ir.Module
	Platform Platform

	cache *Cache
}

// NewLowerer creates a lowerer over one module.
func NewLowerer(m *ir.Module, platform Platform) *Lowerer {
	return &Lowerer{
		Module:   m,
		Platform: platform,
		cache:    NewCache(),
	}
}

// Cache exposes the unit's accessor cache, mainly for reporting.
func (l *Lowerer) Cache() *Cache { return l.cache }

// NeedsFunctionAccessor reports whether the reference needs bridging at all.
func (l *Lowerer) NeedsFunctionAccessor(fn ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) bool {
	return NeedsFunctionAccessor(l.Module, fn, scopes, superQualifier)
}

// NeedsFieldAccessor reports whether a direct field reference needs bridging.
func (l *Lowerer) NeedsFieldAccessor(field ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) bool {
	return NeedsFieldAccessor(l.Module, field, scopes, superQualifier)
}

// GetOrCreateFunctionAccessor returns the accessor for fn, synthesizing it on
// first request. Repeat requests from any call site return the same
// declaration.
func (l *Lowerer) GetOrCreateFunctionAccessor(fn ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) (ir.DeclID, error) {
	key := AccessorKey{Decl: fn, Kind: AccessorFunction}
	return l.cache.GetOrCreate(key, func(put func(ir.DeclID)) (ir.DeclID, error) {
		return l.synthesizeFunction(fn, scopes, superQualifier, put)
	})
}

// GetOrCreateFieldGetter returns the read accessor for field.
func (l *Lowerer) GetOrCreateFieldGetter(field ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) (ir.DeclID, error) {
	key := AccessorKey{Decl: field, Kind: AccessorFieldGetter}
	return l.cache.GetOrCreate(key, func(put func(ir.DeclID)) (ir.DeclID, error) {
		return l.synthesizeFieldAccessor(AccessorFieldGetter, field, scopes, superQualifier, put)
	})
}

// GetOrCreateFieldSetter returns the write accessor for field.
func (l *Lowerer) GetOrCreateFieldSetter(field ir.DeclID, scopes ScopeStack, superQualifier ir.DeclID) (ir.DeclID, error) {
	key := AccessorKey{Decl: field, Kind: AccessorFieldSetter}
	return l.cache.GetOrCreate(key, func(put func(ir.DeclID)) (ir.DeclID, error) {
		return l.synthesizeFieldAccessor(AccessorFieldSetter, field, scopes, superQualifier, put)
	})
}

// GetOrCreateConstructorAccessor returns the accessor for a hidden
// constructor, or ir.NoDeclID when the constructor needs none.
func (l *Lowerer) GetOrCreateConstructorAccessor(ctor ir.DeclID) (ir.DeclID, error) {
	kind, ok := ConstructorKind(l.Module, ctor)
	if !ok {
		return ir.NoDeclID, nil
	}
	key := AccessorKey{Decl: ctor, Kind: kind}
	return l.cache.GetOrCreate(key, func(put func(ir.DeclID)) (ir.DeclID, error) {
		return l.synthesizeConstructor(kind, ctor, put)
	})
}

// LowerModule walks the module's flagged call sites in source order,
// synthesizes whatever accessors they need and retargets the references.
// Deterministic and idempotent: re-running over an already lowered module
// changes nothing.
func (l *Lowerer) LowerModule() error {
	for _, site := range l.Module.Sites {
		if err := l.lowerSite(site); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerSite(site ir.CallSite) error {
	expr := l.Module.Exprs.Get(site.Expr)
	if expr == nil {
		return fmt.Errorf("accessors: call site references unknown expression %d", site.Expr)
	}
	target := l.Module.Decls.Get(expr.Target)
	if target == nil {
		return fmt.Errorf("accessors: call site targets unknown declaration %d", expr.Target)
	}
	scopes := NewScopeStack(site.Owners...)

	switch expr.Kind {
	case ir.ExprCall:
		if !l.NeedsFunctionAccessor(expr.Target, scopes, expr.Super) {
			return nil
		}
		accessor, err := l.GetOrCreateFunctionAccessor(expr.Target, scopes, expr.Super)
		if err != nil {
			return err
		}
		RewriteCall(expr, accessor)
	case ir.ExprGetField:
		if !l.NeedsFieldAccessor(expr.Target, scopes, expr.Super) {
			return nil
		}
		accessor, err := l.GetOrCreateFieldGetter(expr.Target, scopes, expr.Super)
		if err != nil {
			return err
		}
		RewriteCall(expr, accessor)
	case ir.ExprSetField:
		if !l.NeedsFieldAccessor(expr.Target, scopes, expr.Super) {
			return nil
		}
		accessor, err := l.GetOrCreateFieldSetter(expr.Target, scopes, expr.Super)
		if err != nil {
			return err
		}
		RewriteCall(expr, accessor)
	case ir.ExprNew:
		accessor, err := l.GetOrCreateConstructorAccessor(expr.Target)
		if err != nil {
			return err
		}
		if accessor.IsValid() {
			RewriteNew(expr, accessor)
		}
	}
	return nil
}

// Synthesized describes one cache entry for reporting.
type Synthesized struct {
	Original ir.DeclID
	Kind     AccessorKind
	Accessor ir.DeclID
}

// SynthesizedAccessors lists every accessor this lowerer created, in
// deterministic order.
func (l *Lowerer) SynthesizedAccessors() []Synthesized {
	keys := l.cache.Keys()
	out := make([]Synthesized, 0, len(keys))
	for _, key := range keys {
		accessor, _ := l.cache.Lookup(key)
		out = append(out, Synthesized{Original: key.Decl, Kind: key.Kind, Accessor: accessor})
	}
	return out
}
