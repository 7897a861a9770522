package accessors

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"kiln/internal/ir"
)

// Platform is the per-target specialization point for accessor synthesis:
// naming, suffixing, modality and the default container. One implementation
// exists per target backend.
type Platform interface {
	// AccessorModality returns the modality of a synthesized accessor owned
	// by container.
	AccessorModality(container *ir.Decl) ir.Modality
	// AccessorDefaultParent returns the container used when no placement
	// search applies.
	AccessorDefaultParent(m *ir.Module, decl ir.DeclID) ir.DeclID
	ContributeFunctionName(b *NameBuilder, fn *ir.Decl)
	ContributeFunctionSuffix(b *NameBuilder, m *ir.Module, markers []Marker)
	ContributeFieldGetterName(b *NameBuilder, field *ir.Decl)
	ContributeFieldSetterName(b *NameBuilder, field *ir.Decl)
	ContributeFieldAccessorSuffix(b *NameBuilder, m *ir.Module, markers []Marker)
}

// Markers holds the name fragments a JVM-like target uses to build accessor
// identifiers. The zero value is not usable; see DefaultMarkers.
type Markers struct {
	FunctionPrefix    string
	GetterPrefix      string
	SetterPrefix      string
	InterfaceDefault  string
	SuperPrefix       string
	Property          string
	CompanionProperty string
}

// DefaultMarkers returns the marker set existing compiled artifacts depend
// on. Changing any fragment is a binary-compatibility break.
func DefaultMarkers() Markers {
	return Markers{
		FunctionPrefix:    "access$",
		GetterPrefix:      "access$get",
		SetterPrefix:      "access$set",
		InterfaceDefault:  "$jd",
		SuperPrefix:       "$s",
		Property:          "$p",
		CompanionProperty: "$cp",
	}
}

// JVMPlatform implements Platform for a JVM-like target.
type JVMPlatform struct {
	markers Markers
}

// NewJVMPlatform builds the platform with the given marker set.
func NewJVMPlatform(markers Markers) *JVMPlatform {
	return &JVMPlatform{markers: markers}
}

var _ Platform = (*JVMPlatform)(nil)

// AccessorModality keeps interface-owned accessors overridable; everywhere
// else the platform requires final forwarding bodies.
func (p *JVMPlatform) AccessorModality(container *ir.Decl) ir.Modality {
	if container != nil && container.Kind == ir.DeclInterface {
		return ir.ModalityOpen
	}
	return ir.ModalityFinal
}

// AccessorDefaultParent is the declaration's natural owning class.
func (p *JVMPlatform) AccessorDefaultParent(m *ir.Module, decl ir.DeclID) ir.DeclID {
	return m.EnclosingClass(decl)
}

func (p *JVMPlatform) ContributeFunctionName(b *NameBuilder, fn *ir.Decl) {
	b.Contribute(p.markers.FunctionPrefix)
	b.Contribute(fn.Name)
}

func (p *JVMPlatform) ContributeFunctionSuffix(b *NameBuilder, m *ir.Module, markers []Marker) {
	p.contributeSuffix(b, m, markers)
}

func (p *JVMPlatform) ContributeFieldGetterName(b *NameBuilder, field *ir.Decl) {
	b.Contribute(p.markers.GetterPrefix)
	b.Contribute(upperFirst(field.Name))
}

func (p *JVMPlatform) ContributeFieldSetterName(b *NameBuilder, field *ir.Decl) {
	b.Contribute(p.markers.SetterPrefix)
	b.Contribute(upperFirst(field.Name))
}

func (p *JVMPlatform) ContributeFieldAccessorSuffix(b *NameBuilder, m *ir.Module, markers []Marker) {
	p.contributeSuffix(b, m, markers)
}

func (p *JVMPlatform) contributeSuffix(b *NameBuilder, m *ir.Module, markers []Marker) {
	for _, marker := range markers {
		switch marker.Kind {
		case MarkerInterfaceDefault:
			b.Contribute(p.markers.InterfaceDefault)
		case MarkerCompanionProperty:
			b.Contribute(p.markers.CompanionProperty)
		case MarkerProperty:
			b.Contribute(p.markers.Property)
		case MarkerSuperQualifier:
			b.Contribute(p.markers.SuperPrefix)
			if qualifier := m.Decls.Get(marker.Qualifier); qualifier != nil {
				b.Contribute(strconv.FormatInt(int64(JavaNameHash(qualifier.Name)), 10))
			}
		}
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
