package ir

// DeclKind classifies the structural role of a declaration.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclClass
	DeclInterface
	DeclFunction
	DeclField
	DeclConstructor
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclFunction:
		return "function"
	case DeclField:
		return "field"
	case DeclConstructor:
		return "constructor"
	default:
		return "invalid"
	}
}

// Visibility is the target platform's access tier for a declaration.
//
// VisProtectedStatic is the platform-specific tier for protected members
// accessed through an inheritance-aware receiver; it is the only tier that
// triggers the container search in the placement resolver.
type Visibility uint8

const (
	VisPublic Visibility = iota
	VisPackage
	VisProtected
	VisProtectedStatic
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisPackage:
		return "package"
	case VisProtected:
		return "protected"
	case VisProtectedStatic:
		return "protected-static"
	case VisPrivate:
		return "private"
	default:
		return "invalid"
	}
}

// Modality mirrors the openness of a class or member.
type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "invalid"
	}
}

// Origin tags how a declaration came to exist.
type Origin uint8

const (
	// OriginUserCode is ordinary source-level code.
	OriginUserCode Origin = iota
	// OriginDefaultParamStub marks front-end synthetics for default parameters.
	OriginDefaultParamStub
	// OriginSyntheticAccessor marks declarations produced by this lowering.
	OriginSyntheticAccessor
	// OriginExternalStub marks declarations loaded from compiled dependencies.
	OriginExternalStub
	// OriginDefaultImpls marks the synthetic holder class for interface
	// default-method bodies.
	OriginDefaultImpls
	// OriginMovedCompanionField marks a companion backing field relocated to a
	// non-companion holder.
	OriginMovedCompanionField
)

func (o Origin) String() string {
	switch o {
	case OriginUserCode:
		return "user"
	case OriginDefaultParamStub:
		return "default-param-stub"
	case OriginSyntheticAccessor:
		return "synthetic-accessor"
	case OriginExternalStub:
		return "external-stub"
	case OriginDefaultImpls:
		return "default-impls"
	case OriginMovedCompanionField:
		return "moved-companion-field"
	default:
		return "invalid"
	}
}

// IsMasked reports whether the origin already hides the declaration from user
// code: such constructors are candidates for constructor accessors.
func (o Origin) IsMasked() bool {
	switch o {
	case OriginDefaultParamStub, OriginSyntheticAccessor, OriginExternalStub:
		return true
	default:
		return false
	}
}

// DeclFlags encode misc attributes for quick checks.
type DeclFlags uint16

const (
	FlagStatic DeclFlags = 1 << iota
	FlagCompanion
	FlagAnonymous
	FlagValueClass
	FlagMangledParams
)

// Strings returns a slice of textual flag labels.
func (f DeclFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if f&FlagStatic != 0 {
		labels = append(labels, "static")
	}
	if f&FlagCompanion != 0 {
		labels = append(labels, "companion")
	}
	if f&FlagAnonymous != 0 {
		labels = append(labels, "anonymous")
	}
	if f&FlagValueClass != 0 {
		labels = append(labels, "value-class")
	}
	if f&FlagMangledParams != 0 {
		labels = append(labels, "mangled-params")
	}
	return labels
}

// Annotation is a source-level annotation carried by a declaration or
// parameter. Args keep the original textual form; the lowering never
// interprets them, it only moves them.
type Annotation struct {
	Name string   `msgpack:"name"`
	Args []string `msgpack:"args,omitempty"`
}

// Metadata is the opaque serialization/reflection descriptor attached to a
// declaration. The lowering transplants it as a unit and never looks inside.
type Metadata struct {
	Raw []byte `msgpack:"raw"`
}

// Param describes one declared parameter.
type Param struct {
	Name        string       `msgpack:"name"`
	Type        string       `msgpack:"type"`
	Annotations []Annotation `msgpack:"annotations,omitempty"`
}

// DispatchKind selects how a forwarding body reaches its target.
type DispatchKind uint8

const (
	DispatchStatic DispatchKind = iota
	DispatchVirtual
	DispatchSuper
	DispatchGetField
	DispatchSetField
	DispatchNew
)

func (d DispatchKind) String() string {
	switch d {
	case DispatchStatic:
		return "static"
	case DispatchVirtual:
		return "virtual"
	case DispatchSuper:
		return "super"
	case DispatchGetField:
		return "get-field"
	case DispatchSetField:
		return "set-field"
	case DispatchNew:
		return "new"
	default:
		return "invalid"
	}
}

// Body is the forwarding body of a synthesized accessor: all parameters are
// passed through positionally to Target, the result returned unchanged.
type Body struct {
	Dispatch DispatchKind `msgpack:"dispatch"`
	Target   DeclID       `msgpack:"target"`
	// Super names the ancestor class for DispatchSuper forwarding.
	Super DeclID `msgpack:"super,omitempty"`
}

// Decl describes one program element in the arena. Parent and Super are
// non-owning index references into the same arena.
type Decl struct {
	Name       string     `msgpack:"name"`
	Kind       DeclKind   `msgpack:"kind"`
	Visibility Visibility `msgpack:"visibility"`
	Modality   Modality   `msgpack:"modality"`
	Origin     Origin     `msgpack:"origin"`
	Flags      DeclFlags  `msgpack:"flags"`

	Parent  DeclID   `msgpack:"parent"`
	Super   DeclID   `msgpack:"super,omitempty"`
	Members []DeclID `msgpack:"members,omitempty"`

	Params     []Param `msgpack:"params,omitempty"`
	ReturnType string  `msgpack:"return_type,omitempty"`

	Annotations []Annotation `msgpack:"annotations,omitempty"`
	Metadata    *Metadata    `msgpack:"metadata,omitempty"`

	Body *Body `msgpack:"body,omitempty"`
}

// IsStatic reports the static-ness flag.
func (d *Decl) IsStatic() bool { return d.Flags&FlagStatic != 0 }

// IsCompanion reports whether the class is a companion object.
func (d *Decl) IsCompanion() bool { return d.Flags&FlagCompanion != 0 }

// IsAnonymous reports whether the class is an anonymous object.
func (d *Decl) IsAnonymous() bool { return d.Flags&FlagAnonymous != 0 }

// IsValueClass reports whether the class has value semantics.
func (d *Decl) IsValueClass() bool { return d.Flags&FlagValueClass != 0 }

// HasMangledParams reports whether the signature carries mangled parameters.
func (d *Decl) HasMangledParams() bool { return d.Flags&FlagMangledParams != 0 }

// IsClassLike reports whether the declaration can contain members.
func (d *Decl) IsClassLike() bool {
	return d.Kind == DeclClass || d.Kind == DeclInterface
}
