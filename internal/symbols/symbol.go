package symbols

import (
	"fmt"
	"strings"

	"asmemit/internal/diag"
	"asmemit/internal/source"
)

// TypeKind classifies where a named type came from.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	// TypeSource is declared in the primary source module.
	TypeSource
	// TypeMetadata comes from a referenced assembly.
	TypeMetadata
	// TypeSynthesized is generated by the compiler and injected into the output.
	TypeSynthesized
	// TypeError is a placeholder for something that could not be resolved.
	TypeError
)

func (k TypeKind) String() string {
	switch k {
	case TypeSource:
		return "source"
	case TypeMetadata:
		return "metadata"
	case TypeSynthesized:
		return "synthesized"
	case TypeError:
		return "error"
	default:
		return "invalid"
	}
}

// Type is a named top-level type.
type Type struct {
	FullName string
	Kind     TypeKind
	Decl     source.Span // declaration site; source.NoSpan outside user source
	Base     *Type
	Ctors    []*Method

	// UseSite is the diagnostic explaining why a TypeError could not be
	// resolved. It is nil for every other kind.
	UseSite *diag.Diagnostic
}

// IsError reports whether t is an error placeholder.
func (t *Type) IsError() bool {
	return t == nil || t.Kind == TypeError
}

// Namespace returns the part of FullName before the last dot.
func (t *Type) Namespace() string {
	if i := strings.LastIndexByte(t.FullName, '.'); i >= 0 {
		return t.FullName[:i]
	}
	return ""
}

// Name returns the simple name.
func (t *Type) Name() string {
	return t.FullName[strings.LastIndexByte(t.FullName, '.')+1:]
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.FullName
}

// Method is a constructor (or other member) of a Type.
type Method struct {
	Name   string
	Owner  *Type
	Params []Param
}

// CtorName is the metadata name of instance constructors.
const CtorName = ".ctor"

// Signature renders the method as Owner.Name(T1, T2[]).
func (m *Method) Signature() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.TypeName()
	}
	return fmt.Sprintf("%s.%s(%s)", m.Owner, m.Name, strings.Join(parts, ", "))
}

// Param is a method parameter. Array marks a single-dimension zero-based array of Type.
type Param struct {
	Name  string
	Type  *Type
	Array bool
}

func (p Param) TypeName() string {
	if p.Array {
		return p.Type.String() + "[]"
	}
	return p.Type.String()
}

// NewErrorType returns a placeholder for fullName carrying a use-site diagnostic.
func NewErrorType(fullName string) *Type {
	d := diag.NewError(diag.EmitUseSiteError, source.NoSpan,
		fmt.Sprintf("predefined type '%s' is not defined or imported", fullName))
	return &Type{
		FullName: fullName,
		Kind:     TypeError,
		Decl:     source.NoSpan,
		UseSite:  &d,
	}
}
