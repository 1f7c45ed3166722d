package marker

import (
	"fmt"
	"strings"

	"asmemit/internal/symbols"
)

// Kind identifies a marker attribute. Declared order is injection order.
type Kind uint8

const (
	KindEmbedded Kind = iota
	KindIsReadOnly
	KindIsUnmanaged
	KindIsByRefLike
	KindNullable
	KindNonNullTypes

	kindCount
)

var kindNames = [kindCount]string{
	KindEmbedded:     "embedded",
	KindIsReadOnly:   "readonly",
	KindIsUnmanaged:  "unmanaged",
	KindIsByRefLike:  "byreflike",
	KindNullable:     "nullable",
	KindNonNullTypes: "nonnulltypes",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool { return k < kindCount }

// Kinds returns every kind in declared order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := range kindCount {
		out = append(out, k)
	}
	return out
}

// ParseKind accepts the short name ("readonly") or the reserved metadata name.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for k := range kindCount {
		if strings.EqualFold(s, kindNames[k]) || s == descriptors[k].ReservedName {
			return k, true
		}
	}
	return 0, false
}

// Policy decides what happens when user source already declares the reserved name.
type Policy uint8

const (
	// PolicyReject reports the user declaration and synthesizes anyway.
	PolicyReject Policy = iota
	// PolicyDefer uses the user declaration and skips synthesis silently.
	PolicyDefer
)

func (p Policy) String() string {
	if p == PolicyDefer {
		return "defer"
	}
	return "reject"
}

// CtorBuilder adds constructors beyond the parameterless one.
type CtorBuilder func(comp symbols.Compilation, owner *symbols.Type) []*symbols.Method

// Descriptor describes how a kind is synthesized.
type Descriptor struct {
	ReservedName string
	Policy       Policy
	Ctors        CtorBuilder
}

const compilerServices = "System.Runtime.CompilerServices."

var descriptors = [kindCount]Descriptor{
	KindEmbedded:     {ReservedName: "Microsoft.CodeAnalysis.EmbeddedAttribute"},
	KindIsReadOnly:   {ReservedName: compilerServices + "IsReadOnlyAttribute"},
	KindIsUnmanaged:  {ReservedName: compilerServices + "IsUnmanagedAttribute"},
	KindIsByRefLike:  {ReservedName: compilerServices + "IsByRefLikeAttribute"},
	KindNullable:     {ReservedName: compilerServices + "NullableAttribute", Ctors: nullableCtors},
	KindNonNullTypes: {ReservedName: compilerServices + "NonNullTypesAttribute", Policy: PolicyDefer},
}

// Descriptor returns the synthesis descriptor for k.
func (k Kind) Descriptor() Descriptor {
	if !k.Valid() {
		panic(violation("Descriptor", k, "unknown marker kind"))
	}
	return descriptors[k]
}

// nullableCtors adds NullableAttribute(bool[] transformFlags).
func nullableCtors(comp symbols.Compilation, owner *symbols.Type) []*symbols.Method {
	boolType := comp.SpecialType(symbols.SpecialBoolean)
	return []*symbols.Method{{
		Name:   symbols.CtorName,
		Owner:  owner,
		Params: []symbols.Param{{Name: "transformFlags", Type: boolType, Array: true}},
	}}
}
