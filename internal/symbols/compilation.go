package symbols

// SpecialType enumerates the core library types the emitter refers to.
type SpecialType uint8

const (
	SpecialObject SpecialType = iota + 1
	SpecialBoolean
	SpecialByte
)

// specialNames maps special types to their metadata names.
var specialNames = map[SpecialType]string{
	SpecialObject:  "System.Object",
	SpecialBoolean: "System.Boolean",
	SpecialByte:    "System.Byte",
}

func (s SpecialType) FullName() string {
	return specialNames[s]
}

// AttributeType is the base type of every synthesized marker.
const AttributeType = "System.Attribute"

// Compilation is the front-end contract consumed by the emitter.
// Implementations must be safe for concurrent use.
type Compilation interface {
	// LookupSourceType finds a top-level type declared in the primary source
	// module under fullName.
	LookupSourceType(fullName string) (*Type, bool)

	// WellKnownType resolves a type from referenced assemblies. It never
	// returns nil: unresolvable names yield a TypeError placeholder.
	WellKnownType(fullName string) *Type

	// SpecialType resolves a core library type; same contract as WellKnownType.
	SpecialType(st SpecialType) *Type
}
