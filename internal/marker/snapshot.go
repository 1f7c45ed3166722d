package marker

import (
	"slices"

	"asmemit/internal/symbols"
)

// Snapshot is the frozen, ordered set of injected marker types.
type Snapshot struct {
	types  []*symbols.Type
	byKind [kindCount]*symbols.Type
}

// Types returns the injected types: the embedded marker first, then feature
// markers in declared order.
func (s *Snapshot) Types() []*symbols.Type {
	if s == nil {
		return nil
	}
	return slices.Clone(s.types)
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.types)
}

// Lookup returns the injected type for k.
func (s *Snapshot) Lookup(k Kind) (*symbols.Type, bool) {
	if s == nil || !k.Valid() || s.byKind[k] == nil {
		return nil, false
	}
	return s.byKind[k], true
}

// AttributeData is an attribute application bound to a synthesized constructor.
type AttributeData struct {
	Ctor *symbols.Method
	Args []any
}

// Attribute binds an application of marker k to constructor ctor. It returns
// nil when k was not injected so the caller can fall back to the well-known
// type. For KindNullable constructor 1 takes the bool[] transform flags.
func (s *Snapshot) Attribute(k Kind, ctor int, args ...any) *AttributeData {
	typ, ok := s.Lookup(k)
	if !ok {
		return nil
	}
	if ctor < 0 || ctor >= len(typ.Ctors) {
		panic(violation("Attribute", k, "constructor index out of range"))
	}
	if want := len(typ.Ctors[ctor].Params); want != len(args) {
		panic(violation("Attribute", k, "argument count does not match constructor"))
	}
	return &AttributeData{Ctor: typ.Ctors[ctor], Args: slices.Clone(args)}
}
