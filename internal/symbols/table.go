package symbols

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"

	"asmemit/internal/source"
)

// Table is an in-memory Compilation. Metadata names are compared after NFC
// normalization.
type Table struct {
	mu       sync.RWMutex
	source   map[string]*Type
	metadata map[string]*Type
	errors   map[string]*Type
}

// NewTable returns a table preloaded with the core library types
// (System.Object, System.Attribute, System.Boolean, System.Byte).
func NewTable() *Table {
	t := &Table{
		source:   make(map[string]*Type),
		metadata: make(map[string]*Type),
		errors:   make(map[string]*Type),
	}
	object := t.addMetadata(SpecialObject.FullName(), nil)
	t.addMetadata(AttributeType, object)
	t.addMetadata(SpecialBoolean.FullName(), object)
	t.addMetadata(SpecialByte.FullName(), object)
	return t
}

func normalize(name string) string {
	return norm.NFC.String(name)
}

func (t *Table) addMetadata(fullName string, base *Type) *Type {
	typ := &Type{FullName: normalize(fullName), Kind: TypeMetadata, Decl: source.NoSpan, Base: base}
	t.metadata[typ.FullName] = typ
	return typ
}

// AddMetadataType registers a referenced-assembly type deriving from System.Object.
func (t *Table) AddMetadataType(fullName string) *Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.addMetadata(fullName, t.metadata[SpecialObject.FullName()])
}

// DeclareSource records a user declaration in the primary module.
func (t *Table) DeclareSource(fullName string, decl source.Span) (*Type, error) {
	name := normalize(fullName)
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.source[name]; ok {
		return prev, fmt.Errorf("type %q is already declared", name)
	}
	typ := &Type{FullName: name, Kind: TypeSource, Decl: decl, Base: t.metadata[AttributeType]}
	t.source[name] = typ
	return typ, nil
}

// MarkMissing removes a referenced type so that lookups yield an error placeholder.
func (t *Table) MarkMissing(fullName string) {
	name := normalize(fullName)
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.metadata, name)
}

// SourceTypes returns the declared source types sorted by name.
func (t *Table) SourceTypes() []*Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Type, 0, len(t.source))
	for _, typ := range t.source {
		out = append(out, typ)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

func (t *Table) LookupSourceType(fullName string) (*Type, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	typ, ok := t.source[normalize(fullName)]
	return typ, ok
}

func (t *Table) WellKnownType(fullName string) *Type {
	name := normalize(fullName)
	t.mu.RLock()
	typ, ok := t.metadata[name]
	errTyp, hasErr := t.errors[name]
	t.mu.RUnlock()
	if ok {
		return typ
	}
	if hasErr {
		return errTyp
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if errTyp, ok := t.errors[name]; ok {
		return errTyp
	}
	errTyp = NewErrorType(name)
	t.errors[name] = errTyp
	return errTyp
}

func (t *Table) SpecialType(st SpecialType) *Type {
	name := st.FullName()
	if name == "" {
		return NewErrorType(fmt.Sprintf("special(%d)", st))
	}
	return t.WellKnownType(name)
}

var _ Compilation = (*Table)(nil)
