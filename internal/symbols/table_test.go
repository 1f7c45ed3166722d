package symbols

import (
	"testing"

	"asmemit/internal/diag"
	"asmemit/internal/source"
)

func TestTableWellKnown(t *testing.T) {
	tab := NewTable()
	attr := tab.WellKnownType(AttributeType)
	if attr.IsError() || attr.Base == nil || attr.Base.FullName != "System.Object" {
		t.Fatalf("unexpected System.Attribute: %+v", attr)
	}

	tab.MarkMissing("System.Boolean")
	b1 := tab.SpecialType(SpecialBoolean)
	b2 := tab.SpecialType(SpecialBoolean)
	if !b1.IsError() {
		t.Fatalf("missing type must resolve to an error placeholder")
	}
	if b1 != b2 {
		t.Fatalf("error placeholders must be cached")
	}
	if b1.UseSite == nil || b1.UseSite.Code != diag.EmitUseSiteError || !b1.UseSite.Primary.IsNone() {
		t.Fatalf("unexpected use-site diagnostic: %+v", b1.UseSite)
	}
}

func TestTableDeclareSource(t *testing.T) {
	tab := NewTable()
	span := source.Span{File: 0, Start: 4, End: 9}
	if _, err := tab.DeclareSource("My.Attr", span); err != nil {
		t.Fatal(err)
	}
	if _, err := tab.DeclareSource("My.Attr", span); err == nil {
		t.Fatalf("expected duplicate declaration error")
	}
	typ, ok := tab.LookupSourceType("My.Attr")
	if !ok || typ.Decl != span || typ.Kind != TypeSource {
		t.Fatalf("lookup = %+v, %v", typ, ok)
	}
	if typ.Name() != "Attr" || typ.Namespace() != "My" {
		t.Fatalf("name split = %q / %q", typ.Namespace(), typ.Name())
	}
}

func TestTableNormalizesNames(t *testing.T) {
	tab := NewTable()
	// "é" precomposed vs. "e" + combining acute
	if _, err := tab.DeclareSource("Café.Marker", source.NoSpan); err != nil {
		t.Fatal(err)
	}
	if _, ok := tab.LookupSourceType("Café.Marker"); !ok {
		t.Fatalf("lookup must match after NFC normalization")
	}
}

func TestMethodSignature(t *testing.T) {
	tab := NewTable()
	owner := &Type{FullName: "X.NullableAttribute", Kind: TypeSynthesized}
	m := &Method{Name: CtorName, Owner: owner, Params: []Param{{Name: "flags", Type: tab.SpecialType(SpecialBoolean), Array: true}}}
	if got := m.Signature(); got != "X.NullableAttribute..ctor(System.Boolean[])" {
		t.Fatalf("Signature() = %q", got)
	}
}
