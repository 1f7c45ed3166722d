package marker

import (
	"testing"

	"asmemit/internal/symbols"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"readonly", KindIsReadOnly, true},
		{" Nullable ", KindNullable, true},
		{"System.Runtime.CompilerServices.IsByRefLikeAttribute", KindIsByRefLike, true},
		{"Microsoft.CodeAnalysis.EmbeddedAttribute", KindEmbedded, true},
		{"sealed", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseKind(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDescriptorTable(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		d := k.Descriptor()
		if d.ReservedName == "" || seen[d.ReservedName] {
			t.Fatalf("%s: reserved name %q missing or duplicated", k, d.ReservedName)
		}
		seen[d.ReservedName] = true
	}
	if KindNonNullTypes.Descriptor().Policy != PolicyDefer {
		t.Fatalf("NonNullTypes must defer to source")
	}
	if KindEmbedded.Descriptor().Policy != PolicyReject {
		t.Fatalf("embedded marker must reject user declarations")
	}
}

func TestSnapshotAttribute(t *testing.T) {
	reg := NewRegistry(symbols.NewTable())
	reg.Ensure(KindNullable)
	_, sink := newSink()
	snap := reg.Freeze(sink)

	a := snap.Attribute(KindNullable, 1, []bool{true, false})
	if a == nil || a.Ctor != snap.byKind[KindNullable].Ctors[1] {
		t.Fatalf("Attribute must bind to the transform-flags constructor")
	}
	if snap.Attribute(KindIsReadOnly, 0) != nil {
		t.Fatalf("Attribute for a marker that was not injected must be nil")
	}
	expectViolation(t, "Attribute", func() { snap.Attribute(KindNullable, 2) })
}
