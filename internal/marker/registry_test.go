package marker

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"asmemit/internal/diag"
	"asmemit/internal/source"
	"asmemit/internal/symbols"
)

func newSink() (*diag.Bag, diag.Reporter) {
	bag := diag.NewBag(100)
	return bag, diag.NewSyncReporter(diag.BagReporter{Bag: bag})
}

func typeNames(types []*symbols.Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.FullName)
	}
	return out
}

func expectViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		cv, ok := r.(*ContractViolation)
		if !ok {
			t.Fatalf("expected *ContractViolation panic, got %#v", r)
		}
		if cv.Op != op {
			t.Fatalf("violation op = %q, want %q", cv.Op, op)
		}
	}()
	fn()
}

func TestConcurrentRealizeYieldsOneSymbol(t *testing.T) {
	reg := NewRegistry(symbols.NewTable())
	const workers = 64
	got := make([]*symbols.Type, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			reg.Ensure(KindIsReadOnly)
			got[i] = reg.Realize(KindIsReadOnly)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	for i, typ := range got {
		if typ != got[0] {
			t.Fatalf("worker %d observed a different symbol", i)
		}
	}
	if got[0].Kind != symbols.TypeSynthesized {
		t.Fatalf("kind = %v, want synthesized", got[0].Kind)
	}
	if !reg.Needs(KindEmbedded) {
		t.Fatalf("realizing a feature marker must imply the embedded marker")
	}
}

func TestFreezeOrderAndIdempotence(t *testing.T) {
	reg := NewRegistry(symbols.NewTable())
	reg.Ensure(KindNullable)
	reg.Ensure(KindIsReadOnly)
	reg.Ensure(KindIsByRefLike)

	bag, sink := newSink()
	first := reg.Freeze(sink)
	second := reg.Freeze(sink)
	if first != second {
		t.Fatalf("Freeze must return the same snapshot")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	want := []string{
		"Microsoft.CodeAnalysis.EmbeddedAttribute",
		"System.Runtime.CompilerServices.IsReadOnlyAttribute",
		"System.Runtime.CompilerServices.IsByRefLikeAttribute",
		"System.Runtime.CompilerServices.NullableAttribute",
	}
	if diff := cmp.Diff(want, typeNames(first.Types())); diff != "" {
		t.Fatalf("injected types mismatch (-want +got):\n%s", diff)
	}
	if typ, ok := first.Lookup(KindIsReadOnly); !ok || typ != reg.Realize(KindIsReadOnly) {
		t.Fatalf("Lookup must return the realized symbol")
	}
	if _, ok := first.Lookup(KindIsUnmanaged); ok {
		t.Fatalf("unneeded marker must not be injected")
	}
}

func TestConcurrentFreezeReportsOnce(t *testing.T) {
	tab := symbols.NewTable()
	decl := source.Span{File: 0, Start: 3, End: 20}
	if _, err := tab.DeclareSource("System.Runtime.CompilerServices.IsUnmanagedAttribute", decl); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(tab)
	reg.Ensure(KindIsUnmanaged)

	bag, sink := newSink()
	snaps := make([]*Snapshot, 16)
	var wg sync.WaitGroup
	for i := range snaps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[i] = reg.Freeze(sink)
		}()
	}
	wg.Wait()
	for _, s := range snaps {
		if s != snaps[0] {
			t.Fatalf("concurrent Freeze calls observed different snapshots")
		}
	}
	if got := bag.Count(diag.EmitTypeReserved); got != 1 {
		t.Fatalf("reserved-name diagnostics = %d, want 1", got)
	}
}

func TestReservedNameCollision(t *testing.T) {
	tab := symbols.NewTable()
	decl := source.Span{File: 2, Start: 40, End: 59}
	if _, err := tab.DeclareSource("System.Runtime.CompilerServices.IsReadOnlyAttribute", decl); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(tab)
	reg.Ensure(KindIsReadOnly)
	reg.Realize(KindIsReadOnly)
	reg.Realize(KindIsReadOnly)

	bag, sink := newSink()
	snap := reg.Freeze(sink)
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(items), items)
	}
	if items[0].Code != diag.EmitTypeReserved || items[0].Primary != decl {
		t.Fatalf("unexpected diagnostic %+v", items[0])
	}
	typ, ok := snap.Lookup(KindIsReadOnly)
	if !ok || typ.Kind != symbols.TypeSynthesized {
		t.Fatalf("rejected user declaration must still be synthesized")
	}
}

func TestDeferToSourceDeclaration(t *testing.T) {
	tab := symbols.NewTable()
	user, err := tab.DeclareSource("System.Runtime.CompilerServices.NonNullTypesAttribute", source.Span{File: 0, Start: 1, End: 2})
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(tab)
	reg.Ensure(KindNonNullTypes)
	if got := reg.Realize(KindNonNullTypes); got != user {
		t.Fatalf("deferring kind must resolve to the user declaration")
	}

	bag, sink := newSink()
	snap := reg.Freeze(sink)
	if bag.Len() != 0 {
		t.Fatalf("deferring to source must be silent: %v", bag.Items())
	}
	if diff := cmp.Diff([]string{"Microsoft.CodeAnalysis.EmbeddedAttribute"}, typeNames(snap.Types())); diff != "" {
		t.Fatalf("injected types mismatch (-want +got):\n%s", diff)
	}
}

func TestUnresolvedBaseIsOmitted(t *testing.T) {
	tab := symbols.NewTable()
	tab.MarkMissing(symbols.AttributeType)
	reg := NewRegistry(tab)
	reg.Ensure(KindIsReadOnly)

	bag, sink := newSink()
	snap := reg.Freeze(sink)
	if snap.Len() != 0 {
		t.Fatalf("error placeholders must not be injected: %v", typeNames(snap.Types()))
	}
	// one for the embedded marker, one for IsReadOnly
	if got := bag.Count(diag.EmitUseSiteError); got != 2 {
		t.Fatalf("use-site diagnostics = %d, want 2", got)
	}
	for _, d := range bag.Items() {
		if !d.Primary.IsNone() {
			t.Fatalf("use-site diagnostic must have no location: %+v", d)
		}
	}
}

func TestReservedAndUnresolvedReportsBoth(t *testing.T) {
	tab := symbols.NewTable()
	tab.MarkMissing(symbols.AttributeType)
	decl := source.Span{File: 0, Start: 5, End: 9}
	if _, err := tab.DeclareSource("Microsoft.CodeAnalysis.EmbeddedAttribute", decl); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(tab)
	reg.Ensure(KindEmbedded)

	bag, sink := newSink()
	snap := reg.Freeze(sink)
	got := []diag.Code{}
	for _, d := range bag.Items() {
		got = append(got, d.Code)
	}
	want := []diag.Code{diag.EmitTypeReserved, diag.EmitUseSiteError}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostic codes mismatch (-want +got):\n%s", diff)
	}
	if snap.Len() != 0 {
		t.Fatalf("type must not be injected")
	}
}

func TestNullableCtorNeedsBoolean(t *testing.T) {
	tab := symbols.NewTable()
	reg := NewRegistry(tab)
	reg.Ensure(KindNullable)
	typ := reg.Realize(KindNullable)
	if len(typ.Ctors) != 2 {
		t.Fatalf("nullable marker ctors = %d, want 2", len(typ.Ctors))
	}
	if got := typ.Ctors[1].Signature(); got != "System.Runtime.CompilerServices.NullableAttribute..ctor(System.Boolean[])" {
		t.Fatalf("ctor signature = %q", got)
	}

	missing := symbols.NewTable()
	missing.MarkMissing("System.Boolean")
	reg = NewRegistry(missing)
	reg.Ensure(KindNullable)
	bag, sink := newSink()
	snap := reg.Freeze(sink)
	if _, ok := snap.Lookup(KindNullable); ok {
		t.Fatalf("nullable marker with unresolved parameter type must be omitted")
	}
	if _, ok := snap.Lookup(KindEmbedded); !ok {
		t.Fatalf("embedded marker must still be injected")
	}
	if got := bag.Count(diag.EmitUseSiteError); got != 1 {
		t.Fatalf("use-site diagnostics = %d, want 1", got)
	}
}

func TestEnsureAfterFreezePanics(t *testing.T) {
	reg := NewRegistry(symbols.NewTable())
	reg.Ensure(KindIsReadOnly)
	_, sink := newSink()
	reg.Freeze(sink)

	expectViolation(t, "Ensure", func() { reg.Ensure(KindIsUnmanaged) })
	expectViolation(t, "Ensure", func() { reg.Ensure(KindIsReadOnly) })
	expectViolation(t, "Realize", func() { reg.Realize(KindIsByRefLike) })

	// already realized kinds stay readable
	if reg.Realize(KindIsReadOnly) == nil {
		t.Fatalf("realized marker must remain readable after freeze")
	}
}

func TestEmptyRegistryFreezes(t *testing.T) {
	reg := NewRegistry(symbols.NewTable())
	bag, sink := newSink()
	snap := reg.Freeze(sink)
	if snap == nil || snap.Len() != 0 || bag.Len() != 0 {
		t.Fatalf("empty registry must freeze to an empty snapshot")
	}
	if reg.Snapshot() != snap {
		t.Fatalf("Snapshot() must return the frozen set")
	}
}
