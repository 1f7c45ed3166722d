package diag

import (
	"sync"
	"testing"

	"asmemit/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	bag.Add(NewError(EmitCryptoHashFailed, source.NoSpan, "hash"))
	bag.Add(NewError(EmitTypeReserved, source.Span{File: 0, Start: 10, End: 12}, "b"))
	bag.Add(New(SevWarning, EmitTypeReserved, source.Span{File: 0, Start: 1, End: 2}, "a"))
	if bag.Add(NewError(EmitBindToBogus, source.NoSpan, "dropped")) {
		t.Fatalf("bag must reject diagnostics past its limit")
	}

	bag.Sort()
	got := []string{}
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	want := []string{"a", "b", "hash"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted messages = %v, want %v", got, want)
		}
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}
}

func TestBagCount(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(EmitBindToBogus, source.NoSpan, "module Extra"))
	bag.Add(NewError(EmitBindToBogus, source.NoSpan, "module Other"))
	bag.Add(NewError(EmitTypeReserved, source.NoSpan, "reserved"))
	if got := bag.Count(EmitBindToBogus); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
	if !bag.HasWarnings() {
		t.Fatalf("errors count as warnings or worse")
	}
}

func TestSyncReporterConcurrent(t *testing.T) {
	bag := NewBag(1000)
	rep := NewSyncReporter(BagReporter{Bag: bag})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ReportError(rep, EmitUseSiteError, source.NoSpan, "x").Emit()
		}()
	}
	wg.Wait()
	if bag.Len() != 50 {
		t.Fatalf("got %d diagnostics, want 50", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, EmitTypeReserved, source.NoSpan, "reserved").
		WithNote(source.NoSpan, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1", bag.Len())
	}
	if n := len(bag.Items()[0].Notes); n != 1 {
		t.Fatalf("got %d notes, want 1", n)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		EmitTypeReserved: "EMT6001",
		IOLoadFileError:  "IO4001",
		CfgUnknownMarker: "CFG5003",
		Code(7001):       "E0000",
		UnknownCode:      "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
