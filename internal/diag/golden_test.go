package diag

import (
	"testing"

	"asmemit/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("asm.toml", []byte("[assembly]\nname = \"App\"\n"))

	diags := []Diagnostic{
		NewError(EmitTypeReserved, source.Span{File: file, Start: 11, End: 15}, "type is\nreserved").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "section"),
		NewError(EmitCryptoHashFailed, source.NoSpan, "unsupported"),
	}

	want := "error EMT6001 asm.toml:2:1 type is reserved\n" +
		"note EMT6001 asm.toml:1:1 section\n" +
		"error EMT6003 <assembly> unsupported"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}
