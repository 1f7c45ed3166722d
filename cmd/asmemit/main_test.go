package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"asmemit/internal/buildpipeline"
	"asmemit/internal/diag"
	"asmemit/internal/metadata"
	"asmemit/internal/source"
)

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil {
			t.Fatalf("readUIMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("readUIMode(%q) = %d, want %d", in, got, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if !uiModeOn.enabled() || uiModeOff.enabled() {
		t.Fatal("explicit modes must not depend on the terminal")
	}
}

func TestPrintDiagnostics(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	fs := source.NewFileSet()
	file := fs.AddVirtual("asm.toml", []byte("[assembly]\nname = \"App\"\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.EmitTypeReserved, source.Span{File: file, Start: 11, End: 15}, "reserved").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "declared here"),
		diag.New(diag.SevWarning, diag.EmitCryptoHashFailed, source.NoSpan, "odd"),
	}

	var buf bytes.Buffer
	printDiagnostics(&buf, diags, fs)
	want := "error[EMT6001] asm.toml:2:1: reserved\n" +
		"  note asm.toml:1:1: declared here\n" +
		"warning[EMT6003] <assembly>: odd\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
	if got := summarize(diags); got != "1 error(s), 1 warning(s)" {
		t.Fatalf("summarize = %q", got)
	}
}

func TestRenderPlan(t *testing.T) {
	p := &buildpipeline.Plan{
		MetadataName:  "App.exe",
		Identity:      "App, Version=1.0.0.0",
		OutputKind:    "exe",
		HashAlgorithm: "sha1",
		InjectedTypes: []buildpipeline.PlanType{{
			Name:  "Microsoft.CodeAnalysis.EmbeddedAttribute",
			Base:  "System.Attribute",
			Ctors: []string{"EmbeddedAttribute..ctor()"},
		}},
		Files:     []buildpipeline.PlanFile{{Name: "Extra.netmodule", Hash: []byte{0xab}, HasMetadata: true}},
		Resources: []buildpipeline.PlanResource{{Name: "R1", Public: true, File: "Extra.netmodule", Offset: 4, Lifted: true}},
	}
	var buf bytes.Buffer
	renderPlan(&buf, p)
	out := buf.String()
	for _, want := range []string{
		"assembly App.exe",
		"Microsoft.CodeAnalysis.EmbeddedAttribute : System.Attribute",
		"module Extra.netmodule ab",
		"public  R1 from Extra.netmodule@4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderImage(t *testing.T) {
	img := metadata.NewImage("Extra.netmodule")
	if _, err := img.AddResource("blob", metadata.Private, []byte("abc")); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	renderImage(&buf, img)
	if !strings.Contains(buf.String(), "size=3") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
