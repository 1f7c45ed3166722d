package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"asmemit/internal/diag"
	"asmemit/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgBlue)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// printDiagnostics renders one line per diagnostic plus its notes.
func printDiagnostics(out io.Writer, diags []diag.Diagnostic, fs *source.FileSet) {
	for _, d := range diags {
		sev := severityColor(d.Severity).Sprintf("%s[%s]", d.Severity.String(), d.Code.ID())
		fmt.Fprintf(out, "%s %s: %s\n", sev, diag.FormatLocation(d.Primary, fs), d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(out, "  %s %s: %s\n", noteColor.Sprint("note"), diag.FormatLocation(n.Span, fs), n.Msg)
		}
	}
}

func summarize(diags []diag.Diagnostic) string {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
}
