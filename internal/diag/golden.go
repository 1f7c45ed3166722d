package diag

import (
	"fmt"
	"strings"

	"asmemit/internal/source"
)

// FormatShortDiagnostics renders diagnostics as one line per entry:
//
//	<severity> <ID> <path>:<line>:<col> <message>
//
// Assembly-level diagnostics print "<assembly>" instead of a position.
// The order of diags is preserved; call Bag.Sort first for stable output.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, formatLine(d.Severity.String(), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, formatLine("note", d.Code, n.Span, n.Msg, fs))
		}
	}
	return strings.Join(lines, "\n")
}

func formatLine(sev string, code Code, sp source.Span, msg string, fs *source.FileSet) string {
	return fmt.Sprintf("%s %s %s %s", sev, code.ID(), FormatLocation(sp, fs), flatten(msg))
}

// FormatLocation renders sp as path:line:col.
func FormatLocation(sp source.Span, fs *source.FileSet) string {
	if sp.IsNone() || fs == nil {
		return "<assembly>"
	}
	path := fs.Path(sp)
	if path == "" {
		return "<assembly>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func flatten(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
