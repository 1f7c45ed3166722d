package descriptor

import (
	"fmt"
	"os"

	"fortio.org/safecast"

	"asmemit/internal/diag"
	"asmemit/internal/source"
)

// Check reports the recoverable problems of d against file, which must hold
// d.Content. It returns false when any error was reported.
func Check(d *Descriptor, file source.FileID, sink diag.Reporter) bool {
	ok := true
	report := func(code diag.Code, literal string, nth int, msg string) {
		ok = false
		diag.ReportError(sink, code, d.span(file, literal, nth), msg).Emit()
	}

	seenModules := map[string]int{}
	for _, m := range d.Modules {
		seenModules[m]++
		if seenModules[m] > 1 {
			report(diag.CfgDuplicateModule, m, seenModules[m], fmt.Sprintf("module %q is listed more than once", m))
		}
	}

	seenResources := map[string]int{}
	for _, r := range d.Resources {
		if r.Name == "" {
			report(diag.CfgEmptyResourceName, "", 0, "resource name must not be empty")
			continue
		}
		seenResources[r.Name]++
		if seenResources[r.Name] > 1 {
			report(diag.CfgDuplicateResource, r.Name, seenResources[r.Name], fmt.Sprintf("resource %q is defined more than once", r.Name))
			continue
		}
		if !r.Embedded {
			if r.File == "" {
				report(diag.CfgResourceFileAbsent, r.Name, 1, fmt.Sprintf("linked resource %q has no file", r.Name))
			} else if _, err := os.Stat(d.Resolve(r.File)); err != nil {
				report(diag.CfgResourceFileAbsent, r.File, 1, fmt.Sprintf("linked resource file %q: %v", r.File, err))
			}
		}
	}

	seenTypes := map[string]int{}
	for _, t := range d.Types {
		seenTypes[t]++
		if seenTypes[t] > 1 {
			report(diag.CfgDuplicateType, t, seenTypes[t], fmt.Sprintf("type %q is declared more than once", t))
		}
	}

	for _, u := range d.Units {
		for _, name := range u.Unknown {
			report(diag.CfgUnknownMarker, name, 1, fmt.Sprintf("unit %q requests unknown marker %q", u.Name, name))
		}
	}
	return ok
}

// LiteralSpan is the span of the nth (1-based) quoted occurrence of literal,
// or source.NoSpan.
func (d *Descriptor) LiteralSpan(file source.FileID, literal string, nth int) source.Span {
	return d.span(file, literal, nth)
}

func (d *Descriptor) span(file source.FileID, literal string, nth int) source.Span {
	from := 0
	for i := 0; i < max(nth, 1); i++ {
		start, end, ok := d.Locate(literal, from)
		if !ok {
			return source.NoSpan
		}
		if i == max(nth, 1)-1 {
			s, err1 := safecast.Conv[uint32](start)
			e, err2 := safecast.Conv[uint32](end)
			if err1 != nil || err2 != nil {
				return source.NoSpan
			}
			return source.Span{File: file, Start: s, End: e}
		}
		from = end
	}
	return source.NoSpan
}
