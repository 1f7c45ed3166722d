package source

import "fmt"

// Span is a half-open byte range [Start, End) inside a file. Descriptor
// diagnostics point at the quoted literal that caused them.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// NoSpan is the location of diagnostics that belong to the assembly as a whole.
var NoSpan = Span{File: NoFile}

// IsNone reports whether the span carries no file location.
func (s Span) IsNone() bool {
	return s.File == NoFile
}

func (s Span) String() string {
	if s.IsNone() {
		return "<assembly>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
