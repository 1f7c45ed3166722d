package diag

// Severity orders diagnostics; SevError fails the emission.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the label used when printing, e.g. "error".
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}
