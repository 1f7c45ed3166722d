package marker

import "fmt"

// ContractViolation is the panic value raised when callers break the
// registry's phase ordering, e.g. requesting a marker after Freeze. It is an
// internal bug, never a user diagnostic.
type ContractViolation struct {
	Op   string
	Kind Kind
	Msg  string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("marker: %s(%s): %s", e.Op, e.Kind, e.Msg)
}

func violation(op string, k Kind, msg string) *ContractViolation {
	return &ContractViolation{Op: op, Kind: k, Msg: msg}
}
