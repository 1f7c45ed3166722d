package buildpipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"asmemit/internal/descriptor"
	"asmemit/internal/diag"
	"asmemit/internal/marker"
	"asmemit/internal/symbols"
)

func TestGuardConvertsContractViolation(t *testing.T) {
	reg := marker.NewRegistry(symbols.NewTable())
	reg.Freeze(diag.BagReporter{Bag: diag.NewBag(10)})

	units := []descriptor.Unit{{Name: "late", Needs: []marker.Kind{marker.KindIsReadOnly}}}
	err := runUnits(context.Background(), reg, units, 2)
	var cv *marker.ContractViolation
	if !errors.As(err, &cv) {
		t.Fatalf("err = %v, want a wrapped *marker.ContractViolation", err)
	}
	if !strings.HasPrefix(err.Error(), "internal error:") {
		t.Fatalf("err = %q, want an internal error", err)
	}
}

func TestGuardRepanicsOtherValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recover() = %v, want boom", r)
		}
	}()
	_ = guard(func() { panic("boom") })
}

func TestPlanDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodePlan([]byte("nope")); !errors.Is(err, ErrBadPlan) {
		t.Fatalf("err = %v, want ErrBadPlan", err)
	}
}

func TestPlanDecodeRejectsOversizedLengths(t *testing.T) {
	data := append([]byte{0x81, 0xae}, "injected_types"...)
	data = append(data, 0xdd, 0xff, 0xff, 0xff, 0xff)
	if _, err := DecodePlan(data); !errors.Is(err, ErrBadPlan) {
		t.Fatalf("err = %v, want ErrBadPlan", err)
	}
}
