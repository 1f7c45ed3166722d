package testkit

import (
	"strings"
	"testing"

	"asmemit/internal/buildpipeline"
)

const embeddedName = "Microsoft.CodeAnalysis.EmbeddedAttribute"

func validPlan() *buildpipeline.Plan {
	return &buildpipeline.Plan{
		InjectedTypes: []buildpipeline.PlanType{
			{Name: embeddedName, Ctors: []string{"ctor()"}},
			{Name: "System.Runtime.CompilerServices.IsReadOnlyAttribute", Ctors: []string{"ctor()"}},
		},
		Files: []buildpipeline.PlanFile{
			{Name: "Extra.netmodule", HasMetadata: true},
			{Name: "strings.resources"},
		},
		Resources: []buildpipeline.PlanResource{
			{Name: "inline", Public: true},
			{Name: "strings", File: "strings.resources"},
			{Name: "R1", File: "Extra.netmodule", Offset: 100, Lifted: true},
		},
	}
}

func TestCheckPlanInvariants(t *testing.T) {
	if err := CheckPlanInvariants(validPlan()); err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(p *buildpipeline.Plan)
		want   string
	}{
		{"duplicate type", func(p *buildpipeline.Plan) { p.InjectedTypes = append(p.InjectedTypes, p.InjectedTypes[1]) }, "appears twice"},
		{"embedded not first", func(p *buildpipeline.Plan) { p.InjectedTypes = p.InjectedTypes[1:] }, "first injected type"},
		{"dangling resource", func(p *buildpipeline.Plan) { p.Resources[2].File = "Gone.netmodule" }, "not in the file table"},
		{"lifted from plain file", func(p *buildpipeline.Plan) { p.Resources[2].File = "strings.resources" }, "non-module"},
		{"lifted without file", func(p *buildpipeline.Plan) { p.Resources[2].File = "" }, "no originating file"},
	}
	for _, tc := range cases {
		p := validPlan()
		tc.mutate(p)
		err := CheckPlanInvariants(p)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v, want %q", tc.name, err, tc.want)
		}
	}
}
