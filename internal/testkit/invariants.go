// Package testkit holds structural checks shared by tests of the emission pipeline.
package testkit

import (
	"fmt"

	"asmemit/internal/buildpipeline"
	"asmemit/internal/marker"
)

// CheckPlanInvariants verifies the structural invariants of an emission plan:
// 1) injected type names are unique
// 2) the embedded marker comes first whenever any marker is injected
// 3) every lifted resource points at a module in the file table
// 4) linked resources point at a file in the file table
func CheckPlanInvariants(p *buildpipeline.Plan) error {
	if p == nil {
		return fmt.Errorf("nil plan")
	}

	seen := make(map[string]bool, len(p.InjectedTypes))
	for _, t := range p.InjectedTypes {
		if seen[t.Name] {
			return fmt.Errorf("injected type %q appears twice", t.Name)
		}
		seen[t.Name] = true
		if len(t.Ctors) == 0 {
			return fmt.Errorf("injected type %q has no constructor", t.Name)
		}
	}
	embedded := marker.KindEmbedded.Descriptor().ReservedName
	if len(p.InjectedTypes) > 0 && p.InjectedTypes[0].Name != embedded {
		return fmt.Errorf("first injected type is %q, want %q", p.InjectedTypes[0].Name, embedded)
	}

	files := make(map[string]buildpipeline.PlanFile, len(p.Files))
	for _, f := range p.Files {
		if _, dup := files[f.Name]; dup {
			return fmt.Errorf("file %q appears twice in the file table", f.Name)
		}
		files[f.Name] = f
	}
	for _, r := range p.Resources {
		if r.File == "" {
			if r.Lifted {
				return fmt.Errorf("lifted resource %q has no originating file", r.Name)
			}
			continue
		}
		f, ok := files[r.File]
		if !ok {
			return fmt.Errorf("resource %q points at %q which is not in the file table", r.Name, r.File)
		}
		if r.Lifted && !f.HasMetadata {
			return fmt.Errorf("lifted resource %q points at non-module file %q", r.Name, r.File)
		}
	}
	return nil
}
