package buildpipeline

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"asmemit/internal/descriptor"
	"asmemit/internal/diag"
	"asmemit/internal/emit"
	"asmemit/internal/hashalg"
	"asmemit/internal/metadata"
	"asmemit/internal/source"
	"asmemit/internal/symbols"
	"asmemit/internal/trace"
)

// buildSymbols declares the descriptor's user types and marks the types the
// front-end cannot resolve.
func buildSymbols(desc *descriptor.Descriptor, file source.FileID) *symbols.Table {
	tab := symbols.NewTable()
	seen := map[string]int{}
	for _, name := range desc.Types {
		seen[name]++
		// duplicates are reported by descriptor.Check
		_, _ = tab.DeclareSource(name, desc.LiteralSpan(file, name, seen[name]))
	}
	for _, name := range desc.Missing {
		tab.MarkMissing(name)
	}
	return tab
}

// openModules opens the descriptor's secondary modules in parallel, keeping
// their order. A module that cannot be read is reported and left out.
func openModules(ctx context.Context, desc *descriptor.Descriptor, file source.FileID, jobs int, sink diag.Reporter) ([]emit.SecondaryModule, error) {
	opened := make([]*metadata.Module, len(desc.Modules))
	seen := map[string]bool{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rel := range desc.Modules {
		if seen[rel] {
			continue
		}
		seen[rel] = true
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span, _ := trace.Start(gctx, trace.ScopeModule, "open "+rel)
			defer span.End("")
			mod, err := metadata.Open(desc.Resolve(rel), desc.HashAlgorithm)
			if err != nil {
				diag.ReportError(sink, diag.IOLoadFileError, desc.LiteralSpan(file, rel, 1),
					fmt.Sprintf("cannot open module %q: %v", rel, err)).Emit()
				return nil
			}
			opened[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]emit.SecondaryModule, 0, len(opened))
	for _, m := range opened {
		if m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// manifestResources translates descriptor resources, hashing linked files.
// Missing files were already reported by descriptor.Check.
func manifestResources(desc *descriptor.Descriptor) []emit.ResourceDescription {
	out := make([]emit.ResourceDescription, 0, len(desc.Resources))
	seen := map[string]bool{}
	for _, r := range desc.Resources {
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		rd := emit.ResourceDescription{Name: r.Name, FileName: r.File, Embedded: r.Embedded, Public: r.Public}
		if !r.Embedded && r.File != "" {
			if data, err := os.ReadFile(desc.Resolve(r.File)); err == nil {
				rd.Hash = hashalg.Sum(desc.HashAlgorithm, data)
			}
		}
		out = append(out, rd)
	}
	return out
}
