package buildpipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"asmemit/internal/descriptor"
	"asmemit/internal/marker"
	"asmemit/internal/trace"
)

// runUnits runs compilation units concurrently; each records the markers it
// needs. Units share no state beyond the registry.
func runUnits(ctx context.Context, reg *marker.Registry, units []descriptor.Unit, jobs int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, u := range units {
		g.Go(func() error {
			return guard(func() {
				names := make([]string, 0, len(u.Needs))
				for _, k := range u.Needs {
					reg.Ensure(k)
					names = append(names, k.String())
				}
				trace.Point(trace.FromContext(gctx), trace.ScopeUnit, "unit "+u.Name,
					strings.Join(names, ","), trace.CurrentSpan(gctx))
			})
		})
	}
	return g.Wait()
}

// guard runs fn and turns a marker contract violation into an internal
// error. Any other panic is re-raised.
func guard(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cv, ok := r.(*marker.ContractViolation)
		if !ok {
			panic(r)
		}
		err = fmt.Errorf("internal error: %w", cv)
	}()
	fn()
	return nil
}
