package emit

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"asmemit/internal/diag"
	"asmemit/internal/metadata"
	"asmemit/internal/source"
	"asmemit/internal/trace"
)

// ManagedResource is a resource of the merged output. Data is nil for lifted
// resources; the writer locates the bytes through File and Offset.
type ManagedResource struct {
	Name   string
	Public bool
	Data   []byte
	File   *FileReference
	Offset uint32
}

// LiftModule lifts the embedded resources of mod. A malformed module yields
// no resources and one EmitBindToBogus diagnostic.
func LiftModule(mod SecondaryModule, sink diag.Reporter) []ManagedResource {
	out, d := liftModule(mod)
	if d != nil {
		d.Emit(sink)
	}
	return out
}

func liftModule(mod SecondaryModule) ([]ManagedResource, *diag.Diagnostic) {
	raw, err := mod.EmbeddedResources()
	if err != nil {
		msg := fmt.Sprintf("cannot bind to module '%s': malformed metadata", mod.Name())
		if !errors.Is(err, metadata.ErrBadImageFormat) {
			msg = fmt.Sprintf("cannot read embedded resources of module '%s': %v", mod.Name(), err)
		}
		d := diag.NewError(diag.EmitBindToBogus, source.NoSpan, msg)
		return nil, &d
	}
	file := translateModule(mod)
	out := make([]ManagedResource, 0, len(raw))
	for _, r := range raw {
		out = append(out, ManagedResource{
			Name:   r.Name,
			Public: r.Attributes&metadata.Public != 0,
			File:   &file,
			Offset: r.Offset,
		})
	}
	return out, nil
}

type liftResult struct {
	resources []ManagedResource
	diags     []diag.Diagnostic
}

// LiftEmbeddedResources lifts the resources of every secondary module,
// concurrently, keeping module order in the result. A malformed module is
// reported and skipped; the others are unaffected. The only error returned is
// ctx's.
func (b *AssemblyBuilder) LiftEmbeddedResources(ctx context.Context, sink diag.Reporter) ([]ManagedResource, error) {
	if res := b.lifted.load(); res != nil {
		return cloneResources(res.resources), nil
	}

	span := trace.Begin(b.tracer, trace.ScopePass, "lift", trace.CurrentSpan(ctx))
	defer span.End("")

	secondary := b.modules[min(1, len(b.modules)):]
	perModule := make([][]ManagedResource, len(secondary))
	diags := make([]*diag.Diagnostic, len(secondary))

	g, gctx := errgroup.WithContext(ctx)
	limit := b.liftLimit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, mod := range secondary {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ms := trace.Begin(b.tracer, trace.ScopeModule, mod.Name(), span.ID())
			perModule[i], diags[i] = liftModule(mod)
			ms.WithExtra("resources", itoa(len(perModule[i]))).End("")
			if b.onLifted != nil {
				b.onLifted(mod, len(perModule[i]), diags[i] != nil)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &liftResult{}
	for i := range secondary {
		res.resources = append(res.resources, perModule[i]...)
		if diags[i] != nil {
			res.diags = append(res.diags, *diags[i])
		}
	}
	res, won := b.lifted.publish(res)
	if won {
		for _, d := range res.diags {
			d.Emit(sink)
		}
	}
	span.WithExtra("resources", itoa(len(res.resources)))
	return cloneResources(res.resources), nil
}

func cloneResources(in []ManagedResource) []ManagedResource {
	out := make([]ManagedResource, len(in))
	for i, r := range in {
		r.Data = slices.Clone(r.Data)
		if r.File != nil {
			f := r.File.clone()
			r.File = &f
		}
		out[i] = r
	}
	return out
}
