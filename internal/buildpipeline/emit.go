// Package buildpipeline drives one emission pass from an assembly descriptor
// to an emission plan.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"asmemit/internal/descriptor"
	"asmemit/internal/diag"
	"asmemit/internal/emit"
	"asmemit/internal/marker"
	"asmemit/internal/source"
	"asmemit/internal/trace"
)

// ErrDiagnostics is returned when the pass reported errors.
var ErrDiagnostics = errors.New("emission reported errors")

// EmitRequest configures an emission pass.
type EmitRequest struct {
	DescriptorPath string
	// PlanPath overrides <output>.plan.
	PlanPath       string
	DryRun         bool
	MaxDiagnostics int
	Jobs           int
	Progress       ProgressSink
}

// EmitResult captures the pass outcome. It is filled as far as the pass got.
type EmitResult struct {
	Descriptor *descriptor.Descriptor
	FileSet    *source.FileSet
	Bag        *diag.Bag
	Builder    *emit.AssemblyBuilder
	Plan       *Plan
	PlanPath   string
	Timings    Timings
}

// Emit runs the pass: load, open modules, run units, then freeze, aggregate
// files and lift resources concurrently, and write the plan.
func Emit(ctx context.Context, req *EmitRequest) (EmitResult, error) {
	var result EmitResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing emit request")
	}
	path := req.DescriptorPath
	if path == "" {
		path = descriptor.DefaultFileName
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "emit")
	defer span.End("")

	result.FileSet = source.NewFileSet()
	result.Bag = diag.NewBag(req.MaxDiagnostics)
	sink := diag.NewSyncReporter(diag.BagReporter{Bag: result.Bag})
	finish := func(err error) (EmitResult, error) {
		result.Bag.Sort()
		if err == nil && result.Bag.HasErrors() {
			err = ErrDiagnostics
		}
		return result, err
	}

	// load
	start := time.Now()
	emitStage(req.Progress, StageLoad, StatusWorking, nil, 0)
	desc, err := descriptor.Load(path)
	if err != nil {
		emitStage(req.Progress, StageLoad, StatusError, err, 0)
		return finish(err)
	}
	result.Descriptor = desc
	fileID := result.FileSet.Add(desc.Path, desc.Content, 0)
	descriptor.Check(desc, fileID, sink)
	tab := buildSymbols(desc, fileID)
	result.Timings.Set(StageLoad, time.Since(start))
	emitStage(req.Progress, StageLoad, StatusDone, nil, time.Since(start))

	// modules
	start = time.Now()
	emitStage(req.Progress, StageModules, StatusWorking, nil, 0)
	mods, err := openModules(ctx, desc, fileID, jobs, sink)
	if err != nil {
		emitStage(req.Progress, StageModules, StatusError, err, 0)
		return finish(err)
	}
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	emitQueued(req.Progress, names)
	modules := append([]emit.SecondaryModule{emit.SourceModule{ModuleName: desc.Name}}, mods...)
	result.Timings.Set(StageModules, time.Since(start))
	emitStage(req.Progress, StageModules, StatusDone, nil, time.Since(start))

	b := emit.New(tab, emit.Config{
		Identity:       desc.Identity,
		VersionPattern: desc.VersionPattern,
		OutputKind:     desc.OutputKind,
		HashAlgorithm:  desc.HashAlgorithm,
		OutputName:     desc.Out,
		Modules:        modules,
		Resources:      manifestResources(desc),
		LiftLimit:      jobs,
		Tracer:         trace.FromContext(ctx),
		OnLifted: func(mod emit.SecondaryModule, _ int, malformed bool) {
			status := StatusDone
			if malformed {
				status = StatusError
			}
			emitModule(req.Progress, mod.Name(), StageLift, status, nil)
		},
	})
	result.Builder = b

	// units
	start = time.Now()
	emitStage(req.Progress, StageUnits, StatusWorking, nil, 0)
	if err := runUnits(ctx, b.Markers(), desc.Units, jobs); err != nil {
		emitStage(req.Progress, StageUnits, StatusError, err, 0)
		return finish(err)
	}
	result.Timings.Set(StageUnits, time.Since(start))
	emitStage(req.Progress, StageUnits, StatusDone, nil, time.Since(start))

	// freeze, files and lift have no ordering dependency on each other
	var (
		snap   *marker.Snapshot
		files  []emit.FileReference
		lifted []emit.ManagedResource
	)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return timed(req.Progress, &mu, &result.Timings, StageFreeze, func() error {
			return guard(func() { snap = b.InjectedTypes(sink) })
		})
	})
	g.Go(func() error {
		return timed(req.Progress, &mu, &result.Timings, StageFiles, func() error {
			files = b.Files(sink)
			return nil
		})
	})
	g.Go(func() error {
		return timed(req.Progress, &mu, &result.Timings, StageLift, func() error {
			var err error
			lifted, err = b.LiftEmbeddedResources(gctx, sink)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return finish(err)
	}

	result.Plan = BuildPlan(b, snap, files, lifted)
	if result.Bag.HasErrors() || req.DryRun {
		return finish(nil)
	}

	start = time.Now()
	emitStage(req.Progress, StagePlan, StatusWorking, nil, 0)
	result.PlanPath = req.PlanPath
	if result.PlanPath == "" {
		result.PlanPath = desc.OutputPath() + PlanExt
	}
	if err := WritePlan(result.PlanPath, result.Plan); err != nil {
		emitStage(req.Progress, StagePlan, StatusError, err, 0)
		return finish(fmt.Errorf("failed to write plan %q: %w", result.PlanPath, err))
	}
	result.Timings.Set(StagePlan, time.Since(start))
	emitStage(req.Progress, StagePlan, StatusDone, nil, time.Since(start))
	return finish(nil)
}

// timed runs fn as stage and records its duration in t under mu.
func timed(sink ProgressSink, mu *sync.Mutex, t *Timings, stage Stage, fn func() error) error {
	start := time.Now()
	emitStage(sink, stage, StatusWorking, nil, 0)
	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		emitStage(sink, stage, StatusError, err, elapsed)
		return err
	}
	mu.Lock()
	t.Set(stage, elapsed)
	mu.Unlock()
	emitStage(sink, stage, StatusDone, nil, elapsed)
	return nil
}
