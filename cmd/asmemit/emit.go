package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"asmemit/internal/buildpipeline"
	"asmemit/internal/marker"
	"asmemit/internal/trace"
)

var emitCmd = &cobra.Command{
	Use:   "emit [asm.toml]",
	Short: "Run the emission stage for an assembly descriptor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEmit,
}

func init() {
	emitCmd.Flags().Bool("dry-run", false, "compute the plan without writing it")
	emitCmd.Flags().String("plan", "", "plan output path (default <output>.plan)")
	emitCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	emitCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runEmit(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	planPath, err := cmd.Flags().GetString("plan")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	req := &buildpipeline.EmitRequest{
		PlanPath:       planPath,
		DryRun:         dryRun,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if len(args) == 1 {
		req.DescriptorPath = args[0]
	}

	ctx := cmd.Context()
	var res buildpipeline.EmitResult
	if !quiet && mode.enabled() {
		res, err = runEmitWithUI(ctx, "emit", req)
	} else {
		res, err = buildpipeline.Emit(ctx, req)
	}

	out := cmd.OutOrStdout()
	if res.Bag != nil {
		printDiagnostics(cmd.ErrOrStderr(), res.Bag.Items(), res.FileSet)
	}
	var cv *marker.ContractViolation
	if errors.As(err, &cv) {
		dumpRing(cmd, trace.FromContext(ctx))
	}
	if err != nil {
		if errors.Is(err, buildpipeline.ErrDiagnostics) {
			return fmt.Errorf("%s: %s", err, summarize(res.Bag.Items()))
		}
		return err
	}

	if !quiet && res.Plan != nil {
		p := res.Plan
		target := res.PlanPath
		if dryRun {
			target = "(dry run)"
		}
		fmt.Fprintf(out, "%s: %d injected type(s), %d file(s), %d resource(s) -> %s\n",
			p.MetadataName, len(p.InjectedTypes), len(p.Files), len(p.Resources), target)
	}
	if showTimings {
		printStageTimings(out, res.Timings)
	}
	return nil
}
