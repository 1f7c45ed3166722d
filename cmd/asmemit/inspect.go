package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"asmemit/internal/buildpipeline"
	"asmemit/internal/metadata"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <module-image|plan>",
	Short: "Print a module image or an emission plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "text", "output format (text|json)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if img, imgErr := metadata.Decode(data); imgErr == nil {
		if format == "json" {
			return writeJSON(out, img)
		}
		renderImage(out, img)
		return nil
	} else if plan, planErr := buildpipeline.DecodePlan(data); planErr == nil {
		if format == "json" {
			return writeJSON(out, plan)
		}
		renderPlan(out, plan)
		return nil
	} else {
		return fmt.Errorf("%s: neither a module image nor a plan: %w", args[0], errors.Join(imgErr, planErr))
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderImage(out io.Writer, img *metadata.Image) {
	fmt.Fprintf(out, "module %s (schema %d, %d payload bytes)\n", img.Name, img.Schema, len(img.Payload))
	for _, r := range img.Resources {
		size := "?"
		if data, err := img.ResourceData(r); err == nil {
			size = fmt.Sprint(len(data))
		}
		fmt.Fprintf(out, "  %-8s %-24s offset=%d size=%s\n", r.Attributes, r.Name, r.Offset, size)
	}
}

func renderPlan(out io.Writer, p *buildpipeline.Plan) {
	fmt.Fprintf(out, "assembly %s [%s]\n", p.MetadataName, p.Identity)
	fmt.Fprintf(out, "  output: %s, hash: %s\n", p.OutputKind, p.HashAlgorithm)
	if p.VersionPattern != "" {
		fmt.Fprintf(out, "  version pattern: %s\n", p.VersionPattern)
	}
	fmt.Fprintf(out, "injected types (%d):\n", len(p.InjectedTypes))
	for _, t := range p.InjectedTypes {
		fmt.Fprintf(out, "  %s : %s\n", t.Name, t.Base)
		for _, c := range t.Ctors {
			fmt.Fprintf(out, "    %s\n", c)
		}
	}
	if len(p.AdditionalTypes) > 0 {
		fmt.Fprintf(out, "additional types: %s\n", strings.Join(p.AdditionalTypes, ", "))
	}
	fmt.Fprintf(out, "files (%d):\n", len(p.Files))
	for _, f := range p.Files {
		kind := "file"
		if f.HasMetadata {
			kind = "module"
		}
		fmt.Fprintf(out, "  %-6s %s %s\n", kind, f.Name, hex.EncodeToString(f.Hash))
	}
	fmt.Fprintf(out, "resources (%d):\n", len(p.Resources))
	for _, r := range p.Resources {
		vis := "private"
		if r.Public {
			vis = "public"
		}
		origin := "<embedded>"
		if r.File != "" {
			origin = r.File
		}
		if r.Lifted {
			origin = fmt.Sprintf("%s@%d", origin, r.Offset)
		}
		fmt.Fprintf(out, "  %-7s %s from %s\n", vis, r.Name, origin)
	}
}
