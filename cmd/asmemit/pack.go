package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"asmemit/internal/descriptor"
	"asmemit/internal/metadata"
)

var packCmd = &cobra.Command{
	Use:   "pack [module.toml]",
	Short: "Build a secondary module image from a module descriptor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "image path (default <module name> next to the descriptor)")
}

func runPack(cmd *cobra.Command, args []string) error {
	path := descriptor.ModuleFileName
	if len(args) == 1 {
		path = args[0]
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	src, err := descriptor.LoadModule(path)
	if err != nil {
		return err
	}
	payloads, err := src.ReadResources()
	if err != nil {
		return err
	}

	img := metadata.NewImage(src.Name)
	for i, r := range src.Resources {
		attrs := metadata.Private
		if r.Public {
			attrs = metadata.Public
		}
		if _, err := img.AddResource(r.Name, attrs, payloads[i]); err != nil {
			return err
		}
	}
	data, err := metadata.Encode(img)
	if err != nil {
		return fmt.Errorf("encode module image: %w", err)
	}

	if output == "" {
		output = filepath.Join(filepath.Dir(path), src.Name)
	}
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write module image %q: %w", output, err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "packed %s: %d resource(s), %d bytes\n", output, len(img.Resources), len(data))
	}
	return nil
}
