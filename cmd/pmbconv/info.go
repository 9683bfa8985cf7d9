package main

import (
	"fmt"
	"io"
	"os"

	"pmb-viewer/internal/pmb"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file.pmb]",
	Short: "Decode a PMB file and print its dimensions and channel statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolP("verbose", "v", false, "List every recoverable pixel problem")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return writeInfo(cmd.OutOrStdout(), args[0], verbose)
}

func writeInfo(out io.Writer, path string, verbose bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var warnings []*pmb.PixelError
	dec := &pmb.Decoder{OnWarning: func(e *pmb.PixelError) {
		warnings = append(warnings, e)
	}}
	raster, err := dec.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Name:       %s\n", raster.Name)
	fmt.Fprintf(out, "Dimensions: %d x %d\n", raster.Width, raster.Height)
	fmt.Fprintf(out, "Channels:   %d\n", raster.Channels)
	fmt.Fprintf(out, "Warnings:   %d\n", len(warnings))
	if verbose {
		for _, w := range warnings {
			fmt.Fprintf(out, "  %v\n", w)
		}
	}
	for _, s := range pmb.Stats(raster) {
		fmt.Fprintf(out, "  %s: mean %.2f, stddev %.2f\n", s.Name, s.Mean, s.StdDev)
	}
	return nil
}
