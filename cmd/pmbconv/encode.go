package main

import (
	"fmt"
	"os"

	"pmb-viewer/internal/imagefile"
	"pmb-viewer/internal/pmb"

	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [image]",
	Short: "Encode a PNG, JPEG, TIFF, BMP or WebP image as PMB",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringP("output", "o", "", "Output PMB file (default <name>.pmb)")
	encodeCmd.Flags().String("name", "", "Image name written to the header (default input base name)")
	encodeCmd.Flags().Bool("alpha", false, "Write 4-component tuples with alpha")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	name, _ := cmd.Flags().GetString("name")
	withAlpha, _ := cmd.Flags().GetBool("alpha")

	result, err := encodeFile(args[0], outputPath, name, withAlpha)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Encoded %dx%d %s → PMB (%d channels)\n", result.Width, result.Height, result.Format, result.Channels)
	fmt.Fprintf(out, "Input:  %s\n", args[0])
	fmt.Fprintf(out, "Output: %s\n", result.Path)
	return nil
}

type encodeResult struct {
	Path     string
	Format   string
	Width    int
	Height   int
	Channels int
}

// encodeFile converts the image at inputPath. Empty outputPath and name are
// derived from the input file name.
func encodeFile(inputPath, outputPath, name string, withAlpha bool) (*encodeResult, error) {
	if !imagefile.IsSupportedFormat(inputPath) {
		return nil, fmt.Errorf("unsupported image format: %s (want one of %v)", inputPath, imagefile.SupportedFormats())
	}

	img, format, err := imagefile.Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	if name == "" {
		name = imagefile.BaseName(inputPath)
	}
	if outputPath == "" {
		outputPath = name + ".pmb"
	}

	raster := pmb.FromImage(name, img, withAlpha)

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := pmb.Encode(f, raster); err != nil {
		f.Close()
		return nil, fmt.Errorf("encoding: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	return &encodeResult{
		Path:     outputPath,
		Format:   format,
		Width:    raster.Width,
		Height:   raster.Height,
		Channels: raster.Channels,
	}, nil
}
