package pmb

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strings"
)

// Encode writes r as PMB text. Components are written back in file order,
// so decoding the output reproduces r exactly.
func Encode(w io.Writer, r *Raster) error {
	bw := bufio.NewWriter(w)

	name := strings.NewReplacer("\r", " ", "\n", " ").Replace(r.Name)
	fmt.Fprintf(bw, "%s\n%d,%d\n", name, r.Width, r.Height)

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px := r.At(x, y)
			if r.HasAlpha() {
				fmt.Fprintf(bw, "(%d, %d, %d, %d)", px[2], px[1], px[0], px[3])
			} else {
				fmt.Fprintf(bw, "(%d, %d, %d)", px[2], px[1], px[0])
			}
			if x == r.Width-1 {
				bw.WriteString(rowMarker)
			}
			bw.WriteByte('\n')
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write pmb: %w", err)
	}
	return nil
}

// EncodeImage converts img and writes it as PMB text under the given name.
func EncodeImage(w io.Writer, name string, img image.Image, withAlpha bool) error {
	return Encode(w, FromImage(name, img, withAlpha))
}
