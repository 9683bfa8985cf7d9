// Package pmb reads and writes PMB files, a line-oriented text pixel dump.
//
// A PMB file carries an image name, a "width,height" line and then one pixel
// tuple per line. A trailing N on a line ends the current row.
package pmb

import (
	"image"
	"image/color"
)

// Raster is a decoded PMB image.
//
// Pixels are stored row-major with the first and third components swapped
// relative to the file, i.e. B,G,R[,A]. This is the layout OpenCV expects.
type Raster struct {
	Name     string
	Width    int
	Height   int
	Channels int     // 3 or 4
	Pix      []uint8 // len == Width*Height*Channels
}

// NewRaster allocates a raster with every cell set to opaque white.
func NewRaster(name string, width, height, channels int) *Raster {
	r := &Raster{
		Name:     name,
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
	for i := range r.Pix {
		r.Pix[i] = 255
	}
	return r
}

// Stride returns the number of bytes per row.
func (r *Raster) Stride() int {
	return r.Width * r.Channels
}

// HasAlpha reports whether the raster carries an alpha channel.
func (r *Raster) HasAlpha() bool {
	return r.Channels == 4
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (r *Raster) PixOffset(x, y int) int {
	return y*r.Stride() + x*r.Channels
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// At returns the stored components of pixel (x, y), or nil when the
// coordinates are out of range. The returned slice aliases Pix.
func (r *Raster) At(x, y int) []uint8 {
	if !r.In(x, y) {
		return nil
	}
	off := r.PixOffset(x, y)
	return r.Pix[off : off+r.Channels : off+r.Channels]
}

// Image returns an NRGBA copy of the raster with the component swap undone.
func (r *Raster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px := r.At(x, y)
			a := uint8(255)
			if r.HasAlpha() {
				a = px[3]
			}
			img.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
	}
	return img
}

// FromImage builds a raster from img. With withAlpha the raster gets four
// channels, otherwise the alpha component is discarded.
func FromImage(name string, img image.Image, withAlpha bool) *Raster {
	bounds := img.Bounds()
	channels := 3
	if withAlpha {
		channels = 4
	}
	r := NewRaster(name, bounds.Dx(), bounds.Dy(), channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px := r.At(x-bounds.Min.X, y-bounds.Min.Y)
			px[0], px[1], px[2] = c.B, c.G, c.R
			if withAlpha {
				px[3] = c.A
			}
		}
	}
	return r
}
