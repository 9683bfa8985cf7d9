// Package image resamples decoded PMB rasters and composites them onto the
// viewer canvas.
package image

import (
	"fmt"
	"image"
	"sync"

	"pmb-viewer/internal/pmb"
	"pmb-viewer/internal/view"
	"pmb-viewer/pkg/colorutil"
	"pmb-viewer/pkg/geometry"
)

// Canvas is a viewport-sized 3-channel buffer in B,G,R order.
type Canvas struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewCanvas returns a black canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// At returns the B,G,R bytes of pixel (x, y). The slice aliases Pix.
func (c *Canvas) At(x, y int) []uint8 {
	off := c.pixOffset(x, y)
	return c.Pix[off : off+3 : off+3]
}

func (c *Canvas) pixOffset(x, y int) int {
	return (y*c.Width + x) * 3
}

// RGBA converts the canvas for display.
func (c *Canvas) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, j := 0, 0; i < len(c.Pix); i, j = i+3, j+4 {
		out.Pix[j] = c.Pix[i+2]
		out.Pix[j+1] = c.Pix[i+1]
		out.Pix[j+2] = c.Pix[i]
		out.Pix[j+3] = 255
	}
	return out
}

// Compositor draws a raster onto a canvas at a given scale and placement.
type Compositor struct {
	mu        sync.Mutex
	src       *pmb.Raster
	resampler Resampler
	cache     *resampleCache
}

// NewCompositor creates a compositor for src. cacheSize bounds the number of
// resampled rasters kept between frames.
func NewCompositor(src *pmb.Raster, resampler Resampler, cacheSize int) *Compositor {
	return &Compositor{
		src:       src,
		resampler: resampler,
		cache:     newResampleCache(cacheSize),
	}
}

// Render produces a fresh canvas of size vp with the scaled raster placed
// at p's offset. A placement entirely off-canvas yields a black canvas.
func (c *Compositor) Render(p view.Params, vp view.Viewport) (*Canvas, error) {
	canvas := NewCanvas(vp.Width, vp.Height)

	placed := geometry.NewRectInt(p.OffsetX, p.OffsetY, p.TargetWidth, p.TargetHeight)
	visible := placed.Intersect(geometry.NewRectInt(0, 0, vp.Width, vp.Height))
	if visible.Empty() {
		return canvas, nil
	}

	scaled, err := c.scaled(p)
	if err != nil {
		return nil, err
	}

	origin := visible.TopLeft().Sub(placed.TopLeft())
	if !scaled.HasAlpha() {
		n := visible.Width * 3
		for y := 0; y < visible.Height; y++ {
			srcOff := scaled.PixOffset(origin.X, origin.Y+y)
			dstOff := canvas.pixOffset(visible.X, visible.Y+y)
			copy(canvas.Pix[dstOff:dstOff+n], scaled.Pix[srcOff:srcOff+n])
		}
		return canvas, nil
	}

	for y := 0; y < visible.Height; y++ {
		for x := 0; x < visible.Width; x++ {
			src := scaled.At(origin.X+x, origin.Y+y)
			dst := canvas.At(visible.X+x, visible.Y+y)
			alpha := src[3]
			for i := 0; i < 3; i++ {
				dst[i] = colorutil.Blend(src[i], dst[i], alpha)
			}
		}
	}
	return canvas, nil
}

// scaled returns the raster resampled to p's target size, from cache when possible.
func (c *Compositor) scaled(p view.Params) (*pmb.Raster, error) {
	key := resampleKey{scale: p.Scale, width: p.TargetWidth, height: p.TargetHeight}

	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.cache.Get(key); ok {
		return r, nil
	}
	r, err := c.resampler.Resample(c.src, p.TargetWidth, p.TargetHeight, p.Scale)
	if err != nil {
		return nil, fmt.Errorf("failed to resample to %dx%d: %w", p.TargetWidth, p.TargetHeight, err)
	}
	c.cache.Put(key, r)
	return r, nil
}
