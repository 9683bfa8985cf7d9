// Package view holds the viewer's zoom/pan state and the math that turns it
// into a scale and placement for the compositor.
package view

import "math"

// fitMargin leaves a 10% border around the image at zoom 1.
const fitMargin = 0.9

// Viewport is the fixed size of the drawing surface, in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Params describes how the image is drawn for one frame.
type Params struct {
	BaseScale    float64 // fit-to-viewport scale
	Scale        float64 // BaseScale * zoom
	TargetWidth  int
	TargetHeight int
	OffsetX      int // top-left of the scaled image in viewport coordinates
	OffsetY      int
}

// BaseScale returns the scale that fits an imgW x imgH image into vp with a margin.
func BaseScale(imgW, imgH int, vp Viewport) float64 {
	sx := float64(vp.Width) / float64(imgW)
	sy := float64(vp.Height) / float64(imgH)
	return math.Min(sx, sy) * fitMargin
}

// Compute derives the render parameters for the given zoom and pan.
// Zoom is used as-is; Update keeps it above MinZoom.
func Compute(imgW, imgH int, vp Viewport, zoom float64, panX, panY int) Params {
	base := BaseScale(imgW, imgH, vp)
	scale := base * zoom

	tw := max(1, int(math.Round(float64(imgW)*scale)))
	th := max(1, int(math.Round(float64(imgH)*scale)))

	return Params{
		BaseScale:    base,
		Scale:        scale,
		TargetWidth:  tw,
		TargetHeight: th,
		OffsetX:      place(vp.Width, tw, panX),
		OffsetY:      place(vp.Height, th, panY),
	}
}

// place centers a span of length target inside length view, shifts it by pan
// and clamps it so that at least one pixel stays inside [0, view).
func place(view, target, pan int) int {
	off := floorDiv(view-target, 2) + pan
	return min(max(off, -(target-1)), view-1)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ZoomAboutCursor returns the pan that keeps the image point under the
// cursor fixed when zoom changes from oldZoom to newZoom. cursor is measured
// from the viewport center along one axis.
func ZoomAboutCursor(cursor, pan int, oldZoom, newZoom float64) int {
	ratio := newZoom / oldZoom
	c := float64(cursor)
	return int(math.Round(c - (c-float64(pan))*ratio))
}
