// Package colorutil provides shared color utilities for the PMB viewer.
package colorutil

import (
	"image/color"
	"math"
)

// Black is the viewer background.
var Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// Blend mixes src over dst with the given 8-bit alpha:
// src*(a/255) + dst*(1-a/255), rounded and clamped to a byte.
func Blend(src, dst, alpha uint8) uint8 {
	a := float64(alpha) / 255.0
	v := float64(src)*a + float64(dst)*(1-a)
	return ClampByte(math.Round(v))
}

// ClampByte clamps v to [0, 255].
func ClampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
