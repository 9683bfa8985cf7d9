package image

import (
	"fmt"
	"image"

	"pmb-viewer/internal/pmb"

	"gocv.io/x/gocv"
)

// Resampler scales a raster to an exact pixel size.
type Resampler interface {
	Resample(src *pmb.Raster, width, height int, scale float64) (*pmb.Raster, error)
}

// CVResampler resamples with OpenCV: area averaging when shrinking,
// bilinear interpolation when enlarging.
type CVResampler struct{}

// Resample implements Resampler.
func (CVResampler) Resample(src *pmb.Raster, width, height int, scale float64) (*pmb.Raster, error) {
	matType := gocv.MatTypeCV8UC3
	if src.HasAlpha() {
		matType = gocv.MatTypeCV8UC4
	}

	mat, err := gocv.NewMatFromBytes(src.Height, src.Width, matType, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap raster: %w", err)
	}
	defer mat.Close()

	interp := gocv.InterpolationLinear
	if scale < 1 {
		interp = gocv.InterpolationArea
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(mat, &dst, image.Pt(width, height), 0, 0, interp)

	pix := dst.ToBytes()
	if len(pix) != width*height*src.Channels {
		return nil, fmt.Errorf("resize produced %d bytes, want %dx%dx%d", len(pix), width, height, src.Channels)
	}
	return &pmb.Raster{
		Name:     src.Name,
		Width:    width,
		Height:   height,
		Channels: src.Channels,
		Pix:      pix,
	}, nil
}
