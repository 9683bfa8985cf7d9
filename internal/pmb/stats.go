package pmb

import (
	"gonum.org/v1/gonum/stat"
)

// ChannelStat summarizes one color channel.
type ChannelStat struct {
	Name   string
	Mean   float64
	StdDev float64
}

// Stats returns per-channel statistics in R, G, B[, A] order.
func Stats(r *Raster) []ChannelStat {
	type channel struct {
		name  string
		index int
	}
	channels := []channel{{"R", 2}, {"G", 1}, {"B", 0}}
	if r.HasAlpha() {
		channels = append(channels, channel{"A", 3})
	}

	n := r.Width * r.Height
	vals := make([]float64, n)
	out := make([]ChannelStat, 0, len(channels))
	for _, c := range channels {
		for i := 0; i < n; i++ {
			vals[i] = float64(r.Pix[i*r.Channels+c.index])
		}
		mean, std := stat.MeanStdDev(vals, nil)
		out = append(out, ChannelStat{Name: c.name, Mean: mean, StdDev: std})
	}
	return out
}
