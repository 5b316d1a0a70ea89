package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sgp4check/internal/export"
)

// RadiusPlot draws geocentric radius against sample index.
func RadiusPlot(eph *export.Ephemeris, width, height int) string {
	if len(eph.Points) == 0 {
		return ""
	}
	data := make([]float64, len(eph.Points))
	for i, p := range eph.Points {
		data[i] = p.Radius()
	}

	first, last := eph.Points[0].Seconds, eph.Points[len(eph.Points)-1].Seconds
	caption := fmt.Sprintf("radius (km), %.1f..%.1f min from %s", first/60, last/60, eph.Epoch.STK())
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SpectrumPlot draws the low quarter of a power spectrum.
func SpectrumPlot(ps []float64, caption string) string {
	if len(ps) < 4 {
		return ""
	}
	return asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
