package plot

import (
	"github.com/guptarohit/asciigraph"
)

const (
	DefaultHeight = 10
	DefaultWidth  = 80
)

// Terminal renders one series as an ASCII line chart.
func Terminal(data []float64, caption string, height, width int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// TerminalMany overlays several series, one colour and legend entry each.
func TerminalMany(data [][]float64, legends []string, caption string, height, width int) string {
	if len(data) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors[:min(len(data), len(colors))]...),
		asciigraph.SeriesLegends(legends...),
	)
}
