package plot

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatFromPath picks the image format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".png"):
		return PNG, nil
	case strings.HasSuffix(strings.ToLower(path), ".svg"):
		return SVG, nil
	default:
		return "", fmt.Errorf("plot: unsupported image format for %q", path)
	}
}

// Line is one named curve.
type Line struct {
	Name string
	Y    []float64
}

var palette = []drawing.Color{
	chart.ColorRed,
	chart.ColorBlue,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
}

// Image renders lines sharing the x values xs.
func Image(w io.Writer, format Format, title, xLabel string, xs []float64, lines ...Line) error {
	if len(xs) < 2 {
		return fmt.Errorf("plot: need at least 2 points, got %d", len(xs))
	}

	series := make([]chart.Series, 0, len(lines))
	for i, l := range lines {
		if len(l.Y) != len(xs) {
			return fmt.Errorf("plot: series %q has %d points, want %d", l.Name, len(l.Y), len(xs))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: xs,
			YValues: l.Y,
			Style:   chart.Style{StrokeColor: palette[i%len(palette)], StrokeWidth: 2.0},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Name:  xLabel,
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	switch format {
	case PNG:
		return graph.Render(chart.PNG, w)
	case SVG:
		return graph.Render(chart.SVG, w)
	default:
		return fmt.Errorf("plot: unsupported format %q", format)
	}
}
