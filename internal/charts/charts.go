// Package charts renders the dashboard's summary tables as bar-chart PNGs.
package charts

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Series colors, one per dashboard section.
var (
	ColorAmber = drawing.ColorFromHex("fcba03")
	ColorGreen = drawing.ColorFromHex("2e8b57")
	ColorBlue  = drawing.ColorFromHex("0377fc")
	ColorRed   = drawing.ColorFromHex("d62728")
)

const (
	chartHeight  = 480
	minWidth     = 640
	perBarWidth  = 64
	maxBarsWidth = 1600
)

// Value is one bar.
type Value struct {
	Label string
	Value float64
}

// Spec is the declarative description of one chart: what to plot and how to
// label it. ValueLabel names the value axis regardless of orientation.
// Horizontal marks charts whose source rendered bars sideways; the PNG
// keeps vertical geometry but skips the tick rotation long vertical charts
// need.
type Spec struct {
	Title      string
	ValueLabel string
	Horizontal bool
	Color      drawing.Color
	Values     []Value
}

// Render draws the spec as a PNG. An empty value set renders an empty axis
// rather than failing, so filtered-out sections still produce an image.
func Render(spec Spec, w io.Writer) error {
	values := spec.Values
	if len(values) == 0 {
		values = []Value{{Label: "no data", Value: 0}}
	}

	// The y range is always set explicitly: go-chart rejects a zero-span
	// range, which all-equal values (a single state, uniform counts)
	// would otherwise produce.
	maxValue := 0.0
	for _, v := range values {
		if v.Value > maxValue {
			maxValue = v.Value
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}
	yRange := &chart.ContinuousRange{Min: 0, Max: maxValue}

	bars := make([]chart.Value, 0, len(values))
	for _, v := range values {
		bars = append(bars, chart.Value{
			Label: v.Label,
			Value: v.Value,
			Style: chart.Style{
				FillColor:   spec.Color,
				StrokeColor: spec.Color,
			},
		})
	}

	var tickRotation float64
	if !spec.Horizontal {
		tickRotation = 45
	}

	width := minWidth
	if barsWidth := len(bars) * perBarWidth; barsWidth > width {
		width = barsWidth
	}
	if width > maxBarsWidth {
		width = maxBarsWidth
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     chartHeight,
		BarWidth:   40,
		BarSpacing: 16,
		Background: chart.Style{
			Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 24},
		},
		XAxis: chart.Style{
			TextRotationDegrees: tickRotation,
		},
		YAxis: chart.YAxis{
			Name:  spec.ValueLabel,
			Range: yRange,
		},
		Bars: bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", spec.Title, err)
	}
	return nil
}
