package charts

import (
	"bytes"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"studentrisk/internal/report"
)

// Grade axis bounds on the 0-20 scale
const (
	gradeMin = 0.0
	gradeMax = 20.0
)

var namedColors = map[string]drawing.Color{
	"red":   chart.ColorRed,
	"green": chart.ColorGreen,
	"blue":  chart.ColorBlue,
}

func colorOf(name string) drawing.Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return drawing.ColorFromHex(name)
}

// SVGRenderer draws report charts as inline SVG
type SVGRenderer struct {
	width  int
	height int
}

// NewSVGRenderer creates a renderer producing width x height charts
func NewSVGRenderer(width, height int) *SVGRenderer {
	return &SVGRenderer{width: width, height: height}
}

var _ report.ChartRenderer = (*SVGRenderer)(nil)

// Pie draws the risk distribution. Empty slices are left out of the drawing.
func (s *SVGRenderer) Pie(p report.PieChart) (string, error) {
	values := make([]chart.Value, 0, len(p.Slices))
	for _, slice := range p.Slices {
		if slice.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", slice.Label, slice.Count),
			Value: float64(slice.Count),
			Style: chart.Style{
				FillColor:   colorOf(slice.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if len(values) == 0 {
		return "", nil
	}

	pie := chart.PieChart{
		Title:  p.Title,
		Width:  s.width,
		Height: s.height,
		Values: values,
	}
	return render(pie.Render)
}

// Line draws the per-period grade means on a fixed grade axis
func (s *SVGRenderer) Line(l report.LineChart) (string, error) {
	if len(l.Points) == 0 {
		return "", nil
	}

	xs := make([]float64, len(l.Points))
	ys := make([]float64, len(l.Points))
	ticks := make([]chart.Tick, len(l.Points))
	for i, p := range l.Points {
		xs[i] = float64(i)
		ys[i] = p.Value
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
	}
	// go-chart needs two x values to build a range
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}

	graph := chart.Chart{
		Title:      l.Title,
		Width:      s.width,
		Height:     s.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Name:  l.YLabel,
			Range: &chart.ContinuousRange{Min: gradeMin, Max: gradeMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    l.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    4,
				},
			},
		},
	}
	return render(graph.Render)
}

// Bar draws mean absences per risk group
func (s *SVGRenderer) Bar(b report.BarChart) (string, error) {
	if len(b.Bars) == 0 {
		return "", nil
	}

	top := 0.0
	bars := make([]chart.Value, 0, len(b.Bars))
	for _, bar := range b.Bars {
		if bar.Value > top {
			top = bar.Value
		}
		bars = append(bars, chart.Value{
			Label: bar.Label,
			Value: bar.Value,
			Style: chart.Style{
				FillColor:   colorOf(bar.Color),
				StrokeColor: colorOf(bar.Color),
				StrokeWidth: 1,
			},
		})
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      b.Title,
		Width:      s.width,
		Height:     s.height,
		BarWidth:   80,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  b.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.2},
		},
		Bars: bars,
	}
	return render(graph.Render)
}

func render(fn func(chart.RendererProvider, io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := fn(chart.SVG, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
