package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentrisk/internal/report"
)

func assertSVG(t *testing.T, out string) {
	t.Helper()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
}

func TestPie(t *testing.T) {
	r := NewSVGRenderer(400, 300)

	t.Run("both groups", func(t *testing.T) {
		out, err := r.Pie(report.PieChart{
			Title: report.PieTitle,
			Slices: []report.Slice{
				{Label: "Not at Risk", Count: 7, Color: "green"},
				{Label: "At Risk", Count: 3, Color: "red"},
			},
		})
		require.NoError(t, err)
		assertSVG(t, out)
	})

	t.Run("single group", func(t *testing.T) {
		out, err := r.Pie(report.PieChart{
			Slices: []report.Slice{
				{Label: "Not at Risk", Count: 0, Color: "green"},
				{Label: "At Risk", Count: 5, Color: "red"},
			},
		})
		require.NoError(t, err)
		assertSVG(t, out)
	})

	t.Run("no rows", func(t *testing.T) {
		out, err := r.Pie(report.PieChart{Slices: []report.Slice{{Label: "At Risk"}}})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestLine(t *testing.T) {
	r := NewSVGRenderer(400, 300)

	out, err := r.Line(report.LineChart{
		Title:  report.TrendTitle,
		YLabel: report.TrendYLabel,
		Points: []report.Point{
			{Label: "1st Period", Value: 11.4},
			{Label: "2nd Period", Value: 11.6},
			{Label: "Final Exam", Value: 11.9},
		},
	})
	require.NoError(t, err)
	assertSVG(t, out)

	// flat series stays renderable because the axis range is fixed
	out, err = r.Line(report.LineChart{Points: []report.Point{
		{Label: "1st Period", Value: 10},
		{Label: "2nd Period", Value: 10},
		{Label: "Final Exam", Value: 10},
	}})
	require.NoError(t, err)
	assertSVG(t, out)

	out, err = r.Line(report.LineChart{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBar(t *testing.T) {
	r := NewSVGRenderer(400, 300)

	out, err := r.Bar(report.BarChart{
		Title:  report.AbsencesTitle,
		YLabel: report.AbsencesLabel,
		Bars: []report.Bar{
			{Label: "Not at Risk", Value: 2.5, Count: 7, Color: "green"},
			{Label: "At Risk", Value: 6.0, Count: 3, Color: "red"},
		},
	})
	require.NoError(t, err)
	assertSVG(t, out)

	out, err = r.Bar(report.BarChart{Bars: []report.Bar{
		{Label: "Not at Risk", Value: 0, Color: "green"},
		{Label: "At Risk", Value: 0, Color: "red"},
	}})
	require.NoError(t, err)
	assertSVG(t, out)
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, namedColors["red"], colorOf("red"))
	c := colorOf("00ff00")
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.G)
}
