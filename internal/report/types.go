package report

import (
	"github.com/go-gota/gota/dataframe"

	"studentrisk/domain/student"
)

// Classifier is the trained model as seen by the renderer
type Classifier interface {
	Predict(X dataframe.DataFrame) ([]int, error)
	PredictProba(X dataframe.DataFrame) ([]float64, error)
}

// ChartRenderer turns chart data into embeddable markup
type ChartRenderer interface {
	Pie(chart PieChart) (string, error)
	Line(chart LineChart) (string, error)
	Bar(chart BarChart) (string, error)
}

// Input is everything the renderer reads; none of it changes after bootstrap
type Input struct {
	Source   dataframe.DataFrame // original table, grade columns included
	Features dataframe.DataFrame // table the model was trained on
	Labels   []student.Label
	Accuracy float64
	Model    Classifier
}

// AlertLevel selects the alert styling
type AlertLevel string

const (
	AlertError   AlertLevel = "error"
	AlertSuccess AlertLevel = "success"
)

// Alert is the per-student message block
type Alert struct {
	AtRisk         bool       `json:"at_risk"`
	Level          AlertLevel `json:"level"`
	Message        string     `json:"message"`
	Recommendation string     `json:"recommendation"`
}

// Slice is one pie wedge
type Slice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// PieChart is the dataset-wide risk distribution
type PieChart struct {
	Title  string  `json:"title"`
	Slices []Slice `json:"slices"`
	SVG    string  `json:"-"`
}

// Total returns the sum of slice counts
func (p PieChart) Total() int {
	total := 0
	for _, s := range p.Slices {
		total += s.Count
	}
	return total
}

// Point is one x-category on the trend line
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// LineChart is the average grade per period
type LineChart struct {
	Title  string  `json:"title"`
	YLabel string  `json:"y_label"`
	Points []Point `json:"points"`
	SVG    string  `json:"-"`
}

// Bar is one risk group's mean absences
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
	Color string  `json:"color"`
}

// BarChart is the absences-by-risk-group comparison
type BarChart struct {
	Title  string `json:"title"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
	SVG    string `json:"-"`
}

// Summary is the accuracy line plus the fixed insights
type Summary struct {
	Accuracy float64  `json:"accuracy"`
	Lines    []string `json:"lines"`
}

// Report is one full render for a selection
type Report struct {
	Selection   student.Selection `json:"selection"`
	Prediction  student.Label     `json:"prediction"`
	Probability float64           `json:"probability"`
	Alert       Alert             `json:"alert"`
	Pie         PieChart          `json:"pie"`
	Trend       *LineChart        `json:"trend,omitempty"`
	TrendNote   string            `json:"trend_note,omitempty"`
	Absences    *BarChart         `json:"absences,omitempty"`
	Summary     Summary           `json:"summary"`
}
