package report

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/montanaflynn/stats"

	"studentrisk/domain/core"
	"studentrisk/domain/student"
	"studentrisk/internal"
	"studentrisk/internal/errors"
)

const (
	PieTitle      = "Distribution of Students by Dropout Risk"
	TrendTitle    = "Average Grades Over Time"
	TrendYLabel   = "Average Grade"
	AbsencesTitle = "Average Absences by Risk Group"
	AbsencesLabel = "Number of Absences"

	NoTrendNote = "No G1/G2/G3 data available for trends."

	ColorAtRisk    = "red"
	ColorNotAtRisk = "green"
)

// TrendLabels names the x-axis categories for G1, G2 and G3
var TrendLabels = []string{"1st Period", "2nd Period", "Final Exam"}

// Insights are shown verbatim under the accuracy line
var Insights = []string{
	"🚨 Higher absences strongly correlate with dropout risk.",
	"📉 Low first/second period grades often predict final failure.",
	"🎯 Teachers should focus on early interventions.",
}

const (
	atRiskMessage           = "Student %d is **at risk** of dropout (probability %.2f)."
	atRiskRecommendation    = "**Recommendation:** Provide personalized mentoring, track attendance, and involve parents."
	notAtRiskMessage        = "Student %d is **not at risk** (probability %.2f)."
	notAtRiskRecommendation = "**Recommendation:** Continue encouraging and providing growth opportunities."
	accuracyLine            = "✅ Model Accuracy: **%.2f%%**"
)

// Renderer produces per-selection reports from a trained model.
// It holds no mutable state and is safe for concurrent use as long as the
// classifier is.
type Renderer struct {
	in     Input
	charts ChartRenderer
	logger *internal.Logger
}

// NewRenderer creates a renderer; charts may be nil for data-only reports
func NewRenderer(in Input, charts ChartRenderer) *Renderer {
	return &Renderer{
		in:     in,
		charts: charts,
		logger: internal.DefaultLogger.With("Report"),
	}
}

// Rows returns the number of selectable students
func (r *Renderer) Rows() int {
	return r.in.Features.Nrow()
}

// Render builds the full report for sel
func (r *Renderer) Render(sel student.Selection) (*Report, error) {
	rows := r.Rows()
	if sel.Index < 0 || sel.Index >= rows {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.NewRowError(sel.Index, rows))
	}
	if r.in.Model == nil {
		return nil, errors.RenderError("no model attached to renderer", core.ErrNotFitted)
	}

	record := r.in.Features.Subset([]int{sel.Index})
	if record.Err != nil {
		return nil, errors.RenderError("failed to select student record", record.Err)
	}

	predictions, err := r.in.Model.Predict(record)
	if err != nil {
		return nil, errors.RenderError("prediction failed", err)
	}
	probabilities, err := r.in.Model.PredictProba(record)
	if err != nil {
		return nil, errors.RenderError("probability estimate failed", err)
	}
	if len(predictions) != 1 || len(probabilities) != 1 {
		return nil, errors.RenderError(
			fmt.Sprintf("expected one prediction, got %d/%d", len(predictions), len(probabilities)), nil)
	}

	prediction := student.Label(predictions[0])
	probability := probabilities[0]

	rep := &Report{
		Selection:   sel,
		Prediction:  prediction,
		Probability: probability,
		Alert:       buildAlert(sel.Index, prediction, probability),
		Pie:         r.riskDistribution(),
		Summary:     buildSummary(r.in.Accuracy),
	}

	if trend, ok := r.gradeTrend(); ok {
		rep.Trend = trend
	} else {
		rep.TrendNote = NoTrendNote
	}
	rep.Absences = r.absencesByRisk()

	if err := r.draw(rep); err != nil {
		return nil, err
	}

	r.logger.Debug("rendered student %d: %s (p=%.3f)", sel.Index, prediction, probability)
	return rep, nil
}

func (r *Renderer) draw(rep *Report) error {
	if r.charts == nil {
		return nil
	}

	svg, err := r.charts.Pie(rep.Pie)
	if err != nil {
		return errors.RenderError("pie chart failed", err)
	}
	rep.Pie.SVG = svg

	if rep.Trend != nil {
		svg, err := r.charts.Line(*rep.Trend)
		if err != nil {
			return errors.RenderError("trend chart failed", err)
		}
		rep.Trend.SVG = svg
	}

	if rep.Absences != nil && len(rep.Absences.Bars) > 0 {
		svg, err := r.charts.Bar(*rep.Absences)
		if err != nil {
			return errors.RenderError("absences chart failed", err)
		}
		rep.Absences.SVG = svg
	}
	return nil
}

func buildAlert(index int, prediction student.Label, probability float64) Alert {
	if prediction == student.AtRisk {
		return Alert{
			AtRisk:         true,
			Level:          AlertError,
			Message:        fmt.Sprintf(atRiskMessage, index, probability),
			Recommendation: atRiskRecommendation,
		}
	}
	return Alert{
		Level:          AlertSuccess,
		Message:        fmt.Sprintf(notAtRiskMessage, index, probability),
		Recommendation: notAtRiskRecommendation,
	}
}

func buildSummary(accuracy float64) Summary {
	lines := make([]string, 0, len(Insights)+1)
	lines = append(lines, fmt.Sprintf(accuracyLine, accuracy*100))
	lines = append(lines, Insights...)
	return Summary{Accuracy: accuracy, Lines: lines}
}

func colorFor(label student.Label) string {
	if label == student.AtRisk {
		return ColorAtRisk
	}
	return ColorNotAtRisk
}

func (r *Renderer) riskDistribution() PieChart {
	counts := make(map[student.Label]int, len(student.Labels))
	for _, l := range r.in.Labels {
		counts[l]++
	}

	pie := PieChart{Title: PieTitle}
	for _, l := range student.Labels {
		pie.Slices = append(pie.Slices, Slice{
			Label: l.String(),
			Count: counts[l],
			Color: colorFor(l),
		})
	}
	return pie
}

func (r *Renderer) gradeTrend() (*LineChart, bool) {
	if !hasColumns(r.in.Source, student.GradeColumns...) {
		return nil, false
	}

	line := &LineChart{Title: TrendTitle, YLabel: TrendYLabel}
	for i, name := range student.GradeColumns {
		mean, err := meanOf(r.in.Source.Col(name).Float())
		if err != nil {
			r.logger.Warn("no numeric values in %s: %v", name, err)
			return nil, false
		}
		line.Points = append(line.Points, Point{Label: TrendLabels[i], Value: mean})
	}
	return line, true
}

func (r *Renderer) absencesByRisk() *BarChart {
	if !hasColumns(r.in.Source, student.ColumnAbsences) {
		return nil
	}

	absences := r.in.Source.Col(student.ColumnAbsences).Float()
	groups := make(map[student.Label][]float64, len(student.Labels))
	for i, l := range r.in.Labels {
		if i >= len(absences) {
			break
		}
		groups[l] = append(groups[l], absences[i])
	}

	bar := &BarChart{Title: AbsencesTitle, YLabel: AbsencesLabel}
	for _, l := range student.Labels {
		values := groups[l]
		mean, err := meanOf(values)
		if err != nil {
			continue
		}
		bar.Bars = append(bar.Bars, Bar{
			Label: l.String(),
			Value: mean,
			Count: len(values),
			Color: colorFor(l),
		})
	}
	return bar
}

// meanOf averages the non-NaN values; empty input is an error
func meanOf(values []float64) (float64, error) {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	return stats.Mean(data)
}

func hasColumns(df dataframe.DataFrame, names ...string) bool {
	present := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		present[n] = true
	}
	for _, n := range names {
		if !present[n] {
			return false
		}
	}
	return true
}
