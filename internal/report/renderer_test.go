package report

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studentrisk/domain/core"
	"studentrisk/domain/student"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(X dataframe.DataFrame) ([]int, error) {
	args := m.Called(X)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockClassifier) PredictProba(X dataframe.DataFrame) ([]float64, error) {
	args := m.Called(X)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type stubCharts struct {
	pies, lines, bars int
}

func (s *stubCharts) Pie(PieChart) (string, error) {
	s.pies++
	return "<svg>pie</svg>", nil
}

func (s *stubCharts) Line(LineChart) (string, error) {
	s.lines++
	return "<svg>line</svg>", nil
}

func (s *stubCharts) Bar(BarChart) (string, error) {
	s.bars++
	return "<svg>bar</svg>", nil
}

func oneRow() interface{} {
	return mock.MatchedBy(func(df dataframe.DataFrame) bool { return df.Nrow() == 1 })
}

func fixture(t *testing.T) (dataframe.DataFrame, []student.Label) {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"school", "G1", "G2", "G3", "absences"},
		{"GP", "4", "6", "5", "10"},
		{"GP", "12", "12", "12", "2"},
		{"MS", "8", "10", "9", "8"},
		{"MS", "16", "14", "15", "0"},
	})
	require.NoError(t, df.Err)
	labels := []student.Label{student.AtRisk, student.NotAtRisk, student.AtRisk, student.NotAtRisk}
	return df, labels
}

func newInput(t *testing.T, source dataframe.DataFrame, labels []student.Label, model Classifier) Input {
	t.Helper()
	features := source
	if hasColumns(source, student.ColumnFinalGrade) {
		features = source.Drop(student.ColumnFinalGrade)
	}
	require.NoError(t, features.Err)
	return Input{
		Source:   source,
		Features: features,
		Labels:   labels,
		Accuracy: 0.85,
		Model:    model,
	}
}

func TestRenderAtRisk(t *testing.T) {
	source, labels := fixture(t)
	clf := new(MockClassifier)
	clf.On("Predict", oneRow()).Return([]int{1}, nil)
	clf.On("PredictProba", oneRow()).Return([]float64{0.8765}, nil)

	charts := &stubCharts{}
	rep, err := NewRenderer(newInput(t, source, labels, clf), charts).Render(student.Selection{Index: 0})
	require.NoError(t, err)

	assert.Equal(t, student.AtRisk, rep.Prediction)
	assert.InDelta(t, 0.8765, rep.Probability, 1e-12)
	assert.True(t, rep.Alert.AtRisk)
	assert.Equal(t, AlertError, rep.Alert.Level)
	assert.Equal(t, "Student 0 is **at risk** of dropout (probability 0.88).", rep.Alert.Message)
	assert.Equal(t, "**Recommendation:** Provide personalized mentoring, track attendance, and involve parents.", rep.Alert.Recommendation)

	assert.Equal(t, "<svg>pie</svg>", rep.Pie.SVG)
	require.NotNil(t, rep.Trend)
	assert.Equal(t, "<svg>line</svg>", rep.Trend.SVG)
	require.NotNil(t, rep.Absences)
	assert.Equal(t, "<svg>bar</svg>", rep.Absences.SVG)
	assert.Equal(t, 1, charts.pies)
	assert.Equal(t, 1, charts.lines)
	assert.Equal(t, 1, charts.bars)

	clf.AssertExpectations(t)
}

func TestRenderNotAtRisk(t *testing.T) {
	source, labels := fixture(t)
	clf := new(MockClassifier)
	clf.On("Predict", oneRow()).Return([]int{0}, nil)
	clf.On("PredictProba", oneRow()).Return([]float64{0.1234}, nil)

	rep, err := NewRenderer(newInput(t, source, labels, clf), nil).Render(student.Selection{Index: 3})
	require.NoError(t, err)

	assert.Equal(t, student.NotAtRisk, rep.Prediction)
	assert.False(t, rep.Alert.AtRisk)
	assert.Equal(t, AlertSuccess, rep.Alert.Level)
	assert.Equal(t, "Student 3 is **not at risk** (probability 0.12).", rep.Alert.Message)
	assert.Equal(t, "**Recommendation:** Continue encouraging and providing growth opportunities.", rep.Alert.Recommendation)
	assert.Empty(t, rep.Pie.SVG, "no chart renderer attached")
}

func TestRenderAggregates(t *testing.T) {
	source, labels := fixture(t)
	clf := new(MockClassifier)
	clf.On("Predict", oneRow()).Return([]int{0}, nil)
	clf.On("PredictProba", oneRow()).Return([]float64{0.2}, nil)

	rep, err := NewRenderer(newInput(t, source, labels, clf), nil).Render(student.Selection{Index: 1})
	require.NoError(t, err)

	t.Run("pie counts", func(t *testing.T) {
		require.Len(t, rep.Pie.Slices, 2)
		assert.Equal(t, Slice{Label: "Not at Risk", Count: 2, Color: "green"}, rep.Pie.Slices[0])
		assert.Equal(t, Slice{Label: "At Risk", Count: 2, Color: "red"}, rep.Pie.Slices[1])
		assert.Equal(t, source.Nrow(), rep.Pie.Total())
		assert.Equal(t, PieTitle, rep.Pie.Title)
	})

	t.Run("grade trend", func(t *testing.T) {
		require.NotNil(t, rep.Trend)
		assert.Empty(t, rep.TrendNote)
		assert.Equal(t, TrendTitle, rep.Trend.Title)
		require.Len(t, rep.Trend.Points, 3)
		assert.Equal(t, "1st Period", rep.Trend.Points[0].Label)
		assert.InDelta(t, 10.0, rep.Trend.Points[0].Value, 1e-9)
		assert.Equal(t, "2nd Period", rep.Trend.Points[1].Label)
		assert.InDelta(t, 10.5, rep.Trend.Points[1].Value, 1e-9)
		assert.Equal(t, "Final Exam", rep.Trend.Points[2].Label)
		assert.InDelta(t, 10.25, rep.Trend.Points[2].Value, 1e-9)
	})

	t.Run("absences by risk", func(t *testing.T) {
		require.NotNil(t, rep.Absences)
		assert.Equal(t, AbsencesTitle, rep.Absences.Title)
		assert.Equal(t, AbsencesLabel, rep.Absences.YLabel)
		require.Len(t, rep.Absences.Bars, 2)
		assert.Equal(t, "Not at Risk", rep.Absences.Bars[0].Label)
		assert.InDelta(t, 1.0, rep.Absences.Bars[0].Value, 1e-9)
		assert.Equal(t, "At Risk", rep.Absences.Bars[1].Label)
		assert.InDelta(t, 9.0, rep.Absences.Bars[1].Value, 1e-9)
		assert.Equal(t, 2, rep.Absences.Bars[1].Count)
	})

	t.Run("summary", func(t *testing.T) {
		require.Len(t, rep.Summary.Lines, 4)
		assert.Equal(t, "✅ Model Accuracy: **85.00%**", rep.Summary.Lines[0])
		assert.Equal(t, Insights, rep.Summary.Lines[1:])
		assert.Equal(t, 0.85, rep.Summary.Accuracy)
	})
}

func TestRenderOptionalCharts(t *testing.T) {
	source, labels := fixture(t)
	source = source.Drop([]string{student.ColumnSecondPeriod, student.ColumnAbsences})
	require.NoError(t, source.Err)

	clf := new(MockClassifier)
	clf.On("Predict", oneRow()).Return([]int{1}, nil)
	clf.On("PredictProba", oneRow()).Return([]float64{0.7}, nil)

	charts := &stubCharts{}
	rep, err := NewRenderer(newInput(t, source, labels, clf), charts).Render(student.Selection{Index: 2})
	require.NoError(t, err)

	assert.Nil(t, rep.Trend)
	assert.Equal(t, NoTrendNote, rep.TrendNote)
	assert.Nil(t, rep.Absences)
	assert.Equal(t, 1, charts.pies)
	assert.Zero(t, charts.lines)
	assert.Zero(t, charts.bars)
}

func TestRenderErrors(t *testing.T) {
	source, labels := fixture(t)

	t.Run("row out of range", func(t *testing.T) {
		clf := new(MockClassifier)
		_, err := NewRenderer(newInput(t, source, labels, clf), nil).Render(student.Selection{Index: 4})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrRowOutOfRange)
		clf.AssertNotCalled(t, "Predict", mock.Anything)
	})

	t.Run("no model", func(t *testing.T) {
		_, err := NewRenderer(newInput(t, source, labels, nil), nil).Render(student.Selection{Index: 0})
		assert.ErrorIs(t, err, core.ErrNotFitted)
	})

	t.Run("prediction failure", func(t *testing.T) {
		boom := errors.New("boom")
		clf := new(MockClassifier)
		clf.On("Predict", oneRow()).Return(nil, boom)
		_, err := NewRenderer(newInput(t, source, labels, clf), nil).Render(student.Selection{Index: 0})
		assert.ErrorIs(t, err, boom)
	})
}

func TestMeanOfSkipsMissing(t *testing.T) {
	nan := math.NaN()
	mean, err := meanOf([]float64{2, nan, 4})
	require.NoError(t, err)
	assert.Equal(t, 3.0, mean)

	_, err = meanOf([]float64{nan})
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	source, labels := fixture(t)
	clf := new(MockClassifier)
	clf.On("Predict", oneRow()).Return([]int{1}, nil)
	clf.On("PredictProba", oneRow()).Return([]float64{0.9}, nil)

	rep, err := NewRenderer(newInput(t, source, labels, clf), nil).Render(student.Selection{Index: 0})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteText(&b, rep))
	out := b.String()

	assert.Contains(t, out, "Student 0 is at risk of dropout (probability 0.90).")
	assert.Contains(t, out, AbsencesTitle)
	assert.Contains(t, out, "Model Accuracy: 85.00%")
	assert.NotContains(t, out, "**")
}
