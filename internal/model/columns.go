package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"studentrisk/domain/core"
)

// PartitionColumns splits columns by detected type: text columns are
// categorical, everything else (int, float, bool) passes through as numeric.
func PartitionColumns(df dataframe.DataFrame) (categorical, numeric []string) {
	names := df.Names()
	types := df.Types()
	for i, name := range names {
		if types[i] == series.String {
			categorical = append(categorical, name)
		} else {
			numeric = append(numeric, name)
		}
	}
	return categorical, numeric
}

// OneHotEncoder maps one categorical column to indicator columns. Categories
// not seen during fitting encode to all zeros.
type OneHotEncoder struct {
	Column     string
	Categories []string // sorted
	index      map[string]int
}

// FitOneHot learns the sorted category set of a column
func FitOneHot(column string, values []string) *OneHotEncoder {
	seen := make(map[string]bool)
	for _, v := range values {
		seen[v] = true
	}
	categories := make([]string, 0, len(seen))
	for v := range seen {
		categories = append(categories, v)
	}
	sort.Strings(categories)

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	return &OneHotEncoder{Column: column, Categories: categories, index: index}
}

// Width is the number of indicator columns produced
func (e *OneHotEncoder) Width() int {
	return len(e.Categories)
}

// Encode writes the indicator vector for value into dst[:Width()]
func (e *OneHotEncoder) Encode(value string, dst []float64) {
	for i := range dst[:e.Width()] {
		dst[i] = 0
	}
	if i, ok := e.index[value]; ok {
		dst[i] = 1
	}
}

// Known reports whether value was seen during fitting
func (e *OneHotEncoder) Known(value string) bool {
	_, ok := e.index[value]
	return ok
}

// ColumnTransformer one-hot encodes categorical columns and passes numeric
// columns through. Output layout: all one-hot blocks (in column order), then
// numeric columns.
type ColumnTransformer struct {
	encoders []*OneHotEncoder
	numeric  []string
	fitted   bool
}

// NewColumnTransformer returns an unfitted transformer
func NewColumnTransformer() *ColumnTransformer {
	return &ColumnTransformer{}
}

// Fit learns the column partition and category sets from df
func (ct *ColumnTransformer) Fit(df dataframe.DataFrame) error {
	if df.Nrow() == 0 {
		return core.ErrEmptyTrainingSet
	}
	categorical, numeric := PartitionColumns(df)
	if len(categorical)+len(numeric) == 0 {
		return fmt.Errorf("%w: no feature columns", core.ErrEmptyTrainingSet)
	}

	encoders := make([]*OneHotEncoder, 0, len(categorical))
	for _, name := range categorical {
		encoders = append(encoders, FitOneHot(name, df.Col(name).Records()))
	}
	for _, name := range numeric {
		if err := checkNumeric(df.Col(name)); err != nil {
			return err
		}
	}

	ct.encoders = encoders
	ct.numeric = numeric
	ct.fitted = true
	return nil
}

// Width is the number of output columns
func (ct *ColumnTransformer) Width() int {
	w := len(ct.numeric)
	for _, e := range ct.encoders {
		w += e.Width()
	}
	return w
}

// FeatureNames lists output columns as column_category for one-hot blocks
// and the plain name for numeric passthrough
func (ct *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, ct.Width())
	for _, e := range ct.encoders {
		for _, c := range e.Categories {
			names = append(names, e.Column+"_"+c)
		}
	}
	return append(names, ct.numeric...)
}

// Transform encodes df into a dense design matrix
func (ct *ColumnTransformer) Transform(df dataframe.DataFrame) (*mat.Dense, error) {
	if !ct.fitted {
		return nil, core.ErrNotFitted
	}
	rows := df.Nrow()
	if rows == 0 {
		return nil, core.ErrEmptyTrainingSet
	}
	width := ct.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: no feature columns", core.ErrEmptyTrainingSet)
	}

	present := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		present[n] = true
	}

	out := mat.NewDense(rows, width, nil)
	offset := 0
	for _, e := range ct.encoders {
		if !present[e.Column] {
			return nil, core.NewColumnError(core.ErrFeatureMismatch, e.Column, "missing")
		}
		values := df.Col(e.Column).Records()
		for i, v := range values {
			e.Encode(v, out.RawRowView(i)[offset:offset+e.Width()])
		}
		offset += e.Width()
	}
	for _, name := range ct.numeric {
		if !present[name] {
			return nil, core.NewColumnError(core.ErrFeatureMismatch, name, "missing")
		}
		col := df.Col(name)
		if err := checkNumeric(col); err != nil {
			return nil, err
		}
		for i, v := range col.Float() {
			out.Set(i, offset, v)
		}
		offset++
	}
	return out, nil
}

func checkNumeric(col series.Series) error {
	if col.Type() == series.String {
		return core.NewColumnError(core.ErrUnsupportedColumn, col.Name, "expected numeric values")
	}
	for i, v := range col.Float() {
		if math.IsNaN(v) {
			return core.NewColumnError(core.ErrUnsupportedColumn, col.Name, fmt.Sprintf("missing value at row %d", i))
		}
	}
	return nil
}
