// Package labeling derives the binary dropout-risk label from grade columns
// and strips the grades it used from the feature set.
package labeling

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"

	"studentrisk/domain/core"
	"studentrisk/domain/student"
	"studentrisk/internal/errors"
)

// Rule names the derivation used for the session
type Rule string

const (
	RuleFinalGrade    Rule = "final-grade"    // G3 < 10
	RulePeriodAverage Rule = "period-average" // (G1+G2)/2 < 10
)

// Result carries the label vector and the leak-free feature table
type Result struct {
	Rule     Rule
	Labels   []student.Label
	Features dataframe.DataFrame
	Dropped  []string
}

// UserMessage is shown in place of the dashboard when no rule applies
const UserMessage = "No suitable grade columns (G3 or G1/G2) found in dataset."

// Derive picks the rule by column availability, computes one label per row and
// removes the source grade columns from the returned features.
func Derive(df dataframe.DataFrame) (*Result, error) {
	names := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		names[n] = true
	}

	switch {
	case names[student.ColumnFinalGrade]:
		final, err := gradeValues(df, student.ColumnFinalGrade)
		if err != nil {
			return nil, err
		}
		labels := make([]student.Label, len(final))
		for i, g := range final {
			labels[i] = threshold(g)
		}
		return build(df, RuleFinalGrade, labels, student.ColumnFinalGrade)

	case names[student.ColumnFirstPeriod] && names[student.ColumnSecondPeriod]:
		first, err := gradeValues(df, student.ColumnFirstPeriod)
		if err != nil {
			return nil, err
		}
		second, err := gradeValues(df, student.ColumnSecondPeriod)
		if err != nil {
			return nil, err
		}
		labels := make([]student.Label, len(first))
		for i := range first {
			labels[i] = threshold((first[i] + second[i]) / 2)
		}
		return build(df, RulePeriodAverage, labels, student.ColumnFirstPeriod, student.ColumnSecondPeriod)

	default:
		return nil, errors.LabelUnavailable(UserMessage, core.ErrLabelUnavailable)
	}
}

func threshold(grade float64) student.Label {
	if grade < student.PassingGrade {
		return student.AtRisk
	}
	return student.NotAtRisk
}

func gradeValues(df dataframe.DataFrame, column string) ([]float64, error) {
	col := df.Col(column)
	if col.Err != nil {
		return nil, errors.LabelUnavailable(UserMessage, col.Err)
	}
	values := col.Float()
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, errors.LabelUnavailable(
				fmt.Sprintf("grade column %s has a non-numeric value at row %d", column, i),
				core.NewColumnError(core.ErrInvalidGrade, column, fmt.Sprintf("row %d = %q", i, col.Elem(i).String())),
			)
		}
	}
	return values, nil
}

func build(df dataframe.DataFrame, rule Rule, labels []student.Label, drop ...string) (*Result, error) {
	features := df.Drop(drop)
	if features.Err != nil {
		return nil, errors.Wrapf(features.Err, "failed to drop %v from features", drop)
	}
	return &Result{
		Rule:     rule,
		Labels:   labels,
		Features: features,
		Dropped:  drop,
	}, nil
}

// Counts returns how many rows carry each label
func (r *Result) Counts() (notAtRisk, atRisk int) {
	for _, l := range r.Labels {
		if l == student.AtRisk {
			atRisk++
		} else {
			notAtRisk++
		}
	}
	return notAtRisk, atRisk
}

// Ints returns the labels as plain 0/1 integers for the classifier
func (r *Result) Ints() []int {
	out := make([]int, len(r.Labels))
	for i, l := range r.Labels {
		out[i] = int(l)
	}
	return out
}
