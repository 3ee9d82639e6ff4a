package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"studentrisk/domain/core"
)

// thresholdData is one informative feature (x >= 10 => 1) and one noise feature
func thresholdData() (*mat.Dense, []int) {
	n := 40
	X := mat.NewDense(n, 2, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		x := float64(i % 20)
		X.Set(i, 0, x)
		X.Set(i, 1, float64((i*7)%5))
		if x >= 10 {
			y[i] = 1
		}
	}
	return X, y
}

func TestGradientBoostingFitsSeparableData(t *testing.T) {
	X, y := thresholdData()
	clf := NewGradientBoostingClassifier()
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, 100, clf.Stages())

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	for _, tree := range clf.trees {
		assert.LessOrEqual(t, tree.depth(), 3)
	}
}

func TestGradientBoostingProbabilitiesAgreeWithPredictions(t *testing.T) {
	X, y := thresholdData()
	clf := NewGradientBoostingClassifier(WithEstimators(20))
	require.NoError(t, clf.Fit(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	pred, err := clf.Predict(X)
	require.NoError(t, err)

	require.Len(t, proba, len(pred))
	for i, p := range proba {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		if p > 0.5 {
			assert.Equal(t, 1, pred[i], "row %d p=%f", i, p)
		} else {
			assert.Equal(t, 0, pred[i], "row %d p=%f", i, p)
		}
	}
}

func TestGradientBoostingIsDeterministic(t *testing.T) {
	X, y := thresholdData()
	a := NewGradientBoostingClassifier(WithEstimators(15), WithMaxDepth(2))
	b := NewGradientBoostingClassifier(WithEstimators(15), WithMaxDepth(2))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	pa, err := a.PredictProba(X)
	require.NoError(t, err)
	pb, err := b.PredictProba(X)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestGradientBoostingPriorOnlyModel(t *testing.T) {
	// Constant features: trees cannot split, so every row gets the prior
	X := mat.NewDense(4, 1, []float64{1, 1, 1, 1})
	y := []int{1, 0, 0, 0}
	clf := NewGradientBoostingClassifier(WithEstimators(5))
	require.NoError(t, clf.Fit(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	for _, p := range proba {
		assert.InDelta(t, 0.25, p, 0.05)
	}
	pred, err := clf.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, pred)
}

func TestGradientBoostingErrors(t *testing.T) {
	X, y := thresholdData()

	_, err := NewGradientBoostingClassifier().Predict(X)
	assert.ErrorIs(t, err, core.ErrNotFitted)

	ones := make([]int, len(y))
	for i := range ones {
		ones[i] = 1
	}
	assert.ErrorIs(t, NewGradientBoostingClassifier().Fit(X, ones), core.ErrSingleClass)

	bad := append([]int(nil), y...)
	bad[3] = 2
	assert.ErrorIs(t, NewGradientBoostingClassifier().Fit(X, bad), core.ErrInvalidLabel)

	assert.Error(t, NewGradientBoostingClassifier().Fit(X, y[:5]))
	assert.Error(t, NewGradientBoostingClassifier(WithEstimators(0)).Fit(X, y))

	clf := NewGradientBoostingClassifier(WithEstimators(3))
	require.NoError(t, clf.Fit(X, y))
	_, err = clf.PredictProba(mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, core.ErrFeatureMismatch)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, Accuracy([]int{1, 0, 1, 1}, []int{1, 0, 0, 1}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
}
