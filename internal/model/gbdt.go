package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"studentrisk/domain/core"
)

// GradientBoostingClassifier is a binary log-loss gradient boosting ensemble
// of depth-limited regression trees.
type GradientBoostingClassifier struct {
	NEstimators     int     // boosting stages
	LearningRate    float64 // shrinkage applied to every tree
	MaxDepth        int     // maximum depth of each tree
	MinSamplesSplit int     // minimum samples to attempt a split
	MinSamplesLeaf  int     // minimum samples in each leaf

	initScore float64
	trees     []*regressionTree
	nFeatures int
}

// Option functional config
type Option func(*GradientBoostingClassifier)

func WithEstimators(n int) Option {
	return func(c *GradientBoostingClassifier) { c.NEstimators = n }
}
func WithLearningRate(lr float64) Option {
	return func(c *GradientBoostingClassifier) { c.LearningRate = lr }
}
func WithMaxDepth(d int) Option {
	return func(c *GradientBoostingClassifier) { c.MaxDepth = d }
}
func WithMinSamplesSplit(n int) Option {
	return func(c *GradientBoostingClassifier) { c.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(c *GradientBoostingClassifier) { c.MinSamplesLeaf = n }
}

// NewGradientBoostingClassifier returns a classifier with 100 stages of
// depth-3 trees at learning rate 0.1.
func NewGradientBoostingClassifier(opts ...Option) *GradientBoostingClassifier {
	c := &GradientBoostingClassifier{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fit trains the ensemble on X (n x p) and 0/1 labels y.
func (c *GradientBoostingClassifier) Fit(X mat.Matrix, y []int) error {
	if c.NEstimators < 1 || c.LearningRate <= 0 {
		return fmt.Errorf("gbdt: invalid hyperparameters (estimators=%d, learning rate=%g)", c.NEstimators, c.LearningRate)
	}
	rows := denseRows(X)
	n := len(rows)
	if n == 0 || len(rows[0]) == 0 {
		return core.ErrEmptyTrainingSet
	}
	if len(y) != n {
		return fmt.Errorf("gbdt: X has %d rows but y has %d labels", n, len(y))
	}

	target := make([]float64, n)
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("%w: got %d at row %d", core.ErrInvalidLabel, label, i)
		}
		target[i] = float64(label)
	}
	prior := floats.Sum(target) / float64(n)
	if prior == 0 || prior == 1 {
		return core.ErrSingleClass
	}

	c.nFeatures = len(rows[0])
	c.initScore = math.Log(prior / (1 - prior))
	c.trees = make([]*regressionTree, 0, c.NEstimators)

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = c.initScore
	}
	prob := make([]float64, n)
	residual := make([]float64, n)

	// Newton step for log-loss: sum(residual) / sum(p(1-p))
	leafValue := func(idx []int) float64 {
		var num, den float64
		for _, i := range idx {
			num += residual[i]
			den += prob[i] * (1 - prob[i])
		}
		if math.Abs(den) < 1e-150 {
			return 0
		}
		return num / den
	}

	for m := 0; m < c.NEstimators; m++ {
		for i := range raw {
			prob[i] = sigmoid(raw[i])
			residual[i] = target[i] - prob[i]
		}
		tree := newRegressionTree(c.MaxDepth, c.MinSamplesSplit, c.MinSamplesLeaf)
		tree.fit(rows, residual, leafValue)
		for i, row := range rows {
			raw[i] += c.LearningRate * tree.predict(row)
		}
		c.trees = append(c.trees, tree)
	}
	return nil
}

// DecisionFunction returns the raw log-odds score per row
func (c *GradientBoostingClassifier) DecisionFunction(X mat.Matrix) ([]float64, error) {
	if c.trees == nil {
		return nil, core.ErrNotFitted
	}
	rows := denseRows(X)
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != c.nFeatures {
			return nil, fmt.Errorf("%w: got %d columns, want %d", core.ErrFeatureMismatch, len(row), c.nFeatures)
		}
		score := c.initScore
		for _, tree := range c.trees {
			score += c.LearningRate * tree.predict(row)
		}
		out[i] = score
	}
	return out, nil
}

// PredictProba returns the probability of class 1 for each row
func (c *GradientBoostingClassifier) PredictProba(X mat.Matrix) ([]float64, error) {
	raw, err := c.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	for i, f := range raw {
		raw[i] = sigmoid(f)
	}
	return raw, nil
}

// Predict returns the argmax class of [1-p, p]; an exact tie goes to class 0
func (c *GradientBoostingClassifier) Predict(X mat.Matrix) ([]int, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > 1-p {
			out[i] = 1
		}
	}
	return out, nil
}

// Score returns the mean accuracy on X against y
func (c *GradientBoostingClassifier) Score(X mat.Matrix, y []int) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, fmt.Errorf("gbdt: %d predictions for %d labels", len(pred), len(y))
	}
	return Accuracy(y, pred), nil
}

// Stages returns the number of fitted trees
func (c *GradientBoostingClassifier) Stages() int {
	return len(c.trees)
}

func sigmoid(f float64) float64 {
	return 1 / (1 + math.Exp(-f))
}

func denseRows(X mat.Matrix) [][]float64 {
	if X == nil {
		return nil
	}
	r, _ := X.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = mat.Row(nil, i, X)
	}
	return rows
}
