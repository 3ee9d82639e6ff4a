package model

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"studentrisk/domain/core"
)

// Pipeline chains the column transform and the classifier over dataframes
type Pipeline struct {
	Preprocessor *ColumnTransformer
	Classifier   *GradientBoostingClassifier
}

// NewPipeline builds an unfitted pipeline; opts configure the classifier
func NewPipeline(opts ...Option) *Pipeline {
	return &Pipeline{
		Preprocessor: NewColumnTransformer(),
		Classifier:   NewGradientBoostingClassifier(opts...),
	}
}

// Fit learns the encoding from X, then fits the classifier on the encoded rows
func (p *Pipeline) Fit(X dataframe.DataFrame, y []int) error {
	if err := p.Preprocessor.Fit(X); err != nil {
		return fmt.Errorf("fit preprocessor: %w", err)
	}
	encoded, err := p.Preprocessor.Transform(X)
	if err != nil {
		return fmt.Errorf("transform training data: %w", err)
	}
	if err := p.Classifier.Fit(encoded, y); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}
	return nil
}

// Predict returns 0/1 per row of X
func (p *Pipeline) Predict(X dataframe.DataFrame) ([]int, error) {
	encoded, err := p.Preprocessor.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(encoded)
}

// PredictProba returns the class-1 probability per row of X
func (p *Pipeline) PredictProba(X dataframe.DataFrame) ([]float64, error) {
	encoded, err := p.Preprocessor.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.PredictProba(encoded)
}

// Score returns accuracy on X against y
func (p *Pipeline) Score(X dataframe.DataFrame, y []int) (float64, error) {
	encoded, err := p.Preprocessor.Transform(X)
	if err != nil {
		return 0, err
	}
	return p.Classifier.Score(encoded, y)
}

// TrainConfig fixes the hold-out split and classifier options
type TrainConfig struct {
	TestSize float64
	Seed     int64
	Options  []Option
}

// DefaultSeed keeps partitions reproducible across runs
const DefaultSeed int64 = 42

// DefaultTrainConfig is the 80/20 split with seed 42
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{TestSize: 0.2, Seed: DefaultSeed}
}

// Split records which rows went where
type Split struct {
	Train []int
	Test  []int
	Seed  int64
}

// Fingerprint hashes the partition so two runs can be compared
func (s Split) Fingerprint() core.Hash {
	return core.ComputePartitionHash(s.Train, s.Test, s.Seed)
}

// Trained is the session's fitted model plus its held-out accuracy
type Trained struct {
	Pipeline *Pipeline
	Accuracy float64
	Split    Split
}

// Train splits rows, fits the pipeline on the train partition and scores it
// on the test partition.
func Train(features dataframe.DataFrame, labels []int, cfg TrainConfig) (*Trained, error) {
	n := features.Nrow()
	if n != len(labels) {
		return nil, fmt.Errorf("%d feature rows but %d labels", n, len(labels))
	}
	train, test, err := TrainTestSplit(n, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}

	xTrain, yTrain, err := subset(features, labels, train)
	if err != nil {
		return nil, err
	}
	xTest, yTest, err := subset(features, labels, test)
	if err != nil {
		return nil, err
	}

	pipeline := NewPipeline(cfg.Options...)
	if err := pipeline.Fit(xTrain, yTrain); err != nil {
		return nil, err
	}
	accuracy, err := pipeline.Score(xTest, yTest)
	if err != nil {
		return nil, fmt.Errorf("score test partition: %w", err)
	}

	return &Trained{
		Pipeline: pipeline,
		Accuracy: accuracy,
		Split:    Split{Train: train, Test: test, Seed: cfg.Seed},
	}, nil
}

func subset(features dataframe.DataFrame, labels []int, idx []int) (dataframe.DataFrame, []int, error) {
	rows := features.Subset(idx)
	if rows.Err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("subset rows: %w", rows.Err)
	}
	y := make([]int, len(idx))
	for i, j := range idx {
		y[i] = labels[j]
	}
	return rows, y, nil
}
