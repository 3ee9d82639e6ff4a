package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentrisk/domain/core"
)

func TestTrainTestSplitSizes(t *testing.T) {
	tests := []struct {
		n         int
		wantTest  int
		wantTrain int
	}{
		{10, 2, 8},
		{649, 130, 519},
		{395, 79, 316},
		{3, 1, 2},
	}
	for _, tt := range tests {
		train, test, err := TrainTestSplit(tt.n, 0.2, 42)
		require.NoError(t, err)
		assert.Len(t, test, tt.wantTest, "n=%d", tt.n)
		assert.Len(t, train, tt.wantTrain, "n=%d", tt.n)

		all := append(append([]int(nil), train...), test...)
		sort.Ints(all)
		for i, v := range all {
			require.Equal(t, i, v, "partitions must cover 0..n-1 exactly once")
		}
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	trainA, testA, err := TrainTestSplit(200, 0.2, 42)
	require.NoError(t, err)
	trainB, testB, err := TrainTestSplit(200, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, trainA, trainB)
	assert.Equal(t, testA, testB)

	trainC, _, err := TrainTestSplit(200, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, trainA, trainC)
}

func TestTrainTestSplitRejectsTinyInputs(t *testing.T) {
	for _, n := range []int{0, 1} {
		_, _, err := TrainTestSplit(n, 0.2, 42)
		assert.ErrorIs(t, err, core.ErrEmptyTrainingSet, "n=%d", n)
	}
	_, _, err := TrainTestSplit(10, 1.5, 42)
	assert.Error(t, err)
}
