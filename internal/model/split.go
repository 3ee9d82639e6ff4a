package model

import (
	"fmt"
	"math"
	"math/rand"

	"studentrisk/domain/core"
)

// TrainTestSplit shuffles row indices 0..n-1 with a seeded source and cuts
// ceil(testSize*n) of them off as the test partition.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size %.2f must be in (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, nil, fmt.Errorf("%w: %d rows cannot be split %.0f/%.0f", core.ErrEmptyTrainingSet, n, (1-testSize)*100, testSize*100)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	return train, test, nil
}
