package model

import (
	"sort"
)

// treeNode is one node of a regression tree. Leaves carry value; internal
// nodes route x[feature] <= threshold to left.
type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	samples   int
}

// regressionTree fits residuals with variance-reduction splits. Leaf values
// come from a caller-supplied estimator so the booster can apply Newton steps.
type regressionTree struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	nodes           []treeNode
}

// leafEstimator returns the output value of a leaf holding rows idx
type leafEstimator func(idx []int) float64

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func newRegressionTree(maxDepth, minSamplesSplit, minSamplesLeaf int) *regressionTree {
	return &regressionTree{
		maxDepth:        maxDepth,
		minSamplesSplit: minSamplesSplit,
		minSamplesLeaf:  minSamplesLeaf,
	}
}

func (t *regressionTree) fit(rows [][]float64, target []float64, leafValue leafEstimator) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	t.nodes = t.nodes[:0]
	t.build(rows, target, idx, 0, leafValue)
}

func (t *regressionTree) build(rows [][]float64, target []float64, idx []int, depth int, leafValue leafEstimator) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{samples: len(idx)})

	if t.isTerminal(target, idx, depth) {
		t.nodes[id].leaf = true
		t.nodes[id].value = leafValue(idx)
		return id
	}

	best, ok := t.bestSplit(rows, target, idx)
	if !ok {
		t.nodes[id].leaf = true
		t.nodes[id].value = leafValue(idx)
		return id
	}

	left := t.build(rows, target, best.left, depth+1, leafValue)
	right := t.build(rows, target, best.right, depth+1, leafValue)
	t.nodes[id].feature = best.feature
	t.nodes[id].threshold = best.threshold
	t.nodes[id].left = left
	t.nodes[id].right = right
	return id
}

func (t *regressionTree) isTerminal(target []float64, idx []int, depth int) bool {
	n := len(idx)
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return true
	}
	if n < t.minSamplesSplit || n < 2*t.minSamplesLeaf {
		return true
	}
	var sum, sumSq float64
	for _, i := range idx {
		sum += target[i]
		sumSq += target[i] * target[i]
	}
	mean := sum / float64(n)
	return sumSq/float64(n)-mean*mean <= 1e-12
}

// bestSplit scans every feature in order and keeps the first split with the
// highest Friedman improvement n_l*n_r/n * (mean_l - mean_r)^2.
func (t *regressionTree) bestSplit(rows [][]float64, target []float64, idx []int) (split, bool) {
	n := len(idx)
	nFeatures := len(rows[idx[0]])
	sorted := make([]int, n)

	var total float64
	for _, i := range idx {
		total += target[i]
	}

	best := split{feature: -1}
	for f := 0; f < nFeatures; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return rows[sorted[a]][f] < rows[sorted[b]][f]
		})

		var leftSum float64
		for k := 0; k < n-1; k++ {
			leftSum += target[sorted[k]]
			nLeft := k + 1
			nRight := n - nLeft
			if nLeft < t.minSamplesLeaf || nRight < t.minSamplesLeaf {
				continue
			}
			lo := rows[sorted[k]][f]
			hi := rows[sorted[k+1]][f]
			if hi <= lo {
				continue
			}
			diff := leftSum/float64(nLeft) - (total-leftSum)/float64(nRight)
			gain := float64(nLeft) * float64(nRight) / float64(n) * diff * diff
			if gain > best.gain+1e-12 {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = split{feature: f, threshold: threshold, gain: gain}
			}
		}
	}
	if best.feature < 0 {
		return best, false
	}

	for _, i := range idx {
		if rows[i][best.feature] <= best.threshold {
			best.left = append(best.left, i)
		} else {
			best.right = append(best.right, i)
		}
	}
	return best, true
}

func (t *regressionTree) predict(row []float64) float64 {
	node := t.nodes[0]
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = t.nodes[node.left]
		} else {
			node = t.nodes[node.right]
		}
	}
	return node.value
}

func (t *regressionTree) depth() int {
	var walk func(id, d int) int
	walk = func(id, d int) int {
		node := t.nodes[id]
		if node.leaf {
			return d
		}
		l := walk(node.left, d+1)
		r := walk(node.right, d+1)
		if l > r {
			return l
		}
		return r
	}
	if len(t.nodes) == 0 {
		return 0
	}
	return walk(0, 0)
}
