// Package profiling summarizes the numeric columns of the loaded table.
package profiling

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ColumnProfile is the distribution summary of one numeric column
type ColumnProfile struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	NormalP  float64 `json:"normal_p"`
	IsNormal bool    `json:"is_normal"`
	Outliers int     `json:"outliers"`
}

// CategoryProfile counts the levels of one text column
type CategoryProfile struct {
	Name   string         `json:"name"`
	Levels map[string]int `json:"levels"`
}

// Profile covers every column of a table
type Profile struct {
	Rows        int               `json:"rows"`
	Numeric     []ColumnProfile   `json:"numeric"`
	Categorical []CategoryProfile `json:"categorical"`
}

// ProfileFrame summarizes each column of df, numeric and categorical apart
func ProfileFrame(df dataframe.DataFrame) Profile {
	p := Profile{Rows: df.Nrow()}
	for _, name := range df.Names() {
		col := df.Col(name)
		if col.Type() == series.String {
			p.Categorical = append(p.Categorical, profileCategories(name, col.Records()))
			continue
		}
		if cp, ok := ProfileColumn(name, col.Float()); ok {
			p.Numeric = append(p.Numeric, cp)
		}
	}
	return p
}

// ProfileColumn summarizes values, skipping NaN; ok is false when nothing is left
func ProfileColumn(name string, values []float64) (ColumnProfile, bool) {
	cp := ColumnProfile{Name: name}
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			cp.Missing++
			continue
		}
		data = append(data, v)
	}
	cp.Count = len(data)
	if cp.Count == 0 {
		return cp, false
	}

	cp.Mean, _ = stats.Mean(data)
	cp.StdDev, _ = stats.StandardDeviation(data)
	cp.Min, _ = stats.Min(data)
	cp.Max, _ = stats.Max(data)
	cp.Median, _ = stats.Median(data)
	// too few points for a percentile falls back to the range ends
	var err error
	if cp.Q25, err = stats.Percentile(data, 25); err != nil {
		cp.Q25 = cp.Min
	}
	if cp.Q75, err = stats.Percentile(data, 75); err != nil {
		cp.Q75 = cp.Max
	}

	cp.Skewness = skewness(data, cp.Mean, cp.StdDev)
	cp.Kurtosis = kurtosis(data, cp.Mean, cp.StdDev)
	cp.IsNormal, cp.NormalP = normality(len(data), cp.Skewness, cp.Kurtosis)
	cp.Outliers = outliers(data, cp.Q25, cp.Q75)
	return cp, true
}

func profileCategories(name string, records []string) CategoryProfile {
	levels := make(map[string]int)
	for _, r := range records {
		levels[r]++
	}
	return CategoryProfile{Name: name, Levels: levels}
}

// SortedLevels returns the level names ordered by descending count, then name
func (c CategoryProfile) SortedLevels() []string {
	out := make([]string, 0, len(c.Levels))
	for k := range c.Levels {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if c.Levels[out[i]] != c.Levels[out[j]] {
			return c.Levels[out[i]] > c.Levels[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// skewness is the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosis is the bias-corrected sample kurtosis (3 for a normal distribution)
func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 3
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	excess := sum/n - 3
	excess = excess*(n-1)/((n-2)*(n-3)) + 6/(n+1)
	return excess + 3
}

// normality approximates a D'Agostino-style omnibus test from the moments,
// with a chi-squared(2) reference distribution.
func normality(n int, skew, kurt float64) (bool, float64) {
	if n < 8 {
		return false, 1
	}
	stat := float64(n) / 6 * (skew*skew + (kurt-3)*(kurt-3)/4)
	p := 1 - distuv.ChiSquared{K: 2}.CDF(stat)
	return p > 0.05, p
}

// outliers counts points outside the 1.5 IQR fences
func outliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lo, hi := q25-1.5*iqr, q75+1.5*iqr
	count := 0
	for _, x := range data {
		if x < lo || x > hi {
			count++
		}
	}
	return count
}
