package student

import "fmt"

// Grade columns used to derive the risk label and the trend chart.
const (
	ColumnFirstPeriod  = "G1"
	ColumnSecondPeriod = "G2"
	ColumnFinalGrade   = "G3"
	ColumnAbsences     = "absences"
)

// GradeColumns lists the three sequential grade periods in order
var GradeColumns = []string{ColumnFirstPeriod, ColumnSecondPeriod, ColumnFinalGrade}

// PassingGrade is the failing threshold on the 0-20 grade scale
const PassingGrade = 10.0

// Label is the binary dropout-risk indicator
type Label int

const (
	NotAtRisk Label = 0
	AtRisk    Label = 1
)

// String returns the display name used by charts and alerts
func (l Label) String() string {
	switch l {
	case NotAtRisk:
		return "Not at Risk"
	case AtRisk:
		return "At Risk"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Valid reports whether l is 0 or 1
func (l Label) Valid() bool {
	return l == NotAtRisk || l == AtRisk
}

// Labels lists the two classes in display order
var Labels = []Label{NotAtRisk, AtRisk}

// Bounds is the inclusive range the selection control may take
type Bounds struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// NewBounds returns [0, rowCount-1] with step 1
func NewBounds(rowCount int) Bounds {
	max := rowCount - 1
	if max < 0 {
		max = 0
	}
	return Bounds{Min: 0, Max: max, Step: 1}
}

// Contains reports whether i is a reachable control value
func (b Bounds) Contains(i int) bool {
	return i >= b.Min && i <= b.Max
}

// Clamp pins i into the bounds
func (b Bounds) Clamp(i int) int {
	if i < b.Min {
		return b.Min
	}
	if i > b.Max {
		return b.Max
	}
	return i
}

// Selection is the user-chosen row index
type Selection struct {
	Index int `json:"index"`
}

// Select builds a Selection from a raw control value, clamped into b
func (b Bounds) Select(raw int) Selection {
	return Selection{Index: b.Clamp(raw)}
}
