package tabular

import (
	"github.com/go-gota/gota/dataframe"

	"studentrisk/domain/core"
)

// Table is the student dataset held read-only for the session
type Table struct {
	Path        string              // Source file, empty for in-memory tables
	Frame       dataframe.DataFrame // Parsed columns with detected types
	Fingerprint core.Hash           // sha256 of the source bytes
}

// Rows returns the number of student records
func (t *Table) Rows() int {
	return t.Frame.Nrow()
}

// Columns returns the header names in file order
func (t *Table) Columns() []string {
	return t.Frame.Names()
}

// HasColumn reports whether the header row contains name
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.Frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// HasColumns reports whether every name is present
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if !t.HasColumn(name) {
			return false
		}
	}
	return true
}
