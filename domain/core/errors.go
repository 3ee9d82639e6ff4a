package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrDatasetUnreadable = errors.New("dataset unreadable")
	ErrDatasetEmpty      = fmt.Errorf("%w: no data rows", ErrDatasetUnreadable)

	// Labeling errors
	ErrLabelUnavailable = errors.New("no suitable grade columns (G3 or G1/G2) found in dataset")
	ErrInvalidGrade     = errors.New("grade value is not numeric")

	// Model errors
	ErrEmptyTrainingSet  = errors.New("training data is empty")
	ErrUnsupportedColumn = errors.New("column cannot be transformed")
	ErrSingleClass       = errors.New("labels contain a single class")
	ErrInvalidLabel      = errors.New("label must be 0 or 1")
	ErrNotFitted         = errors.New("model is not fitted")
	ErrFeatureMismatch   = errors.New("feature count does not match fitted model")
	ErrRowOutOfRange     = errors.New("row index out of range")
	ErrSessionNotReady   = errors.New("session is not ready")
)

// NewColumnError reports a column that could not be used
func NewColumnError(base error, column string, reason string) error {
	return fmt.Errorf("%w: column %s: %s", base, column, reason)
}

// NewRowError reports a row index outside [0, rows)
func NewRowError(row, rows int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, row, rows)
}

// IsLoadError reports whether err happened while reading the dataset
func IsLoadError(err error) bool {
	return errors.Is(err, ErrDatasetUnreadable)
}

// IsLabelError reports whether err is a labeling failure
func IsLabelError(err error) bool {
	return errors.Is(err, ErrLabelUnavailable) ||
		errors.Is(err, ErrInvalidGrade)
}

// IsModelError reports whether err came from fitting or scoring the model
func IsModelError(err error) bool {
	return errors.Is(err, ErrEmptyTrainingSet) ||
		errors.Is(err, ErrUnsupportedColumn) ||
		errors.Is(err, ErrSingleClass) ||
		errors.Is(err, ErrInvalidLabel) ||
		errors.Is(err, ErrNotFitted) ||
		errors.Is(err, ErrFeatureMismatch)
}
