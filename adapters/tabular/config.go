package tabular

import "studentrisk/internal"

// Option customises a Reader
type Option func(*Reader)

// WithDelimiter sets the field separator for delimited files
func WithDelimiter(d rune) Option {
	return func(r *Reader) { r.delimiter = d }
}

// WithLogger routes reader diagnostics to l
func WithLogger(l *internal.Logger) Option {
	return func(r *Reader) { r.logger = l.With("DataReader") }
}

// WithSheet selects the worksheet for .xlsx sources (default: first sheet)
func WithSheet(name string) Option {
	return func(r *Reader) { r.sheet = name }
}
