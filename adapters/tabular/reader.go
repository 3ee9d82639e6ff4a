package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"studentrisk/domain/core"
	"studentrisk/internal"
	"studentrisk/internal/errors"
)

// Reader loads the student table from a delimited or .xlsx file
type Reader struct {
	filePath  string
	fileType  string // "xlsx" or "csv"
	delimiter rune
	sheet     string
	logger    *internal.Logger
}

// NewReader creates a reader; .xlsx files go through excelize, everything else is delimited text
func NewReader(filePath string, opts ...Option) *Reader {
	fileType := "csv"
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		fileType = "xlsx"
	}
	r := &Reader{
		filePath:  filePath,
		fileType:  fileType,
		delimiter: ';',
		logger:    internal.DefaultLogger.With("DataReader"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses the file into a Table. Any failure is fatal for the session.
func (r *Reader) Read() (*Table, error) {
	r.logger.Info("Starting to read %s file: %s", r.fileType, r.filePath)

	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, errors.DatasetError(
			fmt.Sprintf("%s file not readable: %s", strings.ToUpper(r.fileType), r.filePath),
			fmt.Errorf("%w: %v", core.ErrDatasetUnreadable, err),
		)
	}

	var rows [][]string
	readStart := time.Now()
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows(raw)
	default:
		rows, err = r.readDelimitedRows(raw)
	}
	if err != nil {
		return nil, errors.DatasetError("failed to parse dataset", fmt.Errorf("%w: %v", core.ErrDatasetUnreadable, err))
	}
	r.logger.Debug("%s parsed in %.2fms (%d rows incl. header)",
		strings.ToUpper(r.fileType), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	table, err := FromRecords(rows)
	if err != nil {
		return nil, err
	}
	table.Path = r.filePath
	table.Fingerprint = core.NewHash(raw)

	r.logger.Info("%s file processed (%d columns, %d rows, fingerprint %s)",
		strings.ToUpper(r.fileType), table.Frame.Ncol(), table.Rows(), table.Fingerprint.Short())
	return table, nil
}

func (r *Reader) readDelimitedRows(raw []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = r.delimiter
	return reader.ReadAll()
}

func (r *Reader) readExcelRows(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	if len(rows) > 0 {
		// excelize drops trailing empty cells
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row[:width]
		}
	}
	return rows, nil
}

// FromRecords builds a Table from a header row plus data rows, detecting column types
func FromRecords(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.DatasetError("dataset has no header row", core.ErrDatasetEmpty)
	}
	if len(rows) < 2 {
		return nil, errors.DatasetError("dataset must have at least a header row and one data row", core.ErrDatasetEmpty)
	}

	records := make([][]string, len(rows))
	for i, row := range rows {
		trimmed := make([]string, len(row))
		for j, cell := range row {
			trimmed[j] = strings.TrimSpace(cell)
		}
		records[i] = trimmed
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return nil, errors.DatasetError("failed to build table", fmt.Errorf("%w: %v", core.ErrDatasetUnreadable, df.Err))
	}

	return &Table{Frame: df, Fingerprint: core.NewHash(joinRecords(records))}, nil
}

func joinRecords(records [][]string) []byte {
	var buf bytes.Buffer
	for _, row := range records {
		buf.WriteString(strings.Join(row, "\x1f"))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
