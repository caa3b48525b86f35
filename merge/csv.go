package merge

import (
	"github.com/rykov/convocgen/config"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"encoding/csv"
	"io"
)

// RowReader reads one CSV record at a time: separator ";"
// by default, fields optionally enclosed in double quotes with
// doubled quotes as escapes. Bad quoting is read best-effort,
// rows may have any number of fields and blank lines are skipped.
type RowReader struct {
	csv *csv.Reader
}

func NewRowReader(r io.Reader, cfg config.CSVConfig) (*RowReader, error) {
	comma, err := cfg.Comma()
	if err != nil {
		return nil, err
	}

	// Spreadsheet exports often start with a UTF-8 BOM
	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	csvReader := csv.NewReader(r)
	csvReader.Comma = comma
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1
	return &RowReader{csv: csvReader}, nil
}

// Read returns the next row, or io.EOF when input is exhausted
func (r *RowReader) Read() ([]string, error) {
	return r.csv.Read()
}

// Line of the row last returned by Read
func (r *RowReader) Line() int {
	line, _ := r.csv.FieldPos(0)
	return line
}
