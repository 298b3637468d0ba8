package ingest

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX parses the first sheet of a workbook into a Dataset, using the
// same header normalization as CSV uploads.
func LoadXLSX(path string, log zerolog.Logger) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	byIndex, err := NormalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}
	return fromRecords(byIndex, rows[1:], log), nil
}
