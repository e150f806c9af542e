package tabular

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/tsimport/internal/table"
	"github.com/xuri/excelize/v2"
)

// readWorkbook loads the first sheet of an Excel workbook.
// Separator settings do not apply; header and missing-value settings do.
func readWorkbook(r io.Reader, name string, cfg Config) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !isBlankRecord(row) {
			records = append(records, row)
		}
	}

	return buildTable(name, records, cfg)
}
