package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupported = errors.New("unsupported file type")

// Record is one data row keyed by its header cell.
type Record map[string]string

// ReadRecords picks a reader by file extension and returns the rows under
// the header row (1-based). Fully empty rows are skipped.
func ReadRecords(r io.Reader, filename string, headerRow int) ([]Record, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filename)
	}
}

// pickHeader takes the header row and names blank cells "Column N".
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

func toRecords(rows [][]string, headerRow int) []Record {
	if len(rows) == 0 {
		return nil
	}
	headers := pickHeader(rows, headerRow)
	start := headerRow
	if start < 1 {
		start = 1
	}
	var out []Record
	for i := start; i < len(rows); i++ {
		rec := make(Record, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rows[i]) {
				v = normalizeCell(rows[i][c])
			}
			if v != "" {
				empty = false
			}
			rec[h] = v
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}

func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
	return strings.TrimSpace(s)
}
