package labels

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"ocrprep/internal/logging"
)

// Record is one (image path, label text) pair from the labels CSV.
// Row is the 1-based CSV row it came from.
type Record struct {
	Path  string
	Label string
	Row   int
}

// headerNames are the first-column values that mark a header row.
var headerNames = map[string]struct{}{
	"path":      {},
	"image":     {},
	"file_name": {},
	"filename":  {},
}

// ReadRecords parses the labels CSV at path, in input order. The header row
// is skipped, as are rows with fewer than two columns (logged at debug).
func ReadRecords(path string, logger *slog.Logger) ([]Record, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var records []Record
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv %s: %w", path, err)
		}
		row++

		if row == 1 && len(fields) > 0 {
			if _, ok := headerNames[strings.ToLower(strings.TrimSpace(fields[0]))]; ok {
				continue
			}
		}
		if len(fields) < 2 {
			logger.Debug("skipping short csv row",
				logging.Int(logging.FieldRow, row),
				logging.Int("columns", len(fields)))
			continue
		}

		records = append(records, Record{
			Path:  strings.TrimSpace(fields[0]),
			Label: strings.TrimSpace(fields[1]),
			Row:   row,
		})
	}
	return records, nil
}
