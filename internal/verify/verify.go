// Package verify cross-checks the labels CSV against the extracted image
// tree. It exists because archive extraction and filename normalization can
// silently drift from the CSV: a verification pass after fetch catches the
// mismatch before hours of training are wasted on a partial dataset.
package verify

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ocrprep/internal/labels"
	"ocrprep/internal/logging"
	"ocrprep/internal/textnorm"
)

// Report summarizes a verification pass.
type Report struct {
	Total   int
	Missing []string
}

// OK reports whether every CSV-referenced image was found.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Run checks that every image referenced by the CSV at csvPath exists under
// imageRoot. Both sides are compared in NFC form.
func Run(csvPath, imageRoot string, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	records, err := labels.ReadRecords(csvPath, logger)
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(records)}
	for _, record := range records {
		path := textnorm.NFC(record.Path)
		if _, err := os.Stat(filepath.Join(imageRoot, filepath.FromSlash(path))); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Missing = append(report.Missing, path)
				continue
			}
			return report, fmt.Errorf("stat image %q: %w", path, err)
		}
	}

	if report.OK() {
		logger.Info("all csv rows match the extracted data",
			logging.Int("rows", report.Total))
	} else {
		logger.Warn("csv references images missing from disk",
			logging.Int("rows", report.Total),
			logging.Int("missing", len(report.Missing)))
	}
	return report, nil
}
