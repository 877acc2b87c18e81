package labels

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"ocrprep/internal/config"
	"ocrprep/internal/fileutil"
	"ocrprep/internal/logging"
	"ocrprep/internal/textnorm"
)

// Options control a conversion run.
type Options struct {
	CSVPath       string
	ImageRoot     string
	LabelPath     string
	EvalLabelPath string
	DictPath      string
	// EvalEveryN routes every Nth surviving row to EvalLabelPath.
	// Zero disables the split.
	EvalEveryN int
	// MissingImagePolicy is config.MissingImageSkip or config.MissingImageFail.
	MissingImagePolicy string
}

// Summary reports what a conversion produced.
type Summary struct {
	Rows        int
	TrainRows   int
	EvalRows    int
	SkippedRows int
	Characters  int
	Encoding    string
	// Missing lists NFC-normalized image paths referenced by the CSV but
	// absent under ImageRoot.
	Missing []string
}

// Convert reads the labels CSV and writes the label file(s) and character
// dictionary. Row order is preserved and both path and label are written in
// NFC form. Rows whose image is missing on disk are skipped with a warning
// or abort the run, depending on MissingImagePolicy.
func Convert(opts Options, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	csvEncoding, rewritten, err := EnsureUTF8(opts.CSVPath)
	if err != nil {
		return nil, err
	}
	if rewritten {
		logger.Info("re-encoded labels csv to utf-8",
			logging.String("source_encoding", csvEncoding),
			logging.String(logging.FieldPath, opts.CSVPath))
	}

	records, err := ReadRecords(opts.CSVPath, logger)
	if err != nil {
		return nil, err
	}

	train, err := newLabelWriter(opts.LabelPath)
	if err != nil {
		return nil, err
	}
	defer train.discard()

	var eval *labelWriter
	if opts.EvalEveryN > 0 {
		eval, err = newLabelWriter(opts.EvalLabelPath)
		if err != nil {
			return nil, err
		}
		defer eval.discard()
	}

	summary := &Summary{Rows: len(records), Encoding: csvEncoding}
	chars := make(map[rune]struct{})
	surviving := 0
	for _, record := range records {
		path := textnorm.NFC(record.Path)
		label := textnorm.NFC(record.Label)

		if opts.ImageRoot != "" {
			if _, err := os.Stat(filepath.Join(opts.ImageRoot, filepath.FromSlash(path))); errors.Is(err, fs.ErrNotExist) {
				summary.Missing = append(summary.Missing, path)
				if opts.MissingImagePolicy == config.MissingImageFail {
					return nil, fmt.Errorf("csv row %d references missing image %q", record.Row, path)
				}
				summary.SkippedRows++
				logger.Warn("skipping row with missing image",
					logging.Int(logging.FieldRow, record.Row),
					logging.String(logging.FieldPath, path))
				continue
			} else if err != nil {
				return nil, fmt.Errorf("stat image %q: %w", path, err)
			}
		}

		surviving++
		target := train
		if eval != nil && surviving%opts.EvalEveryN == 0 {
			target = eval
			summary.EvalRows++
		} else {
			summary.TrainRows++
		}
		if err := target.writeRecord(path, label); err != nil {
			return nil, err
		}

		for _, r := range label {
			chars[r] = struct{}{}
		}
	}

	if err := train.commit(); err != nil {
		return nil, err
	}
	if eval != nil {
		if err := eval.commit(); err != nil {
			return nil, err
		}
	}

	summary.Characters = len(chars)
	if err := writeDictionary(opts.DictPath, chars); err != nil {
		return nil, err
	}
	return summary, nil
}

// writeDictionary emits one character per line in ascending rune order.
// Sorted order keeps the file stable run-to-run regardless of CSV ordering.
func writeDictionary(path string, chars map[rune]struct{}) error {
	runes := make([]rune, 0, len(chars))
	for r := range chars {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	var buf bytes.Buffer
	for _, r := range runes {
		buf.WriteRune(r)
		buf.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dictionary: %w", err)
	}
	return nil
}

// labelWriter buffers label lines into a temporary file that is renamed into
// place on commit, so a failed conversion never leaves a truncated label file.
type labelWriter struct {
	path    string
	tmpPath string
	file    *os.File
	buf     *bufio.Writer
	done    bool
}

func newLabelWriter(path string) (*labelWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create label file: %w", err)
	}
	return &labelWriter{
		path:    path,
		tmpPath: tmp.Name(),
		file:    tmp,
		buf:     bufio.NewWriter(tmp),
	}, nil
}

func (w *labelWriter) writeRecord(path, label string) error {
	if _, err := fmt.Fprintf(w.buf, "%s\t%s\n", path, label); err != nil {
		return fmt.Errorf("write label line: %w", err)
	}
	return nil
}

func (w *labelWriter) commit() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush label file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close label file: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("finalize label file: %w", err)
	}
	w.done = true
	return nil
}

func (w *labelWriter) discard() {
	if w.done {
		return
	}
	_ = w.file.Close()
	_ = os.Remove(w.tmpPath)
}
