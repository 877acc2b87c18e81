package labels_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ocrprep/internal/config"
	"ocrprep/internal/labels"
	"ocrprep/internal/logging"
)

func writeCSV(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "labels.csv")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func touchImages(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
			t.Fatalf("touch image: %v", err)
		}
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestConvertPreservesOrderAndTabSeparation(t *testing.T) {
	dir := t.TempDir()
	imageRoot := filepath.Join(dir, "imgs-root")
	touchImages(t, imageRoot, "imgs/0001.jpg", "imgs/0002.jpg")
	csvPath := writeCSV(t, dir,
		"path,label",
		"imgs/0001.jpg,Hello",
		"imgs/0002.jpg,World",
	)

	opts := labels.Options{
		CSVPath:            csvPath,
		ImageRoot:          imageRoot,
		LabelPath:          filepath.Join(dir, "train_labels.txt"),
		DictPath:           filepath.Join(dir, "dict.txt"),
		MissingImagePolicy: config.MissingImageSkip,
	}
	summary, err := labels.Convert(opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if summary.Rows != 2 || summary.TrainRows != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	lines := readLines(t, opts.LabelPath)
	want := []string{"imgs/0001.jpg\tHello", "imgs/0002.jpg\tWorld"}
	if len(lines) != len(want) {
		t.Fatalf("unexpected line count: %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestConvertDictionaryIsUniqueAndSorted(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir,
		"path,label",
		"a.jpg,Hello",
		"b.jpg,World",
	)

	opts := labels.Options{
		CSVPath:            csvPath,
		LabelPath:          filepath.Join(dir, "train_labels.txt"),
		DictPath:           filepath.Join(dir, "dict.txt"),
		MissingImagePolicy: config.MissingImageSkip,
	}
	summary, err := labels.Convert(opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	chars := readLines(t, opts.DictPath)
	// Distinct characters of "HelloWorld", case-sensitive.
	want := []string{"H", "W", "d", "e", "l", "o", "r"}
	if len(chars) != len(want) {
		t.Fatalf("dict = %v, want %v", chars, want)
	}
	seen := make(map[string]bool)
	for i, c := range chars {
		if c != want[i] {
			t.Fatalf("dict = %v, want %v", chars, want)
		}
		if seen[c] {
			t.Fatalf("duplicate dictionary entry %q", c)
		}
		seen[c] = true
	}
	if summary.Characters != len(want) {
		t.Fatalf("summary.Characters = %d, want %d", summary.Characters, len(want))
	}
}

func TestConvertLabelLinesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir,
		"path,label",
		"imgs/scan 1.jpg,ĺabel with spaces", // decomposed accent normalizes on write
		"imgs/empty.jpg,",
	)

	opts := labels.Options{
		CSVPath:            csvPath,
		LabelPath:          filepath.Join(dir, "train_labels.txt"),
		DictPath:           filepath.Join(dir, "dict.txt"),
		MissingImagePolicy: config.MissingImageSkip,
	}
	if _, err := labels.Convert(opts, logging.NewNop()); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	lines := readLines(t, opts.LabelPath)
	if len(lines) != 2 {
		t.Fatalf("unexpected lines: %v", lines)
	}
	for _, line := range lines {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			t.Fatalf("line %q does not split into two fields", line)
		}
	}
	if got := strings.SplitN(lines[1], "\t", 2); got[0] != "imgs/empty.jpg" || got[1] != "" {
		t.Fatalf("empty label not passed through: %q", lines[1])
	}
}

func TestConvertSkipsMissingImagesWithWarning(t *testing.T) {
	dir := t.TempDir()
	imageRoot := filepath.Join(dir, "imgs-root")
	touchImages(t, imageRoot, "imgs/present.jpg")
	csvPath := writeCSV(t, dir,
		"path,label",
		"imgs/present.jpg,here",
		"imgs/absent.jpg,gone",
	)

	opts := labels.Options{
		CSVPath:            csvPath,
		ImageRoot:          imageRoot,
		LabelPath:          filepath.Join(dir, "train_labels.txt"),
		DictPath:           filepath.Join(dir, "dict.txt"),
		MissingImagePolicy: config.MissingImageSkip,
	}
	summary, err := labels.Convert(opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if summary.SkippedRows != 1 || len(summary.Missing) != 1 || summary.Missing[0] != "imgs/absent.jpg" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	lines := readLines(t, opts.LabelPath)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "imgs/present.jpg\t") {
		t.Fatalf("unexpected label lines: %v", lines)
	}
}

func TestConvertFailsOnMissingImageWhenPolicyIsFail(t *testing.T) {
	dir := t.TempDir()
	imageRoot := filepath.Join(dir, "imgs-root")
	touchImages(t, imageRoot, "imgs/present.jpg")
	csvPath := writeCSV(t, dir,
		"path,label",
		"imgs/absent.jpg,gone",
	)

	opts := labels.Options{
		CSVPath:            csvPath,
		ImageRoot:          imageRoot,
		LabelPath:          filepath.Join(dir, "train_labels.txt"),
		DictPath:           filepath.Join(dir, "dict.txt"),
		MissingImagePolicy: config.MissingImageFail,
	}
	if _, err := labels.Convert(opts, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing image under fail policy")
	}
	if _, err := os.Stat(opts.LabelPath); !os.IsNotExist(err) {
		t.Fatal("failed conversion must not leave a label file behind")
	}
}

func TestConvertSplitsEvalRows(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"path,label"}
	for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
		lines = append(lines, "imgs/"+n+".jpg,label"+n)
	}
	csvPath := writeCSV(t, dir, lines...)

	opts := labels.Options{
		CSVPath:            csvPath,
		LabelPath:          filepath.Join(dir, "train_labels.txt"),
		EvalLabelPath:      filepath.Join(dir, "eval_labels.txt"),
		DictPath:           filepath.Join(dir, "dict.txt"),
		EvalEveryN:         3,
		MissingImagePolicy: config.MissingImageSkip,
	}
	summary, err := labels.Convert(opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if summary.TrainRows != 4 || summary.EvalRows != 2 {
		t.Fatalf("unexpected split: %+v", summary)
	}

	evalLines := readLines(t, opts.EvalLabelPath)
	if len(evalLines) != 2 || !strings.HasPrefix(evalLines[0], "imgs/3.jpg\t") || !strings.HasPrefix(evalLines[1], "imgs/6.jpg\t") {
		t.Fatalf("unexpected eval lines: %v", evalLines)
	}
}

func TestReadRecordsSkipsHeaderAndShortRows(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir,
		"file_name,transcription",
		"imgs/0001.jpg,first",
		"only-one-column",
		"imgs/0002.jpg,second",
	)

	records, err := labels.ReadRecords(csvPath, logging.NewNop())
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Path != "imgs/0001.jpg" || records[1].Label != "second" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].Row != 2 || records[1].Row != 4 {
		t.Fatalf("row numbers not preserved: %+v", records)
	}
}

func TestReadRecordsKeepsDataRowWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir,
		"imgs/0001.jpg,first",
		"imgs/0002.jpg,second",
	)

	records, err := labels.ReadRecords(csvPath, logging.NewNop())
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 2 || records[0].Path != "imgs/0001.jpg" {
		t.Fatalf("first data row must survive when no header present: %+v", records)
	}
}
