// Package labels converts the dataset's labels CSV into the artifacts the
// training framework consumes: tab-separated label files and a character
// dictionary.
//
// The CSV is expected to carry (image path, label text) columns with a header
// row. Conversion preserves input row order, normalizes both fields to NFC,
// and passes empty labels and duplicate paths through untouched. The
// dictionary lists every distinct character across all labels, one per line,
// in sorted rune order so the output is identical run-to-run.
package labels
