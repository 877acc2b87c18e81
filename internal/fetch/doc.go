// Package fetch downloads the dataset archive and labels CSV and extracts
// the archive into the data directory. Downloads are skipped when the target
// file already exists, so re-running fetch after a failure resumes at the
// extraction step rather than pulling the archive again.
package fetch
