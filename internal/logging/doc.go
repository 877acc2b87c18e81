// Package logging builds the slog loggers used across ocrprep.
//
// Two output formats are supported: a human-oriented console format for
// interactive runs and JSON for anything that scrapes the logs. Attr helpers
// keep structured field names consistent between packages.
package logging
