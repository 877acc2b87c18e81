// Package catalog persists prep run history in SQLite.
//
// Each CLI invocation that touches the dataset records a run: what operation
// ran, when, how many rows and characters it produced, and which CSV rows
// referenced images missing from disk. The status command reads this history
// back; nothing in the pipeline depends on it being present.
package catalog
