// Package main hosts the ocrprep CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into dataset
// operations: fetching and extracting the archive, converting the labels CSV,
// verifying the extracted tree, and inspecting recorded runs. It centralizes
// configuration resolution, structured logging setup, run locking, and the
// run catalog so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
