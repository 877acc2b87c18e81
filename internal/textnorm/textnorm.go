// Package textnorm canonicalizes text and file names to Unicode NFC.
//
// Archives produced on some platforms (macOS in particular) store file names
// in decomposed form (NFD), while label CSVs are typically composed (NFC).
// Everything downstream compares paths byte-for-byte, so both sides are
// brought to NFC first.
package textnorm

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NFC returns the NFC-normalized form of s.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// IsNFC reports whether s is already in NFC form.
func IsNFC(s string) bool {
	return norm.NFC.IsNormalString(s)
}

// NormalizeTree renames every file and directory under root whose base name
// is not in NFC form. Entries are renamed deepest-first so a parent rename
// never invalidates a child path that is still pending. The operation is
// idempotent: a second pass renames nothing.
func NormalizeTree(root string) (int, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", root, err)
	}

	// Deepest entries first; ties broken lexicographically for determinism.
	sort.Slice(paths, func(i, j int) bool {
		di := strings.Count(paths[i], string(filepath.Separator))
		dj := strings.Count(paths[j], string(filepath.Separator))
		if di != dj {
			return di > dj
		}
		return paths[i] < paths[j]
	})

	renamed := 0
	for _, path := range paths {
		base := filepath.Base(path)
		normalized := NFC(base)
		if normalized == base {
			continue
		}
		target := filepath.Join(filepath.Dir(path), normalized)
		if err := os.Rename(path, target); err != nil {
			return renamed, fmt.Errorf("rename %q: %w", path, err)
		}
		renamed++
	}
	return renamed, nil
}
