package fetch

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Peek returns the names of the first count members of a tar.gz archive.
// The fetch command logs these at debug level so surprising name forms
// (NFD file names in particular) are visible before extraction.
func Peek(archivePath string, count int) ([]string, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for len(names) < count {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
		}
		names = append(names, header.Name)
	}
	return names, nil
}

// ExtractTarGz unpacks a tar.gz archive into destDir and returns the number
// of regular files written. Member names are validated against path
// traversal; anything that would escape destDir aborts the extraction.
// There is no partial-extraction recovery: on error the caller gets whatever
// was already written plus a descriptive failure.
func ExtractTarGz(archivePath, destDir string) (int, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return 0, fmt.Errorf("read archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create extraction directory: %w", err)
	}

	files := 0
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, fmt.Errorf("read archive %s: %w", archivePath, err)
		}

		target, err := memberPath(destDir, header.Name)
		if err != nil {
			return files, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, fmt.Errorf("create directory %q: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return files, fmt.Errorf("create directory for %q: %w", target, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return files, fmt.Errorf("create file %q: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return files, fmt.Errorf("extract %q: %w", header.Name, err)
			}
			if err := out.Close(); err != nil {
				return files, fmt.Errorf("close %q: %w", target, err)
			}
			files++
		default:
			// Symlinks and special files do not occur in image datasets.
		}
	}
	return files, nil
}

func memberPath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive member %q escapes extraction directory", name)
	}
	return filepath.Join(destDir, cleaned), nil
}
