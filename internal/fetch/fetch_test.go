package fetch_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ocrprep/internal/fetch"
	"ocrprep/internal/logging"
)

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "dataset.tar.gz")
	fetcher := fetch.New(logging.NewNop(), time.Minute)

	downloaded, err := fetcher.Download(context.Background(), server.URL, dest)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !downloaded {
		t.Fatal("expected download to happen")
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "archive-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestDownloadSkipsExistingFile(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "dataset.tar.gz")
	if err := os.WriteFile(dest, []byte("already here"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}

	fetcher := fetch.New(logging.NewNop(), time.Minute)
	downloaded, err := fetcher.Download(context.Background(), server.URL, dest)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if downloaded {
		t.Fatal("expected download to be skipped")
	}
	if requests != 0 {
		t.Fatalf("expected no requests, server saw %d", requests)
	}
}

func TestDownloadFailsOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "dataset.tar.gz")
	fetcher := fetch.New(logging.NewNop(), time.Minute)
	if _, err := fetcher.Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("failed download must not leave a destination file")
	}
}

func writeArchive(t *testing.T, members map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range members {
		header := &tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write tar content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "dataset.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestExtractTarGzUnpacksTree(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"imgs/0001.jpg": "first",
		"imgs/0002.jpg": "second",
	})
	dest := t.TempDir()

	files, err := fetch.ExtractTarGz(archive, dest)
	if err != nil {
		t.Fatalf("ExtractTarGz failed: %v", err)
	}
	if files != 2 {
		t.Fatalf("expected 2 files, got %d", files)
	}
	data, err := os.ReadFile(filepath.Join(dest, "imgs", "0001.jpg"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestExtractTarGzRejectsTraversal(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"../evil.txt": "nope",
	})
	if _, err := fetch.ExtractTarGz(archive, t.TempDir()); err == nil {
		t.Fatal("expected traversal error")
	}
}

func TestExtractTarGzFailsOnCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.tar.gz")
	if err := os.WriteFile(path, []byte("not a gzip stream"), 0o644); err != nil {
		t.Fatalf("write corrupt archive: %v", err)
	}
	if _, err := fetch.ExtractTarGz(path, t.TempDir()); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
}

func TestPeekListsLeadingMembers(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"imgs/0001.jpg": "first",
	})
	names, err := fetch.Peek(archive, 5)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if len(names) != 1 || names[0] != "imgs/0001.jpg" {
		t.Fatalf("unexpected names: %v", names)
	}
}
