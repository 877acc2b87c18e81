package textnorm_test

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/unicode/norm"

	"ocrprep/internal/textnorm"
)

func TestNFCComposesDecomposedText(t *testing.T) {
	decomposed := "pól" // "pól" with combining acute
	composed := textnorm.NFC(decomposed)
	if composed != "pól" {
		t.Fatalf("expected composed form, got %q", composed)
	}
	if !textnorm.IsNFC(composed) {
		t.Fatal("composed form should report as NFC")
	}
	if textnorm.IsNFC(decomposed) {
		t.Fatal("decomposed form should not report as NFC")
	}
}

func TestNormalizeTreeRenamesDeepestFirst(t *testing.T) {
	root := t.TempDir()
	// Directory and file both in NFD form; the file sits inside the
	// decomposed directory, so its rename must happen first.
	dirNFD := filepath.Join(root, "książki") // "książki" decomposed
	if err := os.MkdirAll(dirNFD, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fileNFD := filepath.Join(dirNFD, "józef.jpg")
	if err := os.WriteFile(fileNFD, []byte("img"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	renamed, err := textnorm.NormalizeTree(root)
	if err != nil {
		t.Fatalf("NormalizeTree failed: %v", err)
	}
	if renamed != 2 {
		t.Fatalf("expected 2 renames, got %d", renamed)
	}

	want := filepath.Join(root, norm.NFC.String("książki"), norm.NFC.String("józef.jpg"))
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("normalized path missing: %v", err)
	}
}

func TestNormalizeTreeIsIdempotent(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "ósma.png"), nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := textnorm.NormalizeTree(root); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	renamed, err := textnorm.NormalizeTree(root)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if renamed != 0 {
		t.Fatalf("second pass renamed %d entries, want 0", renamed)
	}
}

func TestNormalizeTreeLeavesASCIIAlone(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "imgs", "0001.jpg")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	renamed, err := textnorm.NormalizeTree(root)
	if err != nil {
		t.Fatalf("NormalizeTree failed: %v", err)
	}
	if renamed != 0 {
		t.Fatalf("expected no renames for ASCII names, got %d", renamed)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("original path missing: %v", err)
	}
}
