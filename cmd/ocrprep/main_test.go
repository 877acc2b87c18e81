package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	imageDir   string
	csvPath    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	logDir := filepath.Join(base, "logs")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[dataset]
csv_name = "labels.csv"
extract_dir = "images"

[logging]
format = "json"
level = "error"
`, dataDir, logDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		dataDir:    dataDir,
		imageDir:   filepath.Join(dataDir, "images"),
		csvPath:    filepath.Join(dataDir, "labels.csv"),
		configPath: configPath,
	}
}

// seedDataset writes an extracted image tree and a matching labels CSV, as if
// a fetch had already run.
func (env *cliTestEnv) seedDataset(t *testing.T, rows [][2]string) {
	t.Helper()

	if err := os.MkdirAll(env.imageDir, 0o755); err != nil {
		t.Fatalf("create image dir: %v", err)
	}
	var csv strings.Builder
	csv.WriteString("path,label\n")
	for _, row := range rows {
		imagePath := filepath.Join(env.imageDir, filepath.FromSlash(row[0]))
		if err := os.MkdirAll(filepath.Dir(imagePath), 0o755); err != nil {
			t.Fatalf("create image parent: %v", err)
		}
		if err := os.WriteFile(imagePath, []byte("img"), 0o644); err != nil {
			t.Fatalf("write image: %v", err)
		}
		fmt.Fprintf(&csv, "%s,%s\n", row[0], row[1])
	}
	if err := os.MkdirAll(filepath.Dir(env.csvPath), 0o755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	if err := os.WriteFile(env.csvPath, []byte(csv.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got %q", want, output)
	}
}

func TestCLIConvertAndStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedDataset(t, [][2]string{
		{"words/0001.png", "dom"},
		{"words/0002.png", "kot"},
	})

	out, _, err := runCLI(t, []string{"convert"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Rows converted:      2")

	labelData, err := os.ReadFile(filepath.Join(env.dataDir, "train_labels.txt"))
	if err != nil {
		t.Fatalf("read label file: %v", err)
	}
	want := "words/0001.png\tdom\nwords/0002.png\tkot\n"
	if string(labelData) != want {
		t.Fatalf("unexpected label file:\n%q\nwant:\n%q", labelData, want)
	}

	if _, err := os.Stat(filepath.Join(env.dataDir, "dict.txt")); err != nil {
		t.Fatalf("expected dictionary file: %v", err)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "convert")
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	requireContains(t, out, `"kind": "convert"`)
	requireContains(t, out, `"rows": 2`)
}

func TestCLIVerifyReportsMissingImages(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedDataset(t, [][2]string{
		{"words/0001.png", "dom"},
	})
	// Reference a second image the tree does not contain.
	csv := "path,label\nwords/0001.png,dom\nwords/0002.png,kot\n"
	if err := os.WriteFile(env.csvPath, []byte(csv), 0o644); err != nil {
		t.Fatalf("rewrite csv: %v", err)
	}

	out, _, err := runCLI(t, []string{"verify", "--list-missing"}, env.configPath)
	if err == nil {
		t.Fatal("expected verify to fail when images are missing")
	}
	requireContains(t, out, "words/0002.png")

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "verify")
}

func TestCLIVerifyPassesOnCompleteTree(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedDataset(t, [][2]string{
		{"words/0001.png", "dom"},
		{"words/0002.png", "kot"},
	})

	out, _, err := runCLI(t, []string{"verify"}, env.configPath)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "All 2 csv rows match")
}

func TestCLIStatusWithoutRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No recorded runs")
}
