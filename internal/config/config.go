package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Source describes where the dataset archive and labels CSV are fetched from.
type Source struct {
	ArchiveURL      string `toml:"archive_url"`
	CSVURL          string `toml:"csv_url"`
	DownloadTimeout int    `toml:"download_timeout"`
}

// Dataset contains the on-disk layout of inputs and generated artifacts,
// all relative to Paths.DataDir.
type Dataset struct {
	ArchiveName        string `toml:"archive_name"`
	CSVName            string `toml:"csv_name"`
	ExtractDir         string `toml:"extract_dir"`
	LabelFile          string `toml:"label_file"`
	EvalLabelFile      string `toml:"eval_label_file"`
	DictFile           string `toml:"dict_file"`
	EvalEveryN         int    `toml:"eval_every_n"`
	MissingImagePolicy string `toml:"missing_image_policy"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ocrprep.
//
// Configuration sections:
//   - Paths: data and log directories
//   - Source: dataset download URLs and timeout
//   - Dataset: input/output file names and conversion policies
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Source        Source        `toml:"source"`
	Dataset       Dataset       `toml:"dataset"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ocrprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The boolean reports whether a
// config file was found; defaults are used when it was not.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ocrprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ArchivePath returns the absolute path of the downloaded dataset archive.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Paths.DataDir, c.Dataset.ArchiveName)
}

// CSVPath returns the absolute path of the downloaded labels CSV.
func (c *Config) CSVPath() string {
	return filepath.Join(c.Paths.DataDir, c.Dataset.CSVName)
}

// ExtractPath returns the directory the archive is extracted into.
func (c *Config) ExtractPath() string {
	return filepath.Join(c.Paths.DataDir, c.Dataset.ExtractDir)
}

// LabelPath returns the absolute path of the generated training label file.
func (c *Config) LabelPath() string {
	return filepath.Join(c.Paths.DataDir, c.Dataset.LabelFile)
}

// EvalLabelPath returns the absolute path of the generated eval label file.
func (c *Config) EvalLabelPath() string {
	return filepath.Join(c.Paths.DataDir, c.Dataset.EvalLabelFile)
}

// DictPath returns the absolute path of the generated character dictionary.
func (c *Config) DictPath() string {
	return filepath.Join(c.Paths.DataDir, c.Dataset.DictFile)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
