package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSource()
	c.normalizeDataset()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSource() {
	c.Source.ArchiveURL = strings.TrimSpace(c.Source.ArchiveURL)
	if c.Source.ArchiveURL == "" {
		c.Source.ArchiveURL = defaultArchiveURL
	}
	c.Source.CSVURL = strings.TrimSpace(c.Source.CSVURL)
	if c.Source.CSVURL == "" {
		c.Source.CSVURL = defaultCSVURL
	}
	if c.Source.DownloadTimeout <= 0 {
		c.Source.DownloadTimeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeDataset() {
	trim := func(value, fallback string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			return fallback
		}
		return value
	}
	c.Dataset.ArchiveName = trim(c.Dataset.ArchiveName, defaultArchiveName)
	c.Dataset.CSVName = trim(c.Dataset.CSVName, defaultCSVName)
	c.Dataset.ExtractDir = trim(c.Dataset.ExtractDir, defaultExtractDir)
	c.Dataset.LabelFile = trim(c.Dataset.LabelFile, defaultLabelFile)
	c.Dataset.EvalLabelFile = trim(c.Dataset.EvalLabelFile, defaultEvalLabelFile)
	c.Dataset.DictFile = trim(c.Dataset.DictFile, defaultDictFile)
	if c.Dataset.EvalEveryN < 0 {
		c.Dataset.EvalEveryN = 0
	}
	c.Dataset.MissingImagePolicy = strings.ToLower(strings.TrimSpace(c.Dataset.MissingImagePolicy))
	if c.Dataset.MissingImagePolicy == "" {
		c.Dataset.MissingImagePolicy = defaultMissingPolicy
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
