package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSource() error {
	for name, value := range map[string]string{
		"source.archive_url": c.Source.ArchiveURL,
		"source.csv_url":     c.Source.CSVURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, value)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must use http or https, got %q", name, parsed.Scheme)
		}
	}
	return nil
}

func (c *Config) validateDataset() error {
	switch c.Dataset.MissingImagePolicy {
	case MissingImageSkip, MissingImageFail:
	default:
		return fmt.Errorf("dataset.missing_image_policy must be %q or %q, got %q",
			MissingImageSkip, MissingImageFail, c.Dataset.MissingImagePolicy)
	}
	if c.Dataset.EvalEveryN == 1 {
		return errors.New("dataset.eval_every_n of 1 would route every row to the eval set")
	}
	if c.Dataset.LabelFile == c.Dataset.DictFile {
		return errors.New("dataset.label_file and dataset.dict_file must differ")
	}
	if c.Dataset.EvalEveryN > 0 && c.Dataset.EvalLabelFile == c.Dataset.LabelFile {
		return errors.New("dataset.eval_label_file and dataset.label_file must differ")
	}
	if strings.ContainsAny(c.Dataset.ExtractDir, "/\\") {
		return fmt.Errorf("dataset.extract_dir must be a bare directory name, got %q", c.Dataset.ExtractDir)
	}
	return nil
}
