package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}

	if err := c.normalizeCodecs(); err != nil {
		return err
	}

	c.normalizeDataset()
	c.normalizeVisqol()
	c.normalizeLogging()

	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CODECBENCH_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}

	var err error

	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.OriginalDir) == "" {
		c.Paths.OriginalDir = filepath.Join(c.Paths.DataDir, "original")
	}

	if c.Paths.OriginalDir, err = expandPath(c.Paths.OriginalDir); err != nil {
		return fmt.Errorf("paths.original_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.ProcessedDir) == "" {
		c.Paths.ProcessedDir = filepath.Join(c.Paths.DataDir, "processed")
	}

	if c.Paths.ProcessedDir, err = expandPath(c.Paths.ProcessedDir); err != nil {
		return fmt.Errorf("paths.processed_dir: %w", err)
	}

	return nil
}

func (c *Config) normalizeCodecs() error {
	for name, entry := range c.Codecs {
		entry.Type = strings.ToLower(strings.TrimSpace(entry.Type))

		var err error

		if entry.Path, err = expandPath(strings.TrimSpace(entry.Path)); err != nil {
			return fmt.Errorf("codecs.%s.path: %w", name, err)
		}

		if entry.TimeoutSeconds == 0 {
			entry.TimeoutSeconds = defaultCodecTimeout
		}

		c.Codecs[name] = entry
	}

	return nil
}

func (c *Config) normalizeDataset() {
	c.Dataset.CodecSet = strings.TrimSpace(c.Dataset.CodecSet)
	if c.Dataset.CodecSet == "" {
		c.Dataset.CodecSet = defaultCodecSet
	}

	c.Dataset.Subset.Name = strings.TrimSpace(c.Dataset.Subset.Name)
	if c.Dataset.Subset.Name == "" {
		c.Dataset.Subset.Name = defaultSubset
	}

	for i, ext := range c.Dataset.Extensions {
		c.Dataset.Extensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}

	if c.Dataset.TestRunLimit == 0 {
		c.Dataset.TestRunLimit = defaultTestRunLimit
	}
}

func (c *Config) normalizeVisqol() {
	c.Visqol.Binary = strings.TrimSpace(c.Visqol.Binary)
	if c.Visqol.Binary == "" {
		c.Visqol.Binary = defaultVisqolBinary
	}

	c.Visqol.Model = strings.TrimSpace(c.Visqol.Model)

	if c.Visqol.TimeoutSeconds == 0 {
		c.Visqol.TimeoutSeconds = defaultVisqolTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
