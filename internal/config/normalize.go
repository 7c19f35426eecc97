package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	envLogLevel       = "INNKEEPER_LOG_LEVEL"
	envLibraryWorkers = "INNKEEPER_LIBRARY_WORKERS"
)

func (c *Config) normalize() error {
	c.normalizeParser()
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeParser() {
	keywords := make([]string, 0, len(c.Parser.Keywords))
	seen := make(map[string]struct{}, len(c.Parser.Keywords))
	for _, keyword := range c.Parser.Keywords {
		// Keywords are case-sensitive in PNG; only surrounding space is dropped.
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}
	if len(keywords) == 0 {
		keywords = []string{defaultKeyword}
	}
	c.Parser.Keywords = keywords
}

func (c *Config) normalizeLibrary() error {
	if value, ok := os.LookupEnv(envLibraryWorkers); ok && strings.TrimSpace(value) != "" {
		workers, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", envLibraryWorkers, err)
		}
		c.Library.Workers = workers
	}

	exts := make([]string, 0, len(c.Library.Extensions))
	seen := make(map[string]struct{}, len(c.Library.Extensions))
	for _, ext := range c.Library.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Library.Extensions = exts
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		dir, err := expandPath(c.Logging.Dir)
		if err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
		c.Logging.Dir = dir
	}
	return nil
}
