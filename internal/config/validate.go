package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateParser() error {
	if c.Parser.MaxContainerMiB <= 0 || c.Parser.MaxContainerMiB > maxContainerMiBLimit {
		return fmt.Errorf("parser.max_container_mib must be between 1 and %d, got %d", maxContainerMiBLimit, c.Parser.MaxContainerMiB)
	}
	if c.Parser.MaxTextMiB <= 0 || c.Parser.MaxTextMiB > maxTextMiBLimit {
		return fmt.Errorf("parser.max_text_mib must be between 1 and %d, got %d", maxTextMiBLimit, c.Parser.MaxTextMiB)
	}
	for _, keyword := range c.Parser.Keywords {
		if len(keyword) > 79 {
			return fmt.Errorf("parser.keywords: %q exceeds the 79 byte PNG keyword limit", keyword)
		}
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.Workers <= 0 || c.Library.Workers > maxLibraryWorkers {
		return fmt.Errorf("library.workers must be between 1 and %d, got %d", maxLibraryWorkers, c.Library.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
