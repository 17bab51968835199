package config

import (
	"fmt"
)

var knownFormats = map[string]bool{
	"": true, "parquet": true, "csv": true, "tsv": true, "json": true,
}

// Validate reports configuration values that cannot be used as-is.
func (c *Config) Validate() error {
	if !knownFormats[c.Engine.DefaultFormat] {
		return fmt.Errorf("engine.default_format: unsupported format %q", c.Engine.DefaultFormat)
	}
	if c.Engine.Threads < 0 {
		return fmt.Errorf("engine.threads: must be >= 0, got %d", c.Engine.Threads)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
