package config

import (
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	var err error

	c.Cache.Dir = strings.TrimSpace(c.Cache.Dir)
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return err
	}

	c.Viewer.Binary = strings.TrimSpace(c.Viewer.Binary)
	if c.Viewer.Binary == "" {
		c.Viewer.Binary = "vd"
	}

	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.Cache.Dir, "history.db")
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return err
	}

	c.Engine.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Engine.DefaultFormat))
	c.Engine.S3Region = strings.TrimSpace(c.Engine.S3Region)
	c.Engine.MemoryLimit = strings.TrimSpace(c.Engine.MemoryLimit)

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	return nil
}
