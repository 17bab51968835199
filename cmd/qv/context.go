package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"qv/internal/config"
	"qv/internal/logging"
	"qv/internal/resultcache"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger from config, honoring the
// --log-level override. Logging goes to stderr so stdout stays clean.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		level := "info"
		format := "console"
		if cfg, err := c.ensureConfig(); err == nil {
			level = cfg.Logging.Level
			format = cfg.Logging.Format
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = strings.TrimSpace(*c.logLevelFlag)
		}

		logger, err := logging.New(logging.Options{Level: level, Format: format, Output: os.Stderr})
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console", Output: os.Stderr})
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) resultStore() (*resultcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return resultcache.New(cfg.Cache.Dir, c.ensureLogger()), nil
}
