package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default returns the repository default configuration.
func Default() Config {
	cacheDir := defaultCacheDir()
	return Config{
		Cache: Cache{
			Dir: cacheDir,
		},
		Viewer: Viewer{
			Binary: "vd",
		},
		Engine: Engine{
			Threads: 0, // 0 lets DuckDB pick
		},
		History: History{
			Enabled: true,
			Path:    filepath.Join(cacheDir, "history.db"),
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "qv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "qv-cache")
	}
	return filepath.Join(home, ".cache", "qv")
}
