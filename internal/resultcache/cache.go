package resultcache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"qv/internal/logging"
)

// entryExt is the extension of every committed cache entry.
const entryExt = ".parquet"

// tmpPrefix marks in-flight writes; stale ones are swept by Clear.
const tmpPrefix = ".tmp-"

// ErrCacheIO marks cache storage failures (disk full, permissions, an
// unexpected directory squatting on an entry name).
var ErrCacheIO = errors.New("cache i/o error")

// Store maps digests to result files under a fixed directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New returns a store rooted at dir. The directory is created lazily on
// the first Put.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "resultcache"),
	}
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// EntryPath returns the path a committed entry for key would occupy,
// whether or not it exists.
func (s *Store) EntryPath(key string) string {
	return filepath.Join(s.dir, key+entryExt)
}

// Lookup returns the path of the cached entry for key, or ok=false when
// no entry exists.
func (s *Store) Lookup(key string) (string, bool, error) {
	path := s.EntryPath(key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: stat entry: %v", ErrCacheIO, err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("%w: entry path %s is a directory", ErrCacheIO, path)
	}

	s.logger.Debug("cache hit", logging.String("digest", key))
	return path, true, nil
}

// Put commits the file at sourcePath as the entry for key and returns the
// committed path. The data is first copied to a temp file in the cache
// directory, then renamed into place; an existing entry is replaced
// atomically.
func (s *Store) Put(key, sourcePath string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create cache directory: %v", ErrCacheIO, err)
	}

	tmpPath := filepath.Join(s.dir, tmpPrefix+uuid.NewString()+entryExt)
	if err := copyFile(sourcePath, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: stage entry: %v", ErrCacheIO, err)
	}

	committed := s.EntryPath(key)
	if err := os.Rename(tmpPath, committed); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: commit entry: %v", ErrCacheIO, err)
	}

	s.logger.Debug("entry committed",
		logging.String("digest", key),
		logging.String("path", committed))
	return committed, nil
}

// Clear removes every cache entry (and any stale temp file) and reports
// how many entries were removed. The first deletion error is returned;
// entries removed before the failure are still counted.
func (s *Store) Clear() (int, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: read cache directory: %v", ErrCacheIO, err)
	}

	removed := 0
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		// Only entries and stale temp files are removed; anything else
		// in the directory (the history database) is left alone.
		if !isEntryName(name) && !strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, fmt.Errorf("%w: remove %s: %v", ErrCacheIO, name, err)
		}
		if isEntryName(name) {
			removed++
		}
	}

	s.logger.Debug("cache cleared", logging.Int("removed", removed))
	return removed, nil
}

// EntrySummary describes one committed entry for cache inspection.
type EntrySummary struct {
	Digest     string
	SizeBytes  int64
	ModifiedAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int
	TotalBytes int64
	Summaries  []EntrySummary
}

// Stats walks the cache directory and summarizes committed entries,
// newest first.
func (s *Store) Stats() (Stats, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stats{}, nil
		}
		return Stats{}, fmt.Errorf("%w: read cache directory: %v", ErrCacheIO, err)
	}

	var stats Stats
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || !isEntryName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return Stats{}, fmt.Errorf("%w: stat %s: %v", ErrCacheIO, name, err)
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		stats.Summaries = append(stats.Summaries, EntrySummary{
			Digest:     strings.TrimSuffix(name, entryExt),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(stats.Summaries, func(i, j int) bool {
		return stats.Summaries[i].ModifiedAt.After(stats.Summaries[j].ModifiedAt)
	})
	return stats, nil
}

// isEntryName reports whether name looks like a committed entry: a hex
// digest followed by the parquet extension.
func isEntryName(name string) bool {
	if !strings.HasSuffix(name, entryExt) || strings.HasPrefix(name, tmpPrefix) {
		return false
	}
	digest := strings.TrimSuffix(name, entryExt)
	if digest == "" {
		return false
	}
	for _, r := range digest {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	return out.Close()
}
