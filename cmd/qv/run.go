package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"qv/internal/cachekey"
	"qv/internal/config"
	"qv/internal/engine"
	"qv/internal/history"
	"qv/internal/logging"
	"qv/internal/resultcache"
	"qv/internal/source"
	"qv/internal/viewer"
)

type runOptions struct {
	query   string
	format  string
	noCache bool
}

// runner wires the view flow together. The execute/checkViewer/launch
// seams exist so tests can run the flow without DuckDB or a process
// replacement.
type runner struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *resultcache.Store

	execute     func(ctx context.Context, req source.Request, outPath string) error
	checkViewer func(binary string) (string, error)
	launch      func(binaryPath string, extraArgs []string, resultPath string, env []string) error
}

func newRunner(ctx *commandContext) (*runner, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := ctx.ensureLogger()
	executor := engine.New(cfg.Engine, logger)

	return &runner{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "qv"),
		store:       resultcache.New(cfg.Cache.Dir, logger),
		execute:     executor.Execute,
		checkViewer: viewer.Check,
		launch:      viewer.Launch,
	}, nil
}

// run is the whole control flow: resolve source, derive key, check the
// cache, execute on a miss, record history, and hand off to the viewer.
// On success the launch seam replaces the process and run never returns.
func (r *runner) run(ctx context.Context, rawPath string, opts runOptions) error {
	req, err := source.Resolve(rawPath, opts.format, r.cfg.Engine.DefaultFormat, opts.query)
	if err != nil {
		return err
	}

	key := cachekey.Derive(req.Locator, req.Query)
	r.logger.Debug("request resolved",
		logging.String("locator", req.Locator),
		logging.String("digest", key),
		logging.Bool("no_cache", opts.noCache))

	// Fail fast if the viewer is missing; nothing should be executed or
	// downloaded for a result we cannot show.
	viewerPath, err := r.checkViewer(r.cfg.Viewer.Binary)
	if err != nil {
		return err
	}

	start := time.Now()
	hit := false
	var resultPath string

	if !opts.noCache {
		path, ok, err := r.store.Lookup(key)
		if err != nil {
			return err
		}
		if ok {
			hit = true
			resultPath = path
			r.logger.Info("using cached result", logging.String("path", path))
		}
	}

	if !hit {
		r.logger.Info("executing query",
			logging.String("source", req.Locator),
			logging.String("query", req.Query))

		tmpOut := filepath.Join(os.TempDir(), "qv-"+uuid.NewString()+".parquet")
		// The defer only covers failure paths: on success the viewer
		// exec replaces the process and deferred calls never run, so
		// the staging file is removed explicitly once committed.
		defer os.Remove(tmpOut)

		if err := r.execute(ctx, req, tmpOut); err != nil {
			return err
		}
		resultPath, err = r.store.Put(key, tmpOut)
		if err != nil {
			return err
		}
		os.Remove(tmpOut)
		r.logger.Info("result cached", logging.String("path", resultPath))
	}

	r.recordHistory(ctx, req, key, hit, time.Since(start))

	return r.launch(viewerPath, r.cfg.Viewer.Args, resultPath, os.Environ())
}

// recordHistory logs the invocation before the viewer exec replaces the
// process. History is best-effort: failures warn, never abort.
func (r *runner) recordHistory(ctx context.Context, req source.Request, digest string, hit bool, elapsed time.Duration) {
	if !r.cfg.History.Enabled {
		return
	}
	store, err := history.Open(r.cfg.History.Path)
	if err != nil {
		r.logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	err = store.Record(ctx, history.Entry{
		Source:     req.Locator,
		Query:      req.Query,
		Digest:     digest,
		CacheHit:   hit,
		DurationMS: elapsed.Milliseconds(),
	})
	if err != nil {
		r.logger.Warn("history record failed", logging.Error(err))
	}
}
