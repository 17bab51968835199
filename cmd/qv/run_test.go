package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"qv/internal/config"
	"qv/internal/engine"
	"qv/internal/history"
	"qv/internal/logging"
	"qv/internal/resultcache"
	"qv/internal/source"
	"qv/internal/viewer"
)

// testRunner fakes the engine and the viewer so the full control flow
// can run without DuckDB or a process replacement.
type testRunner struct {
	*runner
	executeCalls int
	launched     []string
	payload      string
}

func newTestRunner(t *testing.T) *testRunner {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(dir, "history.db")

	tr := &testRunner{payload: "result-v1"}
	tr.runner = &runner{
		cfg:    &cfg,
		logger: logging.NewNop(),
		store:  resultcache.New(cfg.Cache.Dir, nil),
		execute: func(ctx context.Context, req source.Request, outPath string) error {
			tr.executeCalls++
			return os.WriteFile(outPath, []byte(tr.payload), 0o644)
		},
		checkViewer: func(binary string) (string, error) {
			return "/usr/bin/" + binary, nil
		},
		launch: func(binaryPath string, extraArgs []string, resultPath string, env []string) error {
			tr.launched = append(tr.launched, resultPath)
			return nil
		},
	}
	return tr
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestMissThenHitSkipsExecutor(t *testing.T) {
	tr := newTestRunner(t)
	csv := writeCSV(t, t.TempDir())
	opts := runOptions{query: engine.DefaultQuery}

	if err := tr.run(context.Background(), csv, opts); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if tr.executeCalls != 1 {
		t.Fatalf("first run should execute once, got %d", tr.executeCalls)
	}

	if err := tr.run(context.Background(), csv, opts); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if tr.executeCalls != 1 {
		t.Errorf("identical invocation must not re-execute: %d calls", tr.executeCalls)
	}
	if len(tr.launched) != 2 || tr.launched[0] != tr.launched[1] {
		t.Errorf("both runs should open the same entry: %v", tr.launched)
	}
}

func TestDifferentQueryMisses(t *testing.T) {
	tr := newTestRunner(t)
	csv := writeCSV(t, t.TempDir())

	if err := tr.run(context.Background(), csv, runOptions{query: "SELECT 1"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if err := tr.run(context.Background(), csv, runOptions{query: "SELECT 2"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if tr.executeCalls != 2 {
		t.Errorf("different query should miss: %d calls", tr.executeCalls)
	}
}

func TestNoCacheForcesExecutorAndOverwrites(t *testing.T) {
	tr := newTestRunner(t)
	csv := writeCSV(t, t.TempDir())
	opts := runOptions{query: engine.DefaultQuery}

	if err := tr.run(context.Background(), csv, opts); err != nil {
		t.Fatalf("priming run failed: %v", err)
	}

	tr.payload = "result-v2"
	opts.noCache = true
	if err := tr.run(context.Background(), csv, opts); err != nil {
		t.Fatalf("no-cache run failed: %v", err)
	}
	if tr.executeCalls != 2 {
		t.Fatalf("--no-cache must invoke the executor, got %d calls", tr.executeCalls)
	}

	data, err := os.ReadFile(tr.launched[1])
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(data) != "result-v2" {
		t.Errorf("--no-cache must overwrite the entry, got %q", data)
	}
}

func TestFolderWithoutFormatFailsBeforeExecution(t *testing.T) {
	tr := newTestRunner(t)

	err := tr.run(context.Background(), t.TempDir(), runOptions{query: engine.DefaultQuery})
	if !errors.Is(err, source.ErrFormatRequired) {
		t.Fatalf("expected ErrFormatRequired, got %v", err)
	}
	if tr.executeCalls != 0 {
		t.Errorf("executor ran despite missing format: %d calls", tr.executeCalls)
	}
	if len(tr.launched) != 0 {
		t.Errorf("viewer launched despite failure")
	}
}

func TestMissingViewerFailsBeforeExecution(t *testing.T) {
	tr := newTestRunner(t)
	tr.checkViewer = func(string) (string, error) {
		return "", viewer.ErrLaunch
	}
	csv := writeCSV(t, t.TempDir())

	err := tr.run(context.Background(), csv, runOptions{query: engine.DefaultQuery})
	if !errors.Is(err, viewer.ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
	if tr.executeCalls != 0 {
		t.Errorf("executor must not run when the viewer is missing: %d calls", tr.executeCalls)
	}
}

func TestClearCacheMakesLookupsMiss(t *testing.T) {
	tr := newTestRunner(t)
	csv := writeCSV(t, t.TempDir())
	opts := runOptions{query: engine.DefaultQuery}

	if err := tr.run(context.Background(), csv, opts); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	removed, err := tr.store.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Clear removed %d, want 1", removed)
	}

	if err := tr.run(context.Background(), csv, opts); err != nil {
		t.Fatalf("run after clear failed: %v", err)
	}
	if tr.executeCalls != 2 {
		t.Errorf("post-clear run must re-execute: %d calls", tr.executeCalls)
	}
}

func TestHistoryRecordsHitAndMiss(t *testing.T) {
	tr := newTestRunner(t)
	csv := writeCSV(t, t.TempDir())
	opts := runOptions{query: engine.DefaultQuery}

	for i := 0; i < 2; i++ {
		if err := tr.run(context.Background(), csv, opts); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	store, err := history.Open(tr.cfg.History.Path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(entries))
	}
	// Newest first: second run was the hit.
	if !entries[0].CacheHit || entries[1].CacheHit {
		t.Errorf("hit/miss flags wrong: %+v", entries)
	}
	if entries[0].Digest == "" || entries[0].Digest != entries[1].Digest {
		t.Errorf("digests should match across runs: %+v", entries)
	}
}

func TestStagingFileRemovedBeforeLaunch(t *testing.T) {
	tr := newTestRunner(t)

	// The launcher replaces the process image, so deferred cleanup in
	// run never executes on success. The staging file must already be
	// gone by the time the viewer takes over.
	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	var staleAtLaunch []string
	tr.launch = func(binaryPath string, extraArgs []string, resultPath string, env []string) error {
		matches, err := filepath.Glob(filepath.Join(tmpDir, "qv-*"))
		if err != nil {
			t.Fatalf("glob temp dir: %v", err)
		}
		staleAtLaunch = matches
		return nil
	}

	csv := writeCSV(t, t.TempDir())
	if err := tr.run(context.Background(), csv, runOptions{query: engine.DefaultQuery}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if tr.executeCalls != 1 {
		t.Fatalf("expected one execution, got %d", tr.executeCalls)
	}
	if len(staleAtLaunch) != 0 {
		t.Errorf("staging files still present at launch: %v", staleAtLaunch)
	}
}

func TestHistoryFailureDoesNotAbortRun(t *testing.T) {
	tr := newTestRunner(t)
	// Point history at an unwritable location.
	tr.cfg.History.Path = filepath.Join(t.TempDir(), "missing-dir", "sub", "history.db")
	csv := writeCSV(t, t.TempDir())

	if err := tr.run(context.Background(), csv, runOptions{query: engine.DefaultQuery}); err != nil {
		t.Fatalf("run should survive history failure: %v", err)
	}
	if len(tr.launched) != 1 {
		t.Errorf("viewer not launched: %v", tr.launched)
	}
}
