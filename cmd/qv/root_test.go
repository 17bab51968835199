package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[cache]\ndir = \"" + filepath.Join(dir, "cache") + "\"\n" +
		"[history]\npath = \"" + filepath.Join(dir, "history.db") + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootRequiresPath(t *testing.T) {
	_, err := executeCommand(t)
	if err == nil || !strings.Contains(err.Error(), "PATH") {
		t.Fatalf("expected missing PATH error, got %v", err)
	}
}

func TestClearCacheFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	cacheDir := filepath.Join(dir, "cache")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatalf("mkdir cache: %v", err)
	}
	for _, digest := range []string{"aa11", "bb22"} {
		if err := os.WriteFile(filepath.Join(cacheDir, digest+".parquet"), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	out, err := executeCommand(t, "--config", cfgPath, "--clear-cache")
	if err != nil {
		t.Fatalf("clear-cache failed: %v", err)
	}
	if !strings.Contains(out, "Removed 2 entries") {
		t.Errorf("unexpected output: %q", out)
	}

	entries, _ := os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache not emptied: %v", entries)
	}
}

func TestClearCacheFlagEmptyCache(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := executeCommand(t, "--config", cfgPath, "--clear-cache")
	if err != nil {
		t.Fatalf("clear-cache failed: %v", err)
	}
	if !strings.Contains(out, "Removed 0 entries") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := executeCommand(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheStatsEmpty(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := executeCommand(t, "--config", cfgPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if !strings.Contains(out, "0 entries") {
		t.Errorf("unexpected stats output: %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := executeCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "binary = 'vd'") && !strings.Contains(out, `binary = "vd"`) {
		t.Errorf("config show missing viewer binary: %q", out)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	_, err := executeCommand(t, "--config", cfgPath, "config", "init")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fresh.toml")

	out, err := executeCommand(t, "--config", cfgPath, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Errorf("output does not mention path: %q", out)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("sample not written: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short passes through", "SELECT 1", 20, "SELECT 1"},
		{"ascii cut", "SELECT a, b, c", 9, "SELECT a…"},
		{"multibyte near cut point", "SELECT 'héllo wörld'", 10, "SELECT 'h…"},
		{"multibyte passes through", "WHERE città = 'ü'", 30, "WHERE città = 'ü'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := humanBytes(tc.in); got != tc.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
