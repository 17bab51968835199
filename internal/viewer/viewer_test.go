package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckMissingBinary(t *testing.T) {
	_, err := Check("definitely-not-a-real-viewer-binary")
	if !errors.Is(err, ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
	if !strings.Contains(err.Error(), "visidata.org/install") {
		t.Errorf("error lacks installation guidance: %v", err)
	}
}

func TestCheckFindsBinaryOnPath(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fakevd")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	t.Setenv("PATH", dir)

	path, err := Check("fakevd")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if path != fake {
		t.Errorf("resolved path = %q, want %q", path, fake)
	}
}
