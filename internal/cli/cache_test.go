package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePathUsesXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	stdout, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(xdg, appName)
	if strings.TrimSpace(stdout) != want {
		t.Errorf("cache path = %q, want %q", stdout, want)
	}
}

func TestCacheClear(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	// Populate the cache with one layout run.
	tasks := writeTasks(t)
	if _, err := runCLI(t, "layout", tasks); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(filepath.Join(xdg, appName))
	if len(entries) == 0 {
		t.Fatal("layout did not populate the cache")
	}

	buf := captureOutput(t)
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Cleared") {
		t.Errorf("output = %q", buf.String())
	}
	entries, _ = os.ReadDir(filepath.Join(xdg, appName))
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}

func TestCacheClearEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	buf := captureOutput(t)
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Cache is empty") {
		t.Errorf("output = %q", buf.String())
	}
}
