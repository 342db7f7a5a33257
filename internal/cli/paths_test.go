package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if want := filepath.Join(home, ".cache", "digitaug"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "digitaug"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

// TestCacheDirUsedByFileBackend ties the path helper to what augment opens.
func TestCacheDirUsedByFileBackend(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	if _, err := runCLI(t, "augment", writeDigit(t), "-n", "1", "-o", filepath.Join(t.TempDir(), "out")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(xdg, "digitaug"))
	if err != nil || len(entries) == 0 {
		t.Errorf("file cache under XDG_CACHE_HOME is empty (err %v)", err)
	}
}

func TestOutputPathsForNestedInput(t *testing.T) {
	input := filepath.Join("a", "b", "seven.png")

	if got, want := defaultOutputDir(input), filepath.Join("a", "b", "seven_aug"); got != want {
		t.Errorf("defaultOutputDir(%q) = %q, want %q", input, got, want)
	}
	if got := baseName(input); got != "seven" {
		t.Errorf("baseName(%q) = %q, want seven", input, got)
	}

	parent := filepath.Join("..", "data", "seven.json")
	if got, want := defaultOutputDir(parent), filepath.Join("..", "data", "seven_aug"); got != want {
		t.Errorf("defaultOutputDir(%q) = %q, want %q", parent, got, want)
	}
}
