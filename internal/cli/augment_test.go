package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input     string
		wantRange *augment.AxisRange
		wantFixed *float64
		wantErr   bool
	}{
		{"-5,5", augment.Range(-5, 5), nil, false},
		{" 0.9 , 1.1 ", augment.Range(0.9, 1.1), nil, false},
		{"3", nil, augment.Float(3), false},
		{"-0.1", nil, augment.Float(-0.1), false},
		{"1,2,3", nil, nil, true},
		{"a,b", nil, nil, true},
		{"", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, v, err := parseAxis(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (r == nil) != (tt.wantRange == nil) || (r != nil && *r != *tt.wantRange) {
				t.Errorf("range = %v, want %v", r, tt.wantRange)
			}
			if (v == nil) != (tt.wantFixed == nil) || (v != nil && *v != *tt.wantFixed) {
				t.Errorf("fixed = %v, want %v", v, tt.wantFixed)
			}
		})
	}
}

func TestSetAxis(t *testing.T) {
	cfg := augment.Config{Rotation: augment.Range(-10, 10)}

	if err := setAxis(&cfg, "rotation", "4"); err != nil {
		t.Fatal(err)
	}
	if cfg.Rotation != nil || cfg.Angle == nil || *cfg.Angle != 4 {
		t.Errorf("fixed value should replace the range: %+v", cfg)
	}

	if err := setAxis(&cfg, "shift-height", "-2,1"); err != nil {
		t.Fatal(err)
	}
	if cfg.HeightShift == nil || *cfg.HeightShift != (augment.AxisRange{Min: -2, Max: 1}) {
		t.Errorf("height shift = %v", cfg.HeightShift)
	}

	err := setAxis(&cfg, "zoom", "x")
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "--zoom") {
		t.Errorf("err = %v, want INVALID_INPUT naming --zoom", err)
	}
}

func TestAugmentCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	src := writeDigit(t)
	outDir := filepath.Join(t.TempDir(), "variants")

	out, err := runCLI(t, "augment", src, "-n", "4", "--seed", "3", "-f", "png,json", "-o", outDir, "--list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Generated 4 variants") {
		t.Errorf("summary missing:\n%s", out)
	}
	if !strings.Contains(out, "#0003") {
		t.Errorf("--list should print every variant:\n%s", out)
	}

	for _, name := range []string{"seven_0000.png", "seven_0003.json", pipeline.ManifestName} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	m := readManifest(t, outDir)
	if m.Seed != 3 || len(m.Variants) != 4 {
		t.Errorf("manifest seed=%d variants=%d", m.Seed, len(m.Variants))
	}

	// The same run again is served from the file cache.
	if _, err := runCLI(t, "augment", src, "-n", "4", "--seed", "3", "-f", "png,json", "-o", outDir); err != nil {
		t.Fatal(err)
	}
	again := readManifest(t, outDir)
	for i, v := range again.Variants {
		if !v.Cached {
			t.Errorf("variant %d should be cached on the second run", i)
		}
		if v.Params != m.Variants[i].Params {
			t.Errorf("variant %d params changed between runs", i)
		}
	}
}

func TestAugmentCommandRejectsOutOfRange(t *testing.T) {
	src := writeDigit(t)
	_, err := runCLI(t, "augment", src, "--no-cache", "--shift-width", "5", "-o", t.TempDir())
	if !errors.IsRangeViolation(err) {
		t.Fatalf("err = %v, want range violation", err)
	}
	if !strings.Contains(err.Error(), "width=5") {
		t.Errorf("error should name the value: %v", err)
	}
}

func TestAugmentCommandErrors(t *testing.T) {
	src := writeDigit(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad axis", []string{"--rotation", "1,2,3"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"augment", src, "--no-cache", "-o", t.TempDir()}, tt.args...)
			_, err := runCLI(t, args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

// An input in a sibling directory writes its variants next to it.
func TestAugmentCommandParentRelativeInput(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	work := filepath.Join(root, "work")
	for _, dir := range []string{data, work} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeDigitIn(t, data)
	t.Chdir(work)

	input := filepath.Join("..", "data", "seven.png")
	if _, err := runCLI(t, "augment", input, "-n", "3", "--no-cache"); err != nil {
		t.Fatalf("augment %s: %v", input, err)
	}
	m := readManifest(t, filepath.Join(data, "seven_aug"))
	if len(m.Variants) != 3 {
		t.Errorf("manifest has %d variants, want 3", len(m.Variants))
	}
}

// A bad output directory is reported before the source is read.
func TestAugmentCommandChecksOutputFirst(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.png")
	_, err := runCLI(t, "augment", missing, "--no-cache", "-o", "out\x01dir")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH before FILE_NOT_FOUND", err)
	}
}

func TestAugmentCommandMissingInput(t *testing.T) {
	_, err := runCLI(t, "augment", filepath.Join(t.TempDir(), "nope.png"), "--no-cache")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func readManifest(t *testing.T, dir string) pipeline.Manifest {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, pipeline.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := pipeline.ReadManifest(f)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
