package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aug.toml")

	if _, err := runCLI(t, "config", "init", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != pipeline.DefaultConfigFile {
		t.Error("config init should write the default template")
	}

	_, err = runCLI(t, "config", "init", path)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("second init err = %v, want INVALID_PATH", err)
	}

	if _, err := runCLI(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}

func TestConfigShowMergesFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aug.toml")
	file := `
seed = 7
count = 25

[rotation]
min = -10
max = 10

[zoom]
min = 0.9
max = 1.1
`
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "config", "show", "--config", path, "--rotation", "5", "-n", "30")
	if err != nil {
		t.Fatal(err)
	}
	opts, err := pipeline.ParseOptions([]byte(out))
	if err != nil {
		t.Fatalf("config show output does not parse: %v\n%s", err, out)
	}

	if opts.Seed != 7 {
		t.Errorf("seed = %d, want 7 from file", opts.Seed)
	}
	if opts.Count != 30 {
		t.Errorf("count = %d, want 30 from flag", opts.Count)
	}
	if opts.Augment.Angle == nil || *opts.Augment.Angle != 5 || opts.Augment.Rotation != nil {
		t.Errorf("--rotation 5 should fix the angle: %+v", opts.Augment)
	}
	if *opts.Augment.Zoom != (augment.AxisRange{Min: 0.9, Max: 1.1}) {
		t.Errorf("zoom = %v, want file range", opts.Augment.Zoom)
	}
	if *opts.Augment.Shear != augment.ShearRange() {
		t.Errorf("unset shear should show its limit, got %v", opts.Augment.Shear)
	}
}

func TestConfigShowRejectsOutOfRange(t *testing.T) {
	_, err := runCLI(t, "config", "show", "--zoom", "0.5,1")
	if !errors.IsRangeViolation(err) {
		t.Errorf("err = %v, want range violation", err)
	}
}

func TestWithLimits(t *testing.T) {
	cfg := withLimits(augment.Config{ZoomFactor: augment.Float(1)})
	if cfg.Zoom != nil {
		t.Error("an axis with a fixed value keeps no range")
	}
	if cfg.Rotation == nil || *cfg.Rotation != augment.RotationRange() {
		t.Errorf("rotation = %v", cfg.Rotation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("filled config should validate: %v", err)
	}
}
