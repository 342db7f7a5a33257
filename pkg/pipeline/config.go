package pipeline

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// File is the TOML form of Options. Absent keys leave the matching option
// unset so that defaults (or CLI flags) apply.
//
//	seed    = 7
//	count   = 100
//	formats = ["png", "json"]
//
//	[rotation]
//	min = -10
//	max = 10
//
//	[shift.width]
//	min = -2
//	max = 2
type File struct {
	Seed    uint64   `toml:"seed,omitempty"`
	Count   int      `toml:"count,omitempty"`
	Workers int      `toml:"workers,omitempty"`
	Size    int      `toml:"size,omitempty"`
	Invert  bool     `toml:"invert,omitempty"`
	Formats []string `toml:"formats,omitempty"`

	Rotation *augment.AxisRange `toml:"rotation,omitempty"`
	Shift    *ShiftFile         `toml:"shift,omitempty"`
	Zoom     *augment.AxisRange `toml:"zoom,omitempty"`
	Shear    *augment.AxisRange `toml:"shear,omitempty"`

	Angle       *float64 `toml:"angle,omitempty"`
	ShiftWidth  *float64 `toml:"shift_width,omitempty"`
	ShiftHeight *float64 `toml:"shift_height,omitempty"`
	ZoomFactor  *float64 `toml:"zoom_factor,omitempty"`
	ShearFactor *float64 `toml:"shear_factor,omitempty"`
}

// ShiftFile holds the per-axis shift ranges.
type ShiftFile struct {
	Width  *augment.AxisRange `toml:"width,omitempty"`
	Height *augment.AxisRange `toml:"height,omitempty"`
}

// ParseOptions decodes a TOML options file. Unknown keys are rejected so
// typos do not silently fall back to defaults. The augmentation config is
// validated; range violations are returned unchanged.
func ParseOptions(data []byte) (Options, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	opts := f.Options()
	if err := opts.Augment.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads and parses the TOML options file at path.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return ParseOptions(data)
}

// Options converts f to pipeline options.
func (f File) Options() Options {
	opts := Options{
		Seed:    f.Seed,
		Count:   f.Count,
		Workers: f.Workers,
		Size:    f.Size,
		Invert:  f.Invert,
		Formats: f.Formats,
		Augment: augment.Config{
			Rotation:    f.Rotation,
			Zoom:        f.Zoom,
			Shear:       f.Shear,
			Angle:       f.Angle,
			ShiftWidth:  f.ShiftWidth,
			ShiftHeight: f.ShiftHeight,
			ZoomFactor:  f.ZoomFactor,
			ShearFactor: f.ShearFactor,
		},
	}
	if f.Shift != nil {
		opts.Augment.WidthShift = f.Shift.Width
		opts.Augment.HeightShift = f.Shift.Height
	}
	return opts
}

// FileFromOptions is the inverse of File.Options.
func FileFromOptions(o Options) File {
	f := File{
		Seed:        o.Seed,
		Count:       o.Count,
		Workers:     o.Workers,
		Size:        o.Size,
		Invert:      o.Invert,
		Formats:     o.Formats,
		Rotation:    o.Augment.Rotation,
		Zoom:        o.Augment.Zoom,
		Shear:       o.Augment.Shear,
		Angle:       o.Augment.Angle,
		ShiftWidth:  o.Augment.ShiftWidth,
		ShiftHeight: o.Augment.ShiftHeight,
		ZoomFactor:  o.Augment.ZoomFactor,
		ShearFactor: o.Augment.ShearFactor,
	}
	if o.Augment.WidthShift != nil || o.Augment.HeightShift != nil {
		f.Shift = &ShiftFile{Width: o.Augment.WidthShift, Height: o.Augment.HeightShift}
	}
	return f
}

// WriteOptions encodes o as TOML.
func WriteOptions(w io.Writer, o Options) error {
	if err := toml.NewEncoder(w).Encode(FileFromOptions(o)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// DefaultConfigFile is the commented template written by "config init".
// Every value shown is the built-in default.
const DefaultConfigFile = `# digitaug configuration

# Random seed. Variant i of a run is drawn from its own stream derived from
# (seed, i), so results do not depend on the worker count.
seed = 42

# Variants per input image.
count = 10

# Canvas edge for raster input. JSON input keeps its own size.
size = 28

# Set for dark-on-light scans; MNIST digits are light-on-dark.
invert = false

# Output formats: "png", "json".
formats = ["png"]

# Sampling ranges. Each must lie inside the built-in limit shown here.

[rotation] # degrees
min = -15.0
max = 15.0

[shear] # x' = x + k*y
min = -0.2
max = 0.2

[zoom]
min = 0.8
max = 1.2

[shift.width] # pixels, positive moves right
min = -4.0
max = 4.0

[shift.height] # pixels, positive moves down
min = -4.0
max = 4.0

# Fixed values override sampling, e.g.:
# angle = 5.0
# shear_factor = 0.0
# zoom_factor = 1.0
# shift_width = 0
# shift_height = 0
`
