package augment

import (
	"sync"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
)

// Stage is one geometric transform of the pipeline.
type Stage interface {
	// Name identifies the stage in logs and manifests.
	Name() string
	// Apply resolves the stage parameters (validating explicit ones, sampling
	// missing ones from rng) and returns the transformed image.
	Apply(img bitmap.Image, rng Rand) (bitmap.Image, error)
}

var (
	_ Stage = Rotation{}
	_ Stage = Shear{}
	_ Stage = Zoom{}
	_ Stage = Shift{}
)

// Config selects ranges and optional fixed values for one augmentation.
// Nil fields fall back to the domain default range (for ranges) or to
// sampling (for values). The zero Config samples everything from the
// defaults.
type Config struct {
	Rotation    *AxisRange `json:"rotation,omitempty"`
	WidthShift  *AxisRange `json:"width_shift,omitempty"`
	HeightShift *AxisRange `json:"height_shift,omitempty"`
	Zoom        *AxisRange `json:"zoom,omitempty"`
	Shear       *AxisRange `json:"shear,omitempty"`

	Angle       *float64 `json:"angle,omitempty"`
	ShiftWidth  *float64 `json:"shift_width,omitempty"`
	ShiftHeight *float64 `json:"shift_height,omitempty"`
	ZoomFactor  *float64 `json:"zoom_factor,omitempty"`
	ShearFactor *float64 `json:"shear_factor,omitempty"`
}

// IdentityConfig returns a config whose ranges are collapsed onto the
// no-op value of every transform. Augmenting with it returns the input.
func IdentityConfig() Config {
	return Config{
		Rotation:    Range(0, 0),
		WidthShift:  Range(0, 0),
		HeightShift: Range(0, 0),
		Zoom:        Range(1, 1),
		Shear:       Range(0, 0),
	}
}

// Stages returns the transforms of cfg in pipeline order:
// rotation, shear, zoom, shift.
//
// Rotation runs first so shear and zoom do not compound with a later
// rotation; shift runs last so the final placement is not itself distorted.
func (c Config) Stages() []Stage {
	return []Stage{c.rotation(), c.shear(), c.zoom(), c.shift()}
}

func (c Config) rotation() Rotation { return Rotation{Angle: c.Angle, Range: c.Rotation} }
func (c Config) shear() Shear       { return Shear{Factor: c.ShearFactor, Range: c.Shear} }
func (c Config) zoom() Zoom         { return Zoom{Factor: c.ZoomFactor, Range: c.Zoom} }
func (c Config) shift() Shift {
	return Shift{Width: c.ShiftWidth, Height: c.ShiftHeight, WidthRange: c.WidthShift, HeightRange: c.HeightShift}
}

// Validate checks every custom range and explicit value without sampling.
// It returns the first violation in pipeline order.
func (c Config) Validate() error {
	_, err := c.Resolve(constRand(0))
	return err
}

// Params are the concrete values applied by one augmentation.
type Params struct {
	Angle       float64 `json:"angle"`
	Shear       float64 `json:"shear"`
	Zoom        float64 `json:"zoom"`
	ShiftWidth  int     `json:"shift_width"`
	ShiftHeight int     `json:"shift_height"`
}

// IdentityParams are the parameters of a no-op augmentation.
func IdentityParams() Params { return Params{Zoom: 1} }

// Resolve validates and samples all parameters in pipeline order. No image
// work happens here, so a violation is reported before any computation.
func (c Config) Resolve(rng Rand) (Params, error) {
	var (
		p   Params
		err error
	)
	if p.Angle, err = c.rotation().Resolve(rng); err != nil {
		return Params{}, err
	}
	if p.Shear, err = c.shear().Resolve(rng); err != nil {
		return Params{}, err
	}
	if p.Zoom, err = c.zoom().Resolve(rng); err != nil {
		return Params{}, err
	}
	if p.ShiftWidth, p.ShiftHeight, err = c.shift().Resolve(rng); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks p against the domain ranges. Parameters obtained from
// [Config.Resolve] always pass; this guards replayed or hand-built values.
func (p Params) Validate() error {
	if err := RotationRange().Validate("angle", p.Angle); err != nil {
		return err
	}
	if err := ShearRange().Validate("shear", p.Shear); err != nil {
		return err
	}
	if err := ZoomRange().Validate("zoom", p.Zoom); err != nil {
		return err
	}
	if err := ShiftRange().Validate("width", float64(p.ShiftWidth)); err != nil {
		return err
	}
	return ShiftRange().Validate("height", float64(p.ShiftHeight))
}

// Apply runs the four transforms with fixed parameters, replaying a
// recorded augmentation. p is checked with [Params.Validate] first.
func (p Params) Apply(img bitmap.Image) (bitmap.Image, error) {
	if err := p.Validate(); err != nil {
		return bitmap.Image{}, err
	}
	out, err := rotate(img, p.Angle)
	if err != nil {
		return bitmap.Image{}, err
	}
	if out, err = shear(out, p.Shear); err != nil {
		return bitmap.Image{}, err
	}
	out = zoom(out, p.Zoom)
	return shift(out, p.ShiftWidth, p.ShiftHeight), nil
}

// Augment applies rotation → shear → zoom → shift to img. A nil cfg samples
// every parameter from its default range. Range violations are returned
// unchanged and no image is produced.
func Augment(img bitmap.Image, cfg *Config, rng Rand) (bitmap.Image, error) {
	out, _, err := AugmentWithParams(img, cfg, rng)
	return out, err
}

// AugmentWithParams is Augment that also reports the parameters it applied.
func AugmentWithParams(img bitmap.Image, cfg *Config, rng Rand) (bitmap.Image, Params, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	p, err := c.Resolve(rng)
	if err != nil {
		return bitmap.Image{}, Params{}, err
	}
	out, err := p.Apply(img)
	if err != nil {
		return bitmap.Image{}, Params{}, err
	}
	return out, p, nil
}

// Pipeline pairs a validated Config with a random source for repeated use.
// It is safe for concurrent use: parameter sampling is serialised, the
// image work runs in parallel.
type Pipeline struct {
	cfg Config

	mu  sync.Mutex
	rng Rand
}

// NewPipeline validates cfg and returns a pipeline drawing from rng.
// A nil rng uses the global math/rand/v2 source.
func NewPipeline(cfg Config, rng Rand) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, rng: rng}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Apply augments img with freshly sampled parameters.
func (p *Pipeline) Apply(img bitmap.Image) (bitmap.Image, Params, error) {
	p.mu.Lock()
	params, err := p.cfg.Resolve(p.rng)
	p.mu.Unlock()
	if err != nil {
		return bitmap.Image{}, Params{}, err
	}
	out, err := params.Apply(img)
	return out, params, err
}

// constRand always returns the same value; used to validate without sampling.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }
