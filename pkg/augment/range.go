package augment

import (
	"math"
	"math/rand/v2"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// Domain limits. These are the widest intervals at which every digit class
// stays recognisable; custom ranges must lie inside them.
const (
	// MaxRotation is the largest rotation in degrees. Past it 6 and 9 start
	// to read as each other.
	MaxRotation = 15.0

	// MaxShift is the largest translation in pixels per axis
	// (15% of a 28 pixel canvas, rounded down).
	MaxShift = 4.0

	// MinZoom and MaxZoom bound the scale factor.
	MinZoom = 0.8
	MaxZoom = 1.2

	// MaxShear bounds the horizontal shear factor.
	MaxShear = 0.2
)

// AxisRange is an inclusive interval [Min, Max] used both to validate an
// explicit parameter and to sample a missing one.
type AxisRange struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Symmetric returns [-limit, limit].
func Symmetric(limit float64) AxisRange {
	return AxisRange{Min: -limit, Max: limit}
}

// Fixed returns the collapsed range [v, v]. Sampling it always yields v.
func Fixed(v float64) AxisRange {
	return AxisRange{Min: v, Max: v}
}

// RotationRange returns the default rotation interval in degrees.
func RotationRange() AxisRange { return Symmetric(MaxRotation) }

// ShiftRange returns the default per-axis translation interval in pixels.
func ShiftRange() AxisRange { return Symmetric(MaxShift) }

// ZoomRange returns the default scale factor interval.
func ZoomRange() AxisRange { return AxisRange{Min: MinZoom, Max: MaxZoom} }

// ShearRange returns the default shear factor interval.
func ShearRange() AxisRange { return Symmetric(MaxShear) }

// Contains reports whether v lies in [Min, Max]. NaN is never contained.
func (r AxisRange) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

// Width returns Max - Min.
func (r AxisRange) Width() float64 { return r.Max - r.Min }

// Validate returns a *errors.RangeViolationError naming param when v is
// outside the range.
func (r AxisRange) Validate(param string, v float64) error {
	if !r.Contains(v) {
		return errors.NewRangeViolation(param, v, r.Min, r.Max)
	}
	return nil
}

// Sample draws a uniformly distributed value from the range.
// A collapsed range returns Min exactly.
func (r AxisRange) Sample(rng Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + source(rng).Float64()*(r.Max-r.Min)
}

// within checks that r is well formed and lies inside domain. Violations are
// reported against the offending bound, e.g. "rotation.range.max".
func (r AxisRange) within(name string, domain AxisRange) error {
	if math.IsNaN(r.Min) || r.Min < domain.Min || r.Min > domain.Max {
		return errors.NewRangeViolation(name+".range.min", r.Min, domain.Min, domain.Max)
	}
	if math.IsNaN(r.Max) || r.Max < domain.Min || r.Max > domain.Max {
		return errors.NewRangeViolation(name+".range.max", r.Max, domain.Min, domain.Max)
	}
	if r.Min > r.Max {
		return errors.NewInvertedRange(name+".range.min", r.Min, r.Max)
	}
	return nil
}

// effectiveRange returns custom when set (after checking it against domain),
// domain otherwise.
func effectiveRange(name string, custom *AxisRange, domain AxisRange) (AxisRange, error) {
	if custom == nil {
		return domain, nil
	}
	if err := custom.within(name, domain); err != nil {
		return AxisRange{}, err
	}
	return *custom, nil
}

// ResolveOrSample returns *explicit after validating it against r, or a fresh
// sample from r when explicit is nil. Every transform goes through this one
// function so the constraint semantics cannot drift between them.
func ResolveOrSample(param string, explicit *float64, r AxisRange, rng Rand) (float64, error) {
	if explicit != nil {
		if err := r.Validate(param, *explicit); err != nil {
			return 0, err
		}
		return *explicit, nil
	}
	return r.Sample(rng), nil
}

// Float returns a pointer to v, for filling optional parameters.
func Float(v float64) *float64 { return &v }

// Range returns a pointer to [lo, hi], for filling optional ranges.
func Range(lo, hi float64) *AxisRange { return &AxisRange{Min: lo, Max: hi} }

// =============================================================================
// Randomness
// =============================================================================

// Rand is the source of randomness used to sample missing parameters.
// *math/rand/v2.Rand satisfies it. Implementations need not be safe for
// concurrent use; [Pipeline] serialises access to the one it owns.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// NewStream returns an independent generator for the index-th item of a run
// seeded with seed. Streams with the same (seed, index) produce identical
// sequences regardless of the order in which they are created.
func NewStream(seed, index uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, (index+1)*0x9e3779b97f4a7c15))
}

// globalRand draws from the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

func source(rng Rand) Rand {
	if rng == nil {
		return globalRand{}
	}
	return rng
}
