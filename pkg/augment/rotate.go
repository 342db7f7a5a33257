package augment

import (
	"math"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
)

// rotationEpsilon is the angle (degrees) below which rotation is a copy.
const rotationEpsilon = 0.1

// Rotation rotates content about the canvas centre, simulating pen-angle
// variation. Positive angles turn counter-clockwise on screen.
type Rotation struct {
	// Angle in degrees. Nil samples uniformly from Range.
	Angle *float64
	// Range overrides the default [-15, 15]. It must lie inside that
	// interval: a wider range is a violation of rotation.range.min or
	// rotation.range.max even when Angle itself is allowed. It is never
	// clamped.
	Range *AxisRange
}

// Name implements Stage.
func (Rotation) Name() string { return "rotation" }

// Resolve validates the configured angle, or samples one, without touching
// any image.
func (r Rotation) Resolve(rng Rand) (float64, error) {
	rg, err := effectiveRange("rotation", r.Range, RotationRange())
	if err != nil {
		return 0, err
	}
	return ResolveOrSample("angle", r.Angle, rg, rng)
}

// Apply implements Stage.
func (r Rotation) Apply(img bitmap.Image, rng Rand) (bitmap.Image, error) {
	angle, err := r.Resolve(rng)
	if err != nil {
		return bitmap.Image{}, err
	}
	return rotate(img, angle)
}

// Rotate rotates img by angle degrees, validated against [-15, 15].
func Rotate(img bitmap.Image, angle float64) (bitmap.Image, error) {
	return Rotation{Angle: &angle}.Apply(img, nil)
}

func rotate(img bitmap.Image, angle float64) (bitmap.Image, error) {
	if math.Abs(angle) < rotationEpsilon {
		return img.Clone(), nil
	}
	return warp(img, aboutCenter(rotation(angle), img.Size()))
}
