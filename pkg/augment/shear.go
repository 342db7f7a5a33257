package augment

import (
	"math"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
)

const shearEpsilon = 1e-6

// Shear slants content horizontally: x' = x + k·y with y counted from the
// top row, so lower rows move further. At k = 0.2 on a 28 pixel canvas the
// bottom row moves about 5.4 pixels.
type Shear struct {
	// Factor k. Nil samples uniformly from Range.
	Factor *float64
	// Range overrides the default [-0.2, 0.2]. It must lie inside that interval.
	Range *AxisRange
}

// Name implements Stage.
func (Shear) Name() string { return "shear" }

// Resolve validates the configured factor, or samples one.
func (s Shear) Resolve(rng Rand) (float64, error) {
	rg, err := effectiveRange("shear", s.Range, ShearRange())
	if err != nil {
		return 0, err
	}
	return ResolveOrSample("shear", s.Factor, rg, rng)
}

// Apply implements Stage.
func (s Shear) Apply(img bitmap.Image, rng Rand) (bitmap.Image, error) {
	k, err := s.Resolve(rng)
	if err != nil {
		return bitmap.Image{}, err
	}
	return shear(img, k)
}

// Slant shears img by factor, validated against [-0.2, 0.2].
func Slant(img bitmap.Image, factor float64) (bitmap.Image, error) {
	return Shear{Factor: &factor}.Apply(img, nil)
}

func shear(img bitmap.Image, k float64) (bitmap.Image, error) {
	if math.Abs(k) < shearEpsilon {
		return img.Clone(), nil
	}
	return warp(img, shearX(k))
}
