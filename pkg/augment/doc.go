// Package augment implements bounded geometric augmentation of handwritten
// digit bitmaps.
//
// # Overview
//
// Four label-preserving transforms are provided, each with a hard domain
// range chosen so that every digit class stays recognisable:
//
//	Rotation  angle  ∈ [-15°, 15°]   (past it, 6 and 9 become confusable)
//	Shear     factor ∈ [-0.2, 0.2]   (x' = x + k·y)
//	Zoom      factor ∈ [0.8, 1.2]    (resize, then crop or pad back to N×N)
//	Shift     w, h   ∈ [-4, 4] px    (15% of a 28 pixel canvas)
//
// [Augment] composes them in the fixed order rotation → shear → zoom → shift.
// Every transform returns a new [bitmap.Image] of the same size as its input.
//
// # Parameters
//
// Each transform takes an optional explicit value and an optional custom
// [AxisRange]. A missing value is sampled uniformly from the range; an
// explicit value is validated against it. Both paths go through
// [ResolveOrSample]. Custom ranges must lie inside the domain range; a wider
// one is rejected as a whole, not clamped. Shift ranges are narrowed to the
// whole pixels they contain.
//
// An explicit value outside its range yields a
// [github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors.RangeViolationError]
// before any pixel is touched:
//
//	_, err := augment.Translate(img, 5, 0)
//	// RANGE_VIOLATION: width=5 out of range [-4, 4]
//
// # Randomness
//
// Sampling draws from an injected [Rand] (a *math/rand/v2.Rand works).
// [NewRand] and [NewStream] build seeded PCG generators so runs are
// reproducible; passing nil falls back to the global math/rand/v2 source.
//
// # Usage
//
//	rng := augment.NewRand(42)
//	out, params, err := augment.AugmentWithParams(img, &augment.Config{
//	    Rotation: augment.Range(-10, 10),
//	}, rng)
//
// # Concurrency
//
// Transforms are pure functions of (image, parameters). Calls may run
// concurrently as long as each goroutine uses its own Rand, or shares a
// [Pipeline], which serialises sampling.
package augment
