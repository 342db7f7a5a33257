// Package pkg provides the libraries behind digitaug, bounded geometric
// augmentation for handwritten digit images.
//
// # Overview
//
// digitaug turns one digit bitmap into many plausible variants for training
// a recognizer. Each variant is the source rotated, sheared, zoomed and
// shifted, in that order, by amounts that never leave fixed limits:
//
//	rotation  [-15°, 15°]
//	shear     [-0.2, 0.2]
//	zoom      [0.8, 1.2]
//	shift     [-4, 4] pixels per axis
//
// A requested value outside its limit is rejected with a range violation,
// never clamped.
//
// # Architecture
//
// The typical data flow:
//
//	PNG / JSON source
//	         ↓
//	    [io] package (decode, grayscale, resize to a square bitmap)
//	         ↓
//	    [augment] package (rotate → shear → zoom → shift)
//	         ↓
//	    [io] package (encode PNG / JSON)
//	         ↓
//	    variants + manifest.json
//
// [pipeline] orchestrates the flow for a batch of variants, with results
// stored in [cache].
//
// # Quick Start
//
// Augment a single image:
//
//	import (
//	    "github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
//	    digitio "github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/io"
//	)
//
//	src, _ := digitio.Import("seven.png", digitio.DecodeOptions{})
//	out, params, err := augment.AugmentWithParams(src, nil, augment.NewRand(7))
//
// Or run a reproducible batch:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Input: "seven.png", Count: 50})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [bitmap] - Immutable square grayscale image with intensities in [0, 1].
//
// [augment] - The four bounded transforms, their ranges and the pipeline
// that composes them. Randomness is injected through [augment.Rand].
//
// [io] - PNG and JSON conversion between files and bitmaps.
//
// ## Infrastructure
//
// [cache] - Result caching with file, memory, Redis, MongoDB and tiered
// (Redis in front of MongoDB) backends.
//
// [pipeline] - Batch orchestration (load → augment → encode), TOML options
// files and run manifests.
//
// [observability] - Hooks for logging or metrics around pipeline stages.
//
// ## Utilities
//
// [errors] - Coded errors, including the range violation.
//
// [buildinfo] - Version information set at build time.
//
// # Design Principles
//
//  1. Bounded by construction: every parameter is checked before any pixel moves.
//  2. Reproducible: a seed and a config determine every variant.
//  3. Immutable inputs: transforms always return a new bitmap.
//  4. Schedule independent: variant i never depends on how many workers ran.
//
// [bitmap]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap
// [augment]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment
// [augment.Rand]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment#Rand
// [io]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/io
// [cache]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/observability
// [errors]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/buildinfo
package pkg
