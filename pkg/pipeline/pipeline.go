// Package pipeline runs batch augmentation of a single digit image.
//
// A run has three stages:
//
//  1. Load: decode the source (PNG or JSON) into a bitmap of the requested size
//  2. Augment: produce Count variants, each from its own seeded random stream
//  3. Encode: render every variant in the requested formats
//
// Variants are generated concurrently but are schedule independent: variant
// i is always drawn from augment.NewStream(Seed, i), so a run is reproducible
// for a given source, seed and config no matter how many workers execute it.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input: "seven.png",
//	    Count: 50,
//	    Seed:  7,
//	})
//	if err != nil {
//	    return err
//	}
//	paths, err := pipeline.WriteOutputs("out", "seven", result)
//
// # Caching
//
// Decoded sources are cached by raw file hash and decode settings. Each
// variant's encoded artifacts are cached under its seed, index, config hash
// and format list, so rerunning a batch only recomputes what changed.
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/cache"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	digitio "github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/io"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCount is the number of variants generated per run.
	DefaultCount = 10

	// MaxCount caps a single run.
	MaxCount = 10000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultSize is the canvas edge raster sources are resized to.
	DefaultSize = digitio.DefaultSize
)

// DefaultFormats are written when no format is requested.
var DefaultFormats = []string{string(digitio.FormatPNG)}

// =============================================================================
// Options
// =============================================================================

// Options configure one batch run. The struct serialises to JSON for
// manifests and "config show".
type Options struct {
	// Load options
	Input  string `json:"input"`
	Size   int    `json:"size,omitempty"`
	Invert bool   `json:"invert,omitempty"`

	// Augment options
	Count   int            `json:"count,omitempty"`
	Seed    uint64         `json:"seed,omitempty"`
	Workers int            `json:"workers,omitempty"`
	Augment augment.Config `json:"augment"`

	// Encode options
	Formats []string `json:"formats,omitempty"`

	// Refresh ignores cached results (fresh results are still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// SetDefaults fills in every unset option without validating anything.
func (o *Options) SetDefaults() {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Count > 0 {
		o.Workers = min(o.Workers, o.Count)
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults checks the options and fills in defaults. The
// augmentation config is validated here, so a range violation surfaces
// before the source is even read. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input image is required")
	}
	o.SetDefaults()

	if err := errors.ValidateImageSize(o.Size); err != nil {
		return err
	}
	if o.Count < 0 || o.Count > MaxCount {
		return errors.New(errors.ErrCodeInvalidInput, "count must be between 1 and %d, got %d", MaxCount, o.Count)
	}

	formats, err := digitio.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	o.Formats = o.Formats[:0:0]
	for _, f := range formats {
		o.Formats = append(o.Formats, string(f))
	}

	if err := o.Augment.Validate(); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// ConfigHash fingerprints the augmentation config for cache keys.
func (o *Options) ConfigHash() string {
	// augment.Config holds only numbers, so encoding cannot fail.
	h, _ := cache.HashJSON(o.Augment)
	return h
}

// SourceKeyOpts returns cache key options for the decoded source.
func (o *Options) SourceKeyOpts() cache.SourceKeyOpts {
	return cache.SourceKeyOpts{Size: o.Size, Invert: o.Invert}
}

// VariantKeyOpts returns cache key options for variant index.
func (o *Options) VariantKeyOpts(index int, configHash string) cache.VariantKeyOpts {
	return cache.VariantKeyOpts{
		Seed:       o.Seed,
		Index:      index,
		ConfigHash: configHash,
		Formats:    o.Formats,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies the run in logs and manifests.
	RunID string

	// Options are the effective (defaulted) options of the run.
	Options Options

	// Source is the decoded input bitmap and SourceHash its content hash.
	Source     bitmap.Image
	SourceHash string

	// Variants are ordered by index.
	Variants []Variant

	Stats Stats
}

// Variant is one augmented output.
type Variant struct {
	Index  int
	Params augment.Params

	// Image is the augmented bitmap. It is zero when the variant came from
	// the cache; Params.Apply(Source) reproduces it.
	Image bitmap.Image

	// Artifacts holds the encoded variant keyed by format.
	Artifacts map[string][]byte

	Cached bool
}

// Stats contains run statistics.
type Stats struct {
	Variants    int
	Cached      int
	Bytes       int
	SourceHit   bool
	LoadTime    time.Duration
	AugmentTime time.Duration
	// EncodeTime is summed over all workers.
	EncodeTime time.Duration
}
