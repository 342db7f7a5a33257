package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/cache"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	digitio "github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/io"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/observability"
)

// Runner executes batch runs with caching.
//
// The Runner holds no per-run state; several goroutines may share one with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses cache.DefaultKeyer, a nil
// cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → augment → encode.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Options: opts}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	src, hash, hit, err := r.LoadSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Source, result.SourceHash = src, hash
	result.Stats.SourceHit = hit
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded source",
		"path", opts.Input,
		"size", src.Size(),
		"cached", hit,
		"duration", result.Stats.LoadTime)

	// Stages 2 and 3: augment and encode, one task per variant
	hooks := observability.Pipeline()
	augmentStart := time.Now()
	hooks.OnAugmentStart(ctx, opts.Count, opts.Workers)

	variants, encodeNanos, err := r.generate(ctx, src, hash, opts)
	result.Stats.AugmentTime = time.Since(augmentStart)
	result.Stats.EncodeTime = time.Duration(encodeNanos)

	for _, v := range variants {
		if v.Cached {
			result.Stats.Cached++
		}
	}
	hooks.OnAugmentComplete(ctx, opts.Count, result.Stats.Cached, result.Stats.AugmentTime, err)
	if err != nil {
		return nil, err
	}

	result.Variants = variants
	result.Stats.Variants = len(variants)
	for _, v := range variants {
		for _, data := range v.Artifacts {
			result.Stats.Bytes += len(data)
		}
	}

	logger.Info("generated variants",
		"count", result.Stats.Variants,
		"cached", result.Stats.Cached,
		"workers", opts.Workers,
		"duration", result.Stats.AugmentTime)

	return result, nil
}

func (r *Runner) generate(ctx context.Context, src bitmap.Image, sourceHash string, opts Options) ([]Variant, int64, error) {
	variants := make([]Variant, opts.Count)
	configHash := opts.ConfigHash()
	var encodeNanos atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Count {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			v, encode, err := r.variant(gctx, src, sourceHash, configHash, i, opts)
			observability.Pipeline().OnVariantComplete(gctx, i, v.Cached, time.Since(start), err)
			if err != nil {
				return err
			}
			encodeNanos.Add(int64(encode))
			variants[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	// A cancelled parent stops scheduling without any task failing.
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return variants, encodeNanos.Load(), nil
}

// cachedVariant is the cache payload of one variant.
type cachedVariant struct {
	Params    augment.Params    `json:"params"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// variant produces (or fetches) variant index and reports the time spent
// encoding it.
func (r *Runner) variant(ctx context.Context, src bitmap.Image, sourceHash, configHash string, index int, opts Options) (Variant, time.Duration, error) {
	key := r.Keyer.VariantKey(sourceHash, opts.VariantKeyOpts(index, configHash))
	if !opts.Refresh {
		if cv, ok := r.cachedVariant(ctx, key); ok {
			return Variant{Index: index, Params: cv.Params, Artifacts: cv.Artifacts, Cached: true}, 0, nil
		}
	}

	rng := augment.NewStream(opts.Seed, uint64(index))
	img, params, err := augment.AugmentWithParams(src, &opts.Augment, rng)
	if err != nil {
		return Variant{}, 0, err
	}

	encodeStart := time.Now()
	artifacts, err := encodeAll(img, opts.Formats)
	encodeTime := time.Since(encodeStart)
	size := 0
	for _, data := range artifacts {
		size += len(data)
	}
	observability.Pipeline().OnEncodeComplete(ctx, opts.Formats, size, encodeTime, err)
	if err != nil {
		return Variant{}, 0, err
	}

	if data, err := json.Marshal(cachedVariant{Params: params, Artifacts: artifacts}); err == nil {
		r.store(ctx, "variant", key, data, cache.TTLVariant)
	}
	return Variant{Index: index, Params: params, Image: img, Artifacts: artifacts}, encodeTime, nil
}

func (r *Runner) cachedVariant(ctx context.Context, key string) (cachedVariant, bool) {
	data, ok := r.lookup(ctx, "variant", key)
	if !ok {
		return cachedVariant{}, false
	}
	var cv cachedVariant
	if err := json.Unmarshal(data, &cv); err != nil || cv.Params.Validate() != nil {
		return cachedVariant{}, false
	}
	return cv, true
}

func encodeAll(img bitmap.Image, formats []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	for _, name := range formats {
		data, err := digitio.Encode(img, digitio.Format(name))
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}

// LoadSource reads and decodes opts.Input, consulting the cache first. It
// returns the bitmap, its content hash and whether it came from the cache.
func (r *Runner) LoadSource(ctx context.Context, opts Options) (bitmap.Image, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return bitmap.Image{}, "", false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	img, hit, err := r.loadSource(ctx, opts)
	hooks.OnLoadComplete(ctx, opts.Input, img.Size(), time.Since(start), err)
	if err != nil {
		return bitmap.Image{}, "", false, err
	}

	encoded, err := digitio.Encode(img, digitio.FormatJSON)
	if err != nil {
		return bitmap.Image{}, "", false, err
	}
	return img, cache.Hash(encoded), hit, nil
}

func (r *Runner) loadSource(ctx context.Context, opts Options) (bitmap.Image, bool, error) {
	format, err := digitio.FormatFromPath(opts.Input)
	if err != nil {
		return bitmap.Image{}, false, err
	}
	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return bitmap.Image{}, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Input)
		}
		return bitmap.Image{}, false, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", opts.Input)
	}

	key := r.Keyer.SourceKey(cache.Hash(raw), opts.SourceKeyOpts())
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "source", key); ok {
			if img, err := digitio.Decode(data, digitio.FormatJSON); err == nil {
				return img, true, nil
			}
		}
	}

	var img bitmap.Image
	if format == digitio.FormatJSON {
		img, err = digitio.ReadJSON(bytes.NewReader(raw))
	} else {
		img, err = digitio.ReadPNG(bytes.NewReader(raw), digitio.DecodeOptions{Size: opts.Size, Invert: opts.Invert})
	}
	if err != nil {
		return bitmap.Image{}, false, err
	}

	if data, err := digitio.Encode(img, digitio.FormatJSON); err == nil {
		r.store(ctx, "source", key, data, cache.TTLSource)
	}
	return img, false, nil
}

// lookup reads key, treating backend errors as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store writes key; failures are logged, never returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
