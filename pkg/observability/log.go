package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a charmbracelet logger at
// debug level; failures are logged at warn.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, err error, keyvals ...any) {
	if err != nil {
		h.logger.Warn(msg, append(keyvals, "err", err)...)
		return
	}
	h.logger.Debug(msg, keyvals...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("loading source", "path", path)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, path string, size int, d time.Duration, err error) {
	h.done("source loaded", err, "path", path, "size", size, "took", d)
}

func (h *LogHooks) OnAugmentStart(_ context.Context, count, workers int) {
	h.logger.Debug("augmenting", "variants", count, "workers", workers)
}

func (h *LogHooks) OnVariantComplete(_ context.Context, index int, cached bool, d time.Duration, err error) {
	h.done("variant", err, "index", index, "cached", cached, "took", d)
}

func (h *LogHooks) OnAugmentComplete(_ context.Context, count, cached int, d time.Duration, err error) {
	h.done("augmentation finished", err, "variants", count, "cached", cached, "took", d)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, formats []string, bytes int, d time.Duration, err error) {
	h.done("encoded", err, "formats", formats, "bytes", bytes, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
