package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/buildinfo"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/cache"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "digitaug"

	envRedisURL  = "DIGITAUG_REDIS_URL"
	envMongoURI  = "DIGITAUG_MONGO_URI"
	envNamespace = "DIGITAUG_CACHE_NAMESPACE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Verbose reports whether debug logging is enabled.
func (c *CLI) Verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "digitaug generates bounded geometric variants of digit images",
		Long: `digitaug augments handwritten digit images for recognition training.

Each variant is the source rotated, sheared, zoomed and shifted, in that
order, by amounts drawn from bounded ranges. Parameters outside the limits
are rejected, never clamped. Runs are reproducible from their seed.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.augmentCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags select the cache backend of a command.
type cacheFlags struct {
	noCache   bool
	backend   string
	redisURL  string
	mongoURI  string
	namespace string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.backend, "cache-backend", cache.BackendFile,
		"cache backend: "+strings.Join(cache.Backends, ", "))
	cmd.Flags().StringVar(&f.redisURL, "redis-url", os.Getenv(envRedisURL), "redis URL (env "+envRedisURL+")")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", os.Getenv(envMongoURI), "MongoDB URI (env "+envMongoURI+")")
	cmd.Flags().StringVar(&f.namespace, "cache-namespace", os.Getenv(envNamespace),
		"prefix for cache keys on a shared backend (env "+envNamespace+")")
}

// keyer returns the cache keyer, scoped when a namespace is set.
func (f *cacheFlags) keyer() cache.Keyer {
	if f.namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, f.namespace+":")
}

// config resolves the flags to a cache configuration.
func (f *cacheFlags) config() (cache.Config, error) {
	cfg := cache.Config{Backend: f.backend, RedisURL: f.redisURL, MongoURI: f.mongoURI}
	if f.noCache {
		cfg.Backend = cache.BackendNone
	}

	switch cfg.Backend {
	case "", cache.BackendFile:
		dir, err := cacheDir()
		if err != nil {
			return cfg, fmt.Errorf("get cache dir: %w", err)
		}
		cfg.Dir = dir
	case cache.BackendRedis:
		if err := errors.ValidateBackendURL(cfg.RedisURL); err != nil {
			return cfg, fmt.Errorf("--redis-url: %w", err)
		}
	case cache.BackendMongo:
		if err := errors.ValidateBackendURL(cfg.MongoURI); err != nil {
			return cfg, fmt.Errorf("--mongo-uri: %w", err)
		}
	case cache.BackendTiered:
		if err := errors.ValidateBackendURL(cfg.RedisURL); err != nil {
			return cfg, fmt.Errorf("--redis-url: %w", err)
		}
		if err := errors.ValidateBackendURL(cfg.MongoURI); err != nil {
			return cfg, fmt.Errorf("--mongo-uri: %w", err)
		}
	}
	return cfg, nil
}

// newCache opens the backend selected by f. A tiered cache logs fast-tier
// failures instead of failing the run.
func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	cc, err := cache.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	if t, ok := cc.(*cache.TieredCache); ok {
		t.OnFastError = func(op string, err error) {
			c.Logger.Warn("fast cache tier failed", "op", op, "err", err)
		}
	}
	return cc, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, f.keyer(), c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/digitaug/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultOutputDir returns <input without extension>_aug next to the input.
func defaultOutputDir(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_aug"
}

// baseName returns the file name of input without its extension.
func baseName(input string) string {
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}
