package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/observability"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline"
)

// axisFlags are the per-transform flags, in pipeline order. Each takes a
// "min,max" sampling range or a single fixed value.
var axisFlags = []struct {
	name  string
	usage string
}{
	{"rotation", "rotation in degrees, limit ±15"},
	{"shear", "horizontal shear factor, limit ±0.2"},
	{"zoom", "zoom factor, limits 0.8 to 1.2"},
	{"shift-width", "horizontal shift in pixels, limit ±4"},
	{"shift-height", "vertical shift in pixels, limit ±4"},
}

// augmentFlags holds the command-line flags of the augment command.
type augmentFlags struct {
	configPath string
	output     string
	formats    string
	count      int
	seed       uint64
	workers    int
	size       int
	invert     bool
	refresh    bool
	list       bool
	axes       map[string]*string
	cache      cacheFlags
}

// registerOptionFlags binds the flags shared by augment and preview.
func (f *augmentFlags) registerOptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "TOML options file (flags override it)")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&f.size, "size", pipeline.DefaultSize, "canvas edge for raster input")
	cmd.Flags().BoolVar(&f.invert, "invert", false, "invert dark-on-light input")

	f.axes = make(map[string]*string, len(axisFlags))
	for _, a := range axisFlags {
		f.axes[a.name] = cmd.Flags().String(a.name, "", a.usage+` ("min,max" or a fixed value)`)
	}
}

// augmentCommand creates the augment command.
func (c *CLI) augmentCommand() *cobra.Command {
	var flags augmentFlags

	cmd := &cobra.Command{
		Use:   "augment [image.png|image.json]",
		Short: "Generate augmented variants of a digit image",
		Long: `Generate augmented variants of a digit image.

Every variant is the source rotated, sheared, zoomed and shifted, in that
order. Each transform draws its amount from a range inside its limit:

  rotation      -15 to 15 degrees
  shear         -0.2 to 0.2
  zoom          0.8 to 1.2
  shift-width   -4 to 4 pixels
  shift-height  -4 to 4 pixels

Narrow a range with --rotation=-5,5 or fix a value with --rotation=5. A value
outside its limit is an error; nothing is clamped.

Variants are written as <name>_<index>.<format> into the output directory
together with manifest.json, which records the parameters of every variant.
Results are cached, so repeating a run only computes what changed.`,
		Example: `  digitaug augment seven.png -n 50 --seed 7
  digitaug augment seven.png --rotation=-5,5 --zoom=1 -f png,json
  digitaug augment seven.json --config augment.toml -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			output := flags.output
			if output == "" {
				output = defaultOutputDir(args[0])
			}
			return c.runAugment(cmd.Context(), opts, output, flags)
		},
	}

	flags.registerOptionFlags(cmd)
	cmd.Flags().IntVarP(&flags.count, "count", "n", pipeline.DefaultCount, "number of variants")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default: <input>_aug)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): png (default), json (comma-separated)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "print the parameters of every variant")
	flags.cache.register(cmd)

	return cmd
}

// options builds pipeline options from the config file (if any) and the
// flags the user set explicitly.
func (f *augmentFlags) options(cmd *cobra.Command, input string) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.configPath != "" {
		loaded, err := pipeline.LoadOptionsFile(f.configPath)
		if err != nil {
			return opts, fmt.Errorf("load config: %w", err)
		}
		opts = loaded
	}
	opts.Input = input

	set := cmd.Flags().Changed
	if set("seed") || opts.Seed == 0 {
		opts.Seed = f.seed
	}
	if set("size") {
		opts.Size = f.size
	}
	if set("invert") {
		opts.Invert = f.invert
	}
	if set("count") {
		opts.Count = f.count
	}
	if set("workers") {
		opts.Workers = f.workers
	}
	if set("format") {
		opts.Formats = parseFormats(f.formats)
	}
	opts.Refresh = f.refresh

	for _, a := range axisFlags {
		if !set(a.name) {
			continue
		}
		if err := setAxis(&opts.Augment, a.name, *f.axes[a.name]); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// setAxis applies one axis flag. A range replaces any fixed value from the
// config file and vice versa.
func setAxis(cfg *augment.Config, name, value string) error {
	rng, fixed, err := parseAxis(value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "--%s", name)
	}

	var r **augment.AxisRange
	var v **float64
	switch name {
	case "rotation":
		r, v = &cfg.Rotation, &cfg.Angle
	case "shear":
		r, v = &cfg.Shear, &cfg.ShearFactor
	case "zoom":
		r, v = &cfg.Zoom, &cfg.ZoomFactor
	case "shift-width":
		r, v = &cfg.WidthShift, &cfg.ShiftWidth
	case "shift-height":
		r, v = &cfg.HeightShift, &cfg.ShiftHeight
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown axis %q", name)
	}
	*r, *v = rng, fixed
	return nil
}

// parseAxis parses "min,max" into a range or a single number into a fixed
// value. Exactly one of the results is non-nil on success.
func parseAxis(s string) (*augment.AxisRange, *float64, error) {
	parts := strings.Split(s, ",")
	nums := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid number %q", p)
		}
		nums[i] = v
	}
	switch len(nums) {
	case 1:
		return nil, augment.Float(nums[0]), nil
	case 2:
		return augment.Range(nums[0], nums[1]), nil, nil
	default:
		return nil, nil, fmt.Errorf("want \"min,max\" or a single value, got %q", s)
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return pipeline.DefaultFormats
	}
	return strings.Split(s, ",")
}

// runAugment executes the pipeline and writes the variants to output.
func (c *CLI) runAugment(ctx context.Context, opts pipeline.Options, output string, flags augmentFlags) error {
	opts.Logger = c.Logger
	// Reject bad options before connecting to any cache backend.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := errors.ValidateOutputDir(output); err != nil {
		return fmt.Errorf("--output: %w", err)
	}
	if err := errors.ValidateBaseName(baseName(opts.Input)); err != nil {
		return fmt.Errorf("input name: %w", err)
	}

	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Augmenting %s...", filepath.Base(opts.Input)))
	if c.Verbose() {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	} else {
		observability.SetPipelineHooks(newSpinnerHooks(spinner, "Augmenting"))
		spinner.Start()
	}
	defer observability.Reset()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Augmentation failed")
		return fmt.Errorf("augment: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog := newProgress(loggerFromContext(ctx))
	paths, err := pipeline.WriteOutputs(output, baseName(opts.Input), result)
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	prog.done(fmt.Sprintf("Wrote %d files to %s", len(paths), output), "variants", result.Stats.Variants)

	printSuccess("Generated %d variants", result.Stats.Variants)
	printFile(output)
	printFile(filepath.Join(output, pipeline.ManifestName))
	printStats(result.Stats)
	if flags.list {
		printNewline()
		for _, v := range result.Variants {
			printParams(v.Index, v.Params, v.Cached)
		}
	}
	printNewline()
	printNextStep("Preview", fmt.Sprintf("%s preview %s --seed %d", appName, opts.Input, opts.Seed))

	return nil
}
