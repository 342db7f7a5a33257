package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline"
)

// defaultConfigName is the file "config init" writes when no path is given.
const defaultConfigName = appName + ".toml"

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the TOML options file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented options file with the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigName
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeConfigTemplate(path, force); err != nil {
				return err
			}
			printSuccess("Wrote options file")
			printFile(path)
			printNewline()
			printNextStep("Use it", fmt.Sprintf("%s augment <image> --config %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// writeConfigTemplate writes the default template to path. An existing file
// is only replaced when force is set.
func writeConfigTemplate(path string, force bool) error {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if _, err := f.WriteString(pipeline.DefaultConfigFile); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return f.Close()
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var flags augmentFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective options as TOML",
		Long: `Print the effective options as TOML.

The output merges the built-in defaults, the --config file and any flags,
exactly as augment would see them. Unset ranges are shown at their limits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, "")
			if err != nil {
				return err
			}
			if err := opts.Augment.Validate(); err != nil {
				return err
			}
			opts.SetDefaults()
			opts.Augment = withLimits(opts.Augment)
			return pipeline.WriteOptions(stdout, opts)
		},
	}

	flags.registerOptionFlags(cmd)
	cmd.Flags().IntVarP(&flags.count, "count", "n", pipeline.DefaultCount, "number of variants")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent workers")

	return cmd
}

// withLimits fills every axis that has neither a range nor a fixed value
// with its full limit.
func withLimits(cfg augment.Config) augment.Config {
	fill := func(r **augment.AxisRange, v *float64, limit augment.AxisRange) {
		if *r == nil && v == nil {
			*r = &limit
		}
	}
	fill(&cfg.Rotation, cfg.Angle, augment.RotationRange())
	fill(&cfg.Shear, cfg.ShearFactor, augment.ShearRange())
	fill(&cfg.Zoom, cfg.ZoomFactor, augment.ZoomRange())
	fill(&cfg.WidthShift, cfg.ShiftWidth, augment.ShiftRange())
	fill(&cfg.HeightShift, cfg.ShiftHeight, augment.ShiftRange())
	return cfg
}
