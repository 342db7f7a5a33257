package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/pipeline"
)

// Preview styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)
	panelTitleStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	helpStyle       = lipgloss.NewStyle().Foreground(colorDim)
	lockedStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// shadeRamp maps intensity to glyphs, darkest first. Each pixel is drawn
// two glyphs wide so digits keep their aspect ratio.
var shadeRamp = []string{" ", "░", "▒", "▓", "█"}

// grayStyles colours glyphs with the 24-step xterm grayscale ramp.
var grayStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, 24)
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(232 + i)))
	}
	return styles
}()

// renderBitmap draws img as shaded terminal cells, one line per row.
func renderBitmap(img bitmap.Image) string {
	n := img.Size()
	var b strings.Builder
	for y := range n {
		for x := range n {
			v := img.At(x, y)
			glyph := shadeRamp[min(int(v*float64(len(shadeRamp))), len(shadeRamp)-1)]
			style := grayStyles[min(int(v*float64(len(grayStyles))), len(grayStyles)-1)]
			b.WriteString(style.Render(glyph + glyph))
		}
		if y < n-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// =============================================================================
// previewModel - Interactive variant preview
// =============================================================================

// previewModel shows the source next to one variant. Variant i of seed s is
// exactly variant i of "augment --seed s" with the same options.
type previewModel struct {
	source bitmap.Image
	cfg    augment.Config
	seed   uint64
	index  uint64
	locked bool

	// newSeed draws the seed used by an unlocked reroll.
	newSeed func() uint64

	variant bitmap.Image
	params  augment.Params
	err     error
}

func newPreviewModel(source bitmap.Image, cfg augment.Config, seed, index uint64) previewModel {
	m := previewModel{
		source:  source,
		cfg:     cfg,
		seed:    seed,
		index:   index,
		newSeed: rand.Uint64,
	}
	return m.roll()
}

// roll recomputes the current variant.
func (m previewModel) roll() previewModel {
	m.variant, m.params, m.err = augment.AugmentWithParams(m.source, &m.cfg, augment.NewStream(m.seed, m.index))
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "space", "r":
		if m.locked {
			m.index++
		} else {
			m.seed, m.index = m.newSeed(), 0
		}
		return m.roll(), nil
	case "right", "l":
		m.index++
		return m.roll(), nil
	case "left", "h":
		if m.index > 0 {
			m.index--
		}
		return m.roll(), nil
	case "s":
		m.locked = !m.locked
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(m.frame())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space/r reroll  ←/→ step  s lock seed  q quit"))
	b.WriteString("\n")
	return b.String()
}

// frame renders both panels and the status lines.
func (m previewModel) frame() string {
	left := panelStyle.Render(panelTitleStyle.Render("source") + "\n" + renderBitmap(m.source))

	var right string
	if m.err != nil {
		right = panelStyle.Render(StyleWarning.Render(m.err.Error()))
	} else {
		title := fmt.Sprintf("variant %d", m.index)
		right = panelStyle.Render(panelTitleStyle.Render(title) + "\n" + renderBitmap(m.variant))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")
	if m.err == nil {
		b.WriteString(StyleValue.Render(formatParams(m.params)))
		b.WriteString("\n")
	}
	status := StyleDim.Render(fmt.Sprintf("seed %d · variant %d", m.seed, m.index))
	if m.locked {
		status += " " + lockedStyle.Render("locked")
	}
	b.WriteString(status)
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags augmentFlags
		once  bool
		index uint64
	)

	cmd := &cobra.Command{
		Use:   "preview [image.png|image.json]",
		Short: "Show a digit and an augmented variant in the terminal",
		Long: `Show a digit and an augmented variant side by side in the terminal.

With the seed unlocked, space or r draws a fresh seed. Press s to lock the
seed; rerolls then step through the variants of that seed, matching what
"augment --seed" writes for the same options. Use --once to print a single
frame without the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), opts, index, once)
		},
	}

	flags.registerOptionFlags(cmd)
	cmd.Flags().Uint64Var(&index, "index", 0, "variant index to show first")
	cmd.Flags().BoolVar(&once, "once", false, "print one frame and exit")

	return cmd
}

// runPreview loads the source and shows the preview.
func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, index uint64, once bool) error {
	opts.Logger = c.Logger
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	src, _, _, err := runner.LoadSource(ctx, opts)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}

	m := newPreviewModel(src, opts.Augment, opts.Seed, index)
	if once {
		fmt.Fprintln(stdout, m.frame())
		return m.err
	}

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
