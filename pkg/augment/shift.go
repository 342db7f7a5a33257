package augment

import (
	"fmt"
	"math"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// Shift translates content by whole pixels. Positive Width moves content
// right, positive Height moves it down; exposed pixels become background.
type Shift struct {
	// Width and Height in pixels. Nil samples from the matching range.
	// Values are rounded to the nearest pixel of the range after validation.
	Width  *float64
	Height *float64
	// WidthRange and HeightRange override the default [-4, 4]. Only the
	// whole pixels inside a range can be applied; a range holding none,
	// such as [0.2, 0.4], is a violation.
	WidthRange  *AxisRange
	HeightRange *AxisRange
}

// Name implements Stage.
func (Shift) Name() string { return "shift" }

// Resolve validates or samples both axes independently. Width is checked
// first; each axis reports its own violation.
func (s Shift) Resolve(rng Rand) (dx, dy int, err error) {
	wr, err := effectiveRange("width", s.WidthRange, ShiftRange())
	if err != nil {
		return 0, 0, err
	}
	hr, err := effectiveRange("height", s.HeightRange, ShiftRange())
	if err != nil {
		return 0, 0, err
	}
	wlo, whi, err := pixelWindow("width", wr)
	if err != nil {
		return 0, 0, err
	}
	hlo, hhi, err := pixelWindow("height", hr)
	if err != nil {
		return 0, 0, err
	}
	w, err := ResolveOrSample("width", s.Width, wr, rng)
	if err != nil {
		return 0, 0, err
	}
	h, err := ResolveOrSample("height", s.Height, hr, rng)
	if err != nil {
		return 0, 0, err
	}
	return snap(w, wlo, whi), snap(h, hlo, hhi), nil
}

// pixelWindow returns the whole pixels inside r.
func pixelWindow(name string, r AxisRange) (lo, hi int, err error) {
	lo, hi = int(math.Ceil(r.Min)), int(math.Floor(r.Max))
	if lo > hi {
		return 0, 0, &errors.RangeViolationError{
			Param:  name + ".range.min",
			Value:  r.Min,
			Min:    r.Min,
			Max:    r.Max,
			Reason: fmt.Sprintf("leaves no whole pixel up to max %g", r.Max),
		}
	}
	return lo, hi, nil
}

// snap rounds v to the nearest pixel in [lo, hi].
func snap(v float64, lo, hi int) int {
	return min(max(int(math.Round(v)), lo), hi)
}

// Apply implements Stage.
func (s Shift) Apply(img bitmap.Image, rng Rand) (bitmap.Image, error) {
	dx, dy, err := s.Resolve(rng)
	if err != nil {
		return bitmap.Image{}, err
	}
	return shift(img, dx, dy), nil
}

// Translate shifts img by (width, height) pixels, each validated against [-4, 4].
func Translate(img bitmap.Image, width, height float64) (bitmap.Image, error) {
	return Shift{Width: &width, Height: &height}.Apply(img, nil)
}

// shift pads the canvas with background on the side the content moves away
// from, then crops an N×N window back out of the padded grid.
func shift(img bitmap.Image, dx, dy int) bitmap.Image {
	if dx == 0 && dy == 0 {
		return img.Clone()
	}
	n := img.Size()
	pw, ph := n+abs(dx), n+abs(dy)

	// Where the source lands inside the padded grid, and where the crop
	// window starts.
	padLeft, padTop := max(dx, 0), max(dy, 0)
	cropLeft, cropTop := max(-dx, 0), max(-dy, 0)

	grid := acquireScratch(pw * ph)
	defer grid.release()
	for y := 0; y < n; y++ {
		row := (y + padTop) * pw
		for x := 0; x < n; x++ {
			grid.buf[row+x+padLeft] = img.At(x, y)
		}
	}

	out := bitmap.NewBuilder(n)
	for y := 0; y < n; y++ {
		row := (y + cropTop) * pw
		for x := 0; x < n; x++ {
			out.Set(x, y, grid.buf[row+x+cropLeft])
		}
	}
	return out.Image()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
