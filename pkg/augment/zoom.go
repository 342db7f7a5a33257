package augment

import (
	"math"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
)

const zoomEpsilon = 1e-6

// Zoom rescales content by a factor and brings the canvas back to its
// original size. Enlarging crops the centre (thicker strokes; edges may
// clip), shrinking pads symmetrically with background.
type Zoom struct {
	// Factor. Nil samples uniformly from Range.
	Factor *float64
	// Range overrides the default [0.8, 1.2]. It must lie inside that interval.
	Range *AxisRange
}

// Name implements Stage.
func (Zoom) Name() string { return "zoom" }

// Resolve validates the configured factor, or samples one.
func (z Zoom) Resolve(rng Rand) (float64, error) {
	rg, err := effectiveRange("zoom", z.Range, ZoomRange())
	if err != nil {
		return 0, err
	}
	return ResolveOrSample("zoom", z.Factor, rg, rng)
}

// Apply implements Stage.
func (z Zoom) Apply(img bitmap.Image, rng Rand) (bitmap.Image, error) {
	f, err := z.Resolve(rng)
	if err != nil {
		return bitmap.Image{}, err
	}
	return zoom(img, f), nil
}

// Scale zooms img by factor, validated against [0.8, 1.2].
func Scale(img bitmap.Image, factor float64) (bitmap.Image, error) {
	return Zoom{Factor: &factor}.Apply(img, nil)
}

func zoom(img bitmap.Image, factor float64) bitmap.Image {
	n := img.Size()
	m := int(math.Round(float64(n) * factor))
	if math.Abs(factor-1) < zoomEpsilon || m == n || m <= 0 {
		return img.Clone()
	}

	grid := acquireScratch(m * m)
	defer grid.release()
	resample(img, grid.buf, m)

	// Offset of the output window inside the m×m grid. Positive when cropping
	// an enlargement, negative when padding a reduction; for odd padding the
	// extra background column/row ends up bottom-right.
	off := (m - n) / 2
	if m < n {
		off = -((n - m) / 2)
	}

	out := bitmap.NewBuilder(n)
	for y := 0; y < n; y++ {
		gy := y + off
		if gy < 0 || gy >= m {
			continue
		}
		for x := 0; x < n; x++ {
			gx := x + off
			if gx < 0 || gx >= m {
				continue
			}
			out.Set(x, y, grid.buf[gy*m+gx])
		}
	}
	return out.Image()
}

// resample writes a bilinear m×m resize of img into dst using half-pixel
// centres. Source coordinates are clamped to the canvas so borders replicate
// rather than fade.
func resample(img bitmap.Image, dst []float64, m int) {
	n := img.Size()
	scale := float64(n) / float64(m)
	last := float64(n - 1)
	for y := 0; y < m; y++ {
		sy := max(0, min(last, (float64(y)+0.5)*scale-0.5))
		y0 := int(sy)
		y1 := min(y0+1, n-1)
		fy := sy - float64(y0)
		for x := 0; x < m; x++ {
			sx := max(0, min(last, (float64(x)+0.5)*scale-0.5))
			x0 := int(sx)
			x1 := min(x0+1, n-1)
			fx := sx - float64(x0)

			top := (1-fx)*img.At(x0, y0) + fx*img.At(x1, y0)
			bottom := (1-fx)*img.At(x0, y1) + fx*img.At(x1, y1)
			dst[y*m+x] = (1-fy)*top + fy*bottom
		}
	}
}
