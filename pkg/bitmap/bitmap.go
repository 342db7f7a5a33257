// Package bitmap provides the single-channel square image type consumed and
// produced by the augmentation transforms.
//
// An [Image] is an N×N grid of intensities in [0, 1] stored row-major. Images
// have value semantics: no exported method mutates the receiver, and every
// accessor that exposes pixel data returns a copy. Transforms build their
// output through a [Builder] and seal it with [Builder.Image], which hands the
// backing slice over without copying.
//
// The zero Image has size 0 and is only useful as a "no image" marker.
package bitmap

import (
	"math"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// Background is the intensity used for pixels that have no source content.
const Background = 0.0

// Image is an immutable N×N grayscale bitmap with intensities in [0, 1].
type Image struct {
	size int
	pix  []float64
}

// New returns a size×size image filled with [Background].
func New(size int) (Image, error) {
	if size <= 0 {
		return Image{}, errors.New(errors.ErrCodeInvalidImage, "image size must be positive, got %d", size)
	}
	return Image{size: size, pix: make([]float64, size*size)}, nil
}

// Filled returns a size×size image with every pixel set to v.
func Filled(size int, v float64) (Image, error) {
	if err := checkValue(v); err != nil {
		return Image{}, err
	}
	img, err := New(size)
	if err != nil {
		return Image{}, err
	}
	for i := range img.pix {
		img.pix[i] = v
	}
	return img, nil
}

// FromPixels builds an image from row-major pixel data. The slice is copied.
// len(pix) must be a perfect square and every value must lie in [0, 1].
func FromPixels(pix []float64) (Image, error) {
	size := int(math.Round(math.Sqrt(float64(len(pix)))))
	if size == 0 || size*size != len(pix) {
		return Image{}, errors.New(errors.ErrCodeInvalidImage, "pixel count %d is not a non-zero perfect square", len(pix))
	}
	for _, v := range pix {
		if err := checkValue(v); err != nil {
			return Image{}, err
		}
	}
	return Image{size: size, pix: append([]float64(nil), pix...)}, nil
}

// FromRows builds an image from a slice of equally long rows.
// The grid must be square.
func FromRows(rows [][]float64) (Image, error) {
	n := len(rows)
	if n == 0 {
		return Image{}, errors.New(errors.ErrCodeInvalidImage, "image has no rows")
	}
	pix := make([]float64, 0, n*n)
	for y, row := range rows {
		if len(row) != n {
			return Image{}, errors.New(errors.ErrCodeInvalidImage, "image must be square: row %d has %d columns, want %d", y, len(row), n)
		}
		pix = append(pix, row...)
	}
	return FromPixels(pix)
}

// Size returns the edge length N.
func (m Image) Size() int { return m.size }

// IsZero reports whether m is the zero Image.
func (m Image) IsZero() bool { return m.size == 0 }

// At returns the intensity at column x, row y.
// Coordinates outside the canvas read as [Background].
func (m Image) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return Background
	}
	return m.pix[y*m.size+x]
}

// Pixels returns a row-major copy of the pixel data.
func (m Image) Pixels() []float64 {
	return append([]float64(nil), m.pix...)
}

// Rows returns a copy of the pixel data as a slice of rows.
func (m Image) Rows() [][]float64 {
	rows := make([][]float64, m.size)
	for y := range rows {
		rows[y] = append([]float64(nil), m.pix[y*m.size:(y+1)*m.size]...)
	}
	return rows
}

// Clone returns an independent copy of m.
func (m Image) Clone() Image {
	return Image{size: m.size, pix: m.Pixels()}
}

// SameSize reports whether both images have the same dimensions.
func SameSize(a, b Image) bool {
	return a.size == b.size
}

// Equal reports whether a and b have the same size and identical pixels.
func Equal(a, b Image) bool {
	return ApproxEqual(a, b, 0)
}

// ApproxEqual reports whether a and b have the same size and every pixel
// differs by at most eps.
func ApproxEqual(a, b Image, eps float64) bool {
	if a.size != b.size {
		return false
	}
	for i := range a.pix {
		if math.Abs(a.pix[i]-b.pix[i]) > eps {
			return false
		}
	}
	return true
}

// Mean returns the average intensity, or 0 for the zero Image.
func (m Image) Mean() float64 {
	if len(m.pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.pix {
		sum += v
	}
	return sum / float64(len(m.pix))
}

// Bounds returns the minimum and maximum intensity.
func (m Image) Bounds() (lo, hi float64) {
	if len(m.pix) == 0 {
		return 0, 0
	}
	lo, hi = m.pix[0], m.pix[0]
	for _, v := range m.pix[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Centroid returns the intensity-weighted centre of mass (x, y).
// An all-background image reports the canvas centre.
func (m Image) Centroid() (cx, cy float64) {
	var total float64
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			v := m.pix[y*m.size+x]
			total += v
			cx += v * float64(x)
			cy += v * float64(y)
		}
	}
	if total == 0 {
		c := float64(m.size-1) / 2
		return c, c
	}
	return cx / total, cy / total
}

func checkValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return errors.New(errors.ErrCodeInvalidImage, "intensity %v outside [0, 1]", v)
	}
	return nil
}

// Builder assembles a new Image pixel by pixel. A Builder must not be used
// after Image has been called.
type Builder struct {
	size int
	pix  []float64
}

// NewBuilder returns a builder for a size×size image initialised to
// [Background]. size must be positive; transforms only call it with the size
// of an existing Image.
func NewBuilder(size int) *Builder {
	return &Builder{size: size, pix: make([]float64, size*size)}
}

// Set writes v at (x, y), clamped to [0, 1]. Out-of-canvas writes are ignored.
func (b *Builder) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= b.size || y >= b.size {
		return
	}
	b.pix[y*b.size+x] = clamp01(v)
}

// Image seals the builder and returns the finished image.
func (b *Builder) Image() Image {
	img := Image{size: b.size, pix: b.pix}
	b.pix = nil
	return img
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return Background
	}
	return max(0, min(1, v))
}
