package augment

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// affine is a 2D homogeneous transform in pixel coordinates
// (x to the right, y down, origin at the centre of the top-left pixel).
type affine struct {
	m *mat.Dense
}

func newAffine(a, b, c, d, tx, ty float64) affine {
	return affine{m: mat.NewDense(3, 3, []float64{
		a, b, tx,
		c, d, ty,
		0, 0, 1,
	})}
}

func translation(tx, ty float64) affine { return newAffine(1, 0, 0, 1, tx, ty) }

// rotation turns content counter-clockwise on screen by deg degrees.
func rotation(deg float64) affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	return newAffine(c, s, -s, c, 0, 0)
}

// shearX maps (x, y) to (x + k·y, y).
func shearX(k float64) affine { return newAffine(1, k, 0, 1, 0, 0) }

// then returns the transform that applies t first and next second.
func (t affine) then(next affine) affine {
	var out mat.Dense
	out.Mul(next.m, t.m)
	return affine{m: &out}
}

// aboutCenter conjugates t so it acts around the centre of a size×size canvas.
func aboutCenter(t affine, size int) affine {
	c := float64(size-1) / 2
	return translation(-c, -c).then(t).then(translation(c, c))
}

func (t affine) inverse() (affine, error) {
	var inv mat.Dense
	if err := inv.Inverse(t.m); err != nil {
		return affine{}, errors.Wrap(errors.ErrCodeInternal, err, "affine transform is not invertible")
	}
	return affine{m: &inv}, nil
}

func (t affine) apply(x, y float64) (float64, float64) {
	m := t.m
	return m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2),
		m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2)
}

// warp resamples img under the forward transform t. Every output pixel is
// mapped back through t⁻¹ and bilinearly sampled; source positions outside
// the canvas read as background.
func warp(img bitmap.Image, t affine) (bitmap.Image, error) {
	inv, err := t.inverse()
	if err != nil {
		return bitmap.Image{}, err
	}

	// Unpack once; mat.Dense.At bounds-checks on every call.
	a, b, tx := inv.m.At(0, 0), inv.m.At(0, 1), inv.m.At(0, 2)
	c, d, ty := inv.m.At(1, 0), inv.m.At(1, 1), inv.m.At(1, 2)

	n := img.Size()
	out := bitmap.NewBuilder(n)
	for y := 0; y < n; y++ {
		fy := float64(y)
		for x := 0; x < n; x++ {
			fx := float64(x)
			out.Set(x, y, bilinear(img, a*fx+b*fy+tx, c*fx+d*fy+ty))
		}
	}
	return out.Image(), nil
}

// bilinear blends the four pixels around (sx, sy). Neighbours outside the
// canvas contribute background, so content fades out at the border instead
// of smearing.
func bilinear(img bitmap.Image, sx, sy float64) float64 {
	n := float64(img.Size())
	if sx <= -1 || sy <= -1 || sx >= n || sy >= n {
		return bitmap.Background
	}
	x0, y0 := math.Floor(sx), math.Floor(sy)
	fx, fy := sx-x0, sy-y0
	ix, iy := int(x0), int(y0)

	top := (1-fx)*img.At(ix, iy) + fx*img.At(ix+1, iy)
	bottom := (1-fx)*img.At(ix, iy+1) + fx*img.At(ix+1, iy+1)
	return (1-fy)*top + fy*bottom
}
