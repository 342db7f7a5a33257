package augment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
)

func TestAffineInverseRoundTrip(t *testing.T) {
	tf := aboutCenter(rotation(12).then(shearX(0.15)), 28)
	inv, err := tf.inverse()
	require.NoError(t, err)

	for _, p := range [][2]float64{{0, 0}, {13.5, 13.5}, {27, 3}, {-2, 30}} {
		x, y := tf.apply(p[0], p[1])
		bx, by := inv.apply(x, y)
		require.InDelta(t, p[0], bx, 1e-9)
		require.InDelta(t, p[1], by, 1e-9)
	}
}

func TestAboutCenterFixesCentre(t *testing.T) {
	tf := aboutCenter(rotation(15), 28)
	x, y := tf.apply(13.5, 13.5)
	require.InDelta(t, 13.5, x, 1e-12)
	require.InDelta(t, 13.5, y, 1e-12)
}

func TestShearXMapsRows(t *testing.T) {
	x, y := shearX(0.2).apply(3, 10)
	require.InDelta(t, 5, x, 1e-12)
	require.Equal(t, 10.0, y)
}

func TestSingularAffine(t *testing.T) {
	_, err := newAffine(0, 0, 0, 0, 1, 1).inverse()
	require.Error(t, err)

	img, _ := bitmap.Filled(4, 1)
	_, err = warp(img, newAffine(0, 0, 0, 0, 1, 1))
	require.Error(t, err)
}

func TestBilinear(t *testing.T) {
	b := bitmap.NewBuilder(3)
	b.Set(1, 1, 1)
	img := b.Image()

	require.Equal(t, 1.0, bilinear(img, 1, 1))
	require.InDelta(t, 0.5, bilinear(img, 1.5, 1), 1e-12)
	require.InDelta(t, 0.25, bilinear(img, 0.5, 0.5), 1e-12)
	require.Equal(t, 0.0, bilinear(img, -1, 1))
	require.Equal(t, 0.0, bilinear(img, 3, 1))
}

func TestScratchIsZeroed(t *testing.T) {
	s := acquireScratch(16)
	for i := range s.buf {
		s.buf[i] = 7
	}
	s.release()

	s = acquireScratch(9)
	defer s.release()
	require.Len(t, s.buf, 9)
	for _, v := range s.buf {
		require.Equal(t, 0.0, v)
	}
}
