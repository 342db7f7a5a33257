package augment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// ones returns an n×n image of full intensity.
func ones(t *testing.T, n int) bitmap.Image {
	t.Helper()
	img, err := bitmap.Filled(n, 1)
	require.NoError(t, err)
	return img
}

// dot returns an n×n image with a single lit pixel at (x, y).
func dot(n, x, y int) bitmap.Image {
	b := bitmap.NewBuilder(n)
	b.Set(x, y, 1)
	return b.Image()
}

// seven draws a rough "7": a top bar and a slanted stem.
func seven() bitmap.Image {
	b := bitmap.NewBuilder(28)
	for x := 6; x <= 21; x++ {
		b.Set(x, 6, 1)
		b.Set(x, 7, 0.8)
	}
	for y := 8; y <= 22; y++ {
		x := 21 - (y-8)/2
		b.Set(x, y, 1)
		b.Set(x-1, y, 0.6)
	}
	return b.Image()
}

// requireViolation asserts err is a range violation on param.
func requireViolation(t *testing.T, err error, param string) *errors.RangeViolationError {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeRangeViolation), "expected RANGE_VIOLATION, got %v", err)
	var rv *errors.RangeViolationError
	require.ErrorAs(t, err, &rv)
	require.Equal(t, param, rv.Param)
	return rv
}

// requireUnitInterval asserts every pixel lies in [0, 1].
func requireUnitInterval(t *testing.T, img bitmap.Image) {
	t.Helper()
	lo, hi := img.Bounds()
	require.GreaterOrEqual(t, lo, 0.0)
	require.LessOrEqual(t, hi, 1.0)
}
