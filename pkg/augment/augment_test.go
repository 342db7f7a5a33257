package augment_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
)

func TestStagesOrder(t *testing.T) {
	var names []string
	for _, s := range (augment.Config{}).Stages() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"rotation", "shear", "zoom", "shift"}, names)
}

func TestIdentityConfigReturnsInput(t *testing.T) {
	img := seven()
	cfg := augment.IdentityConfig()

	out, params, err := augment.AugmentWithParams(img, &cfg, augment.NewRand(1))
	require.NoError(t, err)
	require.Equal(t, augment.IdentityParams(), params)
	require.True(t, bitmap.Equal(img, out))
}

func TestExplicitNoOpValuesReturnInput(t *testing.T) {
	img := seven()
	cfg := augment.Config{
		Angle:       augment.Float(0),
		ShearFactor: augment.Float(0),
		ZoomFactor:  augment.Float(1),
		ShiftWidth:  augment.Float(0),
		ShiftHeight: augment.Float(0),
	}
	out, err := augment.Augment(img, &cfg, nil)
	require.NoError(t, err)
	require.True(t, bitmap.Equal(img, out))
}

// TestDefaultAugmentationKeepsShape runs many default augmentations.
func TestDefaultAugmentationKeepsShape(t *testing.T) {
	img := seven()
	rng := augment.NewRand(7)
	for i := range 100 {
		out, params, err := augment.AugmentWithParams(img, nil, rng)
		require.NoError(t, err, "run %d", i)
		require.Equal(t, 28, out.Size())
		requireUnitInterval(t, out)
		require.NoError(t, params.Validate())
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	img := seven()
	a, pa, err := augment.AugmentWithParams(img, nil, augment.NewRand(42))
	require.NoError(t, err)
	b, pb, err := augment.AugmentWithParams(img, nil, augment.NewRand(42))
	require.NoError(t, err)

	require.Equal(t, pa, pb)
	require.True(t, bitmap.Equal(a, b))
}

func TestResolveRespectsCustomRanges(t *testing.T) {
	cfg := augment.Config{
		Rotation:    augment.Range(-5, 5),
		Shear:       augment.Range(0, 0.1),
		Zoom:        augment.Range(1, 1.1),
		WidthShift:  augment.Range(-1, 1),
		HeightShift: augment.Range(1.6, 3.4),
	}
	rng := augment.NewRand(9)
	for range 200 {
		p, err := cfg.Resolve(rng)
		require.NoError(t, err)
		require.True(t, cfg.Rotation.Contains(p.Angle))
		require.True(t, cfg.Shear.Contains(p.Shear))
		require.True(t, cfg.Zoom.Contains(p.Zoom))
		require.True(t, cfg.WidthShift.Contains(float64(p.ShiftWidth)))
		require.True(t, cfg.HeightShift.Contains(float64(p.ShiftHeight)))
	}
}

// TestFirstViolationInPipelineOrder checks that validation happens up front
// and reports the earliest stage.
func TestFirstViolationInPipelineOrder(t *testing.T) {
	tests := []struct {
		name  string
		cfg   augment.Config
		param string
	}{
		{"rotation before zoom", augment.Config{Angle: augment.Float(20), ZoomFactor: augment.Float(1.5)}, "angle"},
		{"shear before shift", augment.Config{ShearFactor: augment.Float(0.5), ShiftWidth: augment.Float(9)}, "shear"},
		{"zoom before shift", augment.Config{ZoomFactor: augment.Float(0.5), ShiftHeight: augment.Float(9)}, "zoom"},
		{"late stage still caught", augment.Config{ShiftHeight: augment.Float(-7)}, "height"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.cfg.Validate())

			out, params, err := augment.AugmentWithParams(seven(), &tc.cfg, augment.NewRand(1))
			requireViolation(t, err, tc.param)
			require.True(t, out.IsZero())
			require.Equal(t, augment.Params{}, params)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, augment.Config{}.Validate())
	require.NoError(t, augment.IdentityConfig().Validate())

	err := augment.Config{Zoom: augment.Range(0.7, 1)}.Validate()
	requireViolation(t, err, "zoom.range.min")
}

func TestParamsReplay(t *testing.T) {
	img := seven()
	out, params, err := augment.AugmentWithParams(img, nil, augment.NewRand(5))
	require.NoError(t, err)

	replayed, err := params.Apply(img)
	require.NoError(t, err)
	require.True(t, bitmap.Equal(out, replayed))
}

func TestParamsApplyValidates(t *testing.T) {
	tests := []struct {
		params augment.Params
		param  string
	}{
		{augment.Params{Angle: 30, Zoom: 1}, "angle"},
		{augment.Params{Shear: -0.3, Zoom: 1}, "shear"},
		{augment.Params{}, "zoom"}, // zero zoom is not a no-op
		{augment.Params{Zoom: 1, ShiftWidth: 5}, "width"},
		{augment.Params{Zoom: 1, ShiftHeight: -5}, "height"},
	}

	for _, tc := range tests {
		t.Run(tc.param, func(t *testing.T) {
			out, err := tc.params.Apply(seven())
			requireViolation(t, err, tc.param)
			require.True(t, out.IsZero())
		})
	}
}

func TestNewPipelineRejectsInvalidConfig(t *testing.T) {
	p, err := augment.NewPipeline(augment.Config{Angle: augment.Float(16)}, nil)
	requireViolation(t, err, "angle")
	require.Nil(t, p)
}

func TestPipelineConcurrentUse(t *testing.T) {
	p, err := augment.NewPipeline(augment.Config{}, augment.NewRand(11))
	require.NoError(t, err)
	img := seven()

	var wg sync.WaitGroup
	errs := make(chan error, 8*20)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				out, params, err := p.Apply(img)
				if err == nil {
					err = params.Validate()
				}
				if err == nil && out.Size() != 28 {
					err = fmt.Errorf("size %d", out.Size())
				}
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.True(t, bitmap.Equal(img, seven()), "input must not be mutated")
}

func TestStagesApplyIndividually(t *testing.T) {
	img := seven()
	rng := augment.NewRand(2)
	out := img
	for _, s := range (augment.Config{}).Stages() {
		var err error
		out, err = s.Apply(out, rng)
		require.NoError(t, err, s.Name())
		require.Equal(t, 28, out.Size())
	}
}
