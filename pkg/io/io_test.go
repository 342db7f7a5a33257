package io_test

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	digitio "github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/io"
)

const tol = 0.5/255 + 1e-9

// stroke returns a 28×28 bitmap whose values are exact multiples of 1/255.
func stroke() bitmap.Image {
	b := bitmap.NewBuilder(28)
	for y := 4; y < 24; y++ {
		b.Set(14, y, 1)
		b.Set(13, y, 128.0/255)
	}
	return b.Image()
}

func writeRaster(t *testing.T, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestPNGRoundTrip(t *testing.T) {
	img := stroke()
	var buf bytes.Buffer
	require.NoError(t, digitio.WritePNG(img, &buf, 1))

	got, err := digitio.ReadPNG(&buf, digitio.DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, 28, got.Size())
	require.True(t, bitmap.ApproxEqual(img, got, tol))
}

func TestPNGScaledExportDecodesBack(t *testing.T) {
	img := stroke()
	path := filepath.Join(t.TempDir(), "big.png")
	require.NoError(t, digitio.ExportPNG(img, path, 4))

	src, err := imaging.Open(path)
	require.NoError(t, err)
	require.Equal(t, 112, src.Bounds().Dx())

	got, err := digitio.ImportPNG(path, digitio.DecodeOptions{Size: 28})
	require.NoError(t, err)
	require.InDelta(t, img.Mean(), got.Mean(), 0.01)
}

func TestImportResizesToCanvas(t *testing.T) {
	src := imaging.New(56, 56, color.Gray{Y: 200})
	path := writeRaster(t, src, "uniform.png")

	got, err := digitio.ImportPNG(path, digitio.DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, digitio.DefaultSize, got.Size())
	lo, hi := got.Bounds()
	require.InDelta(t, 200.0/255, lo, 1.0/255)
	require.InDelta(t, 200.0/255, hi, 1.0/255)
}

func TestImportInvert(t *testing.T) {
	src := imaging.New(28, 28, color.White)
	src.Set(5, 5, color.Black)
	path := writeRaster(t, src, "scan.png")

	got, err := digitio.ImportPNG(path, digitio.DecodeOptions{Invert: true})
	require.NoError(t, err)
	require.InDelta(t, 1, got.At(5, 5), tol)
	require.InDelta(t, 0, got.At(0, 0), tol)
}

func TestImportPadsNonSquare(t *testing.T) {
	src := imaging.New(28, 14, color.White)
	got, err := digitio.FromImage(src, digitio.DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, 28, got.Size())
	require.InDelta(t, 0, got.At(14, 0), tol, "top padding is background")
	require.InDelta(t, 1, got.At(14, 14), tol)
	require.InDelta(t, 0, got.At(14, 27), tol, "bottom padding is background")
}

func TestTransparentIsBackground(t *testing.T) {
	src := imaging.New(28, 28, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	got, err := digitio.FromImage(src, digitio.DecodeOptions{})
	require.NoError(t, err)
	_, hi := got.Bounds()
	require.Equal(t, 0.0, hi)
}

func TestJSONRoundTrip(t *testing.T) {
	img := stroke()
	var buf bytes.Buffer
	require.NoError(t, digitio.WriteJSON(img, &buf))
	require.True(t, strings.Contains(buf.String(), `"size": 28`))

	got, err := digitio.ReadJSON(&buf)
	require.NoError(t, err)
	require.True(t, bitmap.Equal(img, got))
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"size": `},
		{"size mismatch", `{"size": 3, "pixels": [[0, 0], [0, 0]]}`},
		{"ragged", `{"size": 2, "pixels": [[0, 0], [0]]}`},
		{"out of range", `{"size": 1, "pixels": [[1.5]]}`},
		{"empty", `{"size": 0, "pixels": []}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := digitio.ReadJSON(strings.NewReader(tc.input))
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrCodeInvalidImage), "got %v", err)
		})
	}
}

func TestImportDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	img := stroke()

	jsonPath := filepath.Join(dir, "seven.json")
	require.NoError(t, digitio.ExportJSON(img, jsonPath))
	got, err := digitio.Import(jsonPath, digitio.DecodeOptions{})
	require.NoError(t, err)
	require.True(t, bitmap.Equal(img, got))

	pngPath := filepath.Join(dir, "seven.png")
	require.NoError(t, digitio.ExportPNG(img, pngPath, 1))
	got, err = digitio.Import(pngPath, digitio.DecodeOptions{})
	require.NoError(t, err)
	require.True(t, bitmap.ApproxEqual(img, got, tol))

	_, err = digitio.Import(filepath.Join(dir, "seven.txt"), digitio.DecodeOptions{})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestImportMissingFile(t *testing.T) {
	_, err := digitio.ImportPNG(filepath.Join(t.TempDir(), "nope.png"), digitio.DecodeOptions{})
	require.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestImportGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err := digitio.ImportPNG(path, digitio.DecodeOptions{})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidImage), "got %v", err)
}

func TestEncodeDecode(t *testing.T) {
	img := stroke()
	for _, f := range digitio.Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := digitio.Encode(img, f)
			require.NoError(t, err)
			got, err := digitio.Decode(data, f)
			require.NoError(t, err)
			require.True(t, bitmap.ApproxEqual(img, got, tol))
		})
	}

	_, err := digitio.Encode(img, "bmp")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestParseFormats(t *testing.T) {
	got, err := digitio.ParseFormats([]string{"PNG", "json", " png "})
	require.NoError(t, err)
	require.Equal(t, []digitio.Format{digitio.FormatPNG, digitio.FormatJSON}, got)

	_, err = digitio.ParseFormats([]string{"png", "svg"})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	require.Equal(t, ".json", digitio.FormatJSON.Ext())
}
