package io

import (
	"bytes"
	"encoding/json"
	"image"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// ToImage converts a bitmap to an 8-bit grayscale image.
func ToImage(img bitmap.Image) *image.Gray {
	n := img.Size()
	out := image.NewGray(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out.Pix[y*out.Stride+x] = uint8(math.Round(img.At(x, y) * 255))
		}
	}
	return out
}

// WritePNG encodes img as a grayscale PNG. A scale above 1 enlarges every
// pixel to a scale×scale block.
func WritePNG(img bitmap.Image, w io.Writer, scale int) error {
	var src image.Image = ToImage(img)
	if scale > 1 {
		n := img.Size() * scale
		src = imaging.Resize(src, n, n, imaging.NearestNeighbor)
	}
	if err := imaging.Encode(w, src, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// ExportPNG writes img as a PNG file at path.
func ExportPNG(img bitmap.Image, path string, scale int) error {
	return export(path, func(w io.Writer) error { return WritePNG(img, w, scale) })
}

// WriteJSON encodes img in the JSON form read by [ReadJSON].
func WriteJSON(img bitmap.Image, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Size: img.Size(), Pixels: img.Rows()}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// ExportJSON writes img as a JSON file at path.
func ExportJSON(img bitmap.Image, path string) error {
	return export(path, func(w io.Writer) error { return WriteJSON(img, w) })
}

// Encode renders img in format f.
func Encode(img bitmap.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = WritePNG(img, &buf, 1)
	case FormatJSON:
		err = WriteJSON(img, &buf)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode is the inverse of Encode. Raster data is read at its own size.
func Decode(data []byte, f Format) (bitmap.Image, error) {
	switch f {
	case FormatPNG:
		src, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return bitmap.Image{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
		}
		b := src.Bounds()
		return FromImage(src, DecodeOptions{Size: max(b.Dx(), b.Dy())})
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data))
	default:
		return bitmap.Image{}, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
}

func export(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
