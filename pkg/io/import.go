package io

import (
	"encoding/json"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/bitmap"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// DefaultSize is the MNIST canvas edge.
const DefaultSize = 28

// DecodeOptions control raster import.
type DecodeOptions struct {
	// Size is the output canvas edge. Zero means DefaultSize.
	Size int
	// Invert treats the source as dark-on-light.
	Invert bool
}

func (o DecodeOptions) size() int {
	if o.Size == 0 {
		return DefaultSize
	}
	return o.Size
}

// ReadPNG decodes a raster image from r and converts it to a bitmap.
// ReadPNG does not close r.
func ReadPNG(r io.Reader, opts DecodeOptions) (bitmap.Image, error) {
	if err := errors.ValidateImageSize(opts.size()); err != nil {
		return bitmap.Image{}, err
	}
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return bitmap.Image{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	return FromImage(src, opts)
}

// ImportPNG reads a raster image file at path.
func ImportPNG(path string, opts DecodeOptions) (bitmap.Image, error) {
	f, err := open(path)
	if err != nil {
		return bitmap.Image{}, err
	}
	defer f.Close()
	return ReadPNG(f, opts)
}

// FromImage normalises src to a square grayscale canvas of opts.Size and
// converts it to a bitmap.
func FromImage(src image.Image, opts DecodeOptions) (bitmap.Image, error) {
	size := opts.size()
	if err := errors.ValidateImageSize(size); err != nil {
		return bitmap.Image{}, err
	}
	b := src.Bounds()
	if b.Empty() {
		return bitmap.Image{}, errors.New(errors.ErrCodeInvalidImage, "image is empty")
	}

	img := imaging.Clone(src)
	if w, h := b.Dx(), b.Dy(); w != h {
		s := max(w, h)
		img = imaging.PasteCenter(imaging.New(s, s, color.Transparent), img)
	}
	if img.Bounds().Dx() != size {
		img = imaging.Resize(img, size, size, imaging.Linear)
	}
	img = imaging.Grayscale(img)

	out := bitmap.NewBuilder(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := img.NRGBAAt(x, y)
			lum := float64(c.R) / 255
			if opts.Invert {
				lum = 1 - lum
			}
			out.Set(x, y, lum*float64(c.A)/255)
		}
	}
	return out.Image(), nil
}

// document is the JSON form of a bitmap.
type document struct {
	Size   int         `json:"size"`
	Pixels [][]float64 `json:"pixels"`
}

// ReadJSON decodes a JSON bitmap from r. The declared size must match the
// pixel grid. ReadJSON does not close r.
func ReadJSON(r io.Reader) (bitmap.Image, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return bitmap.Image{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode json")
	}
	if doc.Size != len(doc.Pixels) {
		return bitmap.Image{}, errors.New(errors.ErrCodeInvalidImage,
			"declared size %d does not match %d rows", doc.Size, len(doc.Pixels))
	}
	if err := errors.ValidateImageSize(doc.Size); err != nil {
		return bitmap.Image{}, err
	}
	return bitmap.FromRows(doc.Pixels)
}

// ImportJSON reads a JSON bitmap file at path.
func ImportJSON(path string) (bitmap.Image, error) {
	f, err := open(path)
	if err != nil {
		return bitmap.Image{}, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// Import reads path as JSON or raster depending on its extension. opts only
// applies to raster input.
func Import(path string, opts DecodeOptions) (bitmap.Image, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return bitmap.Image{}, err
	}
	if f == FormatJSON {
		return ImportJSON(path)
	}
	return ImportPNG(path, opts)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}
