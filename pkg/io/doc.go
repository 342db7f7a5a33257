// Package io reads and writes digit bitmaps as PNG or JSON.
//
// # Import
//
// [ImportPNG] and [ReadPNG] decode any PNG (or JPEG, GIF, TIFF, BMP) through
// [github.com/disintegration/imaging], normalise it to a square grayscale
// canvas and convert it to a [bitmap.Image]:
//
//  1. Non-square sources are centred on a transparent square canvas.
//  2. The square is resized to [DecodeOptions.Size] (28 by default) with a
//     linear filter.
//  3. Luminance becomes intensity in [0, 1]; alpha multiplies it, so
//     transparent regions read as background.
//
// Digits are expected light-on-dark as in MNIST. Set [DecodeOptions.Invert]
// for dark-on-light scans.
//
// [ImportJSON] and [ReadJSON] read the lossless JSON form:
//
//	{
//	  "size": 3,
//	  "pixels": [
//	    [0, 0.5, 0],
//	    [0, 1,   0],
//	    [0, 0.5, 0]
//	  ]
//	}
//
// [Import] picks the decoder from the file extension.
//
// # Export
//
// [WritePNG] writes an 8-bit grayscale PNG, optionally upscaled with
// nearest-neighbour sampling for viewing. [WriteJSON] writes the JSON form.
// [Encode] renders a bitmap in any [Format] to a byte slice, which is what
// the batch pipeline caches.
//
// # Errors
//
// Missing files report FILE_NOT_FOUND, undecodable data INVALID_IMAGE and
// unknown formats INVALID_FORMAT (see package errors).
package io
