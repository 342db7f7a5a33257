package io

import (
	"path/filepath"
	"strings"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
)

// Format is an on-disk bitmap encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatJSON}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatJSON:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want png or json)", s)
	}
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	var out []Format
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// FormatFromPath infers the format from a file extension. Every raster
// extension imaging can decode maps to FormatPNG.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return FormatPNG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer image format from %q", filepath.Base(path))
	}
}
