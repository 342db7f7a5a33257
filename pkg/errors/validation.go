package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxImageSize is the largest canvas edge accepted by the batch tooling.
// The augmentation core works for any size; the cap keeps CLI runs bounded.
const MaxImageSize = 1024

// ValidateOutputDir validates a local directory that artifacts will be
// written to. Relative paths, including ones that climb with "..", are
// accepted: the caller chose the location on their own filesystem.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	const maxPathLength = 500
	if len(filepath.Clean(path)) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateBaseName validates the base name used for generated files
// (e.g. "seven" in seven_0003.png). It must be a plain file name.
func ValidateBaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "base name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidPath, "base name too long (max 128 characters)")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "base name cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "base name cannot start with a dot")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "base name contains invalid control characters")
		}
	}
	return nil
}

// ValidateImageSize checks that a canvas edge length is usable.
func ValidateImageSize(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidImage, "image size must be positive, got %d", n)
	}
	if n > MaxImageSize {
		return New(ErrCodeInvalidImage, "image size %d exceeds maximum %d", n, MaxImageSize)
	}
	return nil
}

// ValidateBackendURL validates a cache backend connection string.
// Only redis and mongodb schemes are accepted.
func ValidateBackendURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "backend URL cannot be empty")
	}

	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "backend URL must use redis, rediss, mongodb or mongodb+srv scheme")
}
