package errors

import (
	"math"
	"strings"
	"unicode"
)

// Limits shared by the CLI and the API.
const (
	// MaxSiteCount caps the number of sites a single request may ask for.
	MaxSiteCount = 100_000

	// MaxRelaxations caps the relaxation iteration count.
	MaxRelaxations = 1_000

	// MaxBands caps the number of material bands.
	MaxBands = 256
)

// ValidateSiteCount checks that n is a usable number of sites.
func ValidateSiteCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfig, "site count must be positive, got %d", n)
	}
	if n > MaxSiteCount {
		return New(ErrCodeInvalidConfig, "site count too large (max %d), got %d", MaxSiteCount, n)
	}
	return nil
}

// ValidateRelaxations checks a relaxation iteration count.
func ValidateRelaxations(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidConfig, "relaxations must not be negative, got %d", n)
	}
	if n > MaxRelaxations {
		return New(ErrCodeInvalidConfig, "too many relaxations (max %d), got %d", MaxRelaxations, n)
	}
	return nil
}

// ValidateBands checks a material band count.
func ValidateBands(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfig, "band count must be positive, got %d", n)
	}
	if n > MaxBands {
		return New(ErrCodeInvalidConfig, "too many bands (max %d), got %d", MaxBands, n)
	}
	return nil
}

// ValidateFraction checks that a named option lies in [0, 1].
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateExtent checks that a rectangle has a finite, positive width and
// height.
func ValidateExtent(minX, minY, maxX, maxY float64) error {
	for _, v := range []float64{minX, minY, maxX, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidBounds, "bounds must be finite")
		}
	}
	if maxX <= minX || maxY <= minY {
		return New(ErrCodeInvalidBounds, "bounds must have a positive width and height, got [%v, %v]x[%v, %v]", minX, maxX, minY, maxY)
	}
	return nil
}

// ValidatePath validates a file path supplied by a user for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
