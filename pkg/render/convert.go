package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

const converter = "rsvg-convert"

// ErrNoConverter is returned when rsvg-convert is not installed.
// Install librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
var ErrNoConverter = errors.New(converter + " not found on PATH")

// ConverterAvailable reports whether PDF conversion can run on this host.
func ConverterAvailable() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts an SVG document to a single-page PDF. The conversion is
// killed when ctx is done.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, ErrNoConverter
	}

	cmd := exec.CommandContext(ctx, converter, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	var pdf, stderr bytes.Buffer
	cmd.Stdout = &pdf
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", converter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return pdf.Bytes(), nil
}
