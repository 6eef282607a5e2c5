// Package qr encodes payment references as PNG QR codes.
package qr

import (
	"fmt"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/sangkips/invoicer/pkg/apperror"
)

// ModulePixels is the edge length, in pixels, of one QR module. A negative
// size tells go-qrcode to size the image from the module count, which keeps
// the default 4-module quiet zone.
const ModulePixels = 10

// Level is the fixed error-correction level (~7% recovery).
const Level = qrcode.Low

// HasPayload reports whether text is worth encoding. Blank or
// whitespace-only text means the invoice carries no QR code.
func HasPayload(text string) bool {
	return strings.TrimSpace(text) != ""
}

// Encode returns the PNG bytes for text. The output is deterministic for a
// given text.
func Encode(text string) ([]byte, error) {
	if !HasPayload(text) {
		return nil, apperror.NewValueError("qr_data", "QR payload must not be empty")
	}

	code, err := qrcode.New(text, Level)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValue, "qr: cannot encode payload: %v", err)
	}

	png, err := code.PNG(-ModulePixels)
	if err != nil {
		return nil, fmt.Errorf("qr: failed to render png: %w", err)
	}
	return png, nil
}

// Generate writes the PNG for text to path and returns path.
func Generate(text, path string) (string, error) {
	png, err := Encode(text)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", apperror.NewIOError("qr: failed to write "+path, err)
	}
	return path, nil
}

// GenerateTemp writes the PNG for text to a new temporary file inside dir
// (os.TempDir when dir is empty). The caller owns the file and must remove it.
func GenerateTemp(text, dir string) (string, error) {
	png, err := Encode(text)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "invoice-qr-*.png")
	if err != nil {
		return "", apperror.NewIOError("qr: failed to create temp file", err)
	}
	path := f.Name()

	if _, err := f.Write(png); err != nil {
		f.Close()
		os.Remove(path)
		return "", apperror.NewIOError("qr: failed to write "+path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", apperror.NewIOError("qr: failed to close "+path, err)
	}
	return path, nil
}
