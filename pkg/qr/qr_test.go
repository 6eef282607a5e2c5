package qr

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/invoicer/pkg/apperror"
)

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := Encode("Pay to: 1234567890")
	require.NoError(t, err)
	b, err := Encode("Pay to: 1234567890")
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b))

	c, err := Encode("Pay to: 0987654321")
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a, c))
}

func TestEncodeProducesPNGWithQuietZone(t *testing.T) {
	data, err := Encode("https://example.com/pay")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, bounds.Dx(), bounds.Dy())
	assert.Zero(t, bounds.Dx()%ModulePixels)

	// top-left pixel lies in the quiet zone and must be white
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestEncodeRejectsEmptyPayload(t *testing.T) {
	_, err := Encode("")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValue))
}

func TestGenerateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")

	got, err := Generate("Pay to: 1234567890", path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := Encode("Pay to: 1234567890")
	require.NoError(t, err)
	assert.Equal(t, want, onDisk)
}

func TestGenerateUnwritablePath(t *testing.T) {
	_, err := Generate("x", filepath.Join(t.TempDir(), "missing", "qr.png"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindIO))
}

func TestGenerateTemp(t *testing.T) {
	dir := t.TempDir()
	path, err := GenerateTemp("x", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestHasPayload(t *testing.T) {
	assert.True(t, HasPayload("Pay to: 1234567890"))
	assert.True(t, HasPayload(" x "))
	assert.False(t, HasPayload(""))
	assert.False(t, HasPayload(" \t\n"))

	_, err := Encode("   ")
	assert.True(t, apperror.IsKind(err, apperror.KindValue))
}
