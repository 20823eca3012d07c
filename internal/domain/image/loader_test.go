package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "xp-theme-tools/internal/platform/testing"
)

func TestLoad_OpaquePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "My Computer.png")
	testhelpers.WritePNG(t, path, 48, 32, false)

	src, img, err := Load(path, DefaultLimits())
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "png", src.Format)
	assert.Equal(t, 48, src.Width)
	assert.Equal(t, 32, src.Height)
	assert.False(t, src.HasAlpha)
	assert.False(t, src.Square())
	assert.Positive(t, src.FileSize)
}

func TestLoad_AlphaPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Recycle Bin (empty).png")
	testhelpers.WritePNG(t, path, 16, 16, true)

	src, _, err := Load(path, DefaultLimits())
	require.NoError(t, err)
	assert.True(t, src.HasAlpha)
	assert.True(t, src.Square())
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "broken.png")
	testhelpers.WriteCorrupt(t, corrupt)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	big := filepath.Join(dir, "big.png")
	testhelpers.WritePNG(t, big, 64, 64, false)

	tests := []struct {
		name    string
		path    string
		limits  Limits
		message string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.png"), limits: DefaultLimits(), message: "open source"},
		{name: "corrupt data", path: corrupt, limits: DefaultLimits(), message: "declared png"},
		{name: "empty file", path: empty, limits: DefaultLimits(), message: "empty image"},
		{name: "file too large", path: big, limits: Limits{MaxFileSize: 10, MaxPixels: 1 << 20}, message: "file size exceeds"},
		{name: "too many pixels", path: big, limits: Limits{MaxFileSize: 1 << 20, MaxPixels: 100}, message: "pixel count exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, img, err := Load(tt.path, tt.limits)
			require.Error(t, err)
			assert.Nil(t, img)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestDeclaredFormat(t *testing.T) {
	assert.Equal(t, "png", DeclaredFormat("a/B.PNG"))
	assert.Equal(t, "jpeg", DeclaredFormat("photo.jpg"))
	assert.Equal(t, "tiff", DeclaredFormat("scan.tif"))
	assert.Equal(t, "", DeclaredFormat("notes.txt"))
}

func TestSignatureMatches(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	assert.True(t, SignatureMatches(png, "png"))
	assert.False(t, SignatureMatches(png, "jpeg"))
	assert.False(t, SignatureMatches([]byte{0x89}, "png"))
	assert.True(t, SignatureMatches([]byte("anything"), "tiff"))
}

func TestOpaque(t *testing.T) {
	assert.True(t, Opaque(testhelpers.Gradient(4, 4, false)))
	assert.False(t, Opaque(testhelpers.Gradient(4, 4, true)))
}
