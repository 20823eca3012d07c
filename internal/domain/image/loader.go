package image

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
	"webp": {0x52, 0x49, 0x46, 0x46},
	"bmp":  {0x42, 0x4D},
}

var extensionFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".webp": "webp",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// DeclaredFormat maps a file extension to the decoder name, or "".
func DeclaredFormat(path string) string {
	return extensionFormats[strings.ToLower(filepath.Ext(path))]
}

// Load reads path, checks it against limits and decodes it. The returned
// SourceImage reports the sniffed format, which may differ from the
// extension.
func Load(path string, limits Limits) (SourceImage, image.Image, error) {
	src := SourceImage{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return src, nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = DefaultLimits().MaxFileSize
	}
	if limits.MaxPixels <= 0 {
		limits.MaxPixels = DefaultLimits().MaxPixels
	}

	limited := &io.LimitedReader{R: f, N: limits.MaxFileSize + 1}
	data, err := io.ReadAll(limited)
	if err != nil {
		return src, nil, fmt.Errorf("read source: %w", err)
	}
	if int64(len(data)) > limits.MaxFileSize {
		return src, nil, fmt.Errorf("file size exceeds limit of %d bytes", limits.MaxFileSize)
	}
	if len(data) == 0 {
		return src, nil, fmt.Errorf("empty image file")
	}
	src.FileSize = int64(len(data))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		declared := DeclaredFormat(path)
		if declared != "" && !SignatureMatches(data, declared) {
			return src, nil, fmt.Errorf("decode image config: %w (declared %s, header %x)",
				err, declared, data[:min(len(data), 16)])
		}
		return src, nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return src, nil, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > limits.MaxPixels {
		return src, nil, fmt.Errorf("pixel count exceeds limit: %d (max %d)", pixels, limits.MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return src, nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	src.Format = format
	src.Width = b.Dx()
	src.Height = b.Dy()
	src.HasAlpha = !Opaque(img)
	return src, img, nil
}

// SignatureMatches reports whether data starts with the magic bytes of
// format. Formats without a known signature always match.
func SignatureMatches(data []byte, format string) bool {
	signature, ok := imageSignatures[strings.ToLower(format)]
	if !ok || len(signature) == 0 {
		return true
	}
	return bytes.HasPrefix(data, signature)
}

// Opaque reports whether every pixel of img is fully opaque.
func Opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xFFFF {
				return false
			}
		}
	}
	return true
}
