package testing

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"xp-theme-tools/internal/platform/config"
	"xp-theme-tools/internal/platform/logging"
)

func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Log.Level = "debug"
	cfg.Log.Dir = t.TempDir()
	cfg.Log.File = "test.log"
	cfg.Convert.InputDir = filepath.Join(t.TempDir(), "Icons")
	cfg.Convert.OutputDir = filepath.Join(t.TempDir(), "Icons_ICO")
	return cfg
}

func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
		Console:  io.Discard,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })

	return logger
}

// Gradient returns a w×h image with a deterministic colour ramp. When
// withAlpha is set the left half is half transparent.
func Gradient(w, h int, withAlpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(0xFF)
			if withAlpha && x < w/2 {
				a = 0x80
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 0x40,
				A: a,
			})
		}
	}
	return img
}

// WritePNG encodes Gradient(w, h, withAlpha) to path, creating parents.
func WritePNG(t *testing.T, path string, w, h int, withAlpha bool) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, Gradient(w, h, withAlpha)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteCorrupt writes bytes that carry a PNG extension but no image.
func WriteCorrupt(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
