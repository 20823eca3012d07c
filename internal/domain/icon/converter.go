package icon

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	srcimage "xp-theme-tools/internal/domain/image"
	"xp-theme-tools/internal/platform/errors"
	"xp-theme-tools/internal/platform/logging"
)

// Converter turns source images into multi-resolution ICO files.
type Converter struct {
	logger     *logging.Logger
	limits     srcimage.Limits
	background color.RGBA
}

// Options configures a Converter.
type Options struct {
	Logger     *logging.Logger
	Limits     srcimage.Limits
	Background color.RGBA
}

// NewConverter constructs a converter. A zero Background means white.
func NewConverter(opts Options) *Converter {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Background == (color.RGBA{}) {
		opts.Background = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	if opts.Limits.MaxFileSize <= 0 || opts.Limits.MaxPixels <= 0 {
		opts.Limits = srcimage.DefaultLimits()
	}

	return &Converter{
		logger:     opts.Logger,
		limits:     opts.Limits,
		background: opts.Background,
	}
}

// Convert writes an ICO for src at dst. It never panics and never returns
// an error; failures are reported through the Result and the log.
func (c *Converter) Convert(ctx context.Context, src, dst string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = c.fail(src, dst, errors.New(errors.KindConversion, "icon.convert", fmt.Sprintf("panic: %v", r)))
		}
	}()

	if err := ctx.Err(); err != nil {
		return c.fail(src, dst, errors.Wrap(errors.KindConversion, "icon.convert", "cancelled", err))
	}

	info, img, err := srcimage.Load(src, c.limits)
	if err != nil {
		return c.fail(src, dst, errors.Wrap(errors.KindConversion, "icon.decode", "cannot read source", err))
	}
	if declared := srcimage.DeclaredFormat(src); declared != "" && declared != info.Format {
		c.logger.WarnTag("convert", "%s is %s data despite its extension", filepath.Base(src), info.Format)
	}

	sizes, dropped := DeriveSizes(info.Width, info.Height).Encodable()
	if len(dropped) > 0 {
		c.logger.DebugTag("convert", "%s: skipping frames larger than %d: %s", filepath.Base(src), MaxFrameSize, dropped)
	}

	flat := Flatten(img, c.background)
	frames := make([]Frame, 0, len(sizes))
	for _, size := range sizes {
		frame, err := encodeFrame(flat, size, c.background)
		if err != nil {
			return c.fail(src, dst, errors.Wrap(errors.KindConversion, "icon.encode", "encode "+size.String()+" frame", err))
		}
		frames = append(frames, frame)
	}

	var buf bytes.Buffer
	if err := WriteICO(&buf, frames); err != nil {
		return c.fail(src, dst, errors.Wrap(errors.KindConversion, "icon.encode", "build container", err))
	}
	if err := writeFileAtomic(dst, buf.Bytes()); err != nil {
		return c.fail(src, dst, errors.Wrap(errors.KindConversion, "icon.write", "write "+dst, err))
	}

	c.logger.DebugTag("convert", "%s -> %s [%s]", filepath.Base(src), filepath.Base(dst), sizes)
	return Success(src, dst, info.Format, info.HasAlpha, sizes)
}

func (c *Converter) fail(src, dst string, err error) Result {
	c.logger.ErrorTag("convert", "failed to convert %s: %v", src, err)
	return Failure(src, dst, err.Error())
}

// writeFileAtomic writes data next to path and renames it into place, so a
// failed write leaves no partial file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
