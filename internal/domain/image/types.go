package image

// SourceImage describes a decoded source file. It is read-only input.
type SourceImage struct {
	Path     string
	Format   string
	Width    int
	Height   int
	HasAlpha bool
	FileSize int64
}

// Square reports whether the source is as wide as it is tall.
func (s SourceImage) Square() bool {
	return s.Width == s.Height
}

// Limits bounds the cost of decoding a single source.
type Limits struct {
	MaxFileSize int64
	MaxPixels   int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize: 64 << 20,
		MaxPixels:   64 << 20,
	}
}
