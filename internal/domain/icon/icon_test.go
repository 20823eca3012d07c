package icon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xp-theme-tools/internal/platform/errors"
	testhelpers "xp-theme-tools/internal/platform/testing"
)

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

func squares(edges ...int) SizeSet {
	set := make(SizeSet, len(edges))
	for i, e := range edges {
		set[i] = Size{Width: e, Height: e}
	}
	return set
}

func TestDeriveSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          SizeSet
	}{
		{name: "square 128", width: 128, height: 128, want: squares(16, 32, 48, 64, 128)},
		{name: "wide 100x50", width: 100, height: 50, want: squares(16, 32, 48, 64)},
		{name: "tiny wide falls back", width: 10, height: 5, want: squares(10)},
		{name: "tiny square is native", width: 10, height: 10, want: squares(10)},
		{name: "exact standard has no duplicate", width: 256, height: 256, want: squares(16, 32, 48, 64, 128, 256)},
		{name: "native between standards", width: 20, height: 20, want: squares(16, 20)},
		{name: "large native square", width: 512, height: 512, want: squares(16, 32, 48, 64, 128, 256, 512)},
		{name: "height is ignored", width: 48, height: 16, want: squares(16, 32, 48)},
		{name: "narrow tall falls back capped", width: 5, height: 300, want: squares(256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSizes(tt.width, tt.height)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestSizeSet_Encodable(t *testing.T) {
	kept, dropped := DeriveSizes(512, 512).Encodable()
	assert.Equal(t, squares(16, 32, 48, 64, 128, 256), kept)
	assert.Equal(t, squares(512), dropped)
	assert.Equal(t, "16x16,32x32", squares(16, 32).String())
}

func TestFlatten(t *testing.T) {
	src := testhelpers.Gradient(8, 8, true)
	flat := Flatten(src, white)

	require.Equal(t, image.Rect(0, 0, 8, 8), flat.Bounds())
	assert.True(t, flat.Opaque())

	// Left half is half transparent black-ish over white.
	left := flat.RGBAAt(0, 0)
	assert.InDelta(t, 127, int(left.R), 2)
	assert.Equal(t, uint8(0xFF), left.A)

	// Right half is opaque and passes through.
	want := src.NRGBAAt(7, 7)
	right := flat.RGBAAt(7, 7)
	assert.Equal(t, want.R, right.R)
	assert.Equal(t, want.G, right.G)
	assert.Equal(t, want.B, right.B)
}

func TestFitRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 64, 64), fitRect(128, 128, Size{64, 64}))
	assert.Equal(t, image.Rect(0, 16, 64, 48), fitRect(100, 50, Size{64, 64}))
	assert.Equal(t, image.Rect(16, 0, 48, 64), fitRect(50, 100, Size{64, 64}))
	assert.Equal(t, image.Rect(0, 7, 16, 8), fitRect(300, 1, Size{16, 16}))
}

func TestWriteICO_RoundTrip(t *testing.T) {
	frames := []Frame{
		{Width: 16, Height: 16, BitCount: 24, Data: []byte("sixteen")},
		{Width: 256, Height: 256, BitCount: 32, Data: []byte("two-five-six")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICO(&buf, frames))
	data := buf.Bytes()

	entries, err := ReadDirectory(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 16, entries[0].Width)
	assert.Equal(t, uint16(1), entries[0].Planes)
	assert.Equal(t, uint16(24), entries[0].BitCount)
	assert.Equal(t, uint32(6+2*16), entries[0].Offset)
	assert.Equal(t, []byte("sixteen"), entries[0].Payload(data))

	assert.Equal(t, 256, entries[1].Width)
	assert.Equal(t, 256, entries[1].Height)
	assert.Equal(t, []byte("two-five-six"), entries[1].Payload(data))

	// 256 is stored as zero.
	assert.Equal(t, byte(0), data[6+16])
}

func TestWriteICO_Rejects(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteICO(&buf, nil))
	assert.Error(t, WriteICO(&buf, []Frame{{Width: 512, Height: 512, Data: []byte{1}}}))
	assert.Error(t, WriteICO(&buf, []Frame{{Width: 0, Height: 16, Data: []byte{1}}}))
}

func TestReadDirectory_Invalid(t *testing.T) {
	_, err := ReadDirectory([]byte{0, 0})
	assert.Error(t, err)

	_, err = ReadDirectory([]byte{0, 0, 2, 0, 1, 0})
	assert.Error(t, err, "cursor type")

	_, err = ReadDirectory([]byte{0, 0, 1, 0, 1, 0})
	assert.Error(t, err, "truncated")
}

func newConverter(t *testing.T) *Converter {
	t.Helper()
	return NewConverter(Options{Logger: testhelpers.SetupTestLogger(t)})
}

func convertFixture(t *testing.T, w, h int, withAlpha bool) (Result, []byte) {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "Icons", "fixture.png")
	dst := filepath.Join(dir, "fixture.ico")
	testhelpers.WritePNG(t, src, w, h, withAlpha)

	result := newConverter(t).Convert(context.Background(), src, dst)
	require.True(t, result.OK(), result.Reason)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	return result, data
}

func TestConvert_AlphaSourceIsOpaque(t *testing.T) {
	result, data := convertFixture(t, 64, 64, true)

	assert.Equal(t, "png", result.Format)
	assert.True(t, result.HasAlpha)
	assert.Equal(t, squares(16, 32, 48, 64), result.Sizes)

	entries, err := ReadDirectory(data)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for i, entry := range entries {
		assert.Equal(t, result.Sizes[i].Width, entry.Width)
		assert.Equal(t, uint16(24), entry.BitCount)

		payload := entry.Payload(data)
		// IHDR colour type 2 is truecolour without alpha.
		require.Greater(t, len(payload), 25)
		assert.Equal(t, byte(2), payload[25], "frame %d has an alpha channel", i)

		frame, err := png.Decode(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, entry.Width, frame.Bounds().Dx())
		assert.Equal(t, entry.Height, frame.Bounds().Dy())
	}
}

func TestConvert_NonSquareIsLetterboxed(t *testing.T) {
	result, data := convertFixture(t, 100, 50, false)
	assert.False(t, result.HasAlpha)
	assert.Equal(t, squares(16, 32, 48, 64), result.Sizes)

	entries, err := ReadDirectory(data)
	require.NoError(t, err)
	last := entries[len(entries)-1]

	frame, err := png.Decode(bytes.NewReader(last.Payload(data)))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 64), frame.Bounds())

	r, g, b, _ := frame.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xFFFF, 0xFFFF, 0xFFFF}, [3]uint32{r, g, b}, "letterbox is white")

	_, _, b, _ = frame.At(32, 32).RGBA()
	assert.Less(t, b, uint32(0x8000), "content is drawn in the middle")
}

func TestConvert_LargeSourceCapsAt256(t *testing.T) {
	result, data := convertFixture(t, 300, 300, false)
	assert.Equal(t, squares(16, 32, 48, 64, 128, 256), result.Sizes)

	entries, err := ReadDirectory(data)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, 256, entries[5].Width)
}

func TestConvert_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Notepad.png")
	testhelpers.WritePNG(t, src, 48, 48, true)

	conv := newConverter(t)
	first := filepath.Join(dir, "first.ico")
	second := filepath.Join(dir, "second.ico")
	require.True(t, conv.Convert(context.Background(), src, first).OK())
	require.True(t, conv.Convert(context.Background(), src, second).OK())

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConvert_Failures(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	corrupt := filepath.Join(dir, "broken.png")
	testhelpers.WriteCorrupt(t, corrupt)

	good := filepath.Join(dir, "good.png")
	testhelpers.WritePNG(t, good, 16, 16, false)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		src  string
		dst  string
	}{
		{name: "corrupt source", ctx: context.Background(), src: corrupt, dst: filepath.Join(outDir, "broken.ico")},
		{name: "missing source", ctx: context.Background(), src: filepath.Join(dir, "nope.png"), dst: filepath.Join(outDir, "nope.ico")},
		{name: "unwritable destination", ctx: context.Background(), src: good, dst: filepath.Join(dir, "missing", "good.ico")},
		{name: "cancelled", ctx: cancelled, src: good, dst: filepath.Join(outDir, "good.ico")},
	}

	conv := newConverter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := conv.Convert(tt.ctx, tt.src, tt.dst)
			assert.False(t, result.OK())
			assert.Equal(t, StatusFailure, result.Status)
			assert.NotEmpty(t, result.Reason)
			assert.Equal(t, tt.src, result.Source)

			_, err := os.Stat(tt.dst)
			assert.True(t, os.IsNotExist(err), "no output for a failed item")
		})
	}

	leftovers, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers, "no temp files left behind")
}

func TestNewConverter_Defaults(t *testing.T) {
	conv := NewConverter(Options{})
	assert.NotNil(t, conv.logger)
	assert.Equal(t, white, conv.background)
	assert.Positive(t, conv.limits.MaxPixels)
}

func TestResult_Err(t *testing.T) {
	assert.NoError(t, Success("a.png", "a.ico", "png", false, SizeSet{{Width: 16, Height: 16}}).Err())

	err := Failure("b.png", "b.ico", "unexpected EOF").Err()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConversion))
	assert.Contains(t, err.Error(), "unexpected EOF")
}
