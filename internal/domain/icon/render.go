package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// Flatten composites img over an opaque background of the same size. Opaque
// sources come out unchanged apart from the pixel layout.
func Flatten(img image.Image, background color.RGBA) *image.RGBA {
	background.A = 0xFF

	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)
	return canvas
}

// renderFrame scales flat into a size.Width×size.Height frame. Sources whose
// aspect ratio differs from the frame are fitted and centred on background.
func renderFrame(flat *image.RGBA, size Size, background color.RGBA) *image.RGBA {
	background.A = 0xFF

	frame := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	sb := flat.Bounds()
	if sb.Dx() == size.Width && sb.Dy() == size.Height {
		draw.Draw(frame, frame.Bounds(), flat, sb.Min, draw.Src)
		return frame
	}

	target := fitRect(sb.Dx(), sb.Dy(), size)
	// Over onto an opaque canvas keeps every output pixel opaque.
	draw.CatmullRom.Scale(frame, target, flat, sb, draw.Over, nil)
	return frame
}

// fitRect returns the largest w×h rectangle with the source aspect ratio
// that fits inside size, centred.
func fitRect(w, h int, size Size) image.Rectangle {
	if w*size.Height == h*size.Width {
		return image.Rect(0, 0, size.Width, size.Height)
	}

	dw, dh := size.Width, size.Height
	if w*size.Height > h*size.Width {
		dh = max(1, (h*size.Width+w/2)/w)
	} else {
		dw = max(1, (w*size.Height+h/2)/h)
	}

	x := (size.Width - dw) / 2
	y := (size.Height - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}

var frameEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// encodeFrame renders one size and returns it as a PNG payload.
func encodeFrame(flat *image.RGBA, size Size, background color.RGBA) (Frame, error) {
	img := renderFrame(flat, size, background)

	var buf bytes.Buffer
	if err := frameEncoder.Encode(&buf, img); err != nil {
		return Frame{}, err
	}

	bitCount := uint16(32)
	if img.Opaque() {
		bitCount = 24
	}

	return Frame{
		Width:    size.Width,
		Height:   size.Height,
		BitCount: bitCount,
		Data:     buf.Bytes(),
	}, nil
}
