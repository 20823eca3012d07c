package icon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	icoTypeIcon   = 1
)

// Frame is one PNG-encoded image inside an ICO container.
type Frame struct {
	Width    int
	Height   int
	BitCount uint16
	Data     []byte
}

// DirEntry is a decoded ICONDIRENTRY.
type DirEntry struct {
	Width    int
	Height   int
	Planes   uint16
	BitCount uint16
	Size     uint32
	Offset   uint32
}

// dimension encodes an edge for a directory entry, where 0 stands for 256.
func dimension(edge int) uint8 {
	if edge >= MaxFrameSize {
		return 0
	}
	return uint8(edge)
}

// WriteICO writes frames as a PNG-in-ICO container.
func WriteICO(w io.Writer, frames []Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("ico: no frames")
	}
	if len(frames) > 0xFFFF {
		return fmt.Errorf("ico: too many frames: %d", len(frames))
	}

	var buf bytes.Buffer
	// Header: reserved, type, count.
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, icoTypeIcon, uint16(len(frames))})

	offset := uint32(icoHeaderSize + icoEntrySize*len(frames))
	for _, f := range frames {
		if f.Width <= 0 || f.Height <= 0 || f.Width > MaxFrameSize || f.Height > MaxFrameSize {
			return fmt.Errorf("ico: frame %dx%d out of range", f.Width, f.Height)
		}
		// Width, height, palette, reserved, planes.
		buf.Write([]byte{dimension(f.Width), dimension(f.Height), 0, 0})
		binary.Write(&buf, binary.LittleEndian, uint16(1))
		binary.Write(&buf, binary.LittleEndian, f.BitCount)
		binary.Write(&buf, binary.LittleEndian, uint32(len(f.Data)))
		binary.Write(&buf, binary.LittleEndian, offset)
		offset += uint32(len(f.Data))
	}

	for _, f := range frames {
		buf.Write(f.Data)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadDirectory parses the header and directory of an ICO file.
func ReadDirectory(data []byte) ([]DirEntry, error) {
	if len(data) < icoHeaderSize {
		return nil, fmt.Errorf("ico: short header")
	}

	var header [3]uint16
	if err := binary.Read(bytes.NewReader(data[:icoHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("ico: read header: %w", err)
	}
	if header[0] != 0 || header[1] != icoTypeIcon {
		return nil, fmt.Errorf("ico: not an icon (reserved=%d type=%d)", header[0], header[1])
	}

	count := int(header[2])
	if len(data) < icoHeaderSize+count*icoEntrySize {
		return nil, fmt.Errorf("ico: truncated directory")
	}

	entries := make([]DirEntry, 0, count)
	for i := 0; i < count; i++ {
		raw := data[icoHeaderSize+i*icoEntrySize:]
		entry := DirEntry{
			Width:    int(raw[0]),
			Height:   int(raw[1]),
			Planes:   binary.LittleEndian.Uint16(raw[4:6]),
			BitCount: binary.LittleEndian.Uint16(raw[6:8]),
			Size:     binary.LittleEndian.Uint32(raw[8:12]),
			Offset:   binary.LittleEndian.Uint32(raw[12:16]),
		}
		if entry.Width == 0 {
			entry.Width = MaxFrameSize
		}
		if entry.Height == 0 {
			entry.Height = MaxFrameSize
		}
		if uint64(entry.Offset)+uint64(entry.Size) > uint64(len(data)) {
			return nil, fmt.Errorf("ico: entry %d points past end of file", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Payload returns the bytes an entry points at.
func (e DirEntry) Payload(data []byte) []byte {
	return data[e.Offset : e.Offset+e.Size]
}
