package icon

import (
	"fmt"
	"slices"
	"strings"
)

// MaxFrameSize is the largest edge an ICO directory entry can address.
const MaxFrameSize = 256

// StandardSizes are the square edges embedded when the source is wide enough.
var StandardSizes = []int{16, 32, 48, 64, 128, 256}

// Size is one frame's pixel dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizeSet is the ordered, duplicate-free list of frames for one icon.
type SizeSet []Size

func (s SizeSet) String() string {
	parts := make([]string, len(s))
	for i, size := range s {
		parts[i] = size.String()
	}
	return strings.Join(parts, ",")
}

// Contains reports whether size is part of the set.
func (s SizeSet) Contains(size Size) bool {
	return slices.Contains(s, size)
}

// DeriveSizes computes the frame set for a width×height source: the native
// size when square, every standard size not wider than the source, and a
// single min(256, max(w, h)) square when nothing else applies. Only the
// width is compared against the standard sizes.
func DeriveSizes(width, height int) SizeSet {
	var sizes SizeSet
	if width == height && width > 0 {
		sizes = append(sizes, Size{Width: width, Height: height})
	}

	for _, edge := range StandardSizes {
		size := Size{Width: edge, Height: edge}
		if edge <= width && !sizes.Contains(size) {
			sizes = append(sizes, size)
		}
	}

	if len(sizes) == 0 {
		edge := min(MaxFrameSize, max(width, height, 1))
		sizes = append(sizes, Size{Width: edge, Height: edge})
	}

	slices.SortFunc(sizes, func(a, b Size) int { return a.Width - b.Width })
	return sizes
}

// Encodable drops the sizes an ICO directory cannot describe.
func (s SizeSet) Encodable() (kept SizeSet, dropped SizeSet) {
	for _, size := range s {
		if size.Width > MaxFrameSize || size.Height > MaxFrameSize {
			dropped = append(dropped, size)
			continue
		}
		kept = append(kept, size)
	}
	return kept, dropped
}
