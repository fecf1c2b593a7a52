package lsb
import (
	"fmt"
	"image"
)

/*
 * the walk over pixel channels is part of the wire format: embedding
 * and extraction must visit channels in exactly the same order or the
 * stream comes out shuffled. it is its own type, picked by the frame
 * version byte, so a future format can change the order without
 * breaking images made with the old one.
 */
type Traversal interface {
	// number of channels used in every pixel
	ChannelsPerPixel() int
	// Channel maps the i-th stream position onto image coordinates
	// and a channel index (0=R 1=G 2=B 3=A).
	Channel( bounds image.Rectangle, i int ) (x, y, ch int)
}

// RowMajor walks row by row over pixels, R G B inside a pixel, alpha
// last when enabled. alpha stays untouched by default so transparent
// regions keep their exact transparency.
type RowMajor struct {
	UseAlpha bool
}

func (t RowMajor) ChannelsPerPixel() int {
	if t.UseAlpha {
		return 4
	}
	return 3
}

func (t RowMajor) Channel( bounds image.Rectangle, i int ) (int, int, int) {
	cpp := t.ChannelsPerPixel()
	pixel := i / cpp
	w := bounds.Dx()
	return bounds.Min.X + pixel % w, bounds.Min.Y + pixel / w, i % cpp
}

var ErrUnknownVersion = fmt.Errorf("no traversal for this format version")

// ForVersion picks the traversal a given frame version embeds with.
// the fixed frame header itself always travels in the version 1 walk.
func ForVersion( version uint8, useAlpha bool ) (Traversal, error) {
	switch version {
	case 1:
		return RowMajor{ useAlpha }, nil
	}
	return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownVersion, version)
}
