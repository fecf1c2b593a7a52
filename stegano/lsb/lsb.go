package lsb
import (
	"fmt"
	"image"
	"image/color"

	"pixveil/stegano/util"
)

var (
	ErrPayloadExceedsCapacity = fmt.Errorf("payload exceeds image capacity")
	ErrImageExhausted = fmt.Errorf("image ran out of channels")
)

// Capacity returns how many whole bytes the walk can store in img.
func Capacity( img image.Image, tr Traversal ) int {
	bounds := img.Bounds()
	return bounds.Dx() * bounds.Dy() * tr.ChannelsPerPixel() / 8
}

/*
 * straight (non premultiplied) NRGBA is the working format for the
 * whole engine. a premultiplied buffer rounds its color channels
 * against alpha on every conversion, so once an alpha byte loses its
 * low bit the R G B low bits are shredded too. NRGBA keeps every
 * channel independent and survives png encode/decode exactly.
 */

// cloneNRGBA always builds a fresh buffer, the source stays untouched.
func cloneNRGBA( m image.Image ) *image.NRGBA {
	bounds := m.Bounds()
	n := image.NewNRGBA( bounds )
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			n.SetNRGBA( x, y, color.NRGBAModel.Convert( m.At( x, y ) ).(color.NRGBA) )
		}
	}
	return n
}

// toNRGBA avoids the copy for buffers that already are straight alpha.
func toNRGBA( m image.Image ) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n
	}
	return cloneNRGBA( m )
}

// Embed writes data bit by bit into the low bits of the channels
// visited by tr. the capacity check runs before anything else, and the
// source image is never touched: the result is a fresh buffer, so a
// failed call leaves no partial state anywhere.
func Embed( img image.Image, data []byte, tr Traversal ) (*image.NRGBA, error) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy() * tr.ChannelsPerPixel()
	if len(data) * 8 > total {
		return nil, fmt.Errorf("%w: %d bits for %d usable channels",
			ErrPayloadExceedsCapacity, len(data) * 8, total)
	}

	nrgba := cloneNRGBA( img )

	bits := util.ToBits( data )
	for i, bit := range bits {
		x, y, ch := tr.Channel( bounds, i )
		off := nrgba.PixOffset( x, y ) + ch
		nrgba.Pix[off] = util.SetLSB( nrgba.Pix[off], bit )
	}
	return nrgba, nil
}

// Reader pulls embedded bytes back out in traversal order. it keeps
// its position between calls, so extraction reads the fixed header
// first and then exactly the number of bytes the header declares,
// never the rest of the image.
type Reader struct {
	img	*image.NRGBA
	tr	Traversal
	pos	int
	total	int
}

func NewReader( img image.Image, tr Traversal ) *Reader {
	bounds := img.Bounds()
	return &Reader{
		toNRGBA( img ),
		tr,
		0,
		bounds.Dx() * bounds.Dy() * tr.ChannelsPerPixel(),
	}
}

func(r *Reader) ReadBytes( n int ) ([]byte, error) {
	if n < 0 || r.pos + n * 8 > r.total {
		return nil, fmt.Errorf("%w: want %d bytes, %d bits left",
			ErrImageExhausted, n, r.total - r.pos)
	}
	bits := make( []uint8, 0, n * 8 )
	bounds := r.img.Bounds()
	for i := 0; i < n * 8; i++ {
		x, y, ch := r.tr.Channel( bounds, r.pos )
		bits = append( bits, util.GetLSB( r.img.Pix[ r.img.PixOffset( x, y ) + ch ] ) )
		r.pos++
	}
	return util.FromBits( bits )
}
