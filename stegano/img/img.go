package img
import (
	"fmt"
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
)

/*
 * carrier loading and saving. only lossless raster formats are
 * accepted: a lossy recompression would shred the embedded bits.
 * the codec itself never sees encoded bytes, just pixel buffers.
 */

const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

var ErrUnsupportedFormat = fmt.Errorf("unsupported carrier format, need png or bmp")

var pngMagic = []byte{ 0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a }

// Sniff tells which carrier format the bytes hold.
func Sniff( data []byte ) (string, error) {
	if len(data) >= len(pngMagic) && bytes.Equal( data[:len(pngMagic)], pngMagic ) {
		return FormatPNG, nil
	}
	if len(data) >= 2 && data[0] == 0x42 && data[1] == 0x4d {
		return FormatBMP, nil
	}
	return "", ErrUnsupportedFormat
}

// Decode loads a png or bmp carrier and reports which one it was, so
// the stego image can be written back in the same format.
func Decode( data []byte ) (image.Image, string, error) {
	format, err := Sniff( data )
	if err != nil {
		return nil, "", err
	}
	var decoded image.Image
	switch format {
	case FormatPNG:
		decoded, err = png.Decode( bytes.NewReader( data ) )
	case FormatBMP:
		decoded, err = bmp.Decode( bytes.NewReader( data ) )
	}
	if err != nil {
		return nil, "", err
	}
	return decoded, format, nil
}

// Encode writes the stego image losslessly. bmp has no alpha channel,
// so alpha-embedded payloads must go out as png.
func Encode( m image.Image, format string ) ([]byte, error) {
	buf := new( bytes.Buffer )
	switch format {
	case FormatPNG:
		if err := png.Encode( buf, m ); err != nil {
			return nil, err
		}
	case FormatBMP:
		if err := bmp.Encode( buf, m ); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	return buf.Bytes(), nil
}
