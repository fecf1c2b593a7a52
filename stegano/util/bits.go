package util
import (
	"fmt"
)

/*
 * transform data between byte and bit form.
 * bits come out most significant first inside every byte, so the
 * embedded stream reads left to right the same way a hex dump does.
 */

var ErrRaggedBits = fmt.Errorf("bit count is not a multiple of 8")

func ToBits( data []byte ) []uint8 {
	bits := make( []uint8, 0, len(data) * 8 )
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append( bits, (b >> uint(i)) & 1 )
		}
	}
	return bits
}

func FromBits( bits []uint8 ) ([]byte, error) {
	if len(bits) % 8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrRaggedBits, len(bits))
	}
	data := make( []byte, 0, len(bits) / 8 )
	for i := 0; i < len(bits); i += 8 {
		b := byte(0)
		for j := 0; j < 8; j++ {
			b = (b << 1) | (bits[i + j] & 1)
		}
		data = append( data, b )
	}
	return data, nil
}

// SetLSB writes one payload bit into the low bit of a channel value.
func SetLSB( channel, bit uint8 ) uint8 {
	return (channel & 0xfe) | (bit & 1)
}

// GetLSB reads it back.
func GetLSB( channel uint8 ) uint8 {
	return channel & 1
}
