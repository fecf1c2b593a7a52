package frame
import (
	"fmt"
	"bytes"
	"encoding/binary"
)

/*
 * the frame is the one wire format this codec owns. it travels inside
 * the carrier ahead of the payload, so extraction knows exactly how
 * many bits to read without scanning the whole image.
 *
 * layout:
 *	magic	4 bytes		"pxvl"
 *	version	1 byte
 *	kind	1 byte		payload kind in the low bits, crypto flags in the high bits
 *	length	4 bytes		big endian, count of payload bytes that follow
 *	nameLen	1 byte		file kind only
 *	name	nameLen bytes	file kind only
 *	payload	length bytes
 *
 * length always counts the bytes physically present after the header.
 * when the payload is encrypted that is the ciphertext size, never the
 * plaintext one.
 */

const (
	Version1 = 0x01

	KindText = 0x01
	KindFile = 0x02

	FlagEncrypted = 0x80
	FlagSealed = 0x40

	kindMask = 0x0f
	flagMask = 0xf0

	// magic + version + kind + length
	BaseHeaderSize = 10
	// one extra byte for nameLen when the kind is file
	NameLenSize = 1

	MaxPayloadSize = 0xffffffff
	MaxNameSize = 0xff
)

var (
	Magic = []byte{ 'p', 'x', 'v', 'l' }

	ErrBadMagic = fmt.Errorf("no frame found (bad magic)")
	ErrUnsupportedVersion = fmt.Errorf("unsupported frame version")
	ErrUnknownKind = fmt.Errorf("unknown payload kind")
	ErrTruncated = fmt.Errorf("frame is truncated")
	ErrPayloadTooLarge = fmt.Errorf("payload does not fit the length field")
	ErrNameTooLong = fmt.Errorf("filename is too long")
)

type Frame struct {
	Version	uint8
	Kind	uint8	// KindText or KindFile, without flags
	Flags	uint8	// FlagEncrypted / FlagSealed
	Name	string	// original filename, file kind only
	Payload	[]byte
}

// Header is the fixed part of the frame, decodable before anything
// else has been read out of the image.
type Header struct {
	Version		uint8
	Kind		uint8
	Flags		uint8
	PayloadLen	uint32
}

func Pack( f *Frame ) ([]byte, error) {
	if f.Kind != KindText && f.Kind != KindFile {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownKind, f.Kind)
	}
	if f.Version != Version1 {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, f.Version)
	}
	if uint64(len(f.Payload)) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(f.Payload))
	}
	if len(f.Name) > MaxNameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(f.Name))
	}

	size := BaseHeaderSize + len(f.Payload)
	if f.Kind == KindFile {
		size += NameLenSize + len(f.Name)
	}
	buf := make( []byte, 0, size )
	buf = append( buf, Magic... )
	buf = append( buf, f.Version, f.Kind | (f.Flags & flagMask) )
	buf = binary.BigEndian.AppendUint32( buf, uint32(len(f.Payload)) )
	if f.Kind == KindFile {
		buf = append( buf, uint8(len(f.Name)) )
		buf = append( buf, f.Name... )
	}
	buf = append( buf, f.Payload... )
	return buf, nil
}

func ParseHeader( data []byte ) (*Header, error) {
	if len(data) < BaseHeaderSize {
		return nil, fmt.Errorf("%w: only %d header bytes", ErrTruncated, len(data))
	}
	if bytes.Equal( data[:4], Magic ) == false {
		return nil, ErrBadMagic
	}
	version := data[4]
	if version != Version1 {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, version)
	}
	kind := data[5] & kindMask
	if kind != KindText && kind != KindFile {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownKind, kind)
	}
	return &Header{
		version,
		kind,
		data[5] & flagMask,
		binary.BigEndian.Uint32( data[6:10] ),
	}, nil
}

func Unpack( data []byte ) (*Frame, error) {
	hdr, err := ParseHeader( data )
	if err != nil {
		return nil, err
	}
	rest := data[BaseHeaderSize:]

	name := ""
	if hdr.Kind == KindFile {
		if len(rest) < NameLenSize {
			return nil, fmt.Errorf("%w: missing name length", ErrTruncated)
		}
		nameLen := int( rest[0] )
		rest = rest[NameLenSize:]
		if len(rest) < nameLen {
			return nil, fmt.Errorf("%w: name needs %d bytes, %d left", ErrTruncated, nameLen, len(rest))
		}
		name = string( rest[:nameLen] )
		rest = rest[nameLen:]
	}
	if uint64(len(rest)) < uint64(hdr.PayloadLen) {
		return nil, fmt.Errorf("%w: payload needs %d bytes, %d left", ErrTruncated, hdr.PayloadLen, len(rest))
	}
	return &Frame{
		hdr.Version,
		hdr.Kind,
		hdr.Flags,
		name,
		rest[:hdr.PayloadLen],
	}, nil
}
