package stegano
import (
	"fmt"
	"image"
	"errors"

	"pixveil/cryptography"
	"pixveil/stegano/frame"
	"pixveil/stegano/lsb"
)

/*
 * the codec facade. callers hand in an already decoded pixel buffer
 * and get back either a fresh stego buffer (Hide) or the recovered
 * payload (Reveal). no I/O happens here, loading and saving images is
 * the caller's job (see stegano/img for the png/bmp helpers).
 */

type Kind uint8

const (
	Text = Kind(frame.KindText)
	File = Kind(frame.KindFile)
)

// Payload is a tagged variant: Text carries just bytes, File also
// carries the original filename so extraction can recreate the file.
type Payload struct {
	Kind	Kind
	Name	string
	Data	[]byte
}

type Options struct {
	// password mode. empty string means no encryption at all.
	Password	string

	// sealed mode: recipient public key for Hide, own private key
	// for Reveal. both are base64 strings from GenerateKeyPair.
	RecipientKey	string
	PrivateKey	string

	// whether the alpha channel carries bits too. off by default so
	// a fully opaque carrier stays fully opaque. both sides must
	// agree on this setting.
	UseAlpha	bool
}

var (
	ErrModeConflict = fmt.Errorf("choose either a password or a recipient key, not both")
	ErrPasswordRequired = fmt.Errorf("payload is password protected")
	ErrPrivateKeyRequired = fmt.Errorf("payload is sealed, private key required")
)

// Hide embeds the payload into a copy of img. the pipeline order is
// fixed: encrypt first, frame second, embed last, so the frame length
// field always matches the bytes physically present in the image.
func Hide( img image.Image, p *Payload, opts *Options ) (*image.NRGBA, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Password != "" && opts.RecipientKey != "" {
		return nil, ErrModeConflict
	}

	data := p.Data
	flags := uint8(0)
	var err error
	switch {
	case opts.Password != "":
		data, err = cryptography.EncryptWithPassword( data, opts.Password )
		flags = frame.FlagEncrypted
	case opts.RecipientKey != "":
		data, err = cryptography.Seal( data, opts.RecipientKey )
		flags = frame.FlagSealed
	}
	if err != nil {
		return nil, err
	}

	packed, err := frame.Pack( &frame.Frame{
		Version:	frame.Version1,
		Kind:		uint8( p.Kind ),
		Flags:		flags,
		Name:		p.Name,
		Payload:	data,
	} )
	if err != nil {
		return nil, err
	}

	tr, err := lsb.ForVersion( frame.Version1, opts.UseAlpha )
	if err != nil {
		return nil, err
	}
	return lsb.Embed( img, packed, tr )
}

// Reveal walks the image in the same order Hide did, reads the fixed
// header, then exactly the bytes the header declares, and undoes the
// crypto layer if one was applied.
func Reveal( img image.Image, opts *Options ) (*Payload, error) {
	if opts == nil {
		opts = &Options{}
	}

	// the fixed header always travels in the version 1 walk. the
	// version byte inside it picks the walk for everything after.
	bootTr, err := lsb.ForVersion( frame.Version1, opts.UseAlpha )
	if err != nil {
		return nil, err
	}
	r := lsb.NewReader( img, bootTr )

	hdrBytes, err := readFrameBytes( r, frame.BaseHeaderSize )
	if err != nil {
		return nil, err
	}
	hdr, err := frame.ParseHeader( hdrBytes )
	if err != nil {
		return nil, err
	}
	if _, err := lsb.ForVersion( hdr.Version, opts.UseAlpha ); err != nil {
		return nil, fmt.Errorf("%w: 0x%02x", frame.ErrUnsupportedVersion, hdr.Version)
	}

	full := hdrBytes
	if hdr.Kind == frame.KindFile {
		lenByte, err := readFrameBytes( r, frame.NameLenSize )
		if err != nil {
			return nil, err
		}
		full = append( full, lenByte... )
		name, err := readFrameBytes( r, int(lenByte[0]) )
		if err != nil {
			return nil, err
		}
		full = append( full, name... )
	}
	payload, err := readFrameBytes( r, int(hdr.PayloadLen) )
	if err != nil {
		return nil, err
	}
	full = append( full, payload... )

	f, err := frame.Unpack( full )
	if err != nil {
		return nil, err
	}

	data := f.Payload
	switch {
	case f.Flags & frame.FlagEncrypted != 0:
		if opts.Password == "" {
			return nil, ErrPasswordRequired
		}
		data, err = cryptography.DecryptWithPassword( data, opts.Password )
	case f.Flags & frame.FlagSealed != 0:
		if opts.PrivateKey == "" {
			return nil, ErrPrivateKeyRequired
		}
		data, err = cryptography.Open( data, opts.PrivateKey )
	}
	if err != nil {
		return nil, err
	}
	return &Payload{ Kind(f.Kind), f.Name, data }, nil
}

// MaxCapacityBytes tells how many payload bytes fit into img once the
// fixed header is accounted for. file payloads lose a little more to
// the embedded filename.
func MaxCapacityBytes( img image.Image, opts *Options ) int {
	if opts == nil {
		opts = &Options{}
	}
	tr, err := lsb.ForVersion( frame.Version1, opts.UseAlpha )
	if err != nil {
		return 0
	}
	c := lsb.Capacity( img, tr ) - frame.BaseHeaderSize
	if c < 0 {
		return 0
	}
	return c
}

// a header that declares more bytes than the image holds is a corrupt
// frame, not an engine fault, so exhaustion surfaces as truncation.
func readFrameBytes( r *lsb.Reader, n int ) ([]byte, error) {
	data, err := r.ReadBytes( n )
	if err != nil {
		if errors.Is( err, lsb.ErrImageExhausted ) {
			return nil, fmt.Errorf("%w: %s", frame.ErrTruncated, err.Error())
		}
		return nil, err
	}
	return data, nil
}
