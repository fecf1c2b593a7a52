package stegano
import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"pixveil/cryptography"
	"pixveil/stegano/frame"
	"pixveil/stegano/lsb"
)

func newTestImage( w, h int ) *image.RGBA {
	m := image.NewRGBA( image.Rect( 0, 0, w, h ) )
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set( x, y, color.RGBA{ uint8(x * 7), uint8(y * 5), uint8((x + y) * 3), 0xff } )
		}
	}
	return m
}

// the reference scenario: 100x100 rgb carrier, "HELLO", no password.
func TestHelloScenario( t *testing.T ) {
	carrier := newTestImage( 100, 100 )

	if got := MaxCapacityBytes( carrier, nil ); got != 3740 {
		t.Errorf("MaxCapacityBytes = %d, want 3740", got)
	}

	stego, err := Hide( carrier, &Payload{ Kind: Text, Data: []byte("HELLO") }, nil )
	if err != nil {
		t.Fatalf("Failed to hide: %v", err)
	}
	payload, err := Reveal( stego, nil )
	if err != nil {
		t.Fatalf("Failed to reveal: %v", err)
	}
	if payload.Kind != Text {
		t.Errorf("Wrong kind: %v", payload.Kind)
	}
	if string( payload.Data ) != "HELLO" {
		t.Errorf("Wrong payload: %q", payload.Data)
	}
}

func TestRoundTrip( t *testing.T ) {
	tests := []*Payload{
		{ Text, "", []byte("Hello world!") },
		{ Text, "", []byte{} },
		{ Text, "", bytes.Repeat( []byte{0x5a}, 3000 ) },
		{ File, "notes.txt", []byte("file body") },
		{ File, "archive.tar.gz", bytes.Repeat( []byte{0x00}, 512 ) },
	}

	variants := []*Options{
		nil,
		{ UseAlpha: true },
		{ Password: "A" },
		{ Password: "A", UseAlpha: true },
	}

	for _, p := range tests {
		for _, opts := range variants {
			stego, err := Hide( newTestImage( 120, 120 ), p, opts )
			if err != nil {
				t.Errorf("Failed to hide %q: %v", p.Name, err)
				continue
			}
			back, err := Reveal( stego, opts )
			if err != nil {
				t.Errorf("Failed to reveal %q: %v", p.Name, err)
				continue
			}
			if back.Kind != p.Kind || back.Name != p.Name {
				t.Errorf("Tag spoiled: got (%v, %q), want (%v, %q)",
					back.Kind, back.Name, p.Kind, p.Name)
			}
			if bytes.Equal( back.Data, p.Data ) == false {
				t.Errorf("Payload spoiled for %q", p.Name)
			}
		}
	}
}

func TestPasswordFlow( t *testing.T ) {
	carrier := newTestImage( 100, 100 )
	p := &Payload{ Kind: Text, Data: []byte("secret") }

	stego, err := Hide( carrier, p, &Options{ Password: "A" } )
	if err != nil {
		t.Fatalf("Failed to hide: %v", err)
	}

	// right password
	back, err := Reveal( stego, &Options{ Password: "A" } )
	if err != nil || string( back.Data ) != "secret" {
		t.Errorf("Reveal with the right password failed: %v", err)
	}

	// wrong password is an authentication failure, nothing more specific
	if _, err := Reveal( stego, &Options{ Password: "B" } ); errors.Is( err, cryptography.ErrAuthenticationFailed ) == false {
		t.Errorf("Expected authentication failure, got %v", err)
	}

	// no password at all
	if _, err := Reveal( stego, nil ); errors.Is( err, ErrPasswordRequired ) == false {
		t.Errorf("Expected ErrPasswordRequired, got %v", err)
	}

	// unencrypted payloads come out even when a password is offered
	plain, err := Hide( carrier, p, nil )
	if err != nil {
		t.Fatalf("Failed to hide plain: %v", err)
	}
	back, err = Reveal( plain, &Options{ Password: "whatever" } )
	if err != nil || string( back.Data ) != "secret" {
		t.Errorf("Plain payload must ignore the cipher layer: %v", err)
	}

	// both modes at once is a caller error
	if _, err := Hide( carrier, p, &Options{ Password: "A", RecipientKey: "x" } ); errors.Is( err, ErrModeConflict ) == false {
		t.Errorf("Expected ErrModeConflict, got %v", err)
	}
}

func TestSealedFlow( t *testing.T ) {
	pk, sk, err := cryptography.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate keys: %v", err)
	}
	_, otherSk, err := cryptography.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate second keys: %v", err)
	}

	stego, err := Hide( newTestImage( 100, 100 ),
		&Payload{ Kind: File, Name: "k.bin", Data: []byte("sealed body") },
		&Options{ RecipientKey: pk } )
	if err != nil {
		t.Fatalf("Failed to hide sealed: %v", err)
	}

	back, err := Reveal( stego, &Options{ PrivateKey: sk } )
	if err != nil {
		t.Fatalf("Failed to open sealed: %v", err)
	}
	if back.Name != "k.bin" || string( back.Data ) != "sealed body" {
		t.Errorf("Sealed round trip spoiled the payload")
	}

	if _, err := Reveal( stego, &Options{ PrivateKey: otherSk } ); errors.Is( err, cryptography.ErrAuthenticationFailed ) == false {
		t.Errorf("Expected authentication failure with wrong key, got %v", err)
	}
	if _, err := Reveal( stego, nil ); errors.Is( err, ErrPrivateKeyRequired ) == false {
		t.Errorf("Expected ErrPrivateKeyRequired, got %v", err)
	}
}

func TestCapacityBoundary( t *testing.T ) {
	carrier := newTestImage( 100, 100 )
	snapshot := bytes.Clone( carrier.Pix )
	max := MaxCapacityBytes( carrier, nil )	// 3740: framed, this fills all 30000 channels

	if _, err := Hide( carrier, &Payload{ Kind: Text, Data: make( []byte, max ) }, nil ); err != nil {
		t.Errorf("Exact fit failed: %v", err)
	}
	_, err := Hide( carrier, &Payload{ Kind: Text, Data: make( []byte, max + 1 ) }, nil )
	if errors.Is( err, lsb.ErrPayloadExceedsCapacity ) == false {
		t.Errorf("Expected ErrPayloadExceedsCapacity, got %v", err)
	}
	if bytes.Equal( carrier.Pix, snapshot ) == false {
		t.Errorf("Carrier was mutated")
	}
}

func TestIdempotentEmbed( t *testing.T ) {
	carrier := newTestImage( 80, 60 )
	p := &Payload{ Kind: Text, Data: []byte("same bits every time") }

	first, err := Hide( carrier, p, nil )
	if err != nil {
		t.Fatalf("Failed first hide: %v", err)
	}
	second, err := Hide( carrier, p, nil )
	if err != nil {
		t.Fatalf("Failed second hide: %v", err)
	}
	if bytes.Equal( first.Pix, second.Pix ) == false {
		t.Errorf("Unencrypted embedding is not deterministic")
	}
}

func TestTamperDetection( t *testing.T ) {
	stego, err := Hide( newTestImage( 100, 100 ),
		&Payload{ Kind: Text, Data: []byte("integrity matters") },
		&Options{ Password: "A" } )
	if err != nil {
		t.Fatalf("Failed to hide: %v", err)
	}

	// flip one lsb inside the ciphertext region (the header occupies
	// the first 80 channels)
	tr := lsb.RowMajor{}
	tampered := image.NewNRGBA( stego.Bounds() )
	copy( tampered.Pix, stego.Pix )
	x, y, ch := tr.Channel( stego.Bounds(), 200 )
	tampered.Pix[ tampered.PixOffset( x, y ) + ch ] ^= 0x01

	if _, err := Reveal( tampered, &Options{ Password: "A" } ); errors.Is( err, cryptography.ErrAuthenticationFailed ) == false {
		t.Errorf("Expected authentication failure after tampering, got %v", err)
	}

	// a flip inside the magic makes it a format error instead
	copy( tampered.Pix, stego.Pix )
	x, y, ch = tr.Channel( stego.Bounds(), 3 )
	tampered.Pix[ tampered.PixOffset( x, y ) + ch ] ^= 0x01
	if _, err := Reveal( tampered, &Options{ Password: "A" } ); errors.Is( err, frame.ErrBadMagic ) == false {
		t.Errorf("Expected ErrBadMagic after header tampering, got %v", err)
	}
}

func TestNoFrame( t *testing.T ) {
	// all lsbs cleared: the first header bytes decode to zeros
	carrier := newTestImage( 64, 64 )
	for i := range carrier.Pix {
		carrier.Pix[i] &= 0xfe
	}
	if _, err := Reveal( carrier, nil ); errors.Is( err, frame.ErrBadMagic ) == false {
		t.Errorf("Expected ErrBadMagic on a clean image, got %v", err)
	}

	// pseudo random lsbs must fail too, not crash
	rnd := rand.New( rand.NewSource( 1 ) )
	for i := range carrier.Pix {
		carrier.Pix[i] = (carrier.Pix[i] & 0xfe) | uint8( rnd.Intn( 2 ) )
	}
	payload, err := Reveal( carrier, nil )
	if err == nil {
		t.Errorf("Expected an error on random noise, got payload %v", payload)
	}
}

func TestTinyImage( t *testing.T ) {
	// 2x2 rgb holds 12 channels, not even the header fits
	carrier := newTestImage( 2, 2 )
	if got := MaxCapacityBytes( carrier, nil ); got != 0 {
		t.Errorf("MaxCapacityBytes = %d, want 0", got)
	}
	if _, err := Reveal( carrier, nil ); errors.Is( err, frame.ErrTruncated ) == false {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}
