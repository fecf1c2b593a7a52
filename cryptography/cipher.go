package cryptography
import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidKey = fmt.Errorf("invalid key")

	// wrong password and corrupted data are deliberately the same
	// error, there is no oracle telling the two apart.
	ErrAuthenticationFailed = fmt.Errorf("authentication failed (wrong password or corrupted data)")
)

// chacha20poly1305 encryption+authentication, nonce prepended.
func Encrypt( data, key []byte ) ([]byte, error) {
	if key == nil || len(key) != SymKeySize {
		return nil, ErrInvalidKey
	}
	aead, err := chacha20poly1305.New( key )
	if err != nil {
		return nil, err
	}
	nonce := make( []byte, chacha20poly1305.NonceSize )
	if _, err := rand.Read( nonce ); err != nil {
		return nil, err
	}
	return aead.Seal( nonce, nonce, data, nil ), nil
}

func Decrypt( data, key []byte ) ([]byte, error) {
	if key == nil || len(key) != SymKeySize {
		return nil, ErrInvalidKey
	}
	if len(data) < chacha20poly1305.NonceSize + chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: data too short", ErrAuthenticationFailed)
	}
	aead, err := chacha20poly1305.New( key )
	if err != nil {
		return nil, err
	}
	nonce := data[:chacha20poly1305.NonceSize]
	pt, err := aead.Open( nil, nonce, data[chacha20poly1305.NonceSize:], nil )
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return pt, nil
}

// derive an encryption key from a password. the password is NFC
// normalized first so the same characters typed on different platforms
// derive the same key.
func DeriveKey( password, saltBytes []byte ) []byte {
	password = norm.NFC.Bytes( password )
	threads := uint8( runtime.NumCPU() )
	master := argon2.Key( password, saltBytes, argonTime, argonMemory, threads, SymKeySize )
	return expandKey( master, passwordLabel )
}

// expand raw key material into the final AEAD key, bound to a usage label.
func expandKey( secret []byte, label string ) []byte {
	r := hkdf.New( sha512.New, secret, nil, []byte(label) )
	key := make( []byte, SymKeySize )
	if _, err := io.ReadFull( r, key ); err != nil {
		return nil
	}
	return key
}

// password mode: salt ++ nonce ++ ciphertext ++ tag. the salt is drawn
// fresh for every operation and travels with the ciphertext, so
// decryption needs nothing out of band besides the password itself.
func EncryptWithPassword( data []byte, password string ) ([]byte, error) {
	salt, err := GenRandom( SaltSize )
	if err != nil {
		return nil, err
	}
	key := DeriveKey( []byte(password), salt )
	ct, err := Encrypt( data, key )
	if err != nil {
		return nil, err
	}
	return append( salt, ct... ), nil
}

func DecryptWithPassword( data []byte, password string ) ([]byte, error) {
	if len(data) < SaltSize {
		return nil, fmt.Errorf("%w: no salt", ErrAuthenticationFailed)
	}
	key := DeriveKey( []byte(password), data[:SaltSize] )
	return Decrypt( data[SaltSize:], key )
}

// split a stored secret of the form <base64-encoded-salt>:<password>.
// used where a key must be re-derivable across runs, like the
// encrypted log, so the salt travels with the password instead of a
// fresh one being drawn every time.
func SplitWithSalt( password string ) ([]byte, []byte, error) {
	parts := strings.SplitN( password, ":", 2 )
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("no salt supplied")
	}
	saltBytes, err := base64.StdEncoding.DecodeString( parts[0] )
	if err != nil {
		return nil, nil, err
	}
	return []byte( parts[1] ), saltBytes, nil
}

// generate a random amount of bytes
func GenRandom( size uint ) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("invalid size of random data")
	}
	data := make( []byte, size )
	if _, err := rand.Read( data ); err != nil {
		return nil, err
	}
	return data, nil
}
