package cryptography
import (
	"fmt"
	"strings"
	"crypto/rand"
	"encoding/base64"

	"github.com/cloudflare/circl/kem/kyber/kyber768"
)

/*
 * sealed payloads: no shared password, just the recipient's public key.
 * the sender encapsulates a fresh shared secret with kyber768 and the
 * AEAD runs under a key expanded from it. the kem ciphertext travels in
 * front of the encrypted data, so opening needs only the private key.
 *
 * blob layout: kemCiphertext ++ nonce ++ ciphertext ++ tag
 */

func GenerateKeyPair() (string, string, error) {
	pk, sk, err := kyber768.GenerateKeyPair( rand.Reader )
	if err != nil {
		return "", "", err
	}
	pkBuf := make( []byte, kyber768.PublicKeySize )
	pk.Pack( pkBuf )
	skBuf := make( []byte, kyber768.PrivateKeySize )
	sk.Pack( skBuf )
	return base64.StdEncoding.EncodeToString( pkBuf ),
		base64.StdEncoding.EncodeToString( skBuf ), nil
}

func Seal( data []byte, pk string ) ([]byte, error) {
	// keys read from files usually carry a trailing newline
	pkBytes, err := base64.StdEncoding.DecodeString( strings.TrimSpace( pk ) )
	if err != nil {
		return nil, err
	}
	if len(pkBytes) != kyber768.PublicKeySize {
		return nil, fmt.Errorf("%w: bad public key size %d", ErrInvalidKey, len(pkBytes))
	}
	pqPk := &kyber768.PublicKey{}
	pqPk.Unpack( pkBytes )

	ct := make( []byte, kyber768.CiphertextSize )
	ss := make( []byte, kyber768.SharedKeySize )
	pqPk.EncapsulateTo( ct, ss, nil )

	enc, err := Encrypt( data, expandKey( ss, sealedLabel ) )
	if err != nil {
		return nil, err
	}
	return append( ct, enc... ), nil
}

func Open( data []byte, sk string ) ([]byte, error) {
	skBytes, err := base64.StdEncoding.DecodeString( strings.TrimSpace( sk ) )
	if err != nil {
		return nil, err
	}
	if len(skBytes) != kyber768.PrivateKeySize {
		return nil, fmt.Errorf("%w: bad private key size %d", ErrInvalidKey, len(skBytes))
	}
	if len(data) < kyber768.CiphertextSize {
		return nil, fmt.Errorf("%w: no encapsulated key", ErrAuthenticationFailed)
	}
	pqSk := &kyber768.PrivateKey{}
	pqSk.Unpack( skBytes )

	ss := make( []byte, kyber768.SharedKeySize )
	pqSk.DecapsulateTo( ss, data[:kyber768.CiphertextSize] )
	return Decrypt( data[kyber768.CiphertextSize:], expandKey( ss, sealedLabel ) )
}
