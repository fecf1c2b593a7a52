package cryptography

const (
	// key size for chacha20poly1305
	SymKeySize = 32

	// size of the random salt embedded in front of every
	// password-encrypted payload
	SaltSize = 16

	// the draft RFC recommends time=3, and memory=32*1024 (32 MB)
	// is a sensible number.
	argonTime = 3
	argonMemory = 32 * 1024

	// hkdf labels, one per key usage so keys never cross purposes
	passwordLabel = "pixveil password key"
	sealedLabel = "pixveil sealed key"
)
