package keys

import "errors"

var (
	// ErrInvalidKey indicates private key bytes are malformed or out of range.
	ErrInvalidKey = errors.New("keys: invalid private key")

	// ErrInvalidDigest indicates a digest is not 32 bytes.
	ErrInvalidDigest = errors.New("keys: digest must be 32 bytes")

	// ErrSigningFailed indicates no fixed-width signature could be produced.
	ErrSigningFailed = errors.New("keys: signing failed")

	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("keys: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("keys: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty.
	ErrInvalidSeed = errors.New("keys: invalid seed")

	// ErrInvalidPath indicates a derivation path cannot be parsed.
	ErrInvalidPath = errors.New("keys: invalid derivation path")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("keys: key derivation failed")

	// ErrDecryptionFailed indicates wrong password or corrupted seed data.
	ErrDecryptionFailed = errors.New("keys: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("keys: seed checksum mismatch")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("keys: invalid network name")
)
