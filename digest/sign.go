package digest

import (
	"fmt"

	"github.com/bitfsorg/libspedn-go/tx"
)

// maxDERLen is the longest DER encoding of a secp256k1 signature.
const maxDERLen = 72

// Key is a signing capability. Implementations must be deterministic:
// the same digest always yields the same signature. Signatures are at most
// 72 DER bytes; keys with a tighter bound implement SizedKey.
type Key interface {
	// PubKey returns the 33-byte compressed public key.
	PubKey() []byte

	// SignDigest signs a 32-byte digest and returns the DER signature
	// without any sighash byte.
	SignDigest(digest []byte) ([]byte, error)
}

// SizedKey is a Key whose DER signatures never exceed MaxSignatureLen
// bytes. A key that always returns exactly that length lets a transaction's
// size, and so its fee, be known before signing.
type SizedKey interface {
	Key
	MaxSignatureLen() int
}

// MaxSignatureLen returns the longest DER signature key can produce.
func MaxSignatureLen(key Key) int {
	if sk, ok := key.(SizedKey); ok {
		return sk.MaxSignatureLen()
	}
	return maxDERLen
}

// Sign signs input index of t under flag. The result is the DER signature
// over sha256d(preimage) followed by the flag byte.
func Sign(key Key, t *tx.Transaction, index int, scriptCode []byte, amount uint64, flag Flag) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}
	nf, err := normalize(flag)
	if err != nil {
		return nil, err
	}
	pre, err := Preimage(t, index, scriptCode, amount, nf)
	if err != nil {
		return nil, err
	}
	sig, err := key.SignDigest(sha256d(pre))
	if err != nil {
		return nil, fmt.Errorf("%w: input %d: %w", ErrSigningFailed, index, err)
	}
	return append(sig, nf.Byte()), nil
}

// SignData signs sha256(message) with no flag byte, the form checked by
// OP_CHECKDATASIG. Passing sha256(preimage) as message yields the same DER
// bytes as Sign.
func SignData(key Key, message []byte) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}
	sig, err := key.SignDigest(sha256(message))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	return sig, nil
}
