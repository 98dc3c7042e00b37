// Package keys provides the signing keys and addresses the transaction
// builder consumes.
//
// Signatures are deterministic (RFC6979) and always exactly 70 DER bytes:
// the nonce is re-derived with an extra-entropy counter until both R and S
// encode to 32 bytes without a sign pad. A fixed signature length lets a
// transaction's size be known before it is signed.
package keys

import (
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/libspedn-go/tx"
)

const (
	// PrivateKeyLen is the length of a serialized private scalar.
	PrivateKeyLen = 32

	// PubKeyLen is the length of a compressed public key.
	PubKeyLen = 33

	// SignatureLen is the DER length of every signature this package makes.
	SignatureLen = 70
)

// PrivateKey is a secp256k1 key that signs with fixed-length signatures.
type PrivateKey struct {
	priv *ec.PrivateKey
}

// NewPrivateKey wraps a go-sdk private key.
func NewPrivateKey(priv *ec.PrivateKey) (*PrivateKey, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	return &PrivateKey{priv: priv}, nil
}

// GeneratePrivateKey creates a random key.
func GeneratePrivateKey() (*PrivateKey, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("keys: generate: %w", err)
	}
	return &PrivateKey{priv: priv}, nil
}

// NewPrivateKeyFromHex parses a 32-byte hex-encoded scalar.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(raw) != PrivateKeyLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), PrivateKeyLen)
	}
	var d secp256k1.ModNScalar
	overflow := d.SetByteSlice(raw)
	if overflow || d.IsZero() {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidKey)
	}
	priv, _ := ec.PrivateKeyFromBytes(raw)
	return &PrivateKey{priv: priv}, nil
}

// Hex returns the hex-encoded private scalar.
func (k *PrivateKey) Hex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// ECPrivateKey returns the underlying go-sdk key.
func (k *PrivateKey) ECPrivateKey() *ec.PrivateKey { return k.priv }

// PubKey returns the 33-byte compressed public key.
func (k *PrivateKey) PubKey() []byte {
	return k.priv.PubKey().Compressed()
}

// PubKeyHash returns hash160 of the compressed public key.
func (k *PrivateKey) PubKeyHash() []byte {
	return bsvhash.Hash160(k.PubKey())
}

// Address returns the P2PKH address of the key on network n.
func (k *PrivateKey) Address(n tx.Network) (*script.Address, error) {
	addr, err := script.NewAddressFromPublicKeyHash(k.PubKeyHash(), ForNetwork(n).IsMainnet())
	if err != nil {
		return nil, fmt.Errorf("keys: address: %w", err)
	}
	return addr, nil
}

// LockingScript returns the P2PKH locking script paying to the key.
func (k *PrivateKey) LockingScript() ([]byte, error) {
	addr, err := k.Address(tx.Mainnet)
	if err != nil {
		return nil, err
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("keys: P2PKH lock: %w", err)
	}
	return []byte(*lock), nil
}

// MaxSignatureLen reports the DER length of every signature k makes.
func (k *PrivateKey) MaxSignatureLen() int { return SignatureLen }

// SignDigest signs a 32-byte digest and returns the 70-byte DER signature.
func (k *PrivateKey) SignDigest(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidDigest, len(digest))
	}
	sig, err := signFixed(k.priv, digest)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}
