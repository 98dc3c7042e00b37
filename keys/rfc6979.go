package keys

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// maxGrindAttempts bounds the nonce search. Each attempt succeeds with
// probability close to 1/4.
const maxGrindAttempts = 256

// fixedWidth reports whether a scalar DER-encodes to exactly 32 bytes, i.e.
// it lies in [2^247, 2^255): either the top byte is non-zero with its high
// bit clear, or the top byte is zero and the next byte has its high bit set.
func fixedWidth(v *secp256k1.ModNScalar) bool {
	b := v.Bytes()
	if b[0] >= 0x80 {
		return false
	}
	return b[0] != 0 || b[1] >= 0x80
}

// nonce returns the RFC6979 nonce for the given attempt. Attempt 0 is the
// plain nonce; attempt a > 0 passes a as 32 bytes of extra entropy.
func nonce(priv, digest []byte, attempt uint32) *secp256k1.ModNScalar {
	var extra []byte
	if attempt > 0 {
		extra = make([]byte, 32)
		binary.LittleEndian.PutUint32(extra, attempt)
	}
	return secp256k1.NonceRFC6979(priv, digest, extra, nil, 0)
}

// signFixed produces a low-S signature whose R and S are both fixed-width.
func signFixed(priv *ec.PrivateKey, digest []byte) (*ec.Signature, error) {
	privBytes := priv.Serialize()
	d := &secp256k1.PrivKeyFromBytes(privBytes).Key
	defer d.Zero()

	var e secp256k1.ModNScalar
	e.SetByteSlice(digest)

	for attempt := uint32(0); attempt < maxGrindAttempts; attempt++ {
		k := nonce(privBytes, digest, attempt)

		var R secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(k, &R)
		R.ToAffine()

		var r secp256k1.ModNScalar
		r.SetBytes(R.X.Bytes())
		if r.IsZero() {
			k.Zero()
			continue
		}

		kinv := new(secp256k1.ModNScalar).InverseValNonConst(k)
		k.Zero()
		s := new(secp256k1.ModNScalar).Mul2(&r, d).Add(&e).Mul(kinv)
		if s.IsZero() {
			continue
		}
		if s.IsOverHalfOrder() {
			s.Negate()
		}

		if fixedWidth(&r) && fixedWidth(s) {
			rb, sb := r.Bytes(), s.Bytes()
			return &ec.Signature{
				R: new(big.Int).SetBytes(rb[:]),
				S: new(big.Int).SetBytes(sb[:]),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: no fixed-width signature after %d attempts", ErrSigningFailed, maxGrindAttempts)
}
