package builder

import (
	"fmt"

	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/digest"
	"github.com/bitfsorg/libspedn-go/template"
	"github.com/bitfsorg/libspedn-go/tx"
)

// Unlocker produces the unlocking script for one input. It runs during
// Build, after every output amount is final.
type Unlocker interface {
	Unlock(ctx *SigningContext) ([]byte, error)
}

// UnlockFunc adapts a function to the Unlocker interface.
type UnlockFunc func(ctx *SigningContext) ([]byte, error)

// Unlock calls f(ctx).
func (f UnlockFunc) Unlock(ctx *SigningContext) ([]byte, error) { return f(ctx) }

// SignatureSizer is implemented by Unlockers that know the longest DER
// signature they push. Other Unlockers are sized for 70-byte signatures.
type SignatureSizer interface {
	MaxSignatureLen() int
}

// signatureLen returns the DER length reserved for u's signatures.
func signatureLen(u Unlocker) int {
	if s, ok := u.(SignatureSizer); ok {
		return s.MaxSignatureLen()
	}
	return template.MaxDataSigLen
}

type sizedUnlocker struct {
	Unlocker
	derLen int
}

func (u sizedUnlocker) MaxSignatureLen() int { return u.derLen }

// WithSignatureLen reserves derLen DER bytes for each signature u pushes.
// Use it when u signs with keys whose signatures may exceed 70 bytes,
// typically with digest.MaxSignatureLen of those keys.
func WithSignatureLen(u Unlocker, derLen int) Unlocker {
	return sizedUnlocker{Unlocker: u, derLen: derLen}
}

type keyUnlocker struct {
	key digest.Key
}

// SignWith returns an Unlocker for keyed coins: it signs with ALL|FORKID
// and pushes the signature and key's public key. The transaction is sized
// for the key's longest signature.
func SignWith(key digest.Key) Unlocker {
	return keyUnlocker{key: key}
}

func (u keyUnlocker) MaxSignatureLen() int {
	if u.key == nil {
		return template.MaxDataSigLen
	}
	return digest.MaxSignatureLen(u.key)
}

func (u keyUnlocker) Unlock(ctx *SigningContext) ([]byte, error) {
	if u.key == nil {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}
	sig, err := ctx.Sign(u.key)
	if err != nil {
		return nil, err
	}
	return ctx.Spend(template.Params{
		template.SlotSig:    template.Bytes(sig),
		template.SlotPubKey: template.Bytes(u.key.PubKey()),
	})
}

// SigningContext is bound to one input of a transaction whose outputs are
// final. Signatures made through it commit to those outputs.
type SigningContext struct {
	tx     *tx.Transaction
	index  int
	coin   *coin.Coin
	derLen int // reserved DER signature length
}

// Index returns the input's position.
func (c *SigningContext) Index() int { return c.index }

// Coin returns the coin being spent.
func (c *SigningContext) Coin() *coin.Coin { return c.coin }

// Transaction returns a copy of the transaction being signed. Unlocking
// scripts of other inputs may still be placeholders.
func (c *SigningContext) Transaction() *tx.Transaction { return c.tx.Clone() }

// Preimage returns the sighash preimage of this input under flag.
func (c *SigningContext) Preimage(flag digest.Flag) ([]byte, error) {
	return digest.Preimage(c.tx, c.index, c.coin.LockingScript(), c.coin.Amount(), flag)
}

// Sign signs this input with ALL|FORKID.
func (c *SigningContext) Sign(key digest.Key) ([]byte, error) {
	return c.SignWithFlag(key, digest.SigHashAllForkID)
}

// SignWithFlag signs this input under flag. It fails with
// ErrSignatureLength if the signature is longer than the space reserved
// for it.
func (c *SigningContext) SignWithFlag(key digest.Key, flag digest.Flag) ([]byte, error) {
	sig, err := digest.Sign(key, c.tx, c.index, c.coin.LockingScript(), c.coin.Amount(), flag)
	if err != nil {
		return nil, err
	}
	if err := c.checkLen(len(sig) - 1); err != nil {
		return nil, err
	}
	return sig, nil
}

// SignData signs sha256(message) without a sighash byte.
func (c *SigningContext) SignData(key digest.Key, message []byte) ([]byte, error) {
	sig, err := digest.SignData(key, message)
	if err != nil {
		return nil, err
	}
	if err := c.checkLen(len(sig)); err != nil {
		return nil, err
	}
	return sig, nil
}

func (c *SigningContext) checkLen(n int) error {
	if n > c.derLen {
		return fmt.Errorf("%w: %d DER bytes, %d reserved", ErrSignatureLength, n, c.derLen)
	}
	return nil
}

// Spend builds the unlocking script for this input's coin from params.
func (c *SigningContext) Spend(params template.Params) ([]byte, error) {
	return template.Resolve(c.coin, params)
}
