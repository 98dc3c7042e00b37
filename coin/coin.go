// Package coin describes spendable outputs together with the locking script
// needed to spend them.
//
// A Coin is immutable once constructed. Keyed coins are locked by the
// standard P2PKH template; contract coins carry the ordered challenge list
// their compiled locking script expects.
package coin

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/bsv-blockchain/go-sdk/script"

	"github.com/bitfsorg/libspedn-go/tx"
)

// Kind is the locking-script family of a coin.
type Kind int

const (
	// KindKeyed is a pay-to-public-key-hash coin.
	KindKeyed Kind = iota + 1
	// KindContract is a coin locked by a compiled contract.
	KindContract
)

// String returns a short name for the family.
func (k Kind) String() string {
	switch k {
	case KindKeyed:
		return "p2pkh"
	case KindContract:
		return "contract"
	default:
		return "unknown"
	}
}

// PubKeyHashLen is the length of a P2PKH public key hash.
const PubKeyHashLen = 20

// Confirmation is informational chain metadata. The builder never reads it.
type Confirmation struct {
	Height        uint32
	Confirmations uint32
}

// Coin is one unspent output available for spending.
type Coin struct {
	outpoint      tx.Outpoint
	amount        uint64
	lockingScript []byte
	kind          Kind
	pubKeyHash    []byte
	challenges    []Challenge
	meta          *Confirmation
}

// NewKeyedCoin creates a coin locked by a P2PKH script.
func NewKeyedCoin(op tx.Outpoint, amount uint64, lockingScript []byte, meta *Confirmation) (*Coin, error) {
	c, err := newCoin(op, amount, lockingScript, meta)
	if err != nil {
		return nil, err
	}
	s := script.NewFromBytes(lockingScript)
	if !s.IsP2PKH() {
		return nil, fmt.Errorf("%w: %x", ErrNotP2PKH, lockingScript)
	}
	pkh, err := s.PublicKeyHash()
	if err != nil || len(pkh) != PubKeyHashLen {
		return nil, fmt.Errorf("%w: cannot extract public key hash", ErrNotP2PKH)
	}
	c.kind = KindKeyed
	c.pubKeyHash = bytes.Clone(pkh)
	return c, nil
}

// NewContractCoin creates a coin locked by a compiled contract script. The
// challenges are the parameter slots the unlocking script must push, in order.
func NewContractCoin(op tx.Outpoint, amount uint64, challenges []Challenge, lockingScript []byte, meta *Confirmation) (*Coin, error) {
	c, err := newCoin(op, amount, lockingScript, meta)
	if err != nil {
		return nil, err
	}
	if err := validateChallenges(challenges); err != nil {
		return nil, err
	}
	c.kind = KindContract
	c.challenges = slices.Clone(challenges)
	return c, nil
}

func newCoin(op tx.Outpoint, amount uint64, lockingScript []byte, meta *Confirmation) (*Coin, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroAmount, op)
	}
	if len(lockingScript) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScript, op)
	}
	c := &Coin{
		outpoint:      op,
		amount:        amount,
		lockingScript: bytes.Clone(lockingScript),
	}
	if meta != nil {
		m := *meta
		c.meta = &m
	}
	return c, nil
}

// Outpoint returns the output this coin spends.
func (c *Coin) Outpoint() tx.Outpoint { return c.outpoint }

// Amount returns the coin value in satoshis.
func (c *Coin) Amount() uint64 { return c.amount }

// LockingScript returns a copy of the locking script (the signing scriptCode).
func (c *Coin) LockingScript() []byte { return bytes.Clone(c.lockingScript) }

// Kind returns the locking-script family.
func (c *Coin) Kind() Kind { return c.kind }

// PubKeyHash returns the 20-byte key hash of a keyed coin, or nil.
func (c *Coin) PubKeyHash() []byte { return bytes.Clone(c.pubKeyHash) }

// Challenges returns a copy of a contract coin's challenge list.
func (c *Coin) Challenges() []Challenge { return slices.Clone(c.challenges) }

// Confirmation returns the optional chain metadata.
func (c *Coin) Confirmation() (Confirmation, bool) {
	if c.meta == nil {
		return Confirmation{}, false
	}
	return *c.meta, true
}

// String returns "<kind> <outpoint> <amount>".
func (c *Coin) String() string {
	return fmt.Sprintf("%s %s %d", c.kind, c.outpoint, c.amount)
}
