// Package builder assembles and signs transactions.
//
// Build runs two phases. Phase 1 fills every input with a placeholder
// unlocking script of maximum length and takes the size of that skeleton;
// the fee and change follow from it. Phase 2 fixes the change amount, then
// calls each input's Unlocker in registration order against the final
// output set. The signed transaction is never larger than the skeleton.
//
// Keys that sign with fixed 70-byte DER signatures make the skeleton exact,
// so the fee equals the final size. Other keys are sized for the 72-byte
// DER maximum and pay for the bytes their shorter signatures leave unused.
package builder

import (
	"bytes"
	"fmt"
	"math/bits"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
	"github.com/gookit/slog"

	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/template"
	"github.com/bitfsorg/libspedn-go/tx"
)

// Option configures a TxBuilder.
type Option func(*TxBuilder)

// WithNetwork sets the network addresses are decoded against.
func WithNetwork(n tx.Network) Option {
	return func(b *TxBuilder) { b.network = n }
}

// WithPolicy replaces the default fee and dust policy.
func WithPolicy(p Policy) Option {
	return func(b *TxBuilder) { b.policy = p }
}

// WithLockTime sets the transaction locktime.
func WithLockTime(lockTime uint32) Option {
	return func(b *TxBuilder) { b.lockTime = lockTime }
}

// WithLogger sends build diagnostics to l. Without it a builder logs
// nothing.
func WithLogger(l *slog.Logger) Option {
	return func(b *TxBuilder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithVersion sets the transaction version.
func WithVersion(version uint32) Option {
	return func(b *TxBuilder) { b.version = version }
}

type input struct {
	coin     *coin.Coin
	unlocker Unlocker
}

type output struct {
	script []byte
	amount uint64
	change bool
}

// TxBuilder accumulates inputs and outputs for a single Build.
// It is not safe for concurrent use.
type TxBuilder struct {
	version  uint32
	lockTime uint32
	network  tx.Network
	policy   Policy
	log      *slog.Logger

	inputs  []input
	outputs []output
	change  int // index into outputs, -1 when absent

	err   error // first registration error
	spent bool
}

// New creates a builder with the default policy on mainnet.
func New(opts ...Option) *TxBuilder {
	b := &TxBuilder{
		version: tx.DefaultVersion,
		network: tx.Mainnet,
		policy:  DefaultPolicy(),
		log:     slog.NewWithName("builder"),
		change:  -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Network returns the network the builder decodes addresses for.
func (b *TxBuilder) Network() tx.Network { return b.network }

// fail records the first registration error and returns err.
func (b *TxBuilder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

func (b *TxBuilder) checkOpen() error {
	if b.spent {
		return ErrBuilderSpent
	}
	return nil
}

// AddInput registers c to be spent, unlocked by u. Inputs keep
// registration order.
func (b *TxBuilder) AddInput(c *coin.Coin, u Unlocker) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if c == nil {
		return b.fail(fmt.Errorf("%w: coin", ErrNilParam))
	}
	if u == nil {
		return b.fail(fmt.Errorf("%w: unlocker for %s", ErrNilParam, c.Outpoint()))
	}
	for _, in := range b.inputs {
		if in.coin.Outpoint() == c.Outpoint() {
			return b.fail(fmt.Errorf("%w: %s", ErrDuplicateInput, c.Outpoint()))
		}
	}
	b.inputs = append(b.inputs, input{coin: c, unlocker: u})
	return nil
}

// AddOutput registers an output paying amount to lockingScript.
func (b *TxBuilder) AddOutput(lockingScript []byte, amount uint64) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if len(lockingScript) == 0 {
		return b.fail(ErrEmptyScript)
	}
	b.outputs = append(b.outputs, output{script: bytes.Clone(lockingScript), amount: amount})
	return nil
}

// AddChangeOutput registers the change output. Its amount is resolved by
// Build. A transaction has at most one.
func (b *TxBuilder) AddChangeOutput(lockingScript []byte) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if b.change >= 0 {
		return b.fail(ErrDuplicateChange)
	}
	if len(lockingScript) == 0 {
		return b.fail(ErrEmptyScript)
	}
	b.change = len(b.outputs)
	b.outputs = append(b.outputs, output{script: bytes.Clone(lockingScript), change: true})
	return nil
}

// AddOutputAddress pays amount to a base58 P2PKH address.
func (b *TxBuilder) AddOutputAddress(addr string, amount uint64) error {
	lock, err := b.addressScript(addr)
	if err != nil {
		return b.fail(err)
	}
	return b.AddOutput(lock, amount)
}

// AddChangeAddress sends change to a base58 P2PKH address.
func (b *TxBuilder) AddChangeAddress(addr string) error {
	lock, err := b.addressScript(addr)
	if err != nil {
		return b.fail(err)
	}
	return b.AddChangeOutput(lock)
}

// AddDataOutput registers a zero-value OP_FALSE OP_RETURN output carrying
// pushes.
func (b *TxBuilder) AddDataOutput(pushes ...[]byte) error {
	lock, err := tx.DataScript(pushes...)
	if err != nil {
		return b.fail(err)
	}
	return b.AddOutput(lock, 0)
}

// Build assembles and signs the transaction. allowOverpay disables the
// overpay guard. A builder can be built once; later calls fail with
// ErrBuilderSpent.
func (b *TxBuilder) Build(allowOverpay bool) (*tx.Transaction, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	b.spent = true
	if b.err != nil {
		return nil, b.err
	}
	if err := b.policy.Validate(); err != nil {
		return nil, err
	}
	if len(b.inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(b.outputs) == 0 {
		return nil, ErrNoOutputs
	}

	// Phase 1: placeholder skeleton.
	skeleton, err := b.skeleton()
	if err != nil {
		return nil, err
	}
	estimated := skeleton.Size()

	var totalIn, totalOut, carry uint64
	for _, in := range b.inputs {
		totalIn, carry = bits.Add64(totalIn, in.coin.Amount(), 0)
		if carry != 0 {
			return nil, fmt.Errorf("%w: inputs", ErrAmountOverflow)
		}
	}
	for _, out := range b.outputs {
		totalOut, carry = bits.Add64(totalOut, out.amount, 0)
		if carry != 0 {
			// No input total can cover outputs past the uint64 range.
			return nil, ErrInsufficientFunds
		}
	}

	s, err := b.policy.settle(estimated, totalIn, totalOut, b.change >= 0, allowOverpay)
	data := slog.M{
		"inputs":         len(b.inputs),
		"outputs":        len(b.outputs),
		"estimated_size": estimated,
		"total_in":       totalIn,
		"total_out":      totalOut,
		"fee":            s.fee,
	}
	if err != nil {
		b.log.WithData(data).Debugf("build rejected: %v", err)
		return nil, err
	}
	data["change"] = s.change
	b.log.WithData(data).Debug("phase 1 estimate settled")

	// Phase 2: sign against the final output set.
	final := skeleton.Clone()
	if b.change >= 0 {
		final.Outputs[b.change].Amount = s.change
	}
	for i, in := range b.inputs {
		ctx := &SigningContext{tx: final, index: i, coin: in.coin, derLen: signatureLen(in.unlocker)}
		unlocking, err := in.unlocker.Unlock(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d (%s): %w", ErrUnlockFailed, i, in.coin.Outpoint(), err)
		}
		final.Inputs[i].UnlockingScript = bytes.Clone(unlocking)
	}

	size := final.Size()
	if size > estimated {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSizeMismatch, size, estimated)
	}
	data["txid"] = final.ID()
	data["size"] = size
	if size < estimated {
		b.log.WithData(data).Infof("signed size %d below estimate, fee rate exceeds policy by %d bytes", size, estimated-size)
	}
	b.log.WithData(data).Debug("transaction built")
	return final, nil
}

// skeleton returns the transaction with change at zero and every input
// holding its coin's placeholder unlocking script.
func (b *TxBuilder) skeleton() (*tx.Transaction, error) {
	t := tx.NewTransaction()
	t.Version = b.version
	t.LockTime = b.lockTime
	t.Network = b.network
	for i, in := range b.inputs {
		p, err := template.PlaceholderFor(in.coin, signatureLen(in.unlocker))
		if err != nil {
			return nil, fmt.Errorf("input %d (%s): %w", i, in.coin.Outpoint(), err)
		}
		t.AddInput(in.coin.Outpoint()).UnlockingScript = p
	}
	for _, out := range b.outputs {
		t.AddOutput(out.amount, out.script)
	}
	return t, nil
}

// addressScript decodes a P2PKH address and checks it belongs to the
// builder's network.
func (b *TxBuilder) addressScript(addr string) ([]byte, error) {
	decoded, err := script.NewAddressFromString(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	// Re-encoding with this network's version byte reproduces the input
	// only when the address was made for this network.
	own, err := script.NewAddressFromPublicKeyHash(decoded.PublicKeyHash, b.network == tx.Mainnet)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	if own.AddressString != addr {
		return nil, fmt.Errorf("%w: %q is not a %s address", ErrNetworkMismatch, addr, b.network)
	}
	lock, err := p2pkh.Lock(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	return []byte(*lock), nil
}
