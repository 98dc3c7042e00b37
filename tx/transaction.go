// Package tx holds the wire model of a ledger transaction and its canonical
// binary codec.
//
// Serialization layout:
//
//	version      uint32 LE
//	input count  varint
//	inputs       txid(32, internal order) | index uint32 LE | varint len | unlocking script | sequence uint32 LE
//	output count varint
//	outputs      amount uint64 LE | varint len | locking script
//	locktime     uint32 LE
package tx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

const (
	// DefaultVersion is the transaction version written by the builder.
	DefaultVersion = uint32(1)

	// DefaultSequence is the final sequence number for an input.
	DefaultSequence = uint32(0xffffffff)

	// TxIDLen is the length of a transaction ID.
	TxIDLen = chainhash.HashSize
)

// Network selects the address namespace of a transaction. It never affects
// serialization.
type Network int

const (
	// Mainnet is the production network.
	Mainnet Network = iota
	// Testnet is the public test network.
	Testnet
)

// String returns the canonical network name.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return "unknown"
	}
}

// ParseNetwork maps a network name to a Network.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test", "regtest":
		return Testnet, nil
	default:
		return Mainnet, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}

// Outpoint identifies a previous transaction output.
type Outpoint struct {
	TxID  chainhash.Hash // internal byte order
	Index uint32
}

// NewOutpoint builds an Outpoint from a display-order (reversed) txid hex string.
func NewOutpoint(txidHex string, index uint32) (Outpoint, error) {
	h, err := chainhash.NewHashFromHex(txidHex)
	if err != nil {
		return Outpoint{}, fmt.Errorf("%w: txid %q: %w", ErrInvalidOutpoint, txidHex, err)
	}
	return Outpoint{TxID: *h, Index: index}, nil
}

// NewOutpointFromString parses the "<txid>:<index>" form produced by String.
func NewOutpointFromString(s string) (Outpoint, error) {
	txid, idx, ok := strings.Cut(s, ":")
	if !ok {
		return Outpoint{}, fmt.Errorf("%w: %q", ErrInvalidOutpoint, s)
	}
	index, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Outpoint{}, fmt.Errorf("%w: index %q: %w", ErrInvalidOutpoint, idx, err)
	}
	return NewOutpoint(txid, uint32(index))
}

// String returns "<display txid>:<index>".
func (o Outpoint) String() string {
	return o.TxID.String() + ":" + strconv.FormatUint(uint64(o.Index), 10)
}

// Input spends a previous output.
type Input struct {
	Outpoint        Outpoint
	UnlockingScript []byte
	Sequence        uint32
}

// Output locks an amount to a script.
type Output struct {
	Amount        uint64
	LockingScript []byte
}

// Transaction is an ordered set of inputs and outputs.
type Transaction struct {
	Version  uint32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
	Network  Network
}

// NewTransaction returns an empty version-1 transaction.
func NewTransaction() *Transaction {
	return &Transaction{Version: DefaultVersion}
}

// AddInput appends an input spending op with an empty unlocking script.
func (t *Transaction) AddInput(op Outpoint) *Input {
	in := &Input{Outpoint: op, Sequence: DefaultSequence}
	t.Inputs = append(t.Inputs, in)
	return in
}

// AddOutput appends an output.
func (t *Transaction) AddOutput(amount uint64, lockingScript []byte) *Output {
	out := &Output{Amount: amount, LockingScript: lockingScript}
	t.Outputs = append(t.Outputs, out)
	return out
}

// TotalOutput sums all output amounts.
func (t *Transaction) TotalOutput() uint64 {
	var total uint64
	for _, o := range t.Outputs {
		total += o.Amount
	}
	return total
}

// Clone returns a deep copy that shares no buffers with t.
func (t *Transaction) Clone() *Transaction {
	c := &Transaction{
		Version:  t.Version,
		LockTime: t.LockTime,
		Network:  t.Network,
		Inputs:   make([]*Input, len(t.Inputs)),
		Outputs:  make([]*Output, len(t.Outputs)),
	}
	for i, in := range t.Inputs {
		c.Inputs[i] = &Input{
			Outpoint:        in.Outpoint,
			UnlockingScript: bytes.Clone(in.UnlockingScript),
			Sequence:        in.Sequence,
		}
	}
	for i, out := range t.Outputs {
		c.Outputs[i] = &Output{
			Amount:        out.Amount,
			LockingScript: bytes.Clone(out.LockingScript),
		}
	}
	return c
}

// Equal reports structural equality of two transactions. Network is ignored
// because it is not part of the serialized form.
func (t *Transaction) Equal(o *Transaction) bool {
	if t == nil || o == nil {
		return t == o
	}
	return bytes.Equal(t.Bytes(), o.Bytes())
}
