package tx

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/util"
)

// Fixed field widths of the wire format.
const (
	versionLen  = 4
	lockTimeLen = 4
	outpointLen = TxIDLen + 4
	sequenceLen = 4
	amountLen   = 8
)

// VarIntLen returns the encoded width of a varint holding n.
func VarIntLen(n int) int {
	return util.VarInt(uint64(n)).Length()
}

// Bytes returns the canonical serialization of t.
func (t *Transaction) Bytes() []byte {
	buf := make([]byte, 0, t.Size())
	buf = binary.LittleEndian.AppendUint32(buf, t.Version)

	buf = append(buf, util.VarInt(uint64(len(t.Inputs))).Bytes()...)
	for _, in := range t.Inputs {
		buf = in.appendTo(buf)
	}

	buf = append(buf, util.VarInt(uint64(len(t.Outputs))).Bytes()...)
	for _, out := range t.Outputs {
		buf = out.appendTo(buf)
	}

	return binary.LittleEndian.AppendUint32(buf, t.LockTime)
}

// Size returns len(t.Bytes()) without serializing.
func (t *Transaction) Size() int {
	size := versionLen + VarIntLen(len(t.Inputs)) + VarIntLen(len(t.Outputs)) + lockTimeLen
	for _, in := range t.Inputs {
		size += in.Size()
	}
	for _, out := range t.Outputs {
		size += out.Size()
	}
	return size
}

// TxID returns the double-SHA256 of the serialized transaction.
func (t *Transaction) TxID() chainhash.Hash {
	return chainhash.DoubleHashH(t.Bytes())
}

// ID returns the transaction id as reversed-byte-order hex.
func (t *Transaction) ID() string {
	id := t.TxID()
	return id.String()
}

// Hex returns the hex-encoded serialization.
func (t *Transaction) Hex() string {
	return hex.EncodeToString(t.Bytes())
}

// Size returns the serialized width of the input.
func (in *Input) Size() int {
	return outpointLen + VarIntLen(len(in.UnlockingScript)) + len(in.UnlockingScript) + sequenceLen
}

func (in *Input) appendTo(buf []byte) []byte {
	buf = append(buf, in.Outpoint.Bytes()...)
	buf = append(buf, util.VarInt(uint64(len(in.UnlockingScript))).Bytes()...)
	buf = append(buf, in.UnlockingScript...)
	return binary.LittleEndian.AppendUint32(buf, in.Sequence)
}

// Bytes returns the 36-byte wire form of the outpoint.
func (o Outpoint) Bytes() []byte {
	buf := make([]byte, 0, outpointLen)
	buf = append(buf, o.TxID[:]...)
	return binary.LittleEndian.AppendUint32(buf, o.Index)
}

// Size returns the serialized width of the output.
func (out *Output) Size() int {
	return amountLen + VarIntLen(len(out.LockingScript)) + len(out.LockingScript)
}

// Bytes returns the wire form of the output.
func (out *Output) Bytes() []byte {
	return out.appendTo(make([]byte, 0, out.Size()))
}

func (out *Output) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, out.Amount)
	buf = append(buf, util.VarInt(uint64(len(out.LockingScript))).Bytes()...)
	return append(buf, out.LockingScript...)
}

// NewTransactionFromHex decodes a hex-encoded transaction.
func NewTransactionFromHex(s string) (*Transaction, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	return NewTransactionFromBytes(raw)
}

// NewTransactionFromBytes decodes a serialized transaction. The whole buffer
// must be consumed.
func NewTransactionFromBytes(raw []byte) (*Transaction, error) {
	r := &reader{buf: raw}
	t := &Transaction{}

	t.Version = r.uint32()
	nIn := r.varInt()
	if r.err == nil && nIn > uint64(r.remaining()/(outpointLen+1+sequenceLen)) {
		return nil, fmt.Errorf("%w: input count %d exceeds data", ErrInvalidTx, nIn)
	}
	for i := uint64(0); i < nIn && r.err == nil; i++ {
		in := &Input{}
		copy(in.Outpoint.TxID[:], r.bytes(TxIDLen))
		in.Outpoint.Index = r.uint32()
		in.UnlockingScript = r.varBytes()
		in.Sequence = r.uint32()
		t.Inputs = append(t.Inputs, in)
	}

	nOut := r.varInt()
	if r.err == nil && nOut > uint64(r.remaining()/(amountLen+1)) {
		return nil, fmt.Errorf("%w: output count %d exceeds data", ErrInvalidTx, nOut)
	}
	for i := uint64(0); i < nOut && r.err == nil; i++ {
		out := &Output{}
		out.Amount = r.uint64()
		out.LockingScript = r.varBytes()
		t.Outputs = append(t.Outputs, out)
	}

	t.LockTime = r.uint32()
	if r.err != nil {
		return nil, r.err
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidTx, r.remaining())
	}
	return t, nil
}

// reader is a cursor over a serialized transaction. The first short read
// latches err and every later read returns zero values.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.remaining() < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrInvalidTx, n, r.pos, r.remaining())
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) uint64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) varInt() uint64 {
	if r.err != nil {
		return 0
	}
	if r.remaining() < 1 {
		r.err = fmt.Errorf("%w: missing varint at offset %d", ErrInvalidTx, r.pos)
		return 0
	}
	width := 1
	switch r.buf[r.pos] {
	case 0xfd:
		width = 3
	case 0xfe:
		width = 5
	case 0xff:
		width = 9
	}
	if r.remaining() < width {
		r.err = fmt.Errorf("%w: truncated varint at offset %d", ErrInvalidTx, r.pos)
		return 0
	}
	v, n := util.NewVarIntFromBytes(r.buf[r.pos:])
	if util.VarInt(v).Length() != n {
		r.err = fmt.Errorf("%w: non-canonical varint at offset %d", ErrInvalidTx, r.pos)
		return 0
	}
	r.pos += n
	return uint64(v)
}

func (r *reader) varBytes() []byte {
	n := r.varInt()
	if r.err != nil {
		return nil
	}
	if n > uint64(r.remaining()) {
		r.err = fmt.Errorf("%w: script length %d exceeds data", ErrInvalidTx, n)
		return nil
	}
	b := r.bytes(int(n))
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
