// Package digest computes signature-hash preimages and the signatures
// derived from them.
//
// The preimage follows the replay-protected (FORKID) algorithm:
//
//	version | hashPrevouts | hashSequence | outpoint | scriptCode |
//	amount | sequence | hashOutputs | locktime | flag
//
// Every hash field is a double-SHA256. FORKID is mandatory, so a flag
// without it is treated as if it were set.
package digest

import (
	"encoding/binary"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/util"

	"github.com/bitfsorg/libspedn-go/tx"
)

var zeroHash [chainhash.HashSize]byte

func sha256d(b []byte) []byte {
	h := chainhash.DoubleHashH(b)
	return h[:]
}

func sha256(b []byte) []byte {
	h := chainhash.HashH(b)
	return h[:]
}

// Preimage returns the bytes a signature over input index commits to.
// scriptCode is the spent output's locking script and amount its value.
func Preimage(t *tx.Transaction, index int, scriptCode []byte, amount uint64, flag Flag) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	if index < 0 || index >= len(t.Inputs) {
		return nil, fmt.Errorf("%w: input index %d out of range [0,%d)", ErrMalformedPreimage, index, len(t.Inputs))
	}
	if len(scriptCode) == 0 {
		return nil, fmt.Errorf("%w: empty scriptCode", ErrMalformedPreimage)
	}
	flag, err := normalize(flag)
	if err != nil {
		return nil, err
	}

	in := t.Inputs[index]
	buf := make([]byte, 0, 156+len(scriptCode)+tx.VarIntLen(len(scriptCode)))
	buf = binary.LittleEndian.AppendUint32(buf, t.Version)
	buf = append(buf, hashPrevouts(t, flag)...)
	buf = append(buf, hashSequence(t, flag)...)
	buf = append(buf, in.Outpoint.Bytes()...)
	buf = append(buf, util.VarInt(uint64(len(scriptCode))).Bytes()...)
	buf = append(buf, scriptCode...)
	buf = binary.LittleEndian.AppendUint64(buf, amount)
	buf = binary.LittleEndian.AppendUint32(buf, in.Sequence)
	buf = append(buf, hashOutputs(t, index, flag)...)
	buf = binary.LittleEndian.AppendUint32(buf, t.LockTime)
	return binary.LittleEndian.AppendUint32(buf, uint32(flag)), nil
}

func hashPrevouts(t *tx.Transaction, flag Flag) []byte {
	if flag.AnyOneCanPay() {
		return zeroHash[:]
	}
	buf := make([]byte, 0, len(t.Inputs)*(tx.TxIDLen+4))
	for _, in := range t.Inputs {
		buf = append(buf, in.Outpoint.Bytes()...)
	}
	return sha256d(buf)
}

func hashSequence(t *tx.Transaction, flag Flag) []byte {
	if flag.AnyOneCanPay() || flag.Base() != SigHashAll {
		return zeroHash[:]
	}
	buf := make([]byte, 0, len(t.Inputs)*4)
	for _, in := range t.Inputs {
		buf = binary.LittleEndian.AppendUint32(buf, in.Sequence)
	}
	return sha256d(buf)
}

func hashOutputs(t *tx.Transaction, index int, flag Flag) []byte {
	switch flag.Base() {
	case SigHashSingle:
		if index >= len(t.Outputs) {
			return zeroHash[:]
		}
		return sha256d(t.Outputs[index].Bytes())
	case SigHashNone:
		return zeroHash[:]
	}
	var buf []byte
	for _, out := range t.Outputs {
		buf = append(buf, out.Bytes()...)
	}
	return sha256d(buf)
}
