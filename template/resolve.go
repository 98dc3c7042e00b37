// Package template builds unlocking scripts from named parameters.
//
// A coin's slots are the values its unlocking script must push, in order:
// [sig, pubKey] for keyed coins, the declared challenge list for contract
// coins. Nothing besides the slot values is ever pushed.
package template

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bsv-blockchain/go-sdk/script"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/libspedn-go/coin"
)

// Slot names of the keyed (P2PKH) template.
const (
	SlotSig    = "sig"
	SlotPubKey = "pubKey"
)

// Lengths reserved by Placeholder, which assumes fixed-length 70-byte
// signatures.
const (
	MaxSigLen     = 71 // 70-byte DER plus sighash byte
	MaxDataSigLen = 70
	MaxIntLen     = 4
)

// MaxDERLen is the longest DER signature any secp256k1 signer produces.
const MaxDERLen = 72

const minDERLen = 8

var keyedSlots = []coin.Challenge{
	{Name: SlotSig, Type: coin.TypeSig},
	{Name: SlotPubKey, Type: coin.TypePubKey},
}

// Slots returns the ordered parameter slots of c.
func Slots(c *coin.Coin) []coin.Challenge {
	if c.Kind() == coin.KindKeyed {
		out := make([]coin.Challenge, len(keyedSlots))
		copy(out, keyedSlots)
		return out
	}
	return c.Challenges()
}

// Resolve validates params against c's slots and returns the unlocking
// script pushing them in declared order.
func Resolve(c *coin.Coin, params Params) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: coin", ErrNilParam)
	}
	slots := Slots(c)
	declared := make(map[string]bool, len(slots))
	for _, s := range slots {
		declared[s.Name] = true
		v, ok := params[s.Name]
		if !ok {
			return nil, fmt.Errorf("%w %w: %q", ErrMalformedParam, ErrMissingParam, s.Name)
		}
		if err := checkValue(s, v); err != nil {
			return nil, fmt.Errorf("%w %w", ErrMalformedParam, err)
		}
	}
	for name := range params {
		if !declared[name] {
			return nil, fmt.Errorf("%w %w: %q", ErrMalformedParam, ErrUnknownParam, name)
		}
	}

	if c.Kind() == coin.KindKeyed {
		pkh := bsvhash.Hash160(params[SlotPubKey].b)
		if !bytes.Equal(pkh, c.PubKeyHash()) {
			return nil, fmt.Errorf("%w: %s", ErrPubKeyMismatch, c.Outpoint())
		}
	}
	return assemble(slots, params)
}

// Placeholder returns an unlocking script for c in which every slot holds a
// zero value of its maximum length. Its size bounds the size of any script
// Resolve accepts for c when signatures come from a fixed-length signer.
func Placeholder(c *coin.Coin) ([]byte, error) {
	return PlaceholderFor(c, MaxDataSigLen)
}

// PlaceholderFor is Placeholder with every signature slot reserving derLen
// DER bytes. Signers of variable length pass MaxDERLen.
func PlaceholderFor(c *coin.Coin, derLen int) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: coin", ErrNilParam)
	}
	if derLen < minDERLen || derLen > MaxDERLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrSignatureLen, derLen)
	}
	slots := Slots(c)
	params := make(Params, len(slots))
	for _, s := range slots {
		v, err := placeholderValue(s, derLen)
		if err != nil {
			return nil, err
		}
		params[s.Name] = v
	}
	return assemble(slots, params)
}

func placeholderValue(s coin.Challenge, derLen int) (Value, error) {
	switch s.Type {
	case coin.TypeSig:
		return Value{kind: KindBytes, b: make([]byte, derLen+1)}, nil
	case coin.TypeDataSig:
		return Value{kind: KindBytes, b: make([]byte, derLen)}, nil
	case coin.TypePubKey, coin.TypeRipemd160, coin.TypeSha1, coin.TypeSha256:
		return Value{kind: KindBytes, b: make([]byte, s.Type.FixedLen())}, nil
	case coin.TypeBin:
		if s.Size == 0 {
			return Value{}, fmt.Errorf("%w: %q", ErrUnboundedSlot, s.Name)
		}
		return Value{kind: KindBytes, b: make([]byte, s.Size)}, nil
	case coin.TypeInt, coin.TypeTime, coin.TypeTimeSpan:
		// Largest 4-byte script number.
		return Int(math.MaxInt32), nil
	case coin.TypeBool:
		return Bool(false), nil
	default:
		return Value{}, fmt.Errorf("%w: %q has type %v", ErrTypeMismatch, s.Name, s.Type)
	}
}

func checkValue(s coin.Challenge, v Value) error {
	want := KindBytes
	switch {
	case s.Type == coin.TypeBool:
		want = KindBool
	case s.Type.IsNumeric():
		want = KindInt
	}
	if v.kind != want {
		return fmt.Errorf("%w: %q is %s, got %s", ErrTypeMismatch, s.Name, s.Type, v.kind)
	}

	switch s.Type {
	case coin.TypeSig:
		if !isDER(v.b[:max(len(v.b)-1, 0)]) {
			return fmt.Errorf("%w: %q is not a DER signature with sighash byte", ErrTypeMismatch, s.Name)
		}
	case coin.TypeDataSig:
		if !isDER(v.b) {
			return fmt.Errorf("%w: %q is not a DER signature", ErrTypeMismatch, s.Name)
		}
	case coin.TypePubKey, coin.TypeRipemd160, coin.TypeSha1, coin.TypeSha256:
		if n := s.Type.FixedLen(); len(v.b) != n {
			return fmt.Errorf("%w: %q needs %d bytes, got %d", ErrTypeMismatch, s.Name, n, len(v.b))
		}
	case coin.TypeBin:
		if s.Size > 0 && len(v.b) > s.Size {
			return fmt.Errorf("%w: %q holds at most %d bytes, got %d", ErrTypeMismatch, s.Name, s.Size, len(v.b))
		}
	case coin.TypeInt:
		if v.n < -math.MaxInt32 || v.n > math.MaxInt32 {
			return fmt.Errorf("%w: %q out of 4-byte range: %d", ErrTypeMismatch, s.Name, v.n)
		}
	case coin.TypeTime, coin.TypeTimeSpan:
		if v.n < 0 || v.n > math.MaxInt32 {
			return fmt.Errorf("%w: %q out of range: %d", ErrTypeMismatch, s.Name, v.n)
		}
	}
	return nil
}

// isDER checks the outer framing of a DER signature: a sequence whose
// length byte covers the rest of the buffer.
func isDER(sig []byte) bool {
	return len(sig) >= minDERLen && len(sig) <= MaxDERLen &&
		sig[0] == 0x30 && int(sig[1]) == len(sig)-2 && sig[2] == 0x02
}

func assemble(slots []coin.Challenge, params Params) ([]byte, error) {
	s := &script.Script{}
	for _, slot := range slots {
		if err := push(s, params[slot.Name]); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrMalformedParam, slot.Name, err)
		}
	}
	return []byte(*s), nil
}

func push(s *script.Script, v Value) error {
	switch v.kind {
	case KindBool:
		if v.t {
			return s.AppendOpcodes(script.OpTRUE)
		}
		return s.AppendOpcodes(script.OpFALSE)
	case KindInt:
		switch {
		case v.n == 0:
			return s.AppendOpcodes(script.Op0)
		case v.n == -1:
			return s.AppendOpcodes(script.Op1NEGATE)
		case v.n >= 1 && v.n <= 16:
			return s.AppendOpcodes(script.Op1 + byte(v.n-1))
		}
		return s.AppendPushData(ScriptNum(v.n))
	case KindBytes:
		if len(v.b) == 0 {
			return s.AppendOpcodes(script.Op0)
		}
		return s.AppendPushData(v.b)
	default:
		return fmt.Errorf("%w: invalid value", ErrTypeMismatch)
	}
}

// ScriptNum encodes n as a minimal little-endian sign-magnitude script
// number. Zero encodes as the empty string.
func ScriptNum(n int64) []byte {
	if n == 0 {
		return nil
	}
	neg := n < 0
	mag := uint64(n)
	if neg {
		mag = uint64(-n)
	}
	var out []byte
	for mag > 0 {
		out = append(out, byte(mag))
		mag >>= 8
	}
	if out[len(out)-1]&0x80 != 0 {
		if neg {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if neg {
		out[len(out)-1] |= 0x80
	}
	return out
}
