package digest

import "fmt"

// Flag selects which parts of a transaction a signature commits to. It is
// serialized as LE32 in the preimage and as one trailing byte on signatures.
type Flag uint32

const (
	SigHashAll          Flag = 0x01
	SigHashNone         Flag = 0x02
	SigHashSingle       Flag = 0x03
	SigHashForkID       Flag = 0x40
	SigHashAnyOneCanPay Flag = 0x80

	// SigHashAllForkID is the default flag for every signature.
	SigHashAllForkID = SigHashAll | SigHashForkID

	baseMask Flag = 0x1f
)

// Base returns the output-selection mode (ALL, NONE or SINGLE).
func (f Flag) Base() Flag { return f & baseMask }

// AnyOneCanPay reports whether only the signed input is committed to.
func (f Flag) AnyOneCanPay() bool { return f&SigHashAnyOneCanPay != 0 }

// Byte returns the one-byte form appended to signatures.
func (f Flag) Byte() byte { return byte(f) }

// String returns the flag as "ALL|FORKID"-style text.
func (f Flag) String() string {
	var s string
	switch f.Base() {
	case SigHashAll:
		s = "ALL"
	case SigHashNone:
		s = "NONE"
	case SigHashSingle:
		s = "SINGLE"
	default:
		return fmt.Sprintf("Flag(0x%02x)", uint32(f))
	}
	if f&SigHashForkID != 0 {
		s += "|FORKID"
	}
	if f.AnyOneCanPay() {
		s += "|ANYONECANPAY"
	}
	return s
}

// normalize forces FORKID on and rejects flags the preimage algorithm cannot
// express.
func normalize(f Flag) (Flag, error) {
	if f > 0xff {
		return 0, fmt.Errorf("%w: flag 0x%x does not fit one byte", ErrMalformedPreimage, uint32(f))
	}
	switch f.Base() {
	case SigHashAll, SigHashNone, SigHashSingle:
	default:
		return 0, fmt.Errorf("%w: flag 0x%02x has no base type", ErrMalformedPreimage, uint32(f))
	}
	if f&^(baseMask|SigHashForkID|SigHashAnyOneCanPay) != 0 {
		return 0, fmt.Errorf("%w: flag 0x%02x has undefined bits", ErrMalformedPreimage, uint32(f))
	}
	return f | SigHashForkID, nil
}
