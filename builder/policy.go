package builder

import "fmt"

// Default policy constants.
const (
	DefaultFeeRate     = 1   // satoshis per byte
	DefaultMaxFeeRatio = 10  // actual fee may be at most this multiple of the minimum
	DefaultDustLimit   = 546 // satoshis
)

// Policy holds the economic limits a build must satisfy.
type Policy struct {
	// FeeRate is the fee in satoshis per serialized byte.
	FeeRate uint64
	// MaxFeeRatio bounds the actual fee as a multiple of the minimum fee.
	MaxFeeRatio uint64
	// DustLimit is the smallest acceptable change amount.
	DustLimit uint64
}

// DefaultPolicy returns the standard relay policy.
func DefaultPolicy() Policy {
	return Policy{
		FeeRate:     DefaultFeeRate,
		MaxFeeRatio: DefaultMaxFeeRatio,
		DustLimit:   DefaultDustLimit,
	}
}

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	if p.FeeRate == 0 {
		return fmt.Errorf("%w: fee rate must be positive", ErrInvalidPolicy)
	}
	if p.MaxFeeRatio == 0 {
		return fmt.Errorf("%w: max fee ratio must be positive", ErrInvalidPolicy)
	}
	return nil
}

// Fee returns the minimum fee for a transaction of size bytes.
func (p Policy) Fee(size int) uint64 {
	return uint64(size) * p.FeeRate
}

// settlement is the outcome of the fee and change guards.
type settlement struct {
	fee    uint64 // minimum fee for the estimated size
	paid   uint64 // fee actually paid
	change uint64 // change amount, zero without a change output
}

// settle applies the guards in order: insufficient funds, dust, then
// overpay. Only the overpay guard can be bypassed.
func (p Policy) settle(size int, totalIn, totalOut uint64, hasChange, allowOverpay bool) (settlement, error) {
	s := settlement{fee: p.Fee(size)}
	if totalIn < totalOut {
		return s, ErrInsufficientFunds
	}
	surplus := totalIn - totalOut

	if hasChange {
		if surplus < s.fee || surplus-s.fee < p.DustLimit {
			return s, ErrDust
		}
		s.change = surplus - s.fee
		s.paid = s.fee
	} else {
		if surplus < s.fee {
			return s, ErrInsufficientFunds
		}
		s.paid = surplus
	}

	if !allowOverpay && s.paid > s.fee*p.MaxFeeRatio {
		return s, ErrOverpay
	}
	return s, nil
}
