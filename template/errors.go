package template

import "errors"

var (
	// ErrMalformedParam is the user-facing failure every parameter error
	// below is reported under.
	ErrMalformedParam = errors.New("Malformed challenge parameter.")

	// ErrMissingParam indicates a declared slot has no value.
	ErrMissingParam = errors.New("template: missing parameter")

	// ErrUnknownParam indicates a value was supplied for an undeclared slot.
	ErrUnknownParam = errors.New("template: unknown parameter")

	// ErrTypeMismatch indicates a value does not fit its slot's declared type.
	ErrTypeMismatch = errors.New("template: parameter type mismatch")

	// ErrPubKeyMismatch indicates a keyed coin's public key does not hash to
	// the coin's key hash.
	ErrPubKeyMismatch = errors.New("template: public key does not match locking script")

	// ErrUnboundedSlot indicates a bin slot without a declared size, which
	// has no placeholder length.
	ErrUnboundedSlot = errors.New("template: bin slot has no declared size")

	// ErrSignatureLen indicates a reserved signature length no DER
	// signature can have.
	ErrSignatureLen = errors.New("template: signature length out of range")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("template: required parameter is nil")
)
