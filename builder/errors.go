package builder

import (
	"errors"

	"github.com/bitfsorg/libspedn-go/coin"
	"github.com/bitfsorg/libspedn-go/template"
)

// User-facing build failures. Their messages are fixed.
var (
	// ErrOverpay indicates the fee exceeds the policy's multiple of the
	// minimum fee and overpaying was not allowed.
	ErrOverpay = errors.New("Fee is unreasonably high.")

	// ErrDust indicates the change output would be below the dust limit.
	ErrDust = errors.New("Change output is below dust level.")

	// ErrInsufficientFunds indicates inputs do not cover outputs plus fee.
	ErrInsufficientFunds = errors.New("Insufficient funds.")

	// ErrMalformedParam is reported for every unlocking parameter error.
	ErrMalformedParam = template.ErrMalformedParam
)

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("builder: required parameter is nil")

	// ErrDuplicateChange indicates a second change output was registered.
	ErrDuplicateChange = errors.New("builder: transaction already has a change output")

	// ErrDuplicateInput indicates the same outpoint was registered twice.
	ErrDuplicateInput = errors.New("builder: outpoint already spent by this transaction")

	// ErrEmptyScript indicates an output has no locking script.
	ErrEmptyScript = errors.New("builder: output locking script is empty")

	// ErrInvalidAddress indicates an address string cannot be decoded.
	ErrInvalidAddress = errors.New("builder: invalid address")

	// ErrNetworkMismatch indicates an address belongs to another network.
	ErrNetworkMismatch = errors.New("builder: address is for a different network")

	// ErrNoInputs indicates Build was called without inputs.
	ErrNoInputs = errors.New("builder: no inputs")

	// ErrNoOutputs indicates Build was called without outputs.
	ErrNoOutputs = errors.New("builder: no outputs")

	// ErrBuilderSpent indicates the builder was already used for a build.
	ErrBuilderSpent = errors.New("builder: builder already used")

	// ErrUnlockFailed indicates an input's unlocker returned an error.
	ErrUnlockFailed = errors.New("builder: unlocking failed")

	// ErrSizeMismatch indicates the signed transaction is larger than the
	// size its fee was computed from.
	ErrSizeMismatch = errors.New("builder: signed transaction exceeds estimated size")

	// ErrSignatureLength indicates a signature is longer than the length
	// reserved for it when the transaction was sized. Keys whose
	// signatures exceed 70 DER bytes must implement digest.SizedKey or be
	// used through WithSignatureLen.
	ErrSignatureLength = errors.New("builder: signature longer than reserved length")

	// ErrAmountOverflow indicates input amounts sum past the uint64 range.
	ErrAmountOverflow = coin.ErrAmountOverflow

	// ErrInvalidPolicy indicates policy values are unusable.
	ErrInvalidPolicy = errors.New("builder: invalid policy")
)
