package coin

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("coin: required parameter is nil")

	// ErrZeroAmount indicates a coin was declared with no value.
	ErrZeroAmount = errors.New("coin: amount must be greater than zero")

	// ErrEmptyScript indicates the locking script is empty.
	ErrEmptyScript = errors.New("coin: locking script is empty")

	// ErrNotP2PKH indicates a keyed coin's locking script is not the P2PKH template.
	ErrNotP2PKH = errors.New("coin: locking script is not pay-to-public-key-hash")

	// ErrInvalidChallenge indicates a contract challenge declaration is malformed.
	ErrInvalidChallenge = errors.New("coin: invalid challenge declaration")

	// ErrUnknownParamType indicates a challenge type name is not recognized.
	ErrUnknownParamType = errors.New("coin: unknown parameter type")

	// ErrAmountOverflow indicates coin amounts sum past the uint64 range.
	ErrAmountOverflow = errors.New("coin: amount total overflows")

	// ErrCoinNotFound indicates the coin is not in the store.
	ErrCoinNotFound = errors.New("coin: coin not found")

	// ErrDuplicateCoin indicates a coin with the same outpoint is already stored.
	ErrDuplicateCoin = errors.New("coin: duplicate coin")
)
