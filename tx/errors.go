package tx

import "errors"

var (
	// ErrInvalidTx indicates the serialized transaction is truncated or malformed.
	ErrInvalidTx = errors.New("tx: invalid transaction encoding")

	// ErrInvalidOutpoint indicates an outpoint string or txid cannot be parsed.
	ErrInvalidOutpoint = errors.New("tx: invalid outpoint")

	// ErrUnknownNetwork indicates the network name is not recognized.
	ErrUnknownNetwork = errors.New("tx: unknown network")
)
