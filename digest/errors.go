package digest

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("digest: required parameter is nil")

	// ErrMalformedPreimage indicates the preimage inputs are inconsistent:
	// input index out of range, empty scriptCode or an unusable flag.
	ErrMalformedPreimage = errors.New("digest: malformed preimage input")

	// ErrSigningFailed indicates the key could not produce a signature.
	ErrSigningFailed = errors.New("digest: signing failed")
)
