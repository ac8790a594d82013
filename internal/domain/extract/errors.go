package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrMalformedSource = errors.New("malformed source")
	ErrMalformedKey    = errors.New("malformed over/ball key")
)
