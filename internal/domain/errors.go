package domain

import "errors"

// Every error below is recoverable within a session; none of them ends a
// conversation.
var (
	// ErrInputEmpty marks a blank or whitespace-only utterance.
	ErrInputEmpty = errors.New("input is empty")

	// ErrUnknownDataType marks a gateway request for an unsupported data type.
	ErrUnknownDataType = errors.New("unknown data type")

	// ErrGatewayTimeout marks an external data fetch that exceeded its bound.
	ErrGatewayTimeout = errors.New("gateway timeout")

	// ErrMalformedContext marks a persisted dialogue context that could not be decoded.
	ErrMalformedContext = errors.New("malformed dialogue context")
)
