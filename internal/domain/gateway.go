package domain

import "context"

// Gateway looks up live hazard-status data.
type Gateway interface {
	// Fetch returns a fresh snapshot for dataType. Unsupported types yield
	// (nil, nil); implementations must return promptly once ctx is done.
	Fetch(ctx context.Context, dataType DataType) (*ExternalDataRecord, error)
}
