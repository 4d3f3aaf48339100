package parfan

import "errors"

var (
	// ErrAlreadyInitialized is returned by Initialize when the default
	// system has already been created.
	ErrAlreadyInitialized = errors.New("parfan: already initialized")

	// Configuration errors.
	ErrInvalidWorkers  = errors.New("parfan: worker count must be at least 1")
	ErrInvalidCapacity = errors.New("parfan: queue capacity must be at least 1")
	ErrInvalidRate     = errors.New("parfan: submit rate must be positive")
)
