package exception

import "github.com/yanun0323/errors"

// Capture decoding errors. All of them abort a run.
var (
	ErrInvalidContainerFormat = errors.New("capture: invalid container format")
	ErrInvalidTimestamp       = errors.New("capture: invalid timestamp")
	ErrMalformedField         = errors.New("capture: malformed field")
)
