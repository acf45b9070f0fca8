package window

import "errors"

// ErrInvalidConfig is wrapped by every configuration validation failure, so
// callers can match with errors.Is regardless of which field was bad.
var ErrInvalidConfig = errors.New("invalid list configuration")
