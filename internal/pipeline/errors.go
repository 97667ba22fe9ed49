package pipeline

import (
	"errors"
	"fmt"
)

// ConfigError is an invalid combination or value of settings. It is fatal
// and surfaces before any file is touched.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SinkError means the output destination cannot be opened or written.
// Fatal: no records can be delivered, so the run aborts.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	target := e.Path
	if target == "" {
		target = "stdout"
	}
	return fmt.Sprintf("output sink %s: %v", target, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// ErrNoValidRoots is returned when every supplied root path is unusable.
// A single bad root among good ones is only a diagnostic.
var ErrNoValidRoots = errors.New("no valid input paths")
