package pool

import (
	"errors"
	"fmt"
)

// ErrEmptySource indicates a value file without any values in it.
var ErrEmptySource = errors.New("no values were found")

// InputError reports a value source that could not be read or parsed.
type InputError struct {
	Path string
	Line int // 0 when the error is not tied to a line
	Err  error
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("value file %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("value file %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ConfigError reports settings that cannot produce cards or draws, such as a
// label count that does not match the number of card columns.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// Configf builds a *ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
