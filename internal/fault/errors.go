package fault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrEncoding      = errors.New("encoding error")
	ErrTransport     = errors.New("transport error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrDevice        = errors.New("device error")
	ErrStorage       = errors.New("storage error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above; nil falls back to ErrInvalidInput.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInvalidInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Invalid is shorthand for Wrap(ErrInvalidInput, ...) without a cause.
func Invalid(component, operation, message string) error {
	return Wrap(ErrInvalidInput, component, operation, message, nil)
}

// Exit codes returned by the CLI for each marker.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitInvalidInput  = 2
	ExitEncoding      = 3
	ExitTransport     = 4
	ExitConfiguration = 5
	ExitNotFound      = 6
	ExitDevice        = 7
	ExitStorage       = 8
)

// ExitCode maps an error to the process exit status the CLI should use.
// Configuration wins over any marker carried by its cause.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, ErrEncoding):
		return ExitEncoding
	case errors.Is(err, ErrTransport):
		return ExitTransport
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrDevice):
		return ExitDevice
	case errors.Is(err, ErrStorage):
		return ExitStorage
	default:
		return ExitFailure
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "platter failure"
	}
	return strings.Join(parts, ": ")
}
