package valuation

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Callers match them with errors.Is.
var (
	// ErrInvalidInput reports malformed or out-of-domain parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidAssumption reports a growth/discount-rate combination that makes
	// the terminal value diverge.
	ErrInvalidAssumption = errors.New("invalid assumption")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func invalidAssumption(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAssumption, fmt.Sprintf(format, args...))
}
