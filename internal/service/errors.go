package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks input the caller must fix.
var ErrValidation = errors.New("validation failed")

// ErrIncompleteAllocation is returned when a submitted allocation does not
// total 100%.
var ErrIncompleteAllocation = fmt.Errorf("%w: allocation must total 100%%", ErrValidation)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, err := range errs {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return fmt.Errorf("%w: %s", ErrValidation, b.String())
}
