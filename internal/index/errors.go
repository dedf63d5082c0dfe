package index

import (
	"errors"
	"fmt"
)

// ErrDataIntegrity is the base error for segment lists that cannot be indexed
// without ambiguous page numbers.
var ErrDataIntegrity = errors.New("data integrity violation")

// PageError describes the segment that broke page ordering.
type PageError struct {
	// Page is the offending page number.
	Page int
	// Previous is the page number of the preceding segment (0 for the first one).
	Previous int
	// Reason is a short description ("duplicate page", ...).
	Reason string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: %s %d after %d", ErrDataIntegrity, e.Reason, e.Page, e.Previous)
}

func (e *PageError) Unwrap() error { return ErrDataIntegrity }
