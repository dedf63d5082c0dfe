package booksearch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/booksearch/internal/index"
	"github.com/hupe1980/booksearch/model"
)

var (
	// ErrDataIntegrity is returned when the segment store holds page numbers
	// that are not positive, unique and strictly increasing. It is the only
	// condition that makes a build fail.
	ErrDataIntegrity = index.ErrDataIntegrity

	// ErrInvalidMode is returned for search modes other than the Mode constants.
	ErrInvalidMode = model.ErrInvalidMode

	// ErrNilStore is returned by New when no segment store is given.
	ErrNilStore = errors.New("segment store is nil")
)

// DataIntegrityError identifies the segment that broke page ordering.
//
// errors.Is(err, ErrDataIntegrity) holds for every DataIntegrityError.
// The original underlying error can be accessed via errors.Unwrap.
type DataIntegrityError struct {
	Page     int
	Previous int
	Reason   string
	cause    error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: %s %d after %d", e.Reason, e.Page, e.Previous)
}

func (e *DataIntegrityError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pe *index.PageError
	if errors.As(err, &pe) {
		return &DataIntegrityError{Page: pe.Page, Previous: pe.Previous, Reason: pe.Reason, cause: err}
	}

	return err
}
