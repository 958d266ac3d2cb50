package nicetable

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is wrapped by all errors returned when
	// a TableData can't be constructed from its input.
	// A table that failed construction must not be rendered.
	ErrConstruction = errors.New("invalid table data")

	// ErrLookup is wrapped by errors for unknown header keys
	// or unknown filter values. It signals a caller error.
	ErrLookup = errors.New("table lookup failed")
)

// FetchError is returned by Load when the table data
// could not be retrieved from its location.
type FetchError struct {
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch table data from %s: %s", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func constructionErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConstruction}, args...)...)
}

func lookupErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrLookup}, args...)...)
}
