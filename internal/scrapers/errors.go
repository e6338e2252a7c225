package scrapers

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when the page could not be downloaded.
	ErrNetwork = errors.New("network error")

	// ErrInvalidPage is returned when the document is not a Wildberries product page.
	ErrInvalidPage = errors.New("это не страница товара Wildberries")

	// ErrFieldNotFound is returned when a required element is missing from the page.
	ErrFieldNotFound = errors.New("field not found")

	// ErrImageBlockMissing is returned when the JSON-LD image block is absent or unusable.
	// Extract tolerates it and reports an empty image list.
	ErrImageBlockMissing = errors.New("image block missing")
)

// FieldNotFoundError names the product field whose markup could not be located.
type FieldNotFoundError struct {
	Field   string
	Details string
}

func (e *FieldNotFoundError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", ErrFieldNotFound, e.Field)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrFieldNotFound, e.Field, e.Details)
}

func (e *FieldNotFoundError) Unwrap() error {
	return ErrFieldNotFound
}

func fieldNotFound(field, details string) error {
	return &FieldNotFoundError{Field: field, Details: details}
}
