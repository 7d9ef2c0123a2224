package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	ErrFileNotFound  = errors.New("source file not found")
	ErrSheetNotFound = errors.New("named sheet not found")
	ErrNotTabular    = errors.New("source is not readable as tabular data")
)

// IsNotFoundError checks whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
