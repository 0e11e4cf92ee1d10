package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrValidation          = errors.New("document validation failed")
	ErrInvalidInput        = errors.New("invalid input")
	ErrAnalysisUnavailable = errors.New("analysis backend unavailable")
	ErrTemporary           = errors.New("temporary failure")

	// Refinements of ErrValidation; IsKind(err, ErrValidation) still holds.
	ErrFileTooLarge     = fmt.Errorf("%w: file too large", ErrValidation)
	ErrUnsupportedMedia = fmt.Errorf("%w: unsupported media type", ErrValidation)
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
