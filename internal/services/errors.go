package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the acting user may not perform the operation
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when the operation clashes with existing rows
	ErrConflict = errors.New("conflict")
	// ErrValidation wraps every input validation failure
	ErrValidation = errors.New("validation failed")
	// ErrUsernameTaken is returned when another profile already uses the username
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", ErrConflict)
	// ErrNothingToUndo is returned by UndoLast when the user has no pizzas
	ErrNothingToUndo = fmt.Errorf("%w: no pizza to undo", ErrNotFound)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFound translates gorm's missing-row error for what
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
