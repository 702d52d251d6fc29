package engine

import "fmt"

// The engine reports failures through a small typed taxonomy so controllers
// can map them to status codes without string matching. Everything except
// NotFoundError and StorageError is a 400-class, user-correctable failure.

// ValidationError covers malformed structural input: wrong seed count,
// re-seeding an already seeded bracket, a winner that is not in the game.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError means the operation is not allowed in the bracket's
// current status.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// DuplicateEntryError means the user already has an entry for the bracket.
type DuplicateEntryError struct{}

func (e *DuplicateEntryError) Error() string { return "You already submitted a bracket" }

// NotSeededError means the bracket's games have not been generated yet.
type NotSeededError struct{}

func (e *NotSeededError) Error() string { return "Bracket games not seeded yet" }

// IncompletePickError means a required pick is missing.
type IncompletePickError struct {
	Msg string
}

func (e *IncompletePickError) Error() string { return e.Msg }

// InvalidPickError means a pick names a team that cannot appear in that slot.
type InvalidPickError struct {
	Msg string
}

func (e *InvalidPickError) Error() string { return e.Msg }

// InsufficientBalanceError means the caller cannot cover the entry fee.
type InsufficientBalanceError struct{}

func (e *InsufficientBalanceError) Error() string { return "Insufficient balance for entry fee" }

// NotFoundError means the referenced bracket, game or user does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// StorageError wraps an underlying data-store failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func storageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsClientError reports whether err should surface as a 4xx rather than 5xx.
func IsClientError(err error) bool {
	switch err.(type) {
	case *ValidationError, *InvalidStateError, *DuplicateEntryError, *NotSeededError,
		*IncompletePickError, *InvalidPickError, *InsufficientBalanceError:
		return true
	}
	return false
}
