package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrInvalid   = errors.New("invalid")
	// ErrUnprocessable is used for semantic validation failures (HTTP 422)
	ErrUnprocessable = errors.New("unprocessable")
	// ErrImmutable indicates an attempt to change immutable fields (voucher no, id)
	ErrImmutable = errors.New("immutable")
	// ErrNotPersisted indicates an edit/delete against a record that was never saved
	ErrNotPersisted = errors.New("not_persisted")
	// ErrUnknownBook indicates a book name outside the fixed set
	ErrUnknownBook = errors.New("unknown_book")
)
