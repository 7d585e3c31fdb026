package domain

import "errors"

var (
	ErrValidation = errors.New("invalid input")

	ErrNotFound = errors.New("not found")

	// ErrConflict covers state conflicts: post already matched,
	// duplicate request from the same requester.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState means the request is not in the state the
	// transition expects (e.g. accepting a rejected request).
	ErrInvalidState = errors.New("invalid state")

	ErrForbidden = errors.New("forbidden")

	// ErrTxFailed means the underlying store could not commit. Nothing
	// partial was written; the whole operation is safe to retry.
	ErrTxFailed = errors.New("transaction failed")
)
