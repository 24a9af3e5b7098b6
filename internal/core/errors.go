package core

import "errors"

// ErrAccountNotFound reports an account ID with no record in the store. It is
// a normal condition in several flows (the webhook may not have arrived yet)
// and is surfaced as a structured failure, not treated as exceptional.
var ErrAccountNotFound = errors.New("user not found")

// ErrStorageUnavailable reports that the backing store could not be read or
// written. Fatal to the current request; never retried automatically.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ValidationError reports missing required input. No side effects have been
// performed when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RoutedError is a domain failure that carries a routing hint: the client is
// told where to go next instead of receiving data. Used by account retrieval
// for the new-visitor and password-pending flows.
type RoutedError struct {
	Message  string
	Redirect string
}

func (e *RoutedError) Error() string {
	return e.Message
}
