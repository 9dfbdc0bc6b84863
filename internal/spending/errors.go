package spending

import "errors"

var (
	// ErrInvalidRequest marks missing or malformed input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound marks an entity that does not exist or is not owned by
	// the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a request the current state cannot accept, such as
	// deleting a referenced category under the restrict policy.
	ErrConflict = errors.New("conflict")
	// ErrStoreFailure marks an unexpected persistence error.
	ErrStoreFailure = errors.New("store failure")
)

func invalid(msg string) error {
	return &Error{Kind: ErrInvalidRequest, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Error carries a human readable message for one of the sentinel kinds.
// errors.Is(err, ErrNotFound) and friends match on Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
