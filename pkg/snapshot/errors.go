package snapshot

// StoreError represents a domain error from snapshot store operations.
//
// These are business errors (snapshot not found, name already taken) as
// opposed to infrastructure errors, which wrap the underlying cause with
// the ErrIO code. Callers match with errors.As and switch on Code.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Name is the snapshot name related to the error (if applicable)
	Name string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Name != "" {
		return e.Message + ": " + e.Name
	}
	return e.Message
}

// ErrorCode represents the category of a snapshot store error.
type ErrorCode int

const (
	// ErrNotFound indicates the requested snapshot doesn't exist
	ErrNotFound ErrorCode = iota

	// ErrAlreadyExists indicates a snapshot with the name already exists
	ErrAlreadyExists

	// ErrInvalidArgument indicates invalid parameters were provided
	// Examples: empty snapshot name
	ErrInvalidArgument

	// ErrIO indicates an I/O error in the backing store
	ErrIO
)
