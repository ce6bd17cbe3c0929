package bend

import "errors"

var (
	// ErrNotInitialized is returned by every editing method that is called
	// outside of an Init/Commit or Init/Rollback bracket.
	ErrNotInitialized = errors.New("bend: editor not initialized")

	// ErrAlreadyInitialized is returned by Init while a gesture is active.
	ErrAlreadyInitialized = errors.New("bend: editor already initialized")

	// ErrIndexOutOfRange is returned for explicit, connection or segment
	// indices outside the current connector.
	ErrIndexOutOfRange = errors.New("bend: index out of range")

	// ErrInvariant signals that the anchor sequence violates the router
	// contract, for example because its first anchor is implicit.
	ErrInvariant = errors.New("bend: invariant violated")
)
