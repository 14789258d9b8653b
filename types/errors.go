package types

import "errors"

// Sentinel errors for the vuefire library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Binder errors - Public API errors returned by the Binder component.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrQueryRequired is returned when the bound query reference is nil.
	ErrQueryRequired = errors.New("query reference is required")

	// ErrAlreadyBound is returned when Bind is called on an already bound binder.
	ErrAlreadyBound = errors.New("binder already bound")

	// ErrNotBound is returned when operations require a bound binder.
	ErrNotBound = errors.New("binder not bound")

	// ErrUnbound is returned by Await when the binding was released before
	// the initial snapshot of the active generation arrived.
	ErrUnbound = errors.New("binding released before initial snapshot")
)

// Applier errors - Ordered collection synchronizer errors.
var (
	// ErrIndexOutOfRange is returned when a change record's index does not
	// fit the current list bounds. This indicates a misbehaving source; the
	// batch is rejected as a whole.
	ErrIndexOutOfRange = errors.New("change index out of range")
)

// Source errors - Shared errors returned by query implementations.
var (
	// ErrDocNotFound is returned when a write targets a document that does
	// not exist in the collection.
	ErrDocNotFound = errors.New("document not found")

	// ErrCollectionClosed is returned when operating on a closed collection.
	ErrCollectionClosed = errors.New("collection closed")
)
