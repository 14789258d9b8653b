package vuefire

import (
	"errors"

	"github.com/faresg/vuefire/types"
)

// Sentinel errors returned by the Binder. These alias the definitions in the
// types package so errors.Is works uniformly whichever package produced the
// error.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrQueryRequired is returned when the bound query reference is nil or
	// holds no query.
	ErrQueryRequired = types.ErrQueryRequired

	// ErrAlreadyBound is returned when Bind is called twice.
	ErrAlreadyBound = types.ErrAlreadyBound

	// ErrNotBound is returned when operations require a bound binder.
	ErrNotBound = types.ErrNotBound

	// ErrUnbound is the rejection of an initial-load promise whose binding
	// was released before the first snapshot arrived.
	ErrUnbound = types.ErrUnbound
)

// ErrRetargeted is the rejection of an initial-load promise whose generation
// was superseded before the first snapshot arrived.
var ErrRetargeted = errors.New("query re-targeted before initial snapshot")
