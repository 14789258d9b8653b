package vuefire

import (
	"fmt"

	"github.com/faresg/vuefire/types"
)

// ResetFunc produces the value the data cell is set to when the binding is
// released. See Config.Reset.
type ResetFunc func() []types.Document

// ResetClear is a ResetFunc that empties the list on unbind.
var ResetClear ResetFunc = func() []types.Document { return []types.Document{} }

// Config is the configuration for a Binder.
type Config struct {
	// Wait defers provisional (non-durable) writes: a locally-echoed write
	// stays out of the bound list until the store confirms it or the
	// write's completion signal (see Binder.ObserveWrite) settles,
	// whichever happens first. The completion signal is authoritative; the
	// source durability flag is the fallback.
	//
	// Default: false (provisional writes appear immediately).
	Wait bool `yaml:"wait"`

	// Reset controls the data cell's value after Unbind:
	//   - nil (default): the list is left frozen at its last-applied value
	//   - ResetClear: the list is cleared to empty
	//   - any other func: the list is replaced with the function's result
	//
	// Reset applies on both explicit Unbind and lifecycle-context
	// cancellation.
	Reset ResetFunc `yaml:"-"`

	// Target prefills the data cell before the first snapshot of the first
	// generation arrives.
	Target []types.Document `yaml:"-"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Present for symmetry with Validate; every zero value is currently a valid
// default, so this is a no-op placeholder that keeps the construction path
// uniform.
func SetDefaults(_ *Config) {}

// Validate checks the configuration for invalid combinations.
//
// Returns:
//   - error: Currently always nil; every field combination is legal
func (cfg *Config) Validate() error {
	// Every current field combination is legal; the method exists so the
	// construction path stays uniform as constraints are added.
	return nil
}

// ValidateWithWarnings logs non-fatal configuration concerns once a logger
// is available.
func (cfg *Config) ValidateWithWarnings(logger types.Logger) {
	if cfg.Wait && cfg.Target != nil {
		logger.Warn(fmt.Sprintf(
			"target prefill of %d documents is replaced wholesale by the first snapshot; wait mode does not defer it",
			len(cfg.Target)))
	}
}
