package vuefire

import "github.com/faresg/vuefire/types"

// Re-export types from the internal types package.
//
// This file provides a stable, backward-compatible public API for the
// library's core types and interfaces. It uses type aliases to re-export
// definitions from the `types` subpackage, which contains the actual
// implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `vuefire`
// package, while still providing a convenient `vuefire.Document`,
// `vuefire.Query`, etc. for users.
type (
	Document   = types.Document
	Change     = types.Change
	ChangeKind = types.ChangeKind
)

// Re-export interfaces from the internal types package for convenience.
type (
	Query            = types.Query
	Converter        = types.Converter
	WriteResult      = types.WriteResult
	Logger           = types.Logger
	Hooks            = types.Hooks
	MetricsCollector = types.MetricsCollector
)

// Re-export ChangeKind constants from the internal types package.
const (
	ChangeAdded    = types.ChangeAdded
	ChangeModified = types.ChangeModified
	ChangeRemoved  = types.ChangeRemoved
)

// NewDocument creates a document with the given identity and fields.
// See types.NewDocument.
func NewDocument(id string, fields map[string]any) Document {
	return types.NewDocument(id, fields)
}

// DefaultConverter is the converter sources fall back to when the caller
// supplies none. See types.DefaultConverter.
func DefaultConverter(id string, data []byte) (Document, error) {
	return types.DefaultConverter(id, data)
}
