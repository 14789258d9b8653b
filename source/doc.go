// Package source provides types.Query implementations.
//
// Collection is an in-memory ordered document store with live queries and
// per-write completion signals; it backs tests, examples, and embedded use.
// The natskv subpackage adapts a NATS JetStream key-value bucket to the same
// query surface for a server-backed store.
package source
