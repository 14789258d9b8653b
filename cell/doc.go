// Package cell provides a minimal observable state primitive.
//
// A Cell holds a single value and notifies subscribers when the value is
// replaced. It is the "observable cell" capability the binder builds its
// data/pending/error surfaces on, and it also serves as the dynamic query
// reference: re-targeting a binding is just Set on the cell the binder
// watches.
package cell
