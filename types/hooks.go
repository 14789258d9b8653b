package types

import "context"

// Hooks defines callbacks for binding lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking snapshot application. Hooks receive the binding's
// lifecycle context, which is cancelled when the binding is torn down.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and may not complete before Unbind returns
//   - The context passed to hooks is cancelled when the binding unbinds
//   - Hook errors are logged but don't fail binding operations
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Don't block on long I/O operations
//   - Make hooks idempotent (may be called multiple times)
type Hooks struct {
	// OnSnapshotApplied is called after a change batch of the active
	// generation has been fully applied to the bound list.
	// docs is a copy of the list after application.
	OnSnapshotApplied func(ctx context.Context, generation uint64, docs []Document) error

	// OnRetarget is called when the bound query reference changes and a new
	// subscription generation starts.
	OnRetarget func(ctx context.Context, oldGeneration, newGeneration uint64) error

	// OnError is called when the upstream subscription signals an error.
	OnError func(ctx context.Context, err error) error

	// OnUnbind is called once when the binding is released, whether by an
	// explicit Unbind call or by lifecycle-context cancellation.
	OnUnbind func(ctx context.Context) error
}
