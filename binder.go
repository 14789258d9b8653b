package vuefire

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faresg/vuefire/cell"
	"github.com/faresg/vuefire/internal/applier"
	"github.com/faresg/vuefire/internal/logging"
	"github.com/faresg/vuefire/internal/metrics"
	"github.com/faresg/vuefire/types"
)

// Binder keeps an ordered document list in sync with a live query and owns
// the binding's observable surface.
//
// Binder is the main entry point of the library. It handles:
//   - Tracking the query reference cell and re-subscribing on every change
//   - Generation tagging so stale subscription callbacks are discarded
//   - Applying ordered change batches to the bound list
//   - The data/pending/error cells and the per-generation initial-load promise
//   - Teardown with configurable reset semantics
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Snapshot application is serialized behind an internal lock; batches of
//     the active generation are applied strictly in upstream delivery order
//
// Cell subscribers registered on Data/Pending/Err are invoked synchronously
// while the binder holds its internal lock. A subscriber must not call
// binder methods or re-target the reference cell directly; dispatch such
// work to another goroutine.
//
// Lifecycle:
//   - Create with NewBinder()
//   - Call Bind() to open the first subscription
//   - Re-target by Set on the reference cell
//   - Call Unbind() (or cancel the Bind context) to release the binding
type Binder struct {
	cfg Config
	ref *cell.Cell[types.Query]

	// Optional dependencies
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger

	// Observable surface
	data       *cell.Cell[[]types.Document]
	pendingVal *cell.Cell[bool]
	errVal     *cell.Cell[error]

	// Generation is the sole stale-callback guard. Written under mu,
	// readable without it.
	generation atomic.Uint64

	mu             sync.Mutex
	list           *applier.Applier
	future         *Future
	cancelUpstream types.CancelFunc
	cancelRefWatch func()
	bound          bool
	unbound        bool

	// Lifecycle context handed to hooks and upstream subscriptions;
	// cancelled on unbind.
	lifeCtx    context.Context
	lifeCancel context.CancelFunc
}

// NewBinder creates a new Binder for the given query reference.
//
// The reference cell may be re-targeted at any time after Bind; each change
// releases the previous subscription and opens a new one under a fresh
// generation.
//
// Returns a concrete *Binder struct following the "accept interfaces, return
// structs" principle. Consumers can define their own interfaces for testing
// if needed.
//
// Parameters:
//   - cfg: Binding configuration (wait/reset/target semantics)
//   - ref: Observable cell holding the query to bind; Set re-targets
//   - opts: Optional configuration (hooks, metrics, logger)
//
// Returns:
//   - *Binder: Initialized binder instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	ref := cell.New[vuefire.Query](coll.Query())
//	b, err := vuefire.NewBinder(&vuefire.Config{Wait: true}, ref)
func NewBinder(cfg *Config, ref *cell.Cell[types.Query], opts ...Option) (*Binder, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if ref == nil {
		return nil, ErrQueryRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply options
	options := &binderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		hooksInstance = &Hooks{}
	}

	b := &Binder{
		cfg:        *cfg,
		ref:        ref,
		hooks:      hooksInstance,
		metrics:    metricsCollector,
		logger:     loggerInstance,
		data:       cell.New(slices.Clone(cfg.Target)),
		pendingVal: cell.New(false),
		errVal:     cell.New[error](nil),
		list:       applier.New(cfg.Wait),
	}
	b.list.Seed(cfg.Target)
	b.lifeCtx, b.lifeCancel = context.WithCancel(context.Background())

	return b, nil
}

// Bind opens the first subscription and starts tracking the reference cell.
//
// Cancelling ctx releases the binding exactly like an explicit Unbind call
// (owner-scope disposal). Bind itself never fails on upstream problems:
// subscription errors surface asynchronously through Err and the promise.
//
// Parameters:
//   - ctx: Lifecycle context; cancellation triggers automatic unbind
//
// Returns:
//   - error: ErrAlreadyBound on a second call, ErrQueryRequired when the
//     reference holds no query
func (b *Binder) Bind(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	b.mu.Lock()
	if b.bound {
		b.mu.Unlock()

		return ErrAlreadyBound
	}

	q := b.ref.Get()
	if q == nil {
		b.mu.Unlock()

		return ErrQueryRequired
	}

	b.bound = true
	b.cancelRefWatch = b.ref.Subscribe(b.retarget)
	b.retargetLocked(q)
	b.mu.Unlock()

	// Owner-scope disposal: unbind when the caller's context ends.
	go func() {
		select {
		case <-ctx.Done():
			b.Unbind()
		case <-b.lifeCtx.Done():
		}
	}()

	return nil
}

// Unbind releases the binding.
//
// The upstream subscription handle is closed, in-flight batches of the old
// generation are cut off by the generation guard, and the configured reset
// policy is applied to the data cell. Unbind is idempotent: calling it
// twice, or after automatic teardown via the Bind context, is a no-op the
// second time.
func (b *Binder) Unbind() {
	b.mu.Lock()
	if !b.bound || b.unbound {
		b.mu.Unlock()

		return
	}

	b.unbound = true

	// Detach in-flight batches even before the upstream handle physically closes.
	b.generation.Add(1)

	b.releaseUpstreamLocked()
	if b.cancelRefWatch != nil {
		b.cancelRefWatch()
		b.cancelRefWatch = nil
	}

	reset := b.cfg.Reset != nil
	if reset {
		b.data.Set(b.cfg.Reset())
	}
	b.pendingVal.Set(false)

	if b.future != nil {
		b.future.reject(ErrUnbound)
	}

	b.metrics.RecordUnbind(reset)
	b.runHook("on_unbind", b.hooks.OnUnbind)
	b.mu.Unlock()

	b.lifeCancel()
	b.logger.Info("binding released", "reset", reset)
}

// Data returns the observable bound ordered list.
//
// The slice held by the cell is replaced wholesale on every applied batch;
// readers must not mutate it.
func (b *Binder) Data() *cell.Cell[[]types.Document] {
	return b.data
}

// Pending returns the observable pending flag: true from bind (or
// re-target) until the first batch of the active generation is applied or
// an error occurs.
func (b *Binder) Pending() *cell.Cell[bool] {
	return b.pendingVal
}

// Err returns the observable error cell. It is reset to nil on every
// re-target and set by the first upstream error of the active generation.
func (b *Binder) Err() *cell.Cell[error] {
	return b.errVal
}

// Promise returns the initial-load promise of the active generation, or nil
// before Bind.
func (b *Binder) Promise() *Future {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.future
}

// Await blocks until the active generation's initial load settles.
//
// Returns:
//   - []types.Document: The list as of the first applied snapshot
//   - error: ErrNotBound before Bind, the upstream error, a lifecycle
//     rejection (ErrRetargeted/ErrUnbound), or ctx.Err()
func (b *Binder) Await(ctx context.Context) ([]types.Document, error) {
	b.mu.Lock()
	f := b.future
	b.mu.Unlock()

	if f == nil {
		return nil, ErrNotBound
	}

	return f.Await(ctx)
}

// Generation returns the active subscription generation.
//
// Returns:
//   - uint64: Zero before Bind, monotonically increasing afterwards
func (b *Binder) Generation() uint64 {
	return b.generation.Load()
}

// DeferredWrites returns the number of provisional documents currently held
// back by the wait option.
func (b *Binder) DeferredWrites() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.list.Hidden()
}

// ObserveWrite feeds a write operation's completion signal to the binder.
//
// Under the wait option a settled completion promotes the write's hidden
// provisional echo immediately, without waiting for the source to mark it
// durable. Without the wait option this is a no-op beyond draining the
// signal. Failed writes promote nothing; the source is expected to emit a
// compensating change for the rolled-back echo.
func (b *Binder) ObserveWrite(w types.WriteResult) {
	if w == nil {
		return
	}

	go func() {
		var err error
		select {
		case err = <-w.Done():
		case <-b.lifeCtx.Done():
			return
		}

		if err != nil {
			b.logger.Warn("write failed; awaiting source compensation",
				"doc_id", w.DocID(),
				"error", err,
			)

			return
		}

		b.confirmWrite(w.DocID())
	}()
}

// retarget is the reference-cell subscriber: every observed change of the
// bound query tears down the old subscription and opens a new one.
func (b *Binder) retarget(q types.Query) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.bound || b.unbound {
		return
	}

	b.retargetLocked(q)
}

// retargetLocked advances the generation and swaps the subscription.
// Callers must hold b.mu.
func (b *Binder) retargetLocked(q types.Query) {
	oldGen := b.generation.Load()
	gen := b.generation.Add(1)

	b.releaseUpstreamLocked()

	// A still-pending initial load of the superseded generation never
	// settles otherwise.
	if b.future != nil {
		b.future.reject(ErrRetargeted)
	}

	b.list = applier.New(b.cfg.Wait)
	if gen == 1 {
		// Target prefill only applies before the very first snapshot.
		b.list.Seed(b.cfg.Target)
	}

	b.future = newFuture()
	b.errVal.Set(nil)
	b.pendingVal.Set(true)
	b.metrics.RecordRetarget(gen)

	if oldGen > 0 {
		b.logger.Info("re-targeting subscription", "old_generation", oldGen, "generation", gen)
		if hook := b.hooks.OnRetarget; hook != nil {
			b.runHook("on_retarget", func(ctx context.Context) error {
				return hook(ctx, oldGen, gen)
			})
		}
	}

	if q == nil {
		b.logger.Warn("query reference cleared; waiting for a new target", "generation", gen)

		return
	}

	l := newListener(b, gen)
	cancel, err := l.attach(b.lifeCtx, q)
	if err != nil {
		// Bind-time failures surface asynchronously, never synchronously.
		go l.onError(err)

		return
	}

	b.cancelUpstream = cancel
}

// releaseUpstreamLocked closes the current subscription handle, if any.
// Idempotent. Callers must hold b.mu.
func (b *Binder) releaseUpstreamLocked() {
	if b.cancelUpstream != nil {
		b.cancelUpstream()
		b.cancelUpstream = nil
	}
}

// handleSnapshot applies one generation-tagged change batch.
func (b *Binder) handleSnapshot(generation uint64, changes []types.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unbound || generation != b.generation.Load() {
		// Stale-subscription guard: batches from a superseded generation
		// are never applied.
		b.metrics.RecordStaleBatch(generation)
		b.logger.Debug("discarding stale change batch",
			"generation", generation,
			"active_generation", b.generation.Load(),
		)

		return
	}

	start := time.Now()
	res, err := b.list.Apply(changes)
	if err != nil {
		b.logger.Error("rejecting malformed change batch",
			"generation", generation,
			"changes", len(changes),
			"error", err,
		)

		return
	}

	for i := 0; i < res.Deferred; i++ {
		b.metrics.RecordDeferredWrite()
	}
	for i := 0; i < res.PromotedDurable; i++ {
		b.metrics.RecordPromotedWrite(applier.TriggerDurable)
	}
	for i := 0; i < res.PromotedCompletion; i++ {
		b.metrics.RecordPromotedWrite(applier.TriggerCompletion)
	}

	b.data.Set(res.Docs)
	b.pendingVal.Set(false)
	b.future.resolve(res.Docs)
	b.metrics.RecordSnapshotApplied(generation, len(changes), time.Since(start).Seconds())

	if hook := b.hooks.OnSnapshotApplied; hook != nil {
		docs := slices.Clone(res.Docs)
		b.runHook("on_snapshot_applied", func(ctx context.Context) error {
			return hook(ctx, generation, docs)
		})
	}

	b.logger.Debug("applied change batch",
		"generation", generation,
		"changes", len(changes),
		"documents", len(res.Docs),
		"held_back", b.list.Hidden(),
	)
}

// handleError surfaces one generation-tagged terminal subscription error.
func (b *Binder) handleError(generation uint64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unbound || generation != b.generation.Load() {
		// Stale-generation errors are silently discarded.
		return
	}

	// The upstream delivers nothing further for this generation; drop the
	// handle now rather than waiting for the next re-target.
	b.releaseUpstreamLocked()

	// data keeps its last successfully-applied value.
	b.errVal.Set(err)
	b.pendingVal.Set(false)
	b.future.reject(err)
	b.metrics.RecordSubscriptionError()

	if hook := b.hooks.OnError; hook != nil {
		b.runHook("on_error", func(ctx context.Context) error {
			return hook(ctx, err)
		})
	}

	b.logger.Error("subscription failed", "generation", generation, "error", err)
}

// confirmWrite promotes the hidden provisional echo of a settled write.
func (b *Binder) confirmWrite(docID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unbound {
		return
	}

	if !b.list.Confirm(docID) {
		return
	}

	b.metrics.RecordPromotedWrite(applier.TriggerCompletion)
	b.data.Set(b.list.Docs())
	b.logger.Debug("promoted write on completion signal", "doc_id", docID)
}

// runHook invokes an optional lifecycle hook in the background.
func (b *Binder) runHook(name string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}

	go func() {
		if err := fn(b.lifeCtx); err != nil {
			b.logger.Error("lifecycle hook error", "hook", name, "error", err)
		}
	}()
}
