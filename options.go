package vuefire

// Option configures a Binder with optional dependencies.
type Option func(*binderOptions)

// binderOptions holds optional Binder configuration.
type binderOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewBinder
//
// Example:
//
//	hooks := &vuefire.Hooks{
//	    OnSnapshotApplied: func(ctx context.Context, gen uint64, docs []vuefire.Document) error {
//	        return publishCount(len(docs))
//	    },
//	}
//	b, _ := vuefire.NewBinder(&cfg, ref, vuefire.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *binderOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewBinder
//
// Example:
//
//	collector := vuefire.NewPrometheusMetrics(nil, "myapp")
//	b, _ := vuefire.NewBinder(&cfg, ref, vuefire.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *binderOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewBinder
//
// Example:
//
//	logger := vuefire.NewSlogDefaultLogger()
//	b, _ := vuefire.NewBinder(&cfg, ref, vuefire.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *binderOptions) {
		o.logger = logger
	}
}
