// Package types contains the public types and interfaces shared across the
// vuefire library.
//
// This package exists so that internal packages (applier, logging, metrics,
// sources) can depend on the core contracts without importing the root
// vuefire package, which would create import cycles. The root package
// re-exports the commonly used definitions via type aliases.
package types
