// Package testing provides test utilities for the vuefire library.
//
// This package offers helpers for setting up test environments: an embedded
// NATS server for exercising the natskv source, and a scripted query for
// driving the binder deterministically. It follows Go's convention of
// providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewScriptQuery: Hand-driven query for deterministic binder tests
//   - NewTestLogger: Logger that writes to testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    vftest "github.com/faresg/vuefire/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := vftest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
