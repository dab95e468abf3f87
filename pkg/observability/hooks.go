// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and carries no backend dependency. Consumers
// register hooks at startup to receive events about calibration runs, run
// storage and the HTTP read API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so there are no import
// cycles and any backend (OpenTelemetry, Prometheus, plain logs) can be
// plugged in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCalibrationHooks(&myCalibrationHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Calibration().OnPairStart(ctx, i, child, parent, "horizontal")
//	// ... drive the adjustment surface ...
//	observability.Calibration().OnStepComplete(ctx, i, "scale", elapsed, false)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Calibration Hooks
// =============================================================================

// CalibrationHooks receives events from the calibration orchestrator.
type CalibrationHooks interface {
	// Run events
	OnRunStart(ctx context.Context, monitors int)
	OnRunComplete(ctx context.Context, pairs int, duration time.Duration, err error)

	// Pair events. step is "scale" or "gap".
	OnPairStart(ctx context.Context, pair, child, parent int, orientation string)
	OnStepComplete(ctx context.Context, pair int, step string, duration time.Duration, cancelled bool)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from run storage backends.
type StoreHooks interface {
	// OnStoreHit records a successful lookup.
	OnStoreHit(ctx context.Context, backend string)

	// OnStoreMiss records a lookup for a run that does not exist.
	OnStoreMiss(ctx context.Context, backend string)

	// OnStoreSave records a write of size encoded bytes.
	OnStoreSave(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP read API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCalibrationHooks is a no-op implementation of CalibrationHooks.
type NoopCalibrationHooks struct{}

func (NoopCalibrationHooks) OnRunStart(context.Context, int)                                  {}
func (NoopCalibrationHooks) OnRunComplete(context.Context, int, time.Duration, error)         {}
func (NoopCalibrationHooks) OnPairStart(context.Context, int, int, int, string)               {}
func (NoopCalibrationHooks) OnStepComplete(context.Context, int, string, time.Duration, bool) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)       {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)      {}
func (NoopStoreHooks) OnStoreSave(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	calibrationHooks CalibrationHooks = NoopCalibrationHooks{}
	storeHooks       StoreHooks       = NoopStoreHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetCalibrationHooks registers custom calibration hooks.
// This should be called once at application startup before any calibration runs.
func SetCalibrationHooks(h CalibrationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		calibrationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Calibration returns the registered calibration hooks.
func Calibration() CalibrationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return calibrationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	calibrationHooks = NoopCalibrationHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
