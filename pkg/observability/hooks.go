// Package observability lets callers observe bump passes, cache traffic and
// HTTP requests without the libraries depending on a metrics backend.
//
// Hooks are registered once at startup and called by the pipeline and the
// HTTP service:
//
//	func main() {
//	    observability.SetBumpHooks(&myBumpHooks{})
//	    // ... run application
//	}
//
//	observability.Bump().OnBumpStart(ctx, track, mode, features)
//	// ... run the engine ...
//	observability.Bump().OnBumpComplete(ctx, track, mode, columns, duration, err)
//
// Every hook defaults to a no-op.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Bump Hooks
// =============================================================================

// BumpHooks receives events from layout passes.
type BumpHooks interface {
	OnBumpStart(ctx context.Context, track, mode string, features int)
	OnBumpComplete(ctx context.Context, track, mode string, columns int, duration time.Duration, err error)

	// OnOverflow fires when a pass exceeded the coordinate ceiling and was
	// rolled back.
	OnOverflow(ctx context.Context, track string, width, ceiling float64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "import"
// or "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBumpHooks is a no-op implementation of BumpHooks.
type NoopBumpHooks struct{}

func (NoopBumpHooks) OnBumpStart(context.Context, string, string, int) {}
func (NoopBumpHooks) OnBumpComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopBumpHooks) OnOverflow(context.Context, string, float64, float64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	bumpHooks  BumpHooks  = NoopBumpHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetBumpHooks registers bump hooks. A nil value is ignored.
func SetBumpHooks(h BumpHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bumpHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. A nil value is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Bump returns the registered bump hooks.
func Bump() BumpHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bumpHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	bumpHooks = NoopBumpHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
