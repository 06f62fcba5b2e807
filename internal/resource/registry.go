package resource

import (
	"context"
	"fmt"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"custodian/internal/metrics"
	"custodian/internal/pattern"
	"custodian/pkg/logging"
)

// Handler returns the live status of one resource. (nil, nil) means the
// handler does not know the resource.
type Handler func(ctx context.Context, id string) (*ResourceInfo, error)

// Registry maps resource-id patterns to in-process live-status handlers.
// Patterns are consulted in registration order and the first one matching an
// id decides which handler runs.
//
// A Registry is built at process start and handed to the lookup service;
// there is no package-level instance. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers *orderedmap.OrderedMap[string, Handler]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: orderedmap.New[string, Handler]()}
}

// Register installs h for pattern. Registering a pattern again replaces the
// handler but keeps the pattern's original position.
func (r *Registry) Register(pattern string, h Handler) {
	if h == nil {
		logging.Warn("Registry", "Ignoring nil handler for pattern %s", pattern)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, replaced := r.handlers.Set(pattern, h); replaced {
		logging.Debug("Registry", "Replaced handler for pattern %s", pattern)
	} else {
		logging.Debug("Registry", "Registered handler for pattern %s", pattern)
	}
}

// Patterns returns the registered patterns in registration order.
func (r *Registry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, r.handlers.Len())
	for pair := r.handlers.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers.Len()
}

// Match returns the first registered pattern matching id and its handler.
func (r *Registry) Match(id string) (string, Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for pair := r.handlers.Oldest(); pair != nil; pair = pair.Next() {
		if pattern.Match(pair.Key, id) {
			return pair.Key, pair.Value, true
		}
	}
	return "", nil, false
}

// Get runs the handler of the first pattern matching id, exactly once. A
// handler error, panic, nil result or result without a status is logged and
// reported as absent; it is never returned to the caller. Later patterns are
// not consulted.
func (r *Registry) Get(ctx context.Context, id string) (*ResourceInfo, bool) {
	p, h, ok := r.Match(id)
	if !ok {
		return nil, false
	}

	start := time.Now()
	info, err := invoke(ctx, h, id)
	metrics.HandlerCallDuration.WithLabelValues("registered").Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.HandlerCallsTotal.WithLabelValues("registered", metrics.OutcomeError).Inc()
		logging.Warn("Registry", "Handler for pattern %s failed for %s: %v", p, id, err)
		return nil, false
	case info == nil:
		metrics.HandlerCallsTotal.WithLabelValues("registered", metrics.OutcomeAbsent).Inc()
		logging.Debug("Registry", "Handler for pattern %s has no data for %s", p, id)
		return nil, false
	case info.Status == "":
		metrics.HandlerCallsTotal.WithLabelValues("registered", metrics.OutcomeError).Inc()
		logging.Warn("Registry", "Handler for pattern %s returned no status for %s: %v", p, id, ErrMalformedPayload)
		return nil, false
	}

	metrics.HandlerCallsTotal.WithLabelValues("registered", metrics.OutcomeOK).Inc()
	// The handler may hand out a shared instance; fill in the id on a copy.
	out := *info
	if out.ID == "" {
		out.ID = id
	}
	return &out, true
}

func invoke(ctx context.Context, h Handler, id string) (info *ResourceInfo, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			info, err = nil, fmt.Errorf("handler panicked: %v", rec)
		}
	}()
	return h(ctx, id)
}
