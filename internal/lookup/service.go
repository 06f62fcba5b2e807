package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"custodian/internal/audit"
	"custodian/internal/catalog"
	"custodian/internal/metrics"
	"custodian/internal/ownership"
	"custodian/internal/resource"
	"custodian/pkg/logging"
)

// ErrInvalidResourceID is returned for an empty or blank resource id.
var ErrInvalidResourceID = errors.New("resource id must not be empty")

// LookupOptions controls what a lookup returns.
type LookupOptions struct {
	// IncludeContext attaches owner_context and related_services when the
	// owner is known.
	IncludeContext bool
}

// Service answers resource and catalog questions for the agent-facing
// surfaces. It holds no per-lookup state and is safe for concurrent use.
type Service struct {
	store    catalog.Store
	resolver *ownership.Resolver
	registry *resource.Registry
	fetcher  *resource.HTTPFetcher
	audit    *audit.Logger
}

// NewService wires a lookup service. A nil registry, fetcher or audit logger
// is replaced by an empty registry, a default fetcher and a no-op logger.
func NewService(store catalog.Store, registry *resource.Registry, fetcher *resource.HTTPFetcher, auditLog *audit.Logger) *Service {
	if registry == nil {
		registry = resource.NewRegistry()
	}
	if fetcher == nil {
		fetcher = resource.NewHTTPFetcher(resource.DefaultHandlerTimeout, nil)
	}
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &Service{
		store:    store,
		resolver: ownership.NewResolver(store),
		registry: registry,
		fetcher:  fetcher,
		audit:    auditLog,
	}
}

// Registry returns the in-process handler registry.
func (s *Service) Registry() *resource.Registry {
	return s.registry
}

// Lookup resolves id to its owner, tries the pattern's handlerUrl and then
// the registry for live status, and assembles the response. An unknown
// resource or a failing handler is data in the response; only an invalid id
// or an unavailable catalog is an error. Nothing is retried.
func (s *Service) Lookup(ctx context.Context, id string, opts LookupOptions) (*Response, error) {
	start := time.Now()
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidResourceID
	}
	lookupID := uuid.NewString()

	// One catalog snapshot serves both the owner and its related services.
	var res ownership.Resolution
	var err error
	if opts.IncludeContext {
		res, err = s.resolver.Resolve(ctx, id)
	} else {
		res.Owner, res.Pattern, err = s.resolver.FindOwner(ctx, id)
	}
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("error", string(SourceNone)).Inc()
		s.audit.Record(audit.Entry{
			Operation: "lookup", ResourceID: id, LookupID: lookupID,
			Duration: time.Since(start), Err: err,
		})
		return nil, err
	}

	resp := &Response{ID: id, Source: SourceNone, LookupID: lookupID}
	if res.Pattern != nil {
		resp.Pattern = res.Pattern.Pattern
		resp.ResourceType = res.Pattern.Type
	}

	var info *resource.ResourceInfo
	if res.Pattern != nil && res.Pattern.HandlerURL != "" {
		info, err = s.fetcher.Fetch(ctx, res.Pattern.HandlerURL, id)
		if err != nil {
			resp.HandlerError = err.Error()
			info = nil
		} else {
			resp.Source = SourceHandlerURL
		}
	}
	if info == nil {
		if registered, ok := s.registry.Get(ctx, id); ok {
			info = registered
			resp.Source = SourceRegisteredHandler
		}
	}

	if info != nil {
		resp.Status = info.Status
		if info.Len() > 0 {
			resp.ResourceData = info.Fields
		}
	} else {
		resp.Status = StatusNotFound
		resp.Note = notFoundNote(res, resp.HandlerError != "")
	}

	if opts.IncludeContext && res.Owner != nil {
		resp.OwnerContext = newOwnerContext(res.Owner)
		resp.RelatedServices = res.Related
	}

	statusClass := "found"
	if !resp.Found() {
		statusClass = StatusNotFound
	}
	elapsed := time.Since(start)
	metrics.LookupsTotal.WithLabelValues(statusClass, string(resp.Source)).Inc()
	metrics.LookupDuration.WithLabelValues(string(resp.Source)).Observe(elapsed.Seconds())

	owner := ""
	if res.Owner != nil {
		owner = res.Owner.Name
	}
	logging.Debug("Lookup", "Lookup %s for %s: owner=%q status=%s source=%s in %s",
		lookupID, id, owner, resp.Status, resp.Source, elapsed)
	s.audit.Record(audit.Entry{
		Operation:  "lookup",
		ResourceID: id,
		LookupID:   lookupID,
		Owner:      owner,
		Status:     resp.Status,
		Source:     string(resp.Source),
		Duration:   elapsed,
	})

	return resp, nil
}

func notFoundNote(res ownership.Resolution, handlerFailed bool) string {
	switch {
	case res.Owner == nil:
		return "No catalog pattern matches this resource id and no live handler knows it; the resource is unknown."
	case handlerFailed:
		return fmt.Sprintf("Owned by %s, but its live-status handler failed (see handler_error) and no registered handler has data.", res.Owner.Name)
	default:
		return fmt.Sprintf("Owned by %s, but no live status is available for this resource.", res.Owner.Name)
	}
}

// FindResourceOwner reports the owner of id from the catalog alone.
func (s *Service) FindResourceOwner(ctx context.Context, id string) (*OwnerResponse, error) {
	start := time.Now()
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidResourceID
	}

	owner, p, err := s.resolver.FindOwner(ctx, id)
	if err != nil {
		s.audit.Record(audit.Entry{Operation: "find_owner", ResourceID: id, Duration: time.Since(start), Err: err})
		return nil, err
	}

	resp := &OwnerResponse{ResourceID: id}
	if owner == nil {
		resp.Error = fmt.Sprintf("no catalog pattern matches resource id %q", id)
	} else {
		resp.Owner = newOwnerContext(owner)
		resp.Pattern = p.Pattern
		resp.ResourceType = p.Type
	}

	ownerName := ""
	if owner != nil {
		ownerName = owner.Name
	}
	s.audit.Record(audit.Entry{Operation: "find_owner", ResourceID: id, Owner: ownerName, Duration: time.Since(start)})
	return resp, nil
}
