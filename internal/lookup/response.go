package lookup

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
)

// Source names where a response's live status came from.
type Source string

const (
	SourceHandlerURL        Source = "handler_url"
	SourceRegisteredHandler Source = "registered_handler"
	SourceNone              Source = "none"
)

// StatusNotFound is the status of a lookup that produced no live data.
const StatusNotFound = "not_found"

// Response is the result of a resource lookup. Ownership and context fields
// come from the catalog; status and resource data from a live source.
type Response struct {
	ID           string                              `json:"id"`
	Status       string                              `json:"status"`
	Source       Source                              `json:"source"`
	ResourceType string                              `json:"resource_type,omitempty"`
	Pattern      string                              `json:"pattern,omitempty"`
	ResourceData *orderedmap.OrderedMap[string, any] `json:"resource_data,omitempty"`
	HandlerError string                              `json:"handler_error,omitempty"`
	Note         string                              `json:"note,omitempty"`

	// Only set when context was requested and an owner is known.
	OwnerContext    *OwnerContext         `json:"owner_context,omitempty"`
	RelatedServices []dependency.Relation `json:"related_services,omitempty"`

	LookupID string `json:"lookup_id"`
}

// MarshalJSON always emits related_services alongside owner_context, as an
// empty list when there are none, and never without it.
func (r Response) MarshalJSON() ([]byte, error) {
	type alias Response
	out := struct {
		*alias
		RelatedServices *[]dependency.Relation `json:"related_services,omitempty"`
	}{alias: (*alias)(&r)}

	if r.OwnerContext != nil {
		related := r.RelatedServices
		if related == nil {
			related = []dependency.Relation{}
		}
		out.RelatedServices = &related
	}
	return json.Marshal(out)
}

// Found reports whether a live source produced a status.
func (r *Response) Found() bool {
	return r.Source != SourceNone
}

// OwnerContext is the owning service as shown to the agent.
type OwnerContext struct {
	Service       string                   `json:"service"`
	Team          string                   `json:"team"`
	SlackChannel  string                   `json:"slack_channel,omitempty"`
	PagerAlias    string                   `json:"pager_alias,omitempty"`
	Description   string                   `json:"description,omitempty"`
	Dependencies  []catalog.DependencySpec `json:"dependencies"`
	Observability catalog.Observability    `json:"observability"`
}

func newOwnerContext(r *catalog.ServiceRecord) *OwnerContext {
	return &OwnerContext{
		Service:       r.Name,
		Team:          r.Team,
		SlackChannel:  r.SlackChannel,
		PagerAlias:    r.PagerAlias,
		Description:   r.Description,
		Dependencies:  r.Dependencies.Specs(),
		Observability: r.Observability,
	}
}

// OwnerResponse answers "who owns this id" without any live-status call.
type OwnerResponse struct {
	ResourceID   string        `json:"resource_id"`
	Owner        *OwnerContext `json:"owner"`
	Pattern      string        `json:"pattern,omitempty"`
	ResourceType string        `json:"resource_type,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// ServiceSummary is one row of a service listing.
type ServiceSummary struct {
	Name        string   `json:"name"`
	Team        string   `json:"team"`
	Description string   `json:"description,omitempty"`
	Patterns    []string `json:"patterns"`
}
