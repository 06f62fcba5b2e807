package catalog

// ServiceRecord is one catalog entry. Name is the record's identity and never
// changes; everything else may be replaced by an upsert.
type ServiceRecord struct {
	Name             string            `json:"name" yaml:"name" toml:"name"`
	Team             string            `json:"team,omitempty" yaml:"team,omitempty" toml:"team"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	SlackChannel     string            `json:"slackChannel,omitempty" yaml:"slackChannel,omitempty" toml:"slackChannel"`
	PagerAlias       string            `json:"pagerAlias,omitempty" yaml:"pagerAlias,omitempty" toml:"pagerAlias"`
	Dependencies     DependencyList    `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies"`
	ResourcePatterns []ResourcePattern `json:"resourcePatterns,omitempty" yaml:"resourcePatterns,omitempty" toml:"resourcePatterns"`
	Observability    Observability     `json:"observability" yaml:"observability,omitempty" toml:"observability"`
}

// ResourcePattern declares that the owning service is system-of-record for
// every resource id matching Pattern. HandlerURL, when set, is a URL template
// with an ${id} placeholder that returns the live status of one resource.
type ResourcePattern struct {
	Pattern     string `json:"pattern" yaml:"pattern" toml:"pattern"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty" toml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	HandlerURL  string `json:"handlerUrl,omitempty" yaml:"handlerUrl,omitempty" toml:"handlerUrl"`
}

// Observability is passed through to the agent untouched.
type Observability struct {
	LogIndex   string `json:"logIndex,omitempty" yaml:"logIndex,omitempty" toml:"logIndex"`
	MetricsJob string `json:"metricsJob,omitempty" yaml:"metricsJob,omitempty" toml:"metricsJob"`
	Dashboard  string `json:"dashboard,omitempty" yaml:"dashboard,omitempty" toml:"dashboard"`
}

// Clone returns a deep copy so stores can hand records out without sharing
// backing arrays with callers.
func (r ServiceRecord) Clone() ServiceRecord {
	out := r
	if r.Dependencies != nil {
		out.Dependencies = make(DependencyList, len(r.Dependencies))
		copy(out.Dependencies, r.Dependencies)
	}
	if r.ResourcePatterns != nil {
		out.ResourcePatterns = make([]ResourcePattern, len(r.ResourcePatterns))
		copy(out.ResourcePatterns, r.ResourcePatterns)
	}
	return out
}

// InternalDependencies returns the names of services this record declares an
// internal dependency on, in declaration order.
func (r ServiceRecord) InternalDependencies() []string {
	var names []string
	for _, d := range r.Dependencies {
		if d.Kind() == KindInternal {
			names = append(names, d.Target())
		}
	}
	return names
}

// DependsOn reports whether the record declares an internal dependency
// (critical or not) on the named service.
func (r ServiceRecord) DependsOn(name string) bool {
	for _, d := range r.Dependencies {
		if d.Kind() == KindInternal && d.Target() == name {
			return true
		}
	}
	return false
}
