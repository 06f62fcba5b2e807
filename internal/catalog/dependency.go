package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DependencyKind tags the variant of a Dependency.
type DependencyKind string

const (
	KindInternal DependencyKind = "internal"
	KindDatabase DependencyKind = "database"
	KindExternal DependencyKind = "external"
	KindAWS      DependencyKind = "aws"
)

// Dependency is a dependency edge declared by a service. The set of variants
// is closed: InternalDependency, DatabaseDependency, ExternalDependency and
// AWSDependency.
type Dependency interface {
	Kind() DependencyKind
	// Target is the name the edge points at: a service name for internal
	// edges, the database/external name, or the AWS resource id.
	Target() string
	IsCritical() bool

	spec() DependencySpec
}

// InternalDependency points at another service in the catalog.
type InternalDependency struct {
	Service  string
	Critical bool
}

// DatabaseDependency points at a datastore the service uses.
type DatabaseDependency struct {
	Name     string
	Engine   string
	Critical bool
}

// ExternalDependency points at a third-party system outside the catalog.
type ExternalDependency struct {
	Name           string
	HealthEndpoint string
	Critical       bool
}

// AWSDependency points at a managed AWS resource.
type AWSDependency struct {
	AWSService    string
	AWSResourceID string
	AWSRegion     string
	Critical      bool
}

func (d InternalDependency) Kind() DependencyKind { return KindInternal }
func (d InternalDependency) Target() string       { return d.Service }
func (d InternalDependency) IsCritical() bool     { return d.Critical }
func (d InternalDependency) spec() DependencySpec {
	return DependencySpec{Type: KindInternal, Service: d.Service, Critical: d.Critical}
}

func (d DatabaseDependency) Kind() DependencyKind { return KindDatabase }
func (d DatabaseDependency) Target() string       { return d.Name }
func (d DatabaseDependency) IsCritical() bool     { return d.Critical }
func (d DatabaseDependency) spec() DependencySpec {
	return DependencySpec{Type: KindDatabase, Name: d.Name, Engine: d.Engine, Critical: d.Critical}
}

func (d ExternalDependency) Kind() DependencyKind { return KindExternal }
func (d ExternalDependency) Target() string       { return d.Name }
func (d ExternalDependency) IsCritical() bool     { return d.Critical }
func (d ExternalDependency) spec() DependencySpec {
	return DependencySpec{Type: KindExternal, Name: d.Name, HealthEndpoint: d.HealthEndpoint, Critical: d.Critical}
}

func (d AWSDependency) Kind() DependencyKind { return KindAWS }
func (d AWSDependency) Target() string       { return d.AWSResourceID }
func (d AWSDependency) IsCritical() bool     { return d.Critical }
func (d AWSDependency) spec() DependencySpec {
	return DependencySpec{
		Type:          KindAWS,
		AWSService:    d.AWSService,
		AWSResourceID: d.AWSResourceID,
		AWSRegion:     d.AWSRegion,
		Critical:      d.Critical,
	}
}

// DependencySpec is the flat, type-tagged wire form of a Dependency shared by
// YAML, JSON and TOML. It is also what agents see.
type DependencySpec struct {
	Type           DependencyKind `json:"type" yaml:"type"`
	Service        string         `json:"service,omitempty" yaml:"service,omitempty"`
	Name           string         `json:"name,omitempty" yaml:"name,omitempty"`
	Engine         string         `json:"engine,omitempty" yaml:"engine,omitempty"`
	HealthEndpoint string         `json:"healthEndpoint,omitempty" yaml:"healthEndpoint,omitempty"`
	AWSService     string         `json:"awsService,omitempty" yaml:"awsService,omitempty"`
	AWSResourceID  string         `json:"awsResourceId,omitempty" yaml:"awsResourceId,omitempty"`
	AWSRegion      string         `json:"awsRegion,omitempty" yaml:"awsRegion,omitempty"`
	Critical       bool           `json:"critical,omitempty" yaml:"critical,omitempty"`
}

func (s DependencySpec) toDependency() (Dependency, error) {
	switch s.Type {
	case KindInternal:
		return InternalDependency{Service: s.Service, Critical: s.Critical}, nil
	case KindDatabase:
		return DatabaseDependency{Name: s.Name, Engine: s.Engine, Critical: s.Critical}, nil
	case KindExternal:
		return ExternalDependency{Name: s.Name, HealthEndpoint: s.HealthEndpoint, Critical: s.Critical}, nil
	case KindAWS:
		return AWSDependency{
			AWSService:    s.AWSService,
			AWSResourceID: s.AWSResourceID,
			AWSRegion:     s.AWSRegion,
			Critical:      s.Critical,
		}, nil
	case "":
		return nil, fmt.Errorf("dependency type is required")
	default:
		return nil, fmt.Errorf("unknown dependency type %q", s.Type)
	}
}

// DependencyList is an ordered list of dependency edges with codecs for the
// flat, type-tagged wire form.
type DependencyList []Dependency

// Specs returns the flat wire form of every edge, in order.
func (l DependencyList) Specs() []DependencySpec {
	out := make([]DependencySpec, 0, len(l))
	for _, d := range l {
		out = append(out, d.spec())
	}
	return out
}

func fromSpecs(specs []DependencySpec) (DependencyList, error) {
	if specs == nil {
		return nil, nil
	}
	out := make(DependencyList, 0, len(specs))
	for i, s := range specs {
		d, err := s.toDependency()
		if err != nil {
			return nil, fmt.Errorf("dependencies[%d]: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (l DependencyList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Specs())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *DependencyList) UnmarshalJSON(data []byte) error {
	var specs []DependencySpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return err
	}
	out, err := fromSpecs(specs)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l DependencyList) MarshalYAML() (interface{}, error) {
	return l.Specs(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *DependencyList) UnmarshalYAML(value *yaml.Node) error {
	var specs []DependencySpec
	if err := value.Decode(&specs); err != nil {
		return err
	}
	out, err := fromSpecs(specs)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler. The decoded array of tables is
// re-encoded as JSON so that all three formats share one set of keys.
func (l *DependencyList) UnmarshalTOML(data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("dependencies: %w", err)
	}
	return l.UnmarshalJSON(raw)
}
