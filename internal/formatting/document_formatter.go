package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
	"custodian/internal/lookup"
)

// documentFormatter writes each result as one JSON or YAML document.
type documentFormatter struct {
	out    io.Writer
	encode func(v interface{}) (string, error)
}

func (f *documentFormatter) write(v interface{}) error {
	s, err := f.encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.out, s)
	return err
}

func (f *documentFormatter) FormatLookup(resp *lookup.Response) error { return f.write(resp) }

func (f *documentFormatter) FormatOwner(resp *lookup.OwnerResponse) error { return f.write(resp) }

func (f *documentFormatter) FormatService(record *catalog.ServiceRecord) error {
	return f.write(record)
}

func (f *documentFormatter) FormatServices(services []lookup.ServiceSummary) error {
	return f.write(services)
}

func (f *documentFormatter) FormatEdges(service, key string, edges []dependency.Edge) error {
	return f.write(map[string]interface{}{"service": service, key: edges})
}

func (f *documentFormatter) FormatSync(result catalog.SyncResult) error { return f.write(result) }

func toJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// toYAML goes through JSON so custom marshalers and key order apply.
func toYAML(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return "", err
	}
	resetStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// resetStyle drops the flow and quoting styles the JSON input implies.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}
