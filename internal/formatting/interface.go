// Package formatting renders lookup and catalog results for the CLI.
//
// JSON output is exactly what the MCP tools return. YAML output is the same
// document converted key-for-key, so key order survives. Table output is for
// people: the interesting fields of each result laid out with go-pretty.
package formatting

import (
	"fmt"
	"io"
	"os"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
	"custodian/internal/lookup"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // Rich table output
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json, yaml or table)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Out    io.Writer // defaults to os.Stdout
}

// Formatter renders custodian results.
type Formatter interface {
	FormatLookup(resp *lookup.Response) error
	FormatOwner(resp *lookup.OwnerResponse) error
	FormatService(record *catalog.ServiceRecord) error
	FormatServices(services []lookup.ServiceSummary) error
	// FormatEdges renders dependencies or dependents; key names the list.
	FormatEdges(service, key string, edges []dependency.Edge) error
	FormatSync(result catalog.SyncResult) error
}

// New creates the formatter for options.Format. Unknown formats get JSON.
func New(options Options) Formatter {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	switch options.Format {
	case FormatTable:
		return &TableFormatter{out: options.Out}
	case FormatYAML:
		return &documentFormatter{out: options.Out, encode: toYAML}
	default:
		return &documentFormatter{out: options.Out, encode: toJSON}
	}
}
