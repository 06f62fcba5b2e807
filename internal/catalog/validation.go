package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"custodian/internal/template"
)

//go:embed service.schema.json
var serviceSchemaJSON []byte

var (
	serviceSchemaOnce sync.Once
	serviceSchema     *jsonschema.Schema
	serviceSchemaErr  error
)

func loadServiceSchema() (*jsonschema.Schema, error) {
	serviceSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		serviceSchema, serviceSchemaErr = compiler.Compile(serviceSchemaJSON)
		if serviceSchemaErr != nil {
			serviceSchemaErr = fmt.Errorf("compile service schema: %w", serviceSchemaErr)
		}
	})
	return serviceSchema, serviceSchemaErr
}

// ValidateJSON checks a raw JSON service record against the catalog schema.
// It is applied to untrusted payloads (REST bodies, webhook pushes) before
// they are decoded.
func ValidateJSON(data []byte) error {
	schema, err := loadServiceSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors))
	for field := range result.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, result.Errors[field].Message))
	}
	return ValidationError{Field: "schema", Message: strings.Join(msgs, "; ")}
}

// Validate applies the structural rules every stored record must satisfy.
func Validate(r ServiceRecord) error {
	if strings.TrimSpace(r.Name) == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.ContainsAny(r.Name, " \t\n/\\") {
		return ValidationError{Service: r.Name, Field: "name", Message: "must not contain whitespace or path separators"}
	}

	for i, p := range r.ResourcePatterns {
		field := fmt.Sprintf("resourcePatterns[%d]", i)
		if p.Pattern == "" {
			return ValidationError{Service: r.Name, Field: field + ".pattern", Message: "must not be empty"}
		}
		if p.HandlerURL != "" && !strings.HasPrefix(p.HandlerURL, "http://") && !strings.HasPrefix(p.HandlerURL, "https://") {
			return ValidationError{Service: r.Name, Field: field + ".handlerUrl", Message: "must be an http(s) URL"}
		}
		if err := template.Default.Validate(p.HandlerURL, "id"); err != nil {
			return ValidationError{Service: r.Name, Field: field + ".handlerUrl", Message: err.Error()}
		}
	}

	for i, d := range r.Dependencies {
		field := fmt.Sprintf("dependencies[%d]", i)
		if d == nil {
			return ValidationError{Service: r.Name, Field: field, Message: "must not be null"}
		}
		if d.Target() == "" {
			return ValidationError{Service: r.Name, Field: field, Message: fmt.Sprintf("%s dependency needs a target", d.Kind())}
		}
		if d.Kind() == KindInternal && d.Target() == r.Name {
			return ValidationError{Service: r.Name, Field: field, Message: "service cannot depend on itself"}
		}
	}
	return nil
}
