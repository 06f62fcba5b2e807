// Package template expands the placeholders in live-status handler URL
// templates.
//
// Two placeholder syntaxes are accepted and may be mixed:
//
//	https://orders.internal/resources/${id}
//	https://orders.internal/resources/{{ id }}   (also {{ .id }} and {{id}})
package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Engine expands named placeholders in strings.
type Engine struct {
	// Pattern to match ${name}, {{ name }} and {{ .name }}
	templatePattern *regexp.Regexp
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		templatePattern: regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}|\{\{\s*\.?([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`),
	}
}

// Default is a shared engine. Engines hold no mutable state.
var Default = New()

// Expand replaces every placeholder in template with its value from vars.
// Values are inserted as given; callers escape them for their context.
// Placeholders without a value are reported together in one error.
func (e *Engine) Expand(template string, vars map[string]string) (string, error) {
	var missing []string
	seen := make(map[string]bool)

	result := e.templatePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := e.variableName(match)
		if v, ok := vars[name]; ok {
			return v
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// Variables returns the placeholder names used in template, in order of first
// appearance.
func (e *Engine) Variables(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range e.templatePattern.FindAllString(template, -1) {
		name := e.variableName(match)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Validate checks that template only references the allowed variable names.
func (e *Engine) Validate(template string, allowed ...string) error {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}

	var unknown []string
	for _, name := range e.Variables(template) {
		if !ok[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown template variables: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func (e *Engine) variableName(match string) string {
	sub := e.templatePattern.FindStringSubmatch(match)
	if sub[1] != "" {
		return sub[1]
	}
	return sub[2]
}
