package config

import (
	"fmt"
	"strings"

	"custodian/internal/adapters/kubernetes"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks cfg and returns every problem found.
func Validate(cfg CustodianConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs.Add("server.port", "must be between 0 and 65535", cfg.Server.Port)
	}
	if err := ValidateOneOf("server.transport", cfg.Server.Transport,
		[]string{MCPTransportStreamableHTTP, MCPTransportSSE, MCPTransportStdio}); err != nil {
		errs = append(errs, err.(ValidationError))
	}

	if err := ValidateOneOf("catalog.backend", cfg.Catalog.Backend,
		[]string{CatalogBackendMemory, CatalogBackendFile, CatalogBackendSQLite, CatalogBackendPostgres}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	switch cfg.Catalog.Backend {
	case CatalogBackendFile:
		if strings.TrimSpace(cfg.Catalog.Directory) == "" {
			errs.Add("catalog.directory", "is required for the file backend")
		}
	case CatalogBackendSQLite, CatalogBackendPostgres:
		if strings.TrimSpace(cfg.Catalog.DSN) == "" {
			errs.Add("catalog.dsn", fmt.Sprintf("is required for the %s backend", cfg.Catalog.Backend))
		}
	}
	if cfg.Catalog.Watch && cfg.Catalog.Backend != CatalogBackendFile {
		errs.Add("catalog.watch", "is only supported by the file backend")
	}

	if cfg.Lookup.HandlerTimeout <= 0 {
		errs.Add("lookup.handlerTimeout", "must be positive", cfg.Lookup.HandlerTimeout)
	}

	if cfg.Audit.MaxSizeMB < 0 || cfg.Audit.MaxBackups < 0 || cfg.Audit.MaxAgeDays < 0 {
		errs.Add("audit", "rotation limits must not be negative")
	}

	if cfg.Kubernetes.Enabled {
		if len(cfg.Kubernetes.Handlers) == 0 {
			errs.Add("kubernetes.handlers", "must have at least one handler when kubernetes is enabled")
		}
		for i, h := range cfg.Kubernetes.Handlers {
			field := fmt.Sprintf("kubernetes.handlers[%d]", i)
			if strings.TrimSpace(h.Pattern) == "" {
				errs.Add(field+".pattern", "is required")
			}
			if _, err := kubernetes.ParseKind(h.Kind); err != nil {
				errs.Add(field+".kind", err.Error(), h.Kind)
			}
		}
	}

	return errs
}
