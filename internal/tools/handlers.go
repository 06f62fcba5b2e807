package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"custodian/internal/api"
	"custodian/internal/audit"
	"custodian/internal/catalog"
	"custodian/internal/lookup"
	"custodian/internal/metrics"
	"custodian/pkg/logging"
)

// ExecuteTool executes a tool by name with the provided arguments.
// This implements the api.ToolProvider interface for tool execution.
//
// Args:
//   - ctx: Context for the operation
//   - toolName: The name of the tool to execute
//   - args: Arguments for the tool execution
//
// Returns:
//   - *api.CallToolResult: The result of the tool execution
//   - error: Error if the tool doesn't exist
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	logging.Debug("MCPServer", "Executing tool %s with args: %v", toolName, args)

	var result *api.CallToolResult
	var err error
	switch toolName {
	case ToolGetResource:
		result, err = p.handleGetResource(ctx, args)
	case ToolFindResourceOwner:
		result, err = p.handleFindResourceOwner(ctx, args)
	case ToolGetService:
		result, err = p.handleGetService(ctx, args)
	case ToolListServices:
		result, err = p.handleListServices(ctx, args)
	case ToolGetDependencies:
		result, err = p.handleGetDependencies(ctx, args)
	case ToolGetReverseDependencies:
		result, err = p.handleGetReverseDependencies(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}

	outcome := metrics.OutcomeOK
	if err != nil || (result != nil && result.IsError) {
		outcome = metrics.OutcomeError
	}
	metrics.ToolCallsTotal.WithLabelValues(toolName, outcome).Inc()
	return result, err
}

// handleGetResource handles the get_resource tool.
func (p *Provider) handleGetResource(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	id, ok := stringArg(args, "resource_id")
	if !ok {
		return errorResult("resource_id argument is required"), nil
	}
	includeContext, err := boolArg(args, "include_context", p.includeContextDefault)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	resp, err := p.backend.Lookup(ctx, id, lookup.LookupOptions{IncludeContext: includeContext})
	if err != nil {
		return backendErrorResult("look up resource", err), nil
	}
	return jsonResult(resp)
}

// handleFindResourceOwner handles the find_resource_owner tool.
func (p *Provider) handleFindResourceOwner(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	id, ok := stringArg(args, "resource_id")
	if !ok {
		return errorResult("resource_id argument is required"), nil
	}

	resp, err := p.backend.FindResourceOwner(ctx, id)
	if err != nil {
		return backendErrorResult("find resource owner", err), nil
	}
	return jsonResult(resp)
}

// handleGetService handles the get_service tool. An unknown service is an
// ordinary result carrying an error key, so the agent can correct itself.
func (p *Provider) handleGetService(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	start := time.Now()
	name, ok := stringArg(args, "name")
	if !ok {
		return errorResult("name argument is required"), nil
	}

	record, err := p.backend.GetService(ctx, name)
	p.record(ToolGetService, name, start, err)
	if err != nil {
		return backendErrorResult("get service", err), nil
	}
	if record == nil {
		return jsonResult(notFound(name))
	}
	return jsonResult(record)
}

// handleListServices handles the list_services tool.
func (p *Provider) handleListServices(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	start := time.Now()
	team, _ := stringArg(args, "team")

	services, err := p.backend.ListServices(ctx, team)
	p.record(ToolListServices, "", start, err)
	if err != nil {
		return backendErrorResult("list services", err), nil
	}
	return jsonResult(services)
}

// handleGetDependencies handles the get_dependencies tool.
func (p *Provider) handleGetDependencies(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	start := time.Now()
	name, ok := stringArg(args, "name")
	if !ok {
		return errorResult("name argument is required"), nil
	}

	edges, found, err := p.backend.Dependencies(ctx, name)
	p.record(ToolGetDependencies, name, start, err)
	if err != nil {
		return backendErrorResult("get dependencies", err), nil
	}
	if !found {
		return jsonResult(notFound(name))
	}
	return jsonResult(map[string]interface{}{
		"service":      name,
		"dependencies": edges,
	})
}

// handleGetReverseDependencies handles the get_reverse_dependencies tool.
func (p *Provider) handleGetReverseDependencies(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	start := time.Now()
	name, ok := stringArg(args, "name")
	if !ok {
		return errorResult("name argument is required"), nil
	}

	edges, found, err := p.backend.Dependents(ctx, name)
	p.record(ToolGetReverseDependencies, name, start, err)
	if err != nil {
		return backendErrorResult("get reverse dependencies", err), nil
	}
	if !found {
		return jsonResult(notFound(name))
	}
	return jsonResult(map[string]interface{}{
		"service":    name,
		"dependents": edges,
	})
}

func (p *Provider) record(tool, service string, start time.Time, err error) {
	p.audit.Record(audit.Entry{Operation: tool, Service: service, Duration: time.Since(start), Err: err})
}

func notFound(name string) map[string]string {
	return map[string]string{"error": fmt.Sprintf("service %q not found in catalog", name)}
}

// stringArg returns a non-blank string argument.
func stringArg(args map[string]interface{}, name string) (string, bool) {
	s, ok := args[name].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// boolArg accepts JSON booleans and their string forms.
func boolArg(args map[string]interface{}, name string, def bool) (bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%s must be a boolean, got %q", name, b)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("%s must be a boolean, got %T", name, v)
	}
}

func backendErrorResult(action string, err error) *api.CallToolResult {
	if catalog.IsUnavailable(err) {
		logging.Error("MCPServer", err, "Catalog unavailable during %s", action)
		return errorResult(fmt.Sprintf("Catalog unavailable, cannot %s: %v", action, err))
	}
	if errors.Is(err, lookup.ErrInvalidResourceID) {
		return errorResult(err.Error())
	}
	return errorResult(fmt.Sprintf("Failed to %s: %v", action, err))
}

func jsonResult(v interface{}) (*api.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return textResult(string(jsonData)), nil
}

// textResult creates a successful text result.
func textResult(text string) *api.CallToolResult {
	return &api.CallToolResult{
		Content: []interface{}{text},
		IsError: false,
	}
}

// errorResult creates an error result.
func errorResult(message string) *api.CallToolResult {
	return &api.CallToolResult{
		Content: []interface{}{message},
		IsError: true,
	}
}
