// Package tool adapts the market data client into the five callable
// functions exposed to the model.
package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"coinbot/internal/domain"
	"coinbot/internal/metrics"
)

// Registry holds the callable functions and executes invocations.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]domain.Tool
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]domain.Tool),
		logger: logger,
	}
}

func (r *Registry) Register(t domain.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
	r.logger.Debug("registered tool", "name", t.Name())
}

func (r *Registry) Get(name string) domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Execute runs one invocation synchronously. Unknown functions and
// per-function validation failures come back as classified failures, never
// as panics or plain errors.
func (r *Registry) Execute(ctx context.Context, inv domain.ToolInvocation) domain.ToolResult {
	t := r.Get(inv.Function)
	if t == nil {
		return domain.Failure(inv.Function,
			domain.NewToolError(domain.ErrNotFound, "unknown function: %s", inv.Function))
	}
	metrics.ToolExecutions.Inc()
	r.logger.Info("executing tool", "function", inv.Function)
	res := t.Execute(ctx, inv.Arguments)
	if !res.OK() {
		r.logger.Warn("tool failed", "function", inv.Function, "kind", res.Err.Kind, "msg", res.Err.Message)
	}
	return res
}

// Definitions returns the manifest of callable functions, sorted by name
// for stable output.
func (r *Registry) Definitions() []domain.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, domain.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Param describes a single tool parameter.
type Param struct {
	Type        string
	Description string
}

// ToolParameters builds a JSON Schema "parameters" object for a tool.
func ToolParameters(properties map[string]Param, required []string) map[string]any {
	props := make(map[string]any)
	for name, p := range properties {
		props[name] = map[string]any{"type": p.Type, "description": p.Description}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ArgsString extracts a string argument, stringifying non-string values.
func ArgsString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, ok := args[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
