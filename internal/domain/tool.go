package domain

import "context"

// Tool is one callable market-data function exposed to the model.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) ToolResult
}

// ToolInvocation is a function call parsed out of model output.
// Arguments are schema-less key/value pairs validated per-function.
type ToolInvocation struct {
	Function  string         `json:"function"`
	Arguments map[string]any `json:"arguments"`
}

// ToolDefinition describes a callable function for tool registration
// and for the /tools manifest.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
