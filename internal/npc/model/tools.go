package model

// ParameterInfo describes one parameter of a tool schema.
type ParameterInfo struct {
	Type     string
	Required bool
}

// ToolDefinition is a static, schema-described data lookup the language model
// may request. Definitions are immutable for the process lifetime.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]ParameterInfo
}

// ToolInvocation is a concrete (name, parameters) request to run one tool.
type ToolInvocation struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// WalletAddress returns the wallet_address parameter if present and a string.
func (inv ToolInvocation) WalletAddress() string {
	if inv.Parameters == nil {
		return ""
	}
	if s, ok := inv.Parameters["wallet_address"].(string); ok {
		return s
	}
	return ""
}

// ToolResult is the uniformly wrapped outcome of one tool invocation.
// Result holds either the success value or a map with a single "error" key.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result"`
}

// ErrorResult wraps a failure message in the uniform result shape.
func ErrorResult(tool string, message string) ToolResult {
	return ToolResult{Tool: tool, Result: map[string]any{"error": message}}
}
