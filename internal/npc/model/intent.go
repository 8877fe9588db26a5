package model

import "context"

// IntentKind tags the classified purpose of a user message.
type IntentKind string

const (
	IntentGeneral      IntentKind = "general"
	IntentFactualQuery IntentKind = "rag"
	IntentToolCall     IntentKind = "tool_call"
)

// Intent is the classified purpose of one message. Query is set for
// IntentFactualQuery, Invocations for IntentToolCall.
type Intent struct {
	Kind        IntentKind
	Query       string
	Invocations []ToolInvocation
}

// GenerateInput is the wire contract of the hosted model endpoint: a single
// query string plus a JSON-encoded tool schema and sampling parameters.
type GenerateInput struct {
	Query        string
	ToolsJSON    string
	Temperature  float64
	MaxNewTokens int
	TopP         float64
}

// ModelInvoker is the language model boundary. The returned value is the
// decoded response payload, which may be a plain string, a slice, or any
// JSON-shaped value; callers must treat the structure as unreliable.
type ModelInvoker interface {
	Invoke(ctx context.Context, in GenerateInput) (any, error)
}
