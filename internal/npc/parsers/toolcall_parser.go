// Package parsers turns the hosted model's free-form output into structured
// tool invocations. The output format is unreliable: a clean JSON array, a
// single escaped JSON string, an object buried in prose, or plain noise.
package parsers

import (
	"encoding/json"
	"strings"

	"github.com/aetheria-game/server/internal/npc/model"
	"github.com/aetheria-game/server/internal/npc/tools"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen  = 64 * 1024 // 64KB of raw model text
	maxInvocations = 10        // maximum tool calls accepted from one response
	maxErrSnippet  = 200       // limit logged snippet size
)

// strategy attempts one decoding approach. A nil/empty return means "no
// match, try the next one"; malformed input is swallowed, never raised.
type strategy func(raw any, fallbackAddress string) []model.ToolInvocation

// ExtractToolCalls applies the layered strategies in order and stops at the
// first one yielding at least one invocation. Total failure yields an empty
// sequence, never an error.
func ExtractToolCalls(raw any, fallbackAddress string) (invs []model.ToolInvocation) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "toolcall_parser").Msgf("panic recovered: %v", r)
			invs = nil
		}
	}()

	if raw == nil {
		return nil
	}

	for _, s := range []strategy{
		extractWrappedString,
		extractArray,
		extractEmbeddedObject,
	} {
		if got := s(raw, fallbackAddress); len(got) > 0 {
			if len(got) > maxInvocations {
				logx.Warn().
					Str("component", "toolcall_parser").
					Int("count", len(got)).
					Msg("invocation count capped")
				got = got[:maxInvocations]
			}
			return got
		}
	}
	return nil
}

// extractWrappedString handles a one-element sequence whose only element is a
// string carrying one escaped JSON object.
func extractWrappedString(raw any, fallbackAddress string) []model.ToolInvocation {
	items := asSlice(raw)
	if len(items) != 1 {
		return nil
	}
	s, ok := items[0].(string)
	if !ok {
		return nil
	}

	if strings.Contains(s, `\"`) || (strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)) {
		s = cleanupJSONString(s)
	}

	obj, ok := unmarshalObject(s)
	if !ok {
		return nil
	}
	inv, ok := decodeInvocation(obj, true)
	if !ok {
		return nil
	}
	resolveWalletAddress(&inv, fallbackAddress)
	return []model.ToolInvocation{inv}
}

// extractArray handles output that is already a sequence, or a string that
// trims to array syntax. Elements may themselves be string-encoded objects.
func extractArray(raw any, fallbackAddress string) []model.ToolInvocation {
	items := asSlice(raw)
	if items == nil {
		s, ok := raw.(string)
		if !ok {
			return nil
		}
		s = clampContent(strings.TrimSpace(s))
		if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
			return nil
		}
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			logx.Warn().
				Str("component", "toolcall_parser").
				Str("snippet", safeSnippet(s)).
				Msg("failed to parse array result")
			return nil
		}
	}

	var invs []model.ToolInvocation
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			s, isStr := item.(string)
			if !isStr {
				continue
			}
			if obj, ok = unmarshalObject(s); !ok {
				continue
			}
		}

		inv, ok := decodeInvocation(obj, true)
		if !ok {
			continue
		}
		resolveWalletAddress(&inv, fallbackAddress)
		invs = append(invs, inv)
	}
	return invs
}

// extractEmbeddedObject scans a string for the outermost braces and decodes
// the substring once, accepting the same shapes plus arguments living under a
// "parameters" key.
func extractEmbeddedObject(raw any, fallbackAddress string) []model.ToolInvocation {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	s = clampContent(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	obj, ok := unmarshalObject(s[start : end+1])
	if !ok {
		return nil
	}
	inv, ok := decodeInvocation(obj, false)
	if !ok {
		return nil
	}
	resolveWalletAddress(&inv, fallbackAddress)
	return []model.ToolInvocation{inv}
}

// decodeInvocation recognizes the two tool-call shapes the model emits: the
// nested {type:"function", function:{name, arguments}} form and the direct
// {name, arguments} form. When requireType is false the nested form is
// accepted on the presence of "function" alone, and a "parameters" key is
// accepted in place of "arguments".
func decodeInvocation(obj map[string]any, requireType bool) (model.ToolInvocation, bool) {
	if fn, ok := obj["function"].(map[string]any); ok {
		typ, _ := obj["type"].(string)
		if !requireType || typ == "function" {
			name, _ := fn["name"].(string)
			if name == "" {
				return model.ToolInvocation{}, false
			}
			return model.ToolInvocation{Name: name, Parameters: decodeArguments(fn["arguments"])}, true
		}
		return model.ToolInvocation{}, false
	}

	name, _ := obj["name"].(string)
	if name == "" {
		return model.ToolInvocation{}, false
	}
	args, ok := obj["arguments"]
	if !ok {
		if args, ok = obj["parameters"]; !ok || requireType {
			// the direct shape requires an arguments key; "parameters" is
			// only recognized by the embedded-object scan
			return model.ToolInvocation{}, false
		}
	}
	return model.ToolInvocation{Name: name, Parameters: decodeArguments(args)}, true
}

// decodeArguments accepts either a ready map or a string-encoded JSON object.
// Anything unparseable degrades to an empty parameter map.
func decodeArguments(v any) map[string]any {
	switch args := v.(type) {
	case map[string]any:
		return args
	case string:
		if m, ok := unmarshalObject(args); ok {
			return m
		}
		logx.Warn().
			Str("component", "toolcall_parser").
			Str("snippet", safeSnippet(args)).
			Msg("failed to parse arguments string")
	}
	return map[string]any{}
}

// resolveWalletAddress applies the wallet substitution exactly once per
// invocation: absent -> fallback; placeholder sentinel -> fallback when one
// exists, left alone otherwise.
func resolveWalletAddress(inv *model.ToolInvocation, fallbackAddress string) {
	if inv.Parameters == nil {
		inv.Parameters = map[string]any{}
	}

	v, present := inv.Parameters["wallet_address"]
	if !present {
		if fallbackAddress != "" {
			inv.Parameters["wallet_address"] = fallbackAddress
		}
		return
	}

	s, _ := v.(string)
	if s == "" || s == tools.PlaceholderAddress || s == tools.ExampleAddress {
		if fallbackAddress != "" {
			inv.Parameters["wallet_address"] = fallbackAddress
		}
	}
}

// --- helpers ---

// cleanupJSONString strips one layer of quoting and unescapes the result.
func cleanupJSONString(s string) string {
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

func unmarshalObject(s string) (map[string]any, bool) {
	s = clampContent(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

func asSlice(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	}
	return nil
}

func clampContent(s string) string {
	if len(s) > maxContentLen {
		logx.Warn().
			Str("component", "toolcall_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(s)).
			Msg("content truncated due to size limit")
		return s[:maxContentLen]
	}
	return s
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
