package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputText(t *testing.T) {
	assert.Empty(t, OutputText(nil))
	assert.Equal(t, "hello", OutputText("hello"))
	assert.Equal(t, "Greetings, traveler!", OutputText([]any{"Greetings", ", ", "traveler!"}))
	// non-string chunks are skipped
	assert.Equal(t, "ab", OutputText([]any{"a", 42, "b"}))
	// other shapes render as JSON
	assert.Equal(t, `{"key":"value"}`, OutputText(map[string]any{"key": "value"}))
}
