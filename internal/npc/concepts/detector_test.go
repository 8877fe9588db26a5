package concepts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Run("no known concepts", func(t *testing.T) {
		assert.Empty(t, Detect("hello there, how are you today?"))
	})

	t.Run("multiple concepts in one message", func(t *testing.T) {
		got := Detect("why is gas so expensive when minting NFTs?")
		assert.ElementsMatch(t, []string{"gas", "NFTs"}, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := Detect("tell me about BLOCKCHAIN and Tokens")
		assert.ElementsMatch(t, []string{"blockchain", "tokens"}, got)
	})

	t.Run("underscore concepts match verbatim", func(t *testing.T) {
		got := Detect("what are smart_contracts?")
		assert.Equal(t, []string{"smart_contracts"}, got)
	})

	t.Run("empty message", func(t *testing.T) {
		assert.Empty(t, Detect(""))
	})
}
