// Package concepts detects mentions of known blockchain concepts so the NPC
// can track what a player has already explored.
package concepts

import "strings"

// Known is the fixed vocabulary of trackable blockchain concepts.
var Known = []string{
	"blockchain", "wallets", "smart_contracts", "decentralization",
	"gas", "DAOs", "NFTs", "tokens", "mining", "consensus",
	"private_keys", "public_keys", "transactions", "blocks",
}

// Detect returns the known concepts mentioned in the message. Matching is a
// case-insensitive substring check; multiple concepts may match one message.
func Detect(message string) []string {
	lower := strings.ToLower(message)

	var detected []string
	for _, concept := range Known {
		if strings.Contains(lower, strings.ToLower(concept)) {
			detected = append(detected, concept)
		}
	}
	return detected
}
