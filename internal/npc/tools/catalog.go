// Package tools defines the wallet data lookups the language model may
// request, and executes structured invocations against the data client.
package tools

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/aetheria-game/server/internal/npc/model"
)

// Tool name constants. Names are the dispatch keys and must match the schema
// advertised to the model.
const (
	ToolWalletNetworth    = "get_wallet_networth"
	ToolWalletAge         = "get_wallet_age"
	ToolPortfolioHoldings = "get_portfolio_holdings"
	ToolPnL               = "get_pnl"
	ToolENS               = "get_ens"
)

// Placeholder values the model sometimes echoes back from tool-schema
// documentation instead of a real wallet address. The extractor must replace
// these, so they live here as the single source of truth.
const (
	PlaceholderAddress = "USER_ADDRESS"
	ExampleAddress     = "0xABCDEF1234567890abcdef1234567890ABCDEF12"
)

// Catalog is the static registry of invocable lookups, keyed by name.
// Read-only after process start.
var Catalog = map[string]model.ToolDefinition{
	ToolWalletNetworth: {
		Name:        ToolWalletNetworth,
		Description: "Returns the net worth of a wallet.",
		Parameters:  walletAddressParam(),
	},
	ToolWalletAge: {
		Name:        ToolWalletAge,
		Description: "Returns wallet age in days since creation.",
		Parameters:  walletAddressParam(),
	},
	ToolPortfolioHoldings: {
		Name:        ToolPortfolioHoldings,
		Description: "Get top tokens in the wallet by portfolio share.",
		Parameters:  walletAddressParam(),
	},
	ToolPnL: {
		Name:        ToolPnL,
		Description: "Returns profit and loss stats.",
		Parameters:  walletAddressParam(),
	},
	ToolENS: {
		Name:        ToolENS,
		Description: "Returns ENS name of wallet if exists.",
		Parameters:  walletAddressParam(),
	},
}

func walletAddressParam() map[string]model.ParameterInfo {
	return map[string]model.ParameterInfo{
		"wallet_address": {Type: "string", Required: true},
	}
}

// Wire shapes for the schema advertised to the model (OpenAI function format,
// which the hosted model was trained against).
type schemaProperty struct {
	Type string `json:"type"`
}

type schemaParameters struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

type schemaFunction struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  schemaParameters `json:"parameters"`
}

type schemaEntry struct {
	Type     string         `json:"type"`
	Function schemaFunction `json:"function"`
}

var (
	schemaOnce sync.Once
	schemaJSON string
)

// SchemaJSON renders the catalog as the JSON tool schema sent with every
// intent-detection model call. The rendering is deterministic.
func SchemaJSON() string {
	schemaOnce.Do(func() {
		names := make([]string, 0, len(Catalog))
		for name := range Catalog {
			names = append(names, name)
		}
		sort.Strings(names)

		entries := make([]schemaEntry, 0, len(names))
		for _, name := range names {
			def := Catalog[name]

			params := schemaParameters{
				Type:       "object",
				Properties: map[string]schemaProperty{},
			}
			paramNames := make([]string, 0, len(def.Parameters))
			for pname := range def.Parameters {
				paramNames = append(paramNames, pname)
			}
			sort.Strings(paramNames)
			for _, pname := range paramNames {
				info := def.Parameters[pname]
				params.Properties[pname] = schemaProperty{Type: info.Type}
				if info.Required {
					params.Required = append(params.Required, pname)
				}
			}

			entries = append(entries, schemaEntry{
				Type: "function",
				Function: schemaFunction{
					Name:        def.Name,
					Description: def.Description,
					Parameters:  params,
				},
			})
		}

		b, err := json.Marshal(entries)
		if err != nil {
			// catalog is static; a marshal failure is a programming error
			panic(err)
		}
		schemaJSON = string(b)
	})
	return schemaJSON
}
