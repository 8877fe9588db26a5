// Package wallet talks to the blockchain data API for wallet statistics.
// Every lookup may independently fail; callers are expected to degrade.
package wallet

import "context"

// Holding is one token position in a wallet portfolio.
type Holding struct {
	Name                string  `json:"name"`
	Symbol              string  `json:"symbol"`
	TokenAddress        string  `json:"token_address"`
	USDValue            float64 `json:"usd_value"`
	PortfolioPercentage float64 `json:"portfolio_percentage"`
}

// NetWorth is the aggregate USD valuation of a wallet. The API reports
// monetary amounts as decimal strings.
type NetWorth struct {
	TotalNetworthUSD string `json:"total_networth_usd"`
}

// ProfitSummary aggregates realized trading outcomes for a wallet.
type ProfitSummary struct {
	TotalCountOfTrades           int     `json:"total_count_of_trades"`
	TotalTradeVolume             string  `json:"total_trade_volume"`
	TotalRealizedProfitUSD       string  `json:"total_realized_profit_usd"`
	TotalRealizedProfitPercentage float64 `json:"total_realized_profit_percentage"`
}

// DataClient is the boundary to the blockchain data API.
type DataClient interface {
	// NetWorth returns the total USD net worth of the wallet.
	NetWorth(ctx context.Context, address string) (*NetWorth, error)

	// Age returns the wallet age as a human-readable "N days" string, or ""
	// when the wallet has no transactions.
	Age(ctx context.Context, address string) (string, error)

	// Holdings returns the top token positions ordered by portfolio share.
	Holdings(ctx context.Context, address string) ([]Holding, error)

	// ProfitAndLoss returns the realized profit and loss summary.
	ProfitAndLoss(ctx context.Context, address string) (*ProfitSummary, error)

	// ENS returns the reverse-resolved ENS name, or "" when none exists.
	ENS(ctx context.Context, address string) (string, error)
}
