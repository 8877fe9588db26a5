package wallet

import (
	"context"

	logx "github.com/aetheria-game/server/pkg/logger"
)

// Summary aggregates all wallet statistics used by the analysis endpoint and
// the avatar pipeline. Fields are independently best-effort: a failed lookup
// leaves its field empty.
type Summary struct {
	ENS               string         `json:"ens,omitempty"`
	WalletAge         string         `json:"wallet_age,omitempty"`
	PortfolioHoldings []Holding      `json:"portfolio_holdings"`
	WalletNetworth    *NetWorth      `json:"wallet_networth,omitempty"`
	PnL               *ProfitSummary `json:"pnl,omitempty"`
}

// Empty reports whether no lookup produced any data.
func (s *Summary) Empty() bool {
	return s.ENS == "" && s.WalletAge == "" && len(s.PortfolioHoldings) == 0 &&
		s.WalletNetworth == nil && s.PnL == nil
}

// BuildSummary collects all wallet statistics for an address. Each underlying
// call is independently guarded; failures are logged and leave the field unset.
func BuildSummary(ctx context.Context, client DataClient, address string) *Summary {
	s := &Summary{}

	if ens, err := client.ENS(ctx, address); err != nil {
		logx.Warn().Err(err).Str("address", address).Msg("ens lookup failed")
	} else {
		s.ENS = ens
	}

	if age, err := client.Age(ctx, address); err != nil {
		logx.Warn().Err(err).Str("address", address).Msg("wallet age lookup failed")
	} else {
		s.WalletAge = age
	}

	if holdings, err := client.Holdings(ctx, address); err != nil {
		logx.Warn().Err(err).Str("address", address).Msg("holdings lookup failed")
	} else {
		s.PortfolioHoldings = holdings
	}

	if nw, err := client.NetWorth(ctx, address); err != nil {
		logx.Warn().Err(err).Str("address", address).Msg("net worth lookup failed")
	} else {
		s.WalletNetworth = nw
	}

	if pnl, err := client.ProfitAndLoss(ctx, address); err != nil {
		logx.Warn().Err(err).Str("address", address).Msg("pnl lookup failed")
	} else {
		s.PnL = pnl
	}

	return s
}
