package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	errx "github.com/aetheria-game/server/internal/core/error"
)

// MoralisConfig configures the blockchain data API client.
type MoralisConfig struct {
	APIKey  string `envconfig:"MORALIS_API_KEY" required:"true"`
	BaseURL string `envconfig:"MORALIS_BASE_URL" default:"https://deep-index.moralis.io/api/v2.2"`
	Chain   string `envconfig:"MORALIS_CHAIN" default:"eth"`
	Timeout int    `envconfig:"MORALIS_TIMEOUT" default:"15"`
}

// MoralisClient implements DataClient against the Moralis deep-index API.
type MoralisClient struct {
	cfg  MoralisConfig
	http *http.Client
}

func NewMoralisClient(cfg MoralisConfig) *MoralisClient {
	return &MoralisClient{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

func (c *MoralisClient) get(ctx context.Context, path string, query url.Values, into any) error {
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("wallet data api %s: status %d: %s", path, resp.StatusCode, truncate(body, 200))
		return errx.New(err, http.StatusBadGateway, errx.WalletDataErrorMessage)
	}
	return json.Unmarshal(body, into)
}

func (c *MoralisClient) NetWorth(ctx context.Context, address string) (*NetWorth, error) {
	q := url.Values{}
	q.Set("exclude_spam", "true")
	q.Set("exclude_unverified_contracts", "true")

	var nw NetWorth
	if err := c.get(ctx, "/wallets/"+address+"/net-worth", q, &nw); err != nil {
		return nil, err
	}
	return &nw, nil
}

type activeChainsResponse struct {
	ActiveChains []struct {
		Chain            string `json:"chain"`
		FirstTransaction *struct {
			BlockTimestamp time.Time `json:"block_timestamp"`
		} `json:"first_transaction"`
		LastTransaction *struct {
			BlockTimestamp time.Time `json:"block_timestamp"`
		} `json:"last_transaction"`
	} `json:"active_chains"`
}

// Age spans the earliest first transaction to the latest last transaction
// across the tracked chains.
func (c *MoralisClient) Age(ctx context.Context, address string) (string, error) {
	q := url.Values{}
	for _, chain := range []string{"eth", "base", "optimism"} {
		q.Add("chains", chain)
	}

	var resp activeChainsResponse
	if err := c.get(ctx, "/wallets/"+address+"/chains", q, &resp); err != nil {
		return "", err
	}

	var first, last time.Time
	for _, chain := range resp.ActiveChains {
		if chain.FirstTransaction != nil {
			ts := chain.FirstTransaction.BlockTimestamp
			if first.IsZero() || ts.Before(first) {
				first = ts
			}
		}
		if chain.LastTransaction != nil {
			ts := chain.LastTransaction.BlockTimestamp
			if last.IsZero() || ts.After(last) {
				last = ts
			}
		}
	}
	if first.IsZero() || last.IsZero() {
		return "", nil
	}
	return FormatAge(last.Sub(first)), nil
}

// FormatAge renders a wallet age duration as "N days".
func FormatAge(d time.Duration) string {
	return fmt.Sprintf("%d days", int(d.Hours()/24))
}

type tokenBalancesResponse struct {
	Result []Holding `json:"result"`
}

// Holdings returns the top 5 positions by portfolio share, spam and
// unverified contracts excluded.
func (c *MoralisClient) Holdings(ctx context.Context, address string) ([]Holding, error) {
	q := url.Values{}
	q.Set("chain", c.cfg.Chain)
	q.Set("exclude_spam", "true")
	q.Set("exclude_unverified_contracts", "true")

	var resp tokenBalancesResponse
	if err := c.get(ctx, "/wallets/"+address+"/tokens", q, &resp); err != nil {
		return nil, err
	}

	holdings := resp.Result
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].PortfolioPercentage > holdings[j].PortfolioPercentage
	})
	if len(holdings) > 5 {
		holdings = holdings[:5]
	}
	return holdings, nil
}

func (c *MoralisClient) ProfitAndLoss(ctx context.Context, address string) (*ProfitSummary, error) {
	q := url.Values{}
	q.Set("chain", c.cfg.Chain)

	var pnl ProfitSummary
	if err := c.get(ctx, "/wallets/"+address+"/profitability/summary", q, &pnl); err != nil {
		return nil, err
	}
	return &pnl, nil
}

type resolveReverseResponse struct {
	Name string `json:"name"`
}

func (c *MoralisClient) ENS(ctx context.Context, address string) (string, error) {
	var resp resolveReverseResponse
	if err := c.get(ctx, "/resolve/"+address+"/reverse", nil, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}

var _ DataClient = (*MoralisClient)(nil)
