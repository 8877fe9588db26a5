// Package avatar derives a fantasy character from wallet statistics and
// generates a pixel-art sprite for it.
package avatar

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/aetheria-game/server/internal/wallet"
)

// Traits is the structured character derived from wallet statistics.
type Traits struct {
	SocialClass    string   `json:"social_class"`
	AgeCategory    string   `json:"age_category"`
	Gender         string   `json:"gender"`
	TradingStyle   string   `json:"trading_style"`
	RiskLevel      string   `json:"risk_level"`
	TopHoldings    []string `json:"top_holdings"`
	CharacterClass string   `json:"character_class"`
}

var characterClasses = []string{
	"Knight", "Wizard", "Rogue", "Cleric", "Berserker",
	"Archer", "Necromancer", "Alchemist", "Summoner",
}

// riskLevelByTier maps a holdings market-cap tier to a risk level. Tier
// detection is not implemented yet, so everything lands on the default tier.
var riskLevelByTier = map[string]string{
	"<1 bil mcap": "cautious",
	"1B-50M mcap": "balanced",
	"50M-1m mcap": "daring",
	">1m":         "reckless",
}

const defaultMcapTier = "1B-50M mcap"

// DeriveTraits maps wallet statistics onto character traits. The character
// class is the only random pick; everything else is deterministic banding.
// Randomness comes from the package-level source, which is safe for
// concurrent requests.
func DeriveTraits(summary *wallet.Summary, gender string) Traits {
	netWorth := 0.0
	if summary.WalletNetworth != nil {
		netWorth, _ = strconv.ParseFloat(summary.WalletNetworth.TotalNetworthUSD, 64)
	}

	ageDays := 0.0
	if fields := strings.Fields(summary.WalletAge); len(fields) > 0 {
		ageDays, _ = strconv.ParseFloat(fields[0], 64)
	}

	topHoldings := make([]string, 0, len(summary.PortfolioHoldings))
	for _, h := range summary.PortfolioHoldings {
		topHoldings = append(topHoldings, h.Symbol)
	}

	tradeCount := 0
	if summary.PnL != nil {
		tradeCount = summary.PnL.TotalCountOfTrades
	}

	riskLevel, ok := riskLevelByTier[defaultMcapTier]
	if !ok {
		riskLevel = "balanced"
	}

	return Traits{
		SocialClass:    socialClass(netWorth),
		AgeCategory:    ageCategory(ageDays),
		Gender:         gender,
		TradingStyle:   tradingStyle(tradeCount),
		RiskLevel:      riskLevel,
		TopHoldings:    topHoldings,
		CharacterClass: characterClasses[rand.IntN(len(characterClasses))],
	}
}

func socialClass(netWorthUSD float64) string {
	switch {
	case netWorthUSD >= 1_000_000:
		return "king"
	case netWorthUSD >= 100_000:
		return "duke"
	case netWorthUSD >= 10_000:
		return "baron"
	case netWorthUSD >= 1_000:
		return "merchant"
	default:
		return "villager"
	}
}

func ageCategory(ageDays float64) string {
	switch {
	case ageDays < 0.5:
		return "young"
	case ageDays > 4:
		return "elderly"
	default:
		return "adult"
	}
}

func tradingStyle(tradeCount int) string {
	switch {
	case tradeCount >= 100:
		return "hyperactive"
	case tradeCount >= 50:
		return "analytical"
	case tradeCount >= 10:
		return "balanced"
	default:
		return "patient"
	}
}
