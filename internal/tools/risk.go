package tools

import (
	"github.com/shopspring/decimal"

	"github.com/invictusdhahri/moongate-mcp-server/internal/wallet"
)

// RiskReport is the heuristic assessment attached to get_token_info
// responses. Score runs 0-100, higher is riskier.
type RiskReport struct {
	Score    int      `json:"score"`
	Level    string   `json:"level"`
	Findings []string `json:"findings"`
}

var lowLiquidityFloor = decimal.NewFromInt(10_000)

// AssessTokenRisk scores a token from the signals the upstream exposes.
// The weights are heuristic; the score is advisory, not a verdict.
func AssessTokenRisk(info *wallet.TokenInfo) RiskReport {
	score := 0
	var findings []string

	if info.MintAuthority {
		score += 25
		findings = append(findings, "mint authority is active: supply can be inflated")
	}
	if info.FreezeAuthority {
		score += 20
		findings = append(findings, "freeze authority is active: accounts can be frozen")
	}
	if !info.Verified {
		score += 10
		findings = append(findings, "token is not on a verified list")
	}

	if info.LiquidityUSD == "" {
		score += 10
		findings = append(findings, "liquidity unknown")
	} else if liquidity, err := decimal.NewFromString(info.LiquidityUSD); err == nil {
		if liquidity.LessThan(lowLiquidityFloor) {
			score += 20
			findings = append(findings, "liquidity below $10k: exits may be impossible")
		}
	}

	if info.TopHolderPercent > 50 {
		score += 15
		findings = append(findings, "top holder controls more than half the supply")
	} else if info.TopHolderPercent > 25 {
		score += 10
		findings = append(findings, "supply concentrated in the top holder")
	}

	if info.HolderCount > 0 && info.HolderCount < 100 {
		score += 10
		findings = append(findings, "fewer than 100 holders")
	}

	if info.AgeDays > 0 && info.AgeDays < 7 {
		score += 10
		findings = append(findings, "token is less than a week old")
	}

	if score > 100 {
		score = 100
	}

	return RiskReport{
		Score:    score,
		Level:    riskLevel(score),
		Findings: findings,
	}
}

func riskLevel(score int) string {
	switch {
	case score < 20:
		return "low"
	case score < 50:
		return "medium"
	case score < 75:
		return "high"
	default:
		return "critical"
	}
}
