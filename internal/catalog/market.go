package catalog

import (
	"fmt"
	"time"

	"virtualco/internal/domain"
)

const (
	InitialMarketShare = 5.0
	InitialMarketSize  = 50_000_000
)

var competitors = []domain.Competitor{
	{ID: "comp-0", Name: "TechCore Inc", MarketShare: 15, Strength: 75, Trend: domain.TrendUp},
	{ID: "comp-1", Name: "InnovateLabs", MarketShare: 22, Strength: 85, Trend: domain.TrendUp, RecentLaunch: "AI-powered analytics"},
	{ID: "comp-2", Name: "StartupBoost", MarketShare: 12, Strength: 65, Trend: domain.TrendStable},
	{ID: "comp-3", Name: "FastGrow Systems", MarketShare: 18, Strength: 72, Trend: domain.TrendUp},
	{ID: "comp-4", Name: "Legacy Solutions", MarketShare: 28, Strength: 55, Trend: domain.TrendDown},
}

// Market returns the opening landscape for a company in domainName, with
// its market events dated at.
func (c Catalog) Market(domainName string, at time.Time) domain.Market {
	if domainName == "" {
		domainName = DefaultDomain
	}
	return domain.Market{
		Share:       InitialMarketShare,
		TotalSize:   InitialMarketSize,
		Competitors: append([]domain.Competitor(nil), competitors...),
		Events: []domain.MarketEvent{
			{
				ID:          "1",
				Type:        domain.MarketTrend,
				Title:       "Industry Growth Accelerating",
				Description: fmt.Sprintf("%s market seeing 35%% YoY growth", domainName),
				Impact:      domain.SentimentPositive,
				Severity:    8,
				Date:        at,
			},
			{
				ID:          "2",
				Type:        domain.MarketCompetitor,
				Title:       "Competitor Raises Series B",
				Description: "InnovateLabs raised $50M, expanding aggressively",
				Impact:      domain.SentimentNegative,
				Severity:    6,
				Date:        at,
			},
		},
	}
}
