// Package provider selects and constructs the upstream earnings data
// source. Two providers are supported: Yahoo Finance (per-symbol
// quoteSummary) and Financial Modeling Prep (calendar range endpoint).
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/config"
	"github.com/valeriluca/earnings-calendar/internal/model"
	"github.com/valeriluca/earnings-calendar/internal/provider/fmp"
	"github.com/valeriluca/earnings-calendar/internal/provider/yahoo"
)

// Fetcher returns upcoming earnings events for a set of symbols within a
// date window. A symbol with no data or a per-symbol upstream error yields
// no event for that symbol, not a whole-batch failure.
type Fetcher interface {
	Fetch(ctx context.Context, symbols []string, from, to time.Time) ([]model.EarningsEvent, error)
}

// New constructs the configured provider.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.EarningsProvider {
	case config.ProviderYahoo:
		return yahoo.New(cfg.YahooBaseURL, cfg.ProviderRateLimit, logger), nil
	case config.ProviderFMP:
		if cfg.FMPAPIKey == "" {
			return nil, fmt.Errorf("FMP_API_KEY is required for the fmp provider")
		}
		return fmp.New(cfg.FMPBaseURL, cfg.FMPAPIKey, cfg.ProviderRateLimit, logger), nil
	default:
		return nil, fmt.Errorf("unknown earnings provider %q", cfg.EarningsProvider)
	}
}
