// Package fmp fetches earnings dates from the Financial Modeling Prep
// earning_calendar endpoint: one range request covering all symbols,
// filtered down to the requested set.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

// Provider fetches earnings events from FMP.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates an FMP earnings provider.
func New(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Provider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// calendarRow is one row of the earning_calendar response.
type calendarRow struct {
	Symbol           string   `json:"symbol"`
	Date             string   `json:"date"` // YYYY-MM-DD
	Time             string   `json:"time"` // "bmo" | "amc" | "dmt" | ""
	EPSEstimated     *float64 `json:"epsEstimated"`
	FiscalDateEnding string   `json:"fiscalDateEnding"`
}

// Fetch returns earnings events for the symbols within [from, to]. The
// calendar covers the whole market; rows outside the watchlist are dropped.
func (p *Provider) Fetch(ctx context.Context, symbols []string, from, to time.Time) ([]model.EarningsEvent, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("from", from.Format(model.DateLayout))
	params.Set("to", to.Format(model.DateLayout))
	params.Set("apikey", p.apiKey)

	u := p.baseURL + "/api/v3/earning_calendar?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request earning_calendar: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FMP earning_calendar returned %d: %s",
			resp.StatusCode, truncate(body, 200))
	}

	var rows []calendarRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[strings.ToUpper(s)] = true
	}

	var events []model.EarningsEvent
	for _, row := range rows {
		if !wanted[strings.ToUpper(row.Symbol)] {
			continue
		}
		events = append(events, model.EarningsEvent{
			Symbol:      strings.ToUpper(row.Symbol),
			Date:        row.Date,
			Time:        parseTime(row.Time),
			EPSEstimate: row.EPSEstimated,
		})
	}
	return events, nil
}

// parseTime maps FMP's time field to the known buckets; anything else is
// treated as unknown.
func parseTime(s string) model.EarningsTime {
	switch strings.ToLower(s) {
	case "bmo":
		return model.TimeBeforeOpen
	case "amc":
		return model.TimeAfterClose
	case "dmt":
		return model.TimeDuringMarket
	default:
		return model.TimeUnknown
	}
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
