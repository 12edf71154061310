package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

// Provider fetches earnings events from Yahoo, one quoteSummary call per
// symbol. Per-symbol failures are logged and skipped so one bad ticker
// never fails the whole batch.
type Provider struct {
	client *Client
	logger *slog.Logger
}

// New creates a Yahoo earnings provider.
func New(baseURL string, requestsPerMinute int, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		client: NewClient(baseURL, requestsPerMinute, logger),
		logger: logger,
	}
}

// quoteSummaryResponse mirrors the quoteSummary envelope for the
// calendarEvents and earningsHistory modules.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents struct {
				Earnings struct {
					EarningsDate []rawValue `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
			EarningsHistory struct {
				History []struct {
					EPSEstimate rawFloat `json:"epsEstimate"`
				} `json:"history"`
			} `json:"earningsHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// rawValue handles Yahoo's {raw: epochSeconds, fmt: string} wrapper.
type rawValue struct {
	Raw int64 `json:"raw"`
}

type rawFloat struct {
	Raw float64 `json:"raw"`
}

// Fetch returns earnings events for the symbols within [from, to].
func (p *Provider) Fetch(ctx context.Context, symbols []string, from, to time.Time) ([]model.EarningsEvent, error) {
	events := make([]model.EarningsEvent, 0, len(symbols))
	for _, symbol := range symbols {
		event, err := p.fetchSymbol(ctx, symbol, from, to)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("Earnings fetch failed for symbol", "symbol", symbol, "error", err)
			continue
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events, nil
}

// fetchSymbol returns the next earnings event for one symbol, or nil when
// no earnings date falls within the window.
func (p *Provider) fetchSymbol(ctx context.Context, symbol string, from, to time.Time) (*model.EarningsEvent, error) {
	params := url.Values{}
	params.Set("modules", "calendarEvents,earningsHistory")

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := p.client.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	result := resp.QuoteSummary.Result[0]
	dates := result.CalendarEvents.Earnings.EarningsDate
	if len(dates) == 0 || dates[0].Raw == 0 {
		return nil, nil
	}

	earningsDate := time.Unix(dates[0].Raw, 0).UTC()
	if earningsDate.Before(from) || earningsDate.After(to) {
		return nil, nil
	}

	event := &model.EarningsEvent{
		Symbol:   symbol,
		Date:     earningsDate.Format(model.DateLayout),
		Time:     guessEarningsTime(earningsDate),
		FullDate: &earningsDate,
	}
	if len(result.EarningsHistory.History) > 0 {
		if est := result.EarningsHistory.History[0].EPSEstimate.Raw; est != 0 {
			event.EPSEstimate = &est
		}
	}
	return event, nil
}

// guessEarningsTime buckets an earnings timestamp by hour. Yahoo encodes
// the announcement slot in the timestamp itself: before 09:30 reads as
// before open, 16:00 or later as after close, in between as during market.
func guessEarningsTime(t time.Time) model.EarningsTime {
	hour, minute := t.Hour(), t.Minute()
	switch {
	case hour < 9 || (hour == 9 && minute < 30):
		return model.TimeBeforeOpen
	case hour >= 16:
		return model.TimeAfterClose
	default:
		return model.TimeDuringMarket
	}
}
