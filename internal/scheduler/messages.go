package scheduler

import (
	"fmt"
	"strings"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

const (
	maxDailySymbols  = 5
	maxChangeSymbols = 3
)

// dailyMessage renders the daily reminder summary.
func dailyMessage(events []model.EarningsEvent) (title, body string) {
	count := len(events)
	if count == 0 {
		return "No Earnings Today", "No earnings scheduled for your watchlist today"
	}

	title = fmt.Sprintf("%d Earnings Today", count)
	symbols := eventSymbols(events, maxDailySymbols)
	body = strings.Join(symbols, ", ")
	if count > maxDailySymbols {
		body = fmt.Sprintf("%s and %d more", body, count-maxDailySymbols)
	}
	return title, body
}

// changeMessage renders the schedule-changed alert from the new event set.
func changeMessage(events []model.EarningsEvent) (title, body string) {
	title = "Earnings Calendar Update"
	count := len(events)
	if count == 0 {
		return title, "Earnings schedule changed for your watchlist"
	}

	symbols := eventSymbols(events, maxChangeSymbols)
	body = fmt.Sprintf("Changes detected for %s", strings.Join(symbols, ", "))
	if count > maxChangeSymbols {
		body = fmt.Sprintf("%s and %d more", body, count-maxChangeSymbols)
	}
	return title, body
}

// eventSymbols returns up to limit distinct symbols in event order.
func eventSymbols(events []model.EarningsEvent, limit int) []string {
	seen := make(map[string]bool, limit)
	symbols := make([]string, 0, limit)
	for _, e := range events {
		if seen[e.Symbol] {
			continue
		}
		seen[e.Symbol] = true
		symbols = append(symbols, e.Symbol)
		if len(symbols) == limit {
			break
		}
	}
	return symbols
}
