// Package holidays is a static market-holiday table for the calendar
// views: which exchanges are closed on a given date.
package holidays

// Holiday is a single market closure.
type Holiday struct {
	Date    string   `json:"date"` // YYYY-MM-DD
	Name    string   `json:"name"`
	Markets []string `json:"markets"`
}

// Market codes used in the table.
const (
	NYSE   = "NYSE"
	NASDAQ = "NASDAQ"
	LSE    = "LSE"
	XETRA  = "XETRA"
	TSE    = "TSE"
	HKEX   = "HKEX"
	TSX    = "TSX"
	ASX    = "ASX"
)

var usMarkets = []string{NYSE, NASDAQ}

// table covers the major exchanges, 2024 through 2026. US markets are
// complete; others list the closures that matter for earnings dates.
var table = []Holiday{
	// 2024
	{Date: "2024-01-01", Name: "New Year's Day", Markets: []string{NYSE, NASDAQ, LSE, XETRA, TSE, HKEX, TSX, ASX}},
	{Date: "2024-01-15", Name: "Martin Luther King Jr. Day", Markets: usMarkets},
	{Date: "2024-02-19", Name: "Presidents' Day", Markets: usMarkets},
	{Date: "2024-03-29", Name: "Good Friday", Markets: []string{NYSE, NASDAQ, LSE, XETRA, HKEX, TSX, ASX}},
	{Date: "2024-04-01", Name: "Easter Monday", Markets: []string{LSE, XETRA, HKEX, ASX}},
	{Date: "2024-05-27", Name: "Memorial Day", Markets: usMarkets},
	{Date: "2024-06-19", Name: "Juneteenth", Markets: usMarkets},
	{Date: "2024-07-04", Name: "Independence Day", Markets: usMarkets},
	{Date: "2024-09-02", Name: "Labor Day", Markets: usMarkets},
	{Date: "2024-11-28", Name: "Thanksgiving Day", Markets: usMarkets},
	{Date: "2024-12-25", Name: "Christmas Day", Markets: []string{NYSE, NASDAQ, LSE, XETRA, HKEX, TSX, ASX}},
	{Date: "2024-12-26", Name: "Boxing Day", Markets: []string{LSE, XETRA, HKEX, TSX, ASX}},

	// 2025
	{Date: "2025-01-01", Name: "New Year's Day", Markets: []string{NYSE, NASDAQ, LSE, XETRA, TSE, HKEX, TSX, ASX}},
	{Date: "2025-01-20", Name: "Martin Luther King Jr. Day", Markets: usMarkets},
	{Date: "2025-02-17", Name: "Presidents' Day", Markets: usMarkets},
	{Date: "2025-04-18", Name: "Good Friday", Markets: []string{NYSE, NASDAQ, LSE, XETRA, HKEX, TSX, ASX}},
	{Date: "2025-04-21", Name: "Easter Monday", Markets: []string{LSE, XETRA, HKEX, ASX}},
	{Date: "2025-05-26", Name: "Memorial Day", Markets: usMarkets},
	{Date: "2025-06-19", Name: "Juneteenth", Markets: usMarkets},
	{Date: "2025-07-04", Name: "Independence Day", Markets: usMarkets},
	{Date: "2025-09-01", Name: "Labor Day", Markets: usMarkets},
	{Date: "2025-11-27", Name: "Thanksgiving Day", Markets: usMarkets},
	{Date: "2025-12-25", Name: "Christmas Day", Markets: []string{NYSE, NASDAQ, LSE, XETRA, HKEX, TSX, ASX}},
	{Date: "2025-12-26", Name: "Boxing Day", Markets: []string{LSE, XETRA, HKEX, TSX, ASX}},

	// 2026
	{Date: "2026-01-01", Name: "New Year's Day", Markets: []string{NYSE, NASDAQ, LSE, XETRA, TSE, HKEX, TSX, ASX}},
	{Date: "2026-01-19", Name: "Martin Luther King Jr. Day", Markets: usMarkets},
	{Date: "2026-02-16", Name: "Presidents' Day", Markets: usMarkets},
	{Date: "2026-04-03", Name: "Good Friday", Markets: []string{NYSE, NASDAQ, LSE, XETRA, HKEX, TSX, ASX}},
	{Date: "2026-04-06", Name: "Easter Monday", Markets: []string{LSE, XETRA, HKEX, ASX}},
	{Date: "2026-05-25", Name: "Memorial Day", Markets: usMarkets},
	{Date: "2026-06-19", Name: "Juneteenth", Markets: usMarkets},
	{Date: "2026-07-03", Name: "Independence Day (observed)", Markets: usMarkets},
	{Date: "2026-09-07", Name: "Labor Day", Markets: usMarkets},
	{Date: "2026-11-26", Name: "Thanksgiving Day", Markets: usMarkets},
	{Date: "2026-12-25", Name: "Christmas Day", Markets: []string{NYSE, NASDAQ, LSE, XETRA, HKEX, TSX, ASX}},
}

// IsHoliday reports whether the market is closed on the date, and the
// closure when it is.
func IsHoliday(date, market string) (Holiday, bool) {
	for _, h := range table {
		if h.Date != date {
			continue
		}
		for _, m := range h.Markets {
			if m == market {
				return h, true
			}
		}
	}
	return Holiday{}, false
}

// ForYear returns the closures for a year, optionally filtered by market
// (empty market keeps all).
func ForYear(year string, market string) []Holiday {
	var out []Holiday
	for _, h := range table {
		if len(h.Date) < 4 || h.Date[:4] != year {
			continue
		}
		if market == "" {
			out = append(out, h)
			continue
		}
		for _, m := range h.Markets {
			if m == market {
				out = append(out, h)
				break
			}
		}
	}
	return out
}
