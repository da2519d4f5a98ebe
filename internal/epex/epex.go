package epex

import "fmt"

// Deployment constants for the GB continuous half-hourly market.
const (
	MarketGB        = "GB"
	ProductHalfHour = 30

	baseURL = "https://www.epexspot.com/en/market-results"

	// TableRowSelector matches the data rows of the rendered results table.
	TableRowSelector = "table.table-01 tbody tr"

	// PlaceholderDash is how the site renders "no value" cells.
	PlaceholderDash = "-"
)

// BuildURL formats the market-results request URL. The date is passed
// through as-is; an invalid date simply returns a page with no data rows.
func BuildURL(market, date string, product int) string {
	return fmt.Sprintf(
		"%s?market_area=%s&delivery_date=%s&modality=Continuous&data_mode=table&product=%d",
		baseURL, market, date, product,
	)
}
