package epex

// HHRow is one half-hour trading record extracted from the results table.
// A nil pointer means the site rendered no value for that field.
// HH is the 1-based position among extracted rows, not a value read from
// the page; the table is assumed to list all 48 periods in ascending order.
type HHRow struct {
	HH         int
	Low        *float64
	High       *float64
	Last       *float64
	WeightAvg  *float64
	BuyVolume  *float64
	SellVolume *float64
	Volume     *float64
}
