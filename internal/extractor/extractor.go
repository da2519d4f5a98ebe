package extractor

import (
	"strconv"
	"strings"

	"epexgrab/internal/epex"

	"github.com/PuerkitoBio/goquery"
)

// fieldCount is the number of numeric columns read per table row.
const fieldCount = 7

// Extract pulls half-hour records out of rendered page HTML. Rows matching
// rowSelector are visited in document order; rows with fewer than seven
// cells, or whose cells are all empty or "-", are skipped (the site renders
// hour-header separators as all-dash rows). Surviving rows are numbered
// 1..n in order, independent of their original position.
//
// Extraction never fails: unparseable input simply yields no records.
func Extract(pageHTML, rowSelector string) []epex.HHRow {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	var rows []epex.HHRow
	doc.Find(rowSelector).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if !admit(cells) {
			return
		}
		rows = append(rows, rowFromCells(len(rows)+1, cells))
	})
	return rows
}

// admit decides whether a raw table row becomes a data record: at least
// seven cells, of which at least one carries a meaningful value.
func admit(cells []string) bool {
	if len(cells) < fieldCount {
		return false
	}
	for _, c := range cells {
		if c != "" && c != epex.PlaceholderDash {
			return true
		}
	}
	return false
}

// rowFromCells builds a record from the first seven cell texts.
func rowFromCells(hh int, cells []string) epex.HHRow {
	nums := make([]*float64, fieldCount)
	for i := 0; i < fieldCount && i < len(cells); i++ {
		nums[i] = parseCell(cells[i])
	}
	return epex.HHRow{
		HH:         hh,
		Low:        nums[0],
		High:       nums[1],
		Last:       nums[2],
		WeightAvg:  nums[3],
		BuyVolume:  nums[4],
		SellVolume: nums[5],
		Volume:     nums[6],
	}
}

// parseCell converts a cell text to a float, or nil for "-", empty and
// unparseable values. Thousands-separator commas are stripped first.
func parseCell(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == epex.PlaceholderDash {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
