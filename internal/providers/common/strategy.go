package common

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Region is one named attempt at locating the relevant part of a document.
// The markup behind each source changes without notice, so every scraper
// carries an ordered chain of these and takes the first non-empty match;
// the order is a lookup priority, never a content signal.
type Region struct {
	Name   string
	Select func(doc *goquery.Document) *goquery.Selection
}

// BySelector locates a region with a plain CSS selector.
func BySelector(name, selector string) Region {
	return Region{Name: name, Select: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(selector)
	}}
}

// DensestTable picks the table with the most cells, for pages where the
// interesting grid lost its id but is still the biggest table around.
func DensestTable(name string) Region {
	return Region{Name: name, Select: func(doc *goquery.Document) *goquery.Selection {
		var best *goquery.Selection
		bestCells := 0
		doc.Find("table").Each(func(_ int, table *goquery.Selection) {
			if n := table.Find("td").Length(); n > bestCells {
				best, bestCells = table, n
			}
		})
		if best == nil {
			return doc.Find("table:not(*)") // empty selection
		}
		return best
	}}
}

// WholeDocument is the last-resort fallback.
func WholeDocument(name string) Region {
	return Region{Name: name, Select: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find("body")
	}}
}

// SelectRegion walks the chain left to right and returns the first strategy
// that matches anything, along with its name. ok is false when every
// strategy came up empty, which callers log as an exhausted extraction.
func SelectRegion(doc *goquery.Document, chain []Region) (sel *goquery.Selection, name string, ok bool) {
	for _, r := range chain {
		if s := r.Select(doc); s != nil && s.Length() > 0 {
			return s, r.Name, true
		}
	}
	return nil, "", false
}

// FirstText applies the same first-match-wins principle at field level: it
// tries each selector in order and returns the first non-blank text.
func FirstText(sel *goquery.Selection, selectors ...string) (string, bool) {
	for _, selector := range selectors {
		if text := CleanText(sel.Find(selector).First().Text()); text != "" {
			return text, true
		}
	}
	return "", false
}

// CleanText trims whitespace including the non-breaking space the widgets
// pad empty cells with.
func CleanText(s string) string {
	return strings.Trim(strings.TrimSpace(s), " ")
}
