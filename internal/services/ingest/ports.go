package ingest

import "context"

// Scope narrows what a scraper fetches. Zero values mean "current local
// date"; each scraper interprets only the fields that apply to it.
type Scope struct {
	// Year and Month select a calendar month (Bikram Sambat) or an events
	// year. Zero defaults to today.
	Year  int
	Month int
	// NextMonth asks the calendar scraper to fetch the following month too.
	NextMonth bool
}

// SourceScraper is the per-domain ingestion contract. Scrape fetches the
// remote document, extracts and normalizes candidates, reconciles each
// accepted one into the store, and reports how many were saved. A fetch
// failure surfaces as an error; exhausted selectors and rejected candidates
// only shrink the count.
type SourceScraper interface {
	Source() string
	Scrape(ctx context.Context, scope Scope) (saved int, err error)
}
