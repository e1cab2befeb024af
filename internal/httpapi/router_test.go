package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nepalidata-go/internal/cache"
	"nepalidata-go/internal/model"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/repositories/memory"
	"nepalidata-go/internal/services/ingest"
)

type stubScraper struct {
	name  string
	saved int
	err   error
}

func (s *stubScraper) Source() string { return s.name }

func (s *stubScraper) Scrape(ctx context.Context, scope ingest.Scope) (int, error) {
	return s.saved, s.err
}

func newTestHandler(t *testing.T, store *memory.Store, scrapers ...ingest.SourceScraper) *httptest.Server {
	t.Helper()
	h := NewHandler(ingest.NewService(scrapers), store, cache.New(), nil)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp
}

func TestScrapeEndpointReportsOutcomes(t *testing.T) {
	srv := newTestHandler(t, memory.NewStore(),
		&stubScraper{name: "metals", saved: 3},
		&stubScraper{name: "forex", err: errors.New("timeout")},
	)

	var report ingest.Report
	resp := get(t, srv.URL+"/cron/scrape", &report)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := report.Sources["metals"]; got.Status != "success" || got.Count != 3 {
		t.Fatalf("metals = %+v", got)
	}
	if got := report.Sources["forex"]; got.Status != "error: timeout" {
		t.Fatalf("forex = %+v", got)
	}
}

func TestScrapeEndpointFiltersSources(t *testing.T) {
	srv := newTestHandler(t, memory.NewStore(),
		&stubScraper{name: "metals", saved: 3},
		&stubScraper{name: "forex", saved: 5},
	)

	var report ingest.Report
	get(t, srv.URL+"/cron/scrape?sources=forex", &report)
	if len(report.Sources) != 1 {
		t.Fatalf("sources = %v", report.Sources)
	}
	if got := report.Sources["forex"]; got.Count != 5 {
		t.Fatalf("forex = %+v", got)
	}
}

func TestRashifalEndpoint(t *testing.T) {
	store := memory.NewStore()
	rec := reconcile.New(store)
	_, err := rec.Rashifal(context.Background(), model.Rashifal{
		Sign:        "mesh",
		Prediction:  "शुभ दिन",
		Date:        "2026-08-31",
		NepaliName:  "मेष",
		EnglishName: "Aries",
		SignIndex:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestHandler(t, store)

	var entry model.Rashifal
	resp := get(t, srv.URL+"/rashifal/mesh", &entry)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if entry.Prediction != "शुभ दिन" || entry.EnglishName != "Aries" {
		t.Fatalf("entry = %+v", entry)
	}

	if resp := get(t, srv.URL+"/rashifal/ophiuchus", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown sign status = %d", resp.StatusCode)
	}
	if resp := get(t, srv.URL+"/rashifal/brish", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing prediction status = %d", resp.StatusCode)
	}
}

func TestCalendarEndpointValidatesInput(t *testing.T) {
	srv := newTestHandler(t, memory.NewStore())

	if resp := get(t, srv.URL+"/calendar/2082/13", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("month 13 status = %d", resp.StatusCode)
	}
	if resp := get(t, srv.URL+"/calendar/abc/1", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad year status = %d", resp.StatusCode)
	}
}

func TestMetalPricesEndpointServesLatestDay(t *testing.T) {
	store := memory.NewStore()
	rec := reconcile.New(store)
	gold := "24K"
	seed := []model.MetalPrice{
		{MetalType: "Gold Hallmark", Hallmark: &gold, PricePerTola: 118000, PricePer10Grams: 101200.69, Date: "2026-08-30"},
		{MetalType: "Gold Hallmark", Hallmark: &gold, PricePerTola: 120000, PricePer10Grams: 102915.95, Date: "2026-08-31"},
		{MetalType: "Silver", PricePerTola: 2100, PricePer10Grams: 1801.03, Date: "2026-08-31"},
	}
	for _, p := range seed {
		if _, err := rec.MetalPrice(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
	srv := newTestHandler(t, store)

	var prices []model.MetalPrice
	get(t, srv.URL+"/prices/metals", &prices)
	if len(prices) != 2 {
		t.Fatalf("prices = %+v", prices)
	}
	for _, p := range prices {
		if p.Date != "2026-08-31" {
			t.Fatalf("stale quote served: %+v", p)
		}
	}
}

func TestReadEndpointsAreCached(t *testing.T) {
	store := memory.NewStore()
	rec := reconcile.New(store)
	if _, err := rec.Event(context.Background(), model.Event{
		Title: "Dashain", Date: "2026-10-02", Year: 2026, Month: 10, Day: 2, EventType: "holiday",
	}); err != nil {
		t.Fatal(err)
	}
	srv := newTestHandler(t, store,
		&stubScraper{name: "metals", saved: 2},
		&stubScraper{name: "events", saved: 1},
	)

	var first []model.Event
	get(t, srv.URL+"/events/2026", &first)
	if len(first) != 1 {
		t.Fatalf("events = %+v", first)
	}

	// A row written after the first read stays invisible until the TTL
	// lapses or a scrape of its own source invalidates the entry.
	if _, err := rec.Event(context.Background(), model.Event{
		Title: "Tihar", Date: "2026-11-08", Year: 2026, Month: 11, Day: 8, EventType: "festival",
	}); err != nil {
		t.Fatal(err)
	}
	var second []model.Event
	get(t, srv.URL+"/events/2026", &second)
	if len(second) != 1 {
		t.Fatalf("cached read returned %d events", len(second))
	}

	// Scraping an unrelated source leaves the entry cached.
	get(t, srv.URL+"/cron/scrape?sources=metals", nil)
	var afterOther []model.Event
	get(t, srv.URL+"/events/2026", &afterOther)
	if len(afterOther) != 1 {
		t.Fatalf("unrelated scrape invalidated the events cache: %d events", len(afterOther))
	}

	get(t, srv.URL+"/cron/scrape?sources=events", nil)
	var third []model.Event
	get(t, srv.URL+"/events/2026", &third)
	if len(third) != 2 {
		t.Fatalf("post-invalidation read returned %d events", len(third))
	}
}

func TestScrapeEndpointReportsUnknownSource(t *testing.T) {
	srv := newTestHandler(t, memory.NewStore(), &stubScraper{name: "forex", saved: 5})

	var report ingest.Report
	get(t, srv.URL+"/cron/scrape?sources=forx", &report)
	if got := report.Sources["forx"]; got.Status != "error: unknown source" {
		t.Fatalf("forx = %+v", got)
	}
}
