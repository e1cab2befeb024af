package vegetables

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/repositories/memory"
	"nepalidata-go/internal/services/ingest"
)

// Five items; the third has no name and must be rejected without stopping
// the batch.
const widgetFixture = `
<div class="header_date">31-Aug-2026</div>
<div class="country"><div class="name">Tomato Big</div><div class="unit">50</div><div class="rate_buying">60</div><div class="rate_selling">55</div><div class="flag"><img src="/img/tomato.jpg"></div></div>
<div class="country"><div class="name">Potato Red</div><div class="unit">--</div><div class="rate_buying">45</div><div class="rate_selling">42</div></div>
<div class="country"><div class="name"></div><div class="unit">10</div><div class="rate_buying">12</div><div class="rate_selling">11</div></div>
<div class="country"><div class="name">Cauli Local</div><div class="unit">70</div><div class="rate_buying">80</div><div class="rate_selling">75</div></div>
<div class="country"><div class="name">Onion Dry</div><div class="unit">90</div><div class="rate_buying">100</div><div class="rate_selling">95</div></div>
`

func newTestScraper(t *testing.T, html string) (*Scraper, *memory.Store) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	store := memory.NewStore()
	s := NewScraper(srv.Client(), reconcile.New(store)).WithURL(srv.URL)
	s.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }
	return s, store
}

func TestScrapePartialBatch(t *testing.T) {
	s, store := newTestScraper(t, widgetFixture)
	ctx := context.Background()

	saved, err := s.Scrape(ctx, ingest.Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if saved != 4 {
		t.Fatalf("saved = %d, want 4 of 5", saved)
	}

	// The rejected candidate must not have stopped the tail of the batch.
	if _, err := store.FindVegetablePrice(ctx, "Onion Dry", "2026-08-31"); err != nil {
		t.Fatalf("last candidate missing: %v", err)
	}

	tomato, err := store.FindVegetablePrice(ctx, "Tomato Big", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if tomato.MinPrice == nil || *tomato.MinPrice != 50 || tomato.Unit != "Per KG" {
		t.Fatalf("tomato = %+v", tomato)
	}
	if tomato.ImageURL == nil || *tomato.ImageURL != "/img/tomato.jpg" {
		t.Fatal("image url not extracted")
	}

	potato, err := store.FindVegetablePrice(ctx, "Potato Red", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if potato.MinPrice != nil {
		t.Fatalf("placeholder min price must be absent, got %v", *potato.MinPrice)
	}
	if potato.MaxPrice == nil || *potato.MaxPrice != 45 {
		t.Fatal("max price lost alongside the absent min")
	}
}

func TestScrapeEmptyPage(t *testing.T) {
	s, _ := newTestScraper(t, `<p>closed today</p>`)
	saved, err := s.Scrape(context.Background(), ingest.Scope{})
	if err != nil || saved != 0 {
		t.Fatalf("Scrape = %d, %v; want 0, nil", saved, err)
	}
}
