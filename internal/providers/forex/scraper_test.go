package forex

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

const tableFixture = `
<table class="forex-table">
<tr><th>Currency</th><th>Unit</th><th>Buy</th><th>Sell</th></tr>
<tr><td>U.S. Dollar (USD)</td><td>1</td><td>133.25</td><td>133.85</td></tr>
<tr><td>Japanese Yen (JPY)</td><td>10</td><td>9.05</td><td>9.10</td></tr>
<tr><td>Broken Row</td><td>1</td><td>--</td><td>--</td></tr>
</table>`

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

func TestScrapeNormalizesBulkUnits(t *testing.T) {
	s, store := newTestScraper(t, tableFixture)
	ctx := context.Background()

	saved, err := s.Scrape(ctx, ingest.Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if saved != 2 {
		t.Fatalf("saved = %d, want 2 (placeholder row skipped)", saved)
	}

	usd, err := store.FindForexRate(ctx, "USD", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if usd.BuyRate != 133.25 || usd.CurrencyName != "U.S. Dollar" {
		t.Fatalf("usd = %+v", usd)
	}

	jpy, err := store.FindForexRate(ctx, "JPY", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if diff := jpy.BuyRate - 0.905; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("jpy buy rate not brought to 1-unit basis: %v", jpy.BuyRate)
	}
	if diff := jpy.SellRate - 0.91; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("jpy sell rate not brought to 1-unit basis: %v", jpy.SellRate)
	}
}

func TestScrapeFallsBackToDensestTable(t *testing.T) {
	s, store := newTestScraper(t, `
		<table>
		<tr><th>Currency</th><th>Unit</th><th>Buy</th><th>Sell</th></tr>
		<tr><td>Euro (EUR)</td><td>1</td><td>155.10</td><td>155.70</td></tr>
		</table>`)
	saved, err := s.Scrape(context.Background(), ingest.Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}
	if _, err := store.FindForexRate(context.Background(), "EUR", "2026-08-31"); err != nil {
		t.Fatal(err)
	}
}

func TestScrapeNoTable(t *testing.T) {
	s, _ := newTestScraper(t, `<p>maintenance page</p>`)
	saved, err := s.Scrape(context.Background(), ingest.Scope{})
	if err != nil || saved != 0 {
		t.Fatalf("Scrape = %d, %v; want 0, nil", saved, err)
	}
}

func TestSplitCurrency(t *testing.T) {
	if name, code := splitCurrency("Indian Rupee (INR)"); name != "Indian Rupee" || code != "INR" {
		t.Fatalf("split = %q, %q", name, code)
	}
	if name, code := splitCurrency("USDollar"); name != "USDollar" || code != "USD" {
		t.Fatalf("split without parens = %q, %q", name, code)
	}
	if _, code := splitCurrency("eu"); code != "" {
		t.Fatalf("short info produced code %q", code)
	}
}
