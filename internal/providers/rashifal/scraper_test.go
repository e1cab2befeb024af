package rashifal

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

const cardFixture = `
<div class="rashifal-card"><h3>मेष</h3><p class="desc">आज शुभ दिन छ।</p></div>
<div class="rashifal-card"><h3>वृष</h3><p class="desc">धैर्य राख्नुहोस्।</p></div>
<div class="rashifal-card"><h3>अज्ञात</h3><p class="desc">mapped to no sign</p></div>
`

// Same two signs, but only the heading-walk fallback applies.
const headingFixture = `
<article>
<h3>मेष</h3><span>decoration</span><p>आज शुभ दिन छ।</p>
<h3>वृष</h3><p>धैर्य राख्नुहोस्।</p>
</article>
`

func newTestScraper(t *testing.T, html string) (*Scraper, *memory.Store) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	store := memory.NewStore()
	s := NewScraper(srv.Client(), reconcile.New(store)).WithURL(srv.URL)
	s.now = func() time.Time { return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) }
	return s, store
}

func TestScrapeCards(t *testing.T) {
	s, store := newTestScraper(t, cardFixture)

	saved, err := s.Scrape(context.Background(), ingest.Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if saved != 2 {
		t.Fatalf("saved = %d, want 2 (unmapped name rejected)", saved)
	}

	mesh, err := store.FindRashifal(context.Background(), "mesh", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Prediction != "आज शुभ दिन छ।" || mesh.EnglishName != "Aries" || mesh.SignIndex != 1 {
		t.Fatalf("mesh entry = %+v", mesh)
	}
}

func TestScrapeHeadingFallbackMatchesCards(t *testing.T) {
	viaCards, cardStore := newTestScraper(t, cardFixture)
	viaHeadings, headingStore := newTestScraper(t, headingFixture)

	if _, err := viaCards.Scrape(context.Background(), ingest.Scope{}); err != nil {
		t.Fatal(err)
	}
	if _, err := viaHeadings.Scrape(context.Background(), ingest.Scope{}); err != nil {
		t.Fatal(err)
	}

	for _, sign := range []string{"mesh", "brish"} {
		a, err := cardStore.FindRashifal(context.Background(), sign, "2026-08-31")
		if err != nil {
			t.Fatal(err)
		}
		b, err := headingStore.FindRashifal(context.Background(), sign, "2026-08-31")
		if err != nil {
			t.Fatal(err)
		}
		if a.Prediction != b.Prediction {
			t.Fatalf("%s: fallback strategy extracted %q, cards extracted %q", sign, b.Prediction, a.Prediction)
		}
	}
}

func TestScrapeExhaustedYieldsZero(t *testing.T) {
	s, _ := newTestScraper(t, `<p>layout changed again</p>`)
	saved, err := s.Scrape(context.Background(), ingest.Scope{})
	if err != nil {
		t.Fatalf("exhausted extraction must not be an error, got %v", err)
	}
	if saved != 0 {
		t.Fatalf("saved = %d, want 0", saved)
	}
}

func TestSignTable(t *testing.T) {
	if len(Signs) != 12 {
		t.Fatalf("enumeration has %d signs", len(Signs))
	}
	seen := map[int]bool{}
	for _, s := range Signs {
		if s.Index < 1 || s.Index > 12 || seen[s.Index] {
			t.Fatalf("bad ordinal for %s: %d", s.Key, s.Index)
		}
		seen[s.Index] = true
		if !ValidSign(s.Key) {
			t.Fatalf("ValidSign(%q) = false", s.Key)
		}
	}
	if ValidSign("ophiuchus") {
		t.Fatal("unknown sign accepted")
	}
}
