// Package metals scrapes daily gold and silver quotes from the
// ashesh.com.np gold widget.
package metals

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/normalize"
	"nepalidata-go/internal/providers/common"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/services/ingest"
)

const defaultURL = "https://www.ashesh.com.np/gold/widget.php?api=422253p432&header_color=0077e5"

type metalKind struct {
	label    string
	metal    string
	hallmark *string
}

func strptr(s string) *string { return &s }

// The widget lists three product lines; anything else on the page is noise.
var metalKinds = []metalKind{
	{"Gold Hallmark", "gold", strptr("24K")},
	{"Gold Tajabi", "gold", strptr("Tejabi")},
	{"Silver", "silver", nil},
}

type quote struct {
	hallmark   *string
	perTola    *float64
	per10Grams *float64
}

type Scraper struct {
	client *http.Client
	rec    *reconcile.Reconciler
	url    string
	now    func() time.Time
}

func NewScraper(client *http.Client, rec *reconcile.Reconciler) *Scraper {
	return &Scraper{client: client, rec: rec, url: defaultURL, now: time.Now}
}

func (s *Scraper) WithURL(url string) *Scraper {
	s.url = url
	return s
}

func (s *Scraper) Source() string {
	return "metals"
}

func (s *Scraper) Scrape(ctx context.Context, _ ingest.Scope) (int, error) {
	doc, err := common.FetchDocument(ctx, s.client, s.url, nil)
	if err != nil {
		return 0, err
	}

	date := headerDate(doc, s.now())

	items := doc.Find(".country")
	if items.Length() == 0 {
		log.Printf("[metals] no metal items found on the page")
		return 0, nil
	}

	// The widget quotes each metal once per unit line; consolidate tola and
	// 10-gram observations per metal before reconciling.
	quotes := map[string]*quote{}
	items.Each(func(_ int, item *goquery.Selection) {
		name, ok := common.FirstText(item, ".name")
		if !ok {
			return
		}
		priceText, ok := common.FirstText(item, ".rate_buying")
		if !ok {
			return
		}
		price, ok := normalize.ParsePrice(priceText)
		if !ok {
			log.Printf("[metals] unparseable price %q for %q", priceText, name)
			return
		}
		unit, _ := common.FirstText(item, ".unit")
		unit = strings.ToLower(unit)

		var kind *metalKind
		for i := range metalKinds {
			if strings.Contains(name, metalKinds[i].label) {
				kind = &metalKinds[i]
				break
			}
		}
		if kind == nil {
			return
		}

		q := quotes[kind.metal]
		if q == nil {
			q = &quote{hallmark: kind.hallmark}
			quotes[kind.metal] = q
		}
		switch {
		case strings.Contains(unit, "tola"):
			q.perTola = &price
		case strings.Contains(unit, "gram"):
			q.per10Grams = &price
		}
	})

	saved := 0
	for metal, q := range quotes {
		tola, grams, ok := normalize.FillTolaGram(q.perTola, q.per10Grams)
		if !ok {
			log.Printf("[metals] %s: no unit price observed, rejecting", metal)
			continue
		}
		record := model.MetalPrice{
			MetalType:       metal,
			Hallmark:        q.hallmark,
			PricePerTola:    tola,
			PricePer10Grams: grams,
			Date:            date,
		}
		if _, err := s.rec.MetalPrice(ctx, record); err != nil {
			log.Printf("[metals] save %s failed: %v", metal, err)
			continue
		}
		saved++
	}
	return saved, nil
}

// headerDate reads the widget's DD-MMM-YYYY header date, falling back to
// today when it is missing or malformed.
func headerDate(doc *goquery.Document, now time.Time) string {
	text := common.CleanText(doc.Find(".header_date").First().Text())
	if t, err := time.Parse("02-Jan-2006", text); err == nil {
		return t.Format("2006-01-02")
	}
	return now.Format("2006-01-02")
}
