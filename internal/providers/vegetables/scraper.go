// Package vegetables scrapes daily produce market prices from the
// ashesh.com.np vegetable widget.
package vegetables

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/normalize"
	"nepalidata-go/internal/providers/common"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/services/ingest"
)

const defaultURL = "https://www.ashesh.com.np/vegetable/widget.php?api=332259p484&header_color=519122"

// The widget lists everything per kilogram.
const unit = "Per KG"

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
	return "vegetables"
}

func (s *Scraper) Scrape(ctx context.Context, _ ingest.Scope) (int, error) {
	doc, err := common.FetchDocument(ctx, s.client, s.url, nil)
	if err != nil {
		return 0, err
	}

	date := headerDate(doc, s.now())

	items := doc.Find(".country")
	if items.Length() == 0 {
		log.Printf("[vegetables] no items found on the page")
		return 0, nil
	}

	saved := 0
	items.Each(func(_ int, item *goquery.Selection) {
		record, ok := parseItem(item)
		if !ok {
			return
		}
		record.Date = date
		if _, err := s.rec.VegetablePrice(ctx, record); err != nil {
			log.Printf("[vegetables] save %q failed: %v", record.Name, err)
			return
		}
		saved++
	})
	return saved, nil
}

// parseItem reads one ".country" block. The widget reuses its forex layout:
// min sits in ".unit", max in ".rate_buying", avg in ".rate_selling". A "--"
// in any price cell means no observation for that bound, not zero.
func parseItem(item *goquery.Selection) (model.VegetablePrice, bool) {
	name, ok := common.FirstText(item, ".name")
	if !ok {
		return model.VegetablePrice{}, false
	}

	record := model.VegetablePrice{
		Name:     name,
		MinPrice: optionalPrice(item, ".unit"),
		MaxPrice: optionalPrice(item, ".rate_buying"),
		AvgPrice: optionalPrice(item, ".rate_selling"),
		Unit:     unit,
	}

	if src, ok := item.Find(".flag img").First().Attr("src"); ok && src != "" {
		record.ImageURL = &src
	}
	return record, true
}

func optionalPrice(item *goquery.Selection, selector string) *float64 {
	v, ok := normalize.ParsePrice(item.Find(selector).First().Text())
	if !ok {
		return nil
	}
	return &v
}

func headerDate(doc *goquery.Document, now time.Time) string {
	text := common.CleanText(doc.Find(".header_date").First().Text())
	if t, err := time.Parse("02-Jan-2006", text); err == nil {
		return t.Format("2006-01-02")
	}
	return now.Format("2006-01-02")
}
