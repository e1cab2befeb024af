// Package forex scrapes daily exchange rates from the Nepal Rastra Bank
// site, normalized to a 1-unit basis.
package forex

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

const defaultURL = "https://www.nrb.org.np/forex/"

var tableChain = []common.Region{
	common.BySelector("forex-table", "table.forex-table"),
	common.BySelector("currency-rates", "table.currency-rates"),
	common.DensestTable("densest-table"),
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
	return "forex"
}

func (s *Scraper) Scrape(ctx context.Context, _ ingest.Scope) (int, error) {
	doc, err := common.FetchDocument(ctx, s.client, s.url, nil)
	if err != nil {
		return 0, err
	}

	table, strategy, ok := common.SelectRegion(doc, tableChain)
	if !ok {
		log.Printf("[forex] rates table not found, selector strategies exhausted")
		return 0, nil
	}
	log.Printf("[forex] table via %q", strategy)

	today := s.now().Format("2006-01-02")
	saved := 0
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		rate, ok := parseRow(row)
		if !ok {
			return
		}
		rate.Date = today
		if _, err := s.rec.ForexRate(ctx, rate); err != nil {
			log.Printf("[forex] save %s failed: %v", rate.CurrencyCode, err)
			return
		}
		saved++
	})
	return saved, nil
}

func parseRow(row *goquery.Selection) (model.ForexRate, bool) {
	cells := row.Find("td")
	if cells.Length() < 4 {
		return model.ForexRate{}, false
	}

	name, code := splitCurrency(common.CleanText(cells.Eq(0).Text()))
	if code == "" {
		return model.ForexRate{}, false
	}

	unit := common.CleanText(cells.Eq(1).Text())
	buy, okBuy := normalize.ParsePrice(cells.Eq(2).Text())
	sell, okSell := normalize.ParsePrice(cells.Eq(3).Text())
	if !okBuy || !okSell {
		log.Printf("[forex] unparseable rates for %s", code)
		return model.ForexRate{}, false
	}

	return model.ForexRate{
		CurrencyCode: code,
		CurrencyName: name,
		BuyRate:      normalize.PerUnit(buy, unit),
		SellRate:     normalize.PerUnit(sell, unit),
	}, true
}

// splitCurrency takes "Indian Rupee (INR)" apart; when no parenthesized
// code is present the first three characters stand in for it.
func splitCurrency(info string) (name, code string) {
	if open := strings.Index(info, "("); open >= 0 {
		if close := strings.Index(info[open:], ")"); close > 0 {
			return strings.TrimSpace(info[:open]), strings.TrimSpace(info[open+1 : open+close])
		}
	}
	if len(info) < 3 {
		return info, ""
	}
	return info, info[:3]
}
