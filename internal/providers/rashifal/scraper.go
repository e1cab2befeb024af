// Package rashifal scrapes the daily horoscope for all twelve zodiac signs
// from hamropatro.com.
package rashifal

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/providers/common"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/services/ingest"
)

const defaultURL = "https://www.hamropatro.com/rashifal"

// Sign is one entry of the fixed zodiac enumeration. The key is the
// canonical identifier records are stored under.
type Sign struct {
	Key     string
	Nepali  string
	English string
	Index   int
}

// Signs is the canonical 12-sign table, in publication order.
var Signs = []Sign{
	{"mesh", "मेष", "Aries", 1},
	{"brish", "वृष", "Taurus", 2},
	{"mithun", "मिथुन", "Gemini", 3},
	{"karkat", "कर्कट", "Cancer", 4},
	{"singha", "सिंह", "Leo", 5},
	{"kanya", "कन्या", "Virgo", 6},
	{"tula", "तुला", "Libra", 7},
	{"brischik", "वृश्चिक", "Scorpio", 8},
	{"dhanu", "धनु", "Sagittarius", 9},
	{"makar", "मकर", "Capricorn", 10},
	{"kumbha", "कुम्भ", "Aquarius", 11},
	{"meen", "मीन", "Pisces", 12},
}

var byNepaliName = func() map[string]Sign {
	m := make(map[string]Sign, len(Signs))
	for _, s := range Signs {
		m[s.Nepali] = s
	}
	return m
}()

// ValidSign reports whether key belongs to the enumeration.
func ValidSign(key string) bool {
	for _, s := range Signs {
		if s.Key == key {
			return true
		}
	}
	return false
}

type item struct {
	name       string
	prediction string
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
	return "rashifal"
}

func (s *Scraper) Scrape(ctx context.Context, _ ingest.Scope) (int, error) {
	doc, err := common.FetchDocument(ctx, s.client, s.url, map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	})
	if err != nil {
		return 0, err
	}

	items := extractItems(doc)
	if len(items) == 0 {
		log.Printf("[rashifal] all extraction strategies exhausted")
		return 0, nil
	}

	today := s.now().Format("2006-01-02")
	saved := 0
	for _, it := range items {
		sign, ok := byNepaliName[it.name]
		if !ok {
			log.Printf("[rashifal] unmapped sign name %q", it.name)
			continue
		}
		entry := model.Rashifal{
			Sign:        sign.Key,
			Prediction:  it.prediction,
			Date:        today,
			NepaliName:  sign.Nepali,
			EnglishName: sign.English,
			SignIndex:   sign.Index,
		}
		if _, err := s.rec.Rashifal(ctx, entry); err != nil {
			log.Printf("[rashifal] save %s failed: %v", sign.Key, err)
			continue
		}
		saved++
	}
	log.Printf("[rashifal] saved %d of %d items", saved, len(items))
	return saved, nil
}

// extractItems tries the card markup first, then falls back to walking h3
// headings and their following sibling paragraphs.
func extractItems(doc *goquery.Document) []item {
	var items []item

	doc.Find(".rashifal-card, .rashi-card, .rashifal-item, .rashi-item").Each(func(_ int, card *goquery.Selection) {
		name, ok := common.FirstText(card, "h3", ".title", ".rashi-title", "h2")
		if !ok {
			return
		}
		prediction, ok := common.FirstText(card, ".desc", ".description", ".prediction", "p")
		if !ok {
			return
		}
		items = append(items, item{name: name, prediction: prediction})
	})
	if len(items) > 0 {
		return items
	}

	doc.Find("h3").Each(func(_ int, h *goquery.Selection) {
		name := common.CleanText(h.Text())
		if name == "" {
			return
		}
		for next := h.Next(); next.Length() > 0; next = next.Next() {
			if !next.Is("p, div") {
				continue
			}
			if text := common.CleanText(next.Text()); text != "" {
				items = append(items, item{name: name, prediction: text})
				return
			}
		}
	})
	return items
}
