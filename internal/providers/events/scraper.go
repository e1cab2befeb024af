// Package events scrapes yearly festival and holiday listings from
// nepalipatro.com.np.
package events

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/providers/common"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/services/ingest"
)

const defaultBaseURL = "https://nepalipatro.com.np/events"

var containerChain = []common.Region{
	common.BySelector("events-container", ".events-container, .events-list, .holidays-list, .calendar-events"),
	common.BySelector("main-content", ".main-content, .content-area, #content, main"),
	common.WholeDocument("document"),
}

type Scraper struct {
	client  *http.Client
	rec     *reconcile.Reconciler
	baseURL string
	now     func() time.Time
}

func NewScraper(client *http.Client, rec *reconcile.Reconciler) *Scraper {
	return &Scraper{client: client, rec: rec, baseURL: defaultBaseURL, now: time.Now}
}

func (s *Scraper) WithBaseURL(url string) *Scraper {
	s.baseURL = url
	return s
}

func (s *Scraper) Source() string {
	return "events"
}

func (s *Scraper) Scrape(ctx context.Context, scope ingest.Scope) (int, error) {
	year := scope.Year
	if year == 0 {
		year = s.now().Year()
	}

	doc, err := common.FetchDocument(ctx, s.client, fmt.Sprintf("%s/%d", s.baseURL, year), nil)
	if err != nil {
		return 0, err
	}

	container, strategy, ok := common.SelectRegion(doc, containerChain)
	if !ok {
		log.Printf("[events] %d: no content found, site structure may have changed", year)
		return 0, nil
	}
	log.Printf("[events] %d: container via %q", year, strategy)

	saved := 0
	container.Find(".event-item, .holiday-item, .festival-item").Each(func(_ int, item *goquery.Selection) {
		event, ok := parseItem(item)
		if !ok {
			return
		}
		if _, err := s.rec.Event(ctx, event); err != nil {
			log.Printf("[events] save %q failed: %v", event.Title, err)
			return
		}
		saved++
	})
	return saved, nil
}

// parseItem builds an event from one listing block. A record exists only
// when both a title and a parseable date are present.
func parseItem(item *goquery.Selection) (model.Event, bool) {
	title, ok := common.FirstText(item, ".event-title", ".holiday-name", "h3", "h4")
	if !ok {
		return model.Event{}, false
	}

	dateText, ok := common.FirstText(item, ".event-date", ".holiday-date", ".date")
	if !ok {
		log.Printf("[events] no date found for %q", title)
		return model.Event{}, false
	}
	when, err := dateparse.ParseAny(dateText)
	if err != nil {
		log.Printf("[events] could not parse date %q for %q", dateText, title)
		return model.Event{}, false
	}

	description, _ := common.FirstText(item, ".event-description", ".holiday-description", ".description", "p")

	eventType := "festival"
	if item.HasClass("holiday") {
		eventType = "holiday"
	}

	return model.Event{
		Title:           title,
		Description:     description,
		Date:            when.Format("2006-01-02"),
		Year:            when.Year(),
		Month:           int(when.Month()),
		Day:             when.Day(),
		EventType:       eventType,
		IsPublicHoliday: item.HasClass("public-holiday") || item.HasClass("national-holiday"),
	}, true
}
