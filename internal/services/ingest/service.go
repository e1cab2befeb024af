package ingest

import (
	"context"
	"log"
	"sync"
	"time"
)

// SourceResult is the per-source outcome of one orchestrator run.
type SourceResult struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Report summarizes one run across every requested source.
type Report struct {
	StartTime       time.Time               `json:"startTime"`
	EndTime         time.Time               `json:"endTime"`
	DurationSeconds float64                 `json:"durationSeconds"`
	Sources         map[string]SourceResult `json:"sources"`
}

// Service runs registered scrapers in their declared order. Each source is
// guarded by its own lock so two overlapping runs never scrape the same site
// twice at once, while runs over disjoint sources proceed in parallel.
type Service struct {
	scrapers []SourceScraper
	locks    map[string]*sync.Mutex
	now      func() time.Time
}

func NewService(scrapers []SourceScraper) *Service {
	locks := make(map[string]*sync.Mutex, len(scrapers))
	for _, sc := range scrapers {
		locks[sc.Source()] = &sync.Mutex{}
	}
	return &Service{scrapers: scrapers, locks: locks, now: time.Now}
}

// Sources lists the registered source names in run order.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.scrapers))
	for _, sc := range s.scrapers {
		names = append(names, sc.Source())
	}
	return names
}

// Run scrapes the named sources, or every registered one when names is
// empty. A failing source is reported and never aborts the rest.
func (s *Service) Run(ctx context.Context, scope Scope, names ...string) Report {
	report := Report{
		StartTime: s.now(),
		Sources:   map[string]SourceResult{},
	}

	wanted := map[string]bool{}
	for _, name := range names {
		wanted[name] = true
		if _, ok := s.locks[name]; !ok {
			log.Printf("[%s] unknown source requested", name)
			report.Sources[name] = SourceResult{Status: "error: unknown source"}
		}
	}

	for _, sc := range s.scrapers {
		source := sc.Source()
		if len(wanted) > 0 && !wanted[source] {
			continue
		}

		lock := s.locks[source]
		lock.Lock()
		log.Printf("[%s] scraping...", source)
		saved, err := sc.Scrape(ctx, scope)
		lock.Unlock()

		if err != nil {
			log.Printf("[%s] scrape failed: %v", source, err)
			report.Sources[source] = SourceResult{Status: "error: " + err.Error()}
			continue
		}
		log.Printf("[%s] saved %d records", source, saved)
		report.Sources[source] = SourceResult{Status: "success", Count: saved}
	}

	report.EndTime = s.now()
	report.DurationSeconds = report.EndTime.Sub(report.StartTime).Seconds()
	return report
}
