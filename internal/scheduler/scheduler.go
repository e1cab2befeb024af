// Package scheduler drives the recurring ingestion tasks on top of
// robfig/cron. Each task is registered under a name so it can be cancelled
// individually, and overlapping fires of the same task are skipped.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"nepalidata-go/internal/config"
	"nepalidata-go/internal/services/ingest"
)

type Scheduler struct {
	cron    *cron.Cron
	service *ingest.Service
	cfg     config.Config

	mu      sync.Mutex
	entries map[string]cron.EntryID

	immediate sync.WaitGroup
}

func New(cfg config.Config, service *ingest.Service) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		service: service,
		cfg:     cfg,
		entries: map[string]cron.EntryID{},
	}
}

// ScheduleRecurring registers job under name to fire every interval. With
// runImmediately the job also runs once right away, in the background. A
// second registration under the same name replaces the first.
func (s *Scheduler) ScheduleRecurring(name string, interval time.Duration, runImmediately bool, job func()) error {
	s.Cancel(name)

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		log.Printf("scheduled task %q triggered", name)
		job()
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.mu.Lock()
	s.entries[name] = id
	s.mu.Unlock()

	if runImmediately {
		// The initial run goes through the entry's wrapped job so the
		// skip-if-still-running guard covers it, and is tracked so Stop
		// waits for it like any scheduled fire.
		wrapped := s.cron.Entry(id).WrappedJob
		s.immediate.Add(1)
		go func() {
			defer s.immediate.Done()
			log.Printf("task %q initial run", name)
			wrapped.Run()
		}()
	}
	return nil
}

// Cancel removes the named task. Unknown names are a no-op.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
}

// Start registers the per-domain tasks and starts the cron loop. The price
// and horoscope sources refresh daily with an immediate pass, the calendar
// prefetches the following month weekly, and the events listing refreshes
// monthly.
func (s *Scheduler) Start() error {
	tasks := []struct {
		name        string
		interval    time.Duration
		immediately bool
		scope       ingest.Scope
		sources     []string
	}{
		{"prices", s.cfg.PricesInterval, true, ingest.Scope{}, []string{"metals", "forex", "vegetables"}},
		{"rashifal", s.cfg.RashifalInterval, true, ingest.Scope{}, []string{"rashifal"}},
		{"calendar", s.cfg.CalendarInterval, true, ingest.Scope{NextMonth: true}, []string{"calendar"}},
		{"events", s.cfg.EventsInterval, true, ingest.Scope{}, []string{"events"}},
	}

	for _, task := range tasks {
		t := task
		err := s.ScheduleRecurring(t.name, t.interval, t.immediately, func() {
			s.service.Run(context.Background(), t.scope, t.sources...)
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs, including any
// still-running initial passes, to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.immediate.Wait()
}
