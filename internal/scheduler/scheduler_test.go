package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"nepalidata-go/internal/config"
	"nepalidata-go/internal/services/ingest"
)

func newTestScheduler() *Scheduler {
	return New(config.Config{}, ingest.NewService(nil))
}

func TestScheduleRecurringRunsImmediately(t *testing.T) {
	s := newTestScheduler()
	ran := make(chan struct{}, 1)

	err := s.ScheduleRecurring("probe", time.Hour, true, func() {
		ran <- struct{}{}
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate run never fired")
	}
}

func TestStopPreventsFurtherExecutions(t *testing.T) {
	s := newTestScheduler()
	var runs atomic.Int64

	err := s.ScheduleRecurring("ticker", 10*time.Millisecond, false, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	s.cron.Start()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Fatal("task never ran")
	}

	s.Stop()
	settled := runs.Load()
	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != settled {
		t.Fatalf("task ran %d more times after stop", got-settled)
	}
}

func TestStopWaitsForImmediateRun(t *testing.T) {
	s := newTestScheduler()
	started := make(chan struct{})
	var finished atomic.Bool

	err := s.ScheduleRecurring("slow", time.Hour, true, func() {
		close(started)
		time.Sleep(300 * time.Millisecond)
		finished.Store(true)
	})
	if err != nil {
		t.Fatal(err)
	}
	s.cron.Start()

	<-started
	s.Stop()
	if !finished.Load() {
		t.Fatal("Stop returned while the initial run was still executing")
	}
}

func TestImmediateRunSharesOverlapGuard(t *testing.T) {
	s := newTestScheduler()
	block := make(chan struct{})
	var runs atomic.Int64

	err := s.ScheduleRecurring("guarded", 10*time.Millisecond, true, func() {
		runs.Add(1)
		<-block
	})
	if err != nil {
		t.Fatal(err)
	}
	s.cron.Start()

	// The initial run holds the job; scheduled fires must be skipped, not
	// stacked alongside it.
	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("job ran %d times while an execution was in flight", got)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	close(block)
	<-stopped
}

func TestCancelPreventsExecution(t *testing.T) {
	s := newTestScheduler()
	var runs atomic.Int64

	err := s.ScheduleRecurring("doomed", 10*time.Millisecond, false, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Cancel("doomed")
	s.cron.Start()
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("cancelled task ran %d times", got)
	}
}

func TestScheduleRecurringReplacesEntry(t *testing.T) {
	s := newTestScheduler()

	if err := s.ScheduleRecurring("job", time.Hour, false, func() {}); err != nil {
		t.Fatal(err)
	}
	if err := s.ScheduleRecurring("job", time.Hour, false, func() {}); err != nil {
		t.Fatal(err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
}
