// Package memory is a map-backed Store used by package tests and for
// running the service without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/repositories"
)

type Store struct {
	mu     sync.Mutex
	nextID int32

	calendarDays    []model.CalendarDay
	events          []model.Event
	rashifals       []model.Rashifal
	metalPrices     []model.MetalPrice
	forexRates      []model.ForexRate
	vegetablePrices []model.VegetablePrice
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) id() int32 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) FindCalendarDay(_ context.Context, year, month, day int) (model.CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.calendarDays {
		if d.Year == year && d.Month == month && d.Day == day {
			return d, nil
		}
	}
	return model.CalendarDay{}, repositories.ErrNotFound
}

func (s *Store) InsertCalendarDay(_ context.Context, d model.CalendarDay) (model.CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	s.calendarDays = append(s.calendarDays, d)
	return d, nil
}

func (s *Store) UpdateCalendarDay(_ context.Context, d model.CalendarDay) (model.CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.calendarDays {
		if s.calendarDays[i].ID == d.ID {
			s.calendarDays[i] = d
			return d, nil
		}
	}
	return model.CalendarDay{}, repositories.ErrNotFound
}

func (s *Store) ListCalendarDays(_ context.Context, year, month int) ([]model.CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CalendarDay
	for _, d := range s.calendarDays {
		if d.Year == year && d.Month == month {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *Store) FindEvent(_ context.Context, title, date string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Title == title && e.Date == date {
			return e, nil
		}
	}
	return model.Event{}, repositories.ErrNotFound
}

func (s *Store) InsertEvent(_ context.Context, e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	s.events = append(s.events, e)
	return e, nil
}

func (s *Store) UpdateEvent(_ context.Context, e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = e
			return e, nil
		}
	}
	return model.Event{}, repositories.ErrNotFound
}

func (s *Store) ListEvents(_ context.Context, year, month int) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		if e.Year == year && (month == 0 || e.Month == month) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Day < out[j].Day
	})
	return out, nil
}

func (s *Store) FindRashifal(_ context.Context, sign, date string) (model.Rashifal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rashifals {
		if r.Sign == sign && r.Date == date {
			return r, nil
		}
	}
	return model.Rashifal{}, repositories.ErrNotFound
}

func (s *Store) InsertRashifal(_ context.Context, r model.Rashifal) (model.Rashifal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	s.rashifals = append(s.rashifals, r)
	return r, nil
}

func (s *Store) UpdateRashifal(_ context.Context, r model.Rashifal) (model.Rashifal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rashifals {
		if s.rashifals[i].ID == r.ID {
			s.rashifals[i] = r
			return r, nil
		}
	}
	return model.Rashifal{}, repositories.ErrNotFound
}

func (s *Store) LatestRashifal(_ context.Context, sign string) (model.Rashifal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Rashifal
	for i := range s.rashifals {
		r := &s.rashifals[i]
		if r.Sign != sign {
			continue
		}
		if latest == nil || r.UpdatedAt.After(latest.UpdatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return model.Rashifal{}, repositories.ErrNotFound
	}
	return *latest, nil
}

func (s *Store) FindMetalPrice(_ context.Context, metalType string, hallmark *string, date string) (model.MetalPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.metalPrices {
		if p.MetalType == metalType && p.Date == date && equalPtr(p.Hallmark, hallmark) {
			return p, nil
		}
	}
	return model.MetalPrice{}, repositories.ErrNotFound
}

func (s *Store) InsertMetalPrice(_ context.Context, p model.MetalPrice) (model.MetalPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.metalPrices = append(s.metalPrices, p)
	return p, nil
}

func (s *Store) UpdateMetalPrice(_ context.Context, p model.MetalPrice) (model.MetalPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.metalPrices {
		if s.metalPrices[i].ID == p.ID {
			s.metalPrices[i] = p
			return p, nil
		}
	}
	return model.MetalPrice{}, repositories.ErrNotFound
}

func (s *Store) LatestMetalPrices(_ context.Context) ([]model.MetalPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date, ok := latestDate(s.metalPrices, func(p model.MetalPrice) (string, int64) {
		return p.Date, p.UpdatedAt.UnixNano()
	})
	if !ok {
		return nil, nil
	}
	var out []model.MetalPrice
	for _, p := range s.metalPrices {
		if p.Date == date {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) FindForexRate(_ context.Context, code, date string) (model.ForexRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.forexRates {
		if r.CurrencyCode == code && r.Date == date {
			return r, nil
		}
	}
	return model.ForexRate{}, repositories.ErrNotFound
}

func (s *Store) InsertForexRate(_ context.Context, r model.ForexRate) (model.ForexRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	s.forexRates = append(s.forexRates, r)
	return r, nil
}

func (s *Store) UpdateForexRate(_ context.Context, r model.ForexRate) (model.ForexRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.forexRates {
		if s.forexRates[i].ID == r.ID {
			s.forexRates[i] = r
			return r, nil
		}
	}
	return model.ForexRate{}, repositories.ErrNotFound
}

func (s *Store) LatestForexRates(_ context.Context) ([]model.ForexRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date, ok := latestDate(s.forexRates, func(r model.ForexRate) (string, int64) {
		return r.Date, r.UpdatedAt.UnixNano()
	})
	if !ok {
		return nil, nil
	}
	var out []model.ForexRate
	for _, r := range s.forexRates {
		if r.Date == date {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *Store) FindVegetablePrice(_ context.Context, name, date string) (model.VegetablePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.vegetablePrices {
		if p.Name == name && p.Date == date {
			return p, nil
		}
	}
	return model.VegetablePrice{}, repositories.ErrNotFound
}

func (s *Store) InsertVegetablePrice(_ context.Context, p model.VegetablePrice) (model.VegetablePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.vegetablePrices = append(s.vegetablePrices, p)
	return p, nil
}

func (s *Store) UpdateVegetablePrice(_ context.Context, p model.VegetablePrice) (model.VegetablePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vegetablePrices {
		if s.vegetablePrices[i].ID == p.ID {
			s.vegetablePrices[i] = p
			return p, nil
		}
	}
	return model.VegetablePrice{}, repositories.ErrNotFound
}

func (s *Store) LatestVegetablePrices(_ context.Context) ([]model.VegetablePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date, ok := latestDate(s.vegetablePrices, func(p model.VegetablePrice) (string, int64) {
		return p.Date, p.UpdatedAt.UnixNano()
	})
	if !ok {
		return nil, nil
	}
	var out []model.VegetablePrice
	for _, p := range s.vegetablePrices {
		if p.Date == date {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func latestDate[T any](records []T, key func(T) (date string, updated int64)) (string, bool) {
	var (
		best    int64
		date    string
		found   bool
	)
	for _, r := range records {
		d, u := key(r)
		if !found || u > best {
			best, date, found = u, d, true
		}
	}
	return date, found
}
