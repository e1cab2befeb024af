// Package reconcile owns the idempotent upsert step between scrapers and the
// store. It is the only writer of UpdatedAt and the only code path that
// creates or mutates scraped entities; scrapers never touch the Store.
package reconcile

import (
	"context"
	"errors"
	"time"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/repositories"
)

type Reconciler struct {
	store repositories.Store
	now   func() time.Time
}

func New(store repositories.Store) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// NewWithClock injects the freshness clock, for tests.
func NewWithClock(store repositories.Store, now func() time.Time) *Reconciler {
	return &Reconciler{store: store, now: now}
}

// Each method looks the existing record up by natural-key equality, stamps
// the candidate's freshness timestamp from the reconciler's clock, and either
// inserts it or updates the existing row in place (the candidate is
// authoritative for every field it carries). Storage errors propagate to the
// caller; the calling scraper logs them per candidate and moves on.

func (r *Reconciler) CalendarDay(ctx context.Context, c model.CalendarDay) (model.CalendarDay, error) {
	existing, err := r.store.FindCalendarDay(ctx, c.Year, c.Month, c.Day)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return model.CalendarDay{}, err
	}
	c.UpdatedAt = r.now()
	if errors.Is(err, repositories.ErrNotFound) {
		return r.store.InsertCalendarDay(ctx, c)
	}
	c.ID = existing.ID
	return r.store.UpdateCalendarDay(ctx, c)
}

func (r *Reconciler) Event(ctx context.Context, e model.Event) (model.Event, error) {
	existing, err := r.store.FindEvent(ctx, e.Title, e.Date)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return model.Event{}, err
	}
	e.UpdatedAt = r.now()
	if errors.Is(err, repositories.ErrNotFound) {
		return r.store.InsertEvent(ctx, e)
	}
	e.ID = existing.ID
	return r.store.UpdateEvent(ctx, e)
}

func (r *Reconciler) Rashifal(ctx context.Context, rf model.Rashifal) (model.Rashifal, error) {
	existing, err := r.store.FindRashifal(ctx, rf.Sign, rf.Date)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return model.Rashifal{}, err
	}
	rf.UpdatedAt = r.now()
	if errors.Is(err, repositories.ErrNotFound) {
		return r.store.InsertRashifal(ctx, rf)
	}
	rf.ID = existing.ID
	return r.store.UpdateRashifal(ctx, rf)
}

func (r *Reconciler) MetalPrice(ctx context.Context, p model.MetalPrice) (model.MetalPrice, error) {
	existing, err := r.store.FindMetalPrice(ctx, p.MetalType, p.Hallmark, p.Date)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return model.MetalPrice{}, err
	}
	p.UpdatedAt = r.now()
	if errors.Is(err, repositories.ErrNotFound) {
		return r.store.InsertMetalPrice(ctx, p)
	}
	p.ID = existing.ID
	return r.store.UpdateMetalPrice(ctx, p)
}

func (r *Reconciler) ForexRate(ctx context.Context, fr model.ForexRate) (model.ForexRate, error) {
	existing, err := r.store.FindForexRate(ctx, fr.CurrencyCode, fr.Date)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return model.ForexRate{}, err
	}
	fr.UpdatedAt = r.now()
	if errors.Is(err, repositories.ErrNotFound) {
		return r.store.InsertForexRate(ctx, fr)
	}
	fr.ID = existing.ID
	return r.store.UpdateForexRate(ctx, fr)
}

func (r *Reconciler) VegetablePrice(ctx context.Context, p model.VegetablePrice) (model.VegetablePrice, error) {
	existing, err := r.store.FindVegetablePrice(ctx, p.Name, p.Date)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return model.VegetablePrice{}, err
	}
	p.UpdatedAt = r.now()
	if errors.Is(err, repositories.ErrNotFound) {
		return r.store.InsertVegetablePrice(ctx, p)
	}
	p.ID = existing.ID
	return r.store.UpdateVegetablePrice(ctx, p)
}
