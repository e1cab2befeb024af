package repositories

import (
	"context"
	"errors"

	"nepalidata-go/internal/model"
)

var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator. Find* methods look records up by
// natural-key equality and return ErrNotFound when nothing matches; Insert*
// and Update* persist whole records as given, including UpdatedAt (the
// reconciler owns that stamp, the store never sets it).
type Store interface {
	FindCalendarDay(ctx context.Context, year, month, day int) (model.CalendarDay, error)
	InsertCalendarDay(ctx context.Context, d model.CalendarDay) (model.CalendarDay, error)
	UpdateCalendarDay(ctx context.Context, d model.CalendarDay) (model.CalendarDay, error)
	ListCalendarDays(ctx context.Context, year, month int) ([]model.CalendarDay, error)

	FindEvent(ctx context.Context, title, date string) (model.Event, error)
	InsertEvent(ctx context.Context, e model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, e model.Event) (model.Event, error)
	// ListEvents returns a whole year when month is zero.
	ListEvents(ctx context.Context, year, month int) ([]model.Event, error)

	FindRashifal(ctx context.Context, sign, date string) (model.Rashifal, error)
	InsertRashifal(ctx context.Context, r model.Rashifal) (model.Rashifal, error)
	UpdateRashifal(ctx context.Context, r model.Rashifal) (model.Rashifal, error)
	// LatestRashifal picks the most recently written entry for a sign,
	// ordered by UpdatedAt rather than the published date.
	LatestRashifal(ctx context.Context, sign string) (model.Rashifal, error)

	FindMetalPrice(ctx context.Context, metalType string, hallmark *string, date string) (model.MetalPrice, error)
	InsertMetalPrice(ctx context.Context, p model.MetalPrice) (model.MetalPrice, error)
	UpdateMetalPrice(ctx context.Context, p model.MetalPrice) (model.MetalPrice, error)
	LatestMetalPrices(ctx context.Context) ([]model.MetalPrice, error)

	FindForexRate(ctx context.Context, code, date string) (model.ForexRate, error)
	InsertForexRate(ctx context.Context, r model.ForexRate) (model.ForexRate, error)
	UpdateForexRate(ctx context.Context, r model.ForexRate) (model.ForexRate, error)
	LatestForexRates(ctx context.Context) ([]model.ForexRate, error)

	FindVegetablePrice(ctx context.Context, name, date string) (model.VegetablePrice, error)
	InsertVegetablePrice(ctx context.Context, p model.VegetablePrice) (model.VegetablePrice, error)
	UpdateVegetablePrice(ctx context.Context, p model.VegetablePrice) (model.VegetablePrice, error)
	LatestVegetablePrices(ctx context.Context) ([]model.VegetablePrice, error)
}
