// Package postgres implements the Store interface over a pgx connection
// pool. Queries run on short-lived pooled connections, one statement at a
// time; the pool owns retry and wait behavior.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/repositories"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repositories.ErrNotFound
	}
	return err
}

const calendarDayColumns = `id, year, month, day, nepali_date, english_date, weekday,
	nepali_weekday, is_holiday, event, tithi, panchang, updated_at`

func scanCalendarDay(row pgx.Row) (model.CalendarDay, error) {
	var d model.CalendarDay
	err := row.Scan(&d.ID, &d.Year, &d.Month, &d.Day, &d.NepaliDate, &d.EnglishDate,
		&d.Weekday, &d.NepaliWeekday, &d.IsHoliday, &d.Event, &d.Tithi, &d.Panchang, &d.UpdatedAt)
	return d, err
}

func (s *Store) FindCalendarDay(ctx context.Context, year, month, day int) (model.CalendarDay, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+calendarDayColumns+` FROM calendar_days WHERE year = $1 AND month = $2 AND day = $3`,
		year, month, day)
	d, err := scanCalendarDay(row)
	return d, notFound(err)
}

func (s *Store) InsertCalendarDay(ctx context.Context, d model.CalendarDay) (model.CalendarDay, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO calendar_days (year, month, day, nepali_date, english_date, weekday,
			nepali_weekday, is_holiday, event, tithi, panchang, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+calendarDayColumns,
		d.Year, d.Month, d.Day, d.NepaliDate, d.EnglishDate, d.Weekday,
		d.NepaliWeekday, d.IsHoliday, d.Event, d.Tithi, d.Panchang, d.UpdatedAt)
	return scanCalendarDay(row)
}

func (s *Store) UpdateCalendarDay(ctx context.Context, d model.CalendarDay) (model.CalendarDay, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE calendar_days SET nepali_date = $2, english_date = $3, weekday = $4,
			nepali_weekday = $5, is_holiday = $6, event = $7, tithi = $8, panchang = $9,
			year = $10, month = $11, day = $12, updated_at = $13
		 WHERE id = $1
		 RETURNING `+calendarDayColumns,
		d.ID, d.NepaliDate, d.EnglishDate, d.Weekday, d.NepaliWeekday, d.IsHoliday,
		d.Event, d.Tithi, d.Panchang, d.Year, d.Month, d.Day, d.UpdatedAt)
	return scanCalendarDay(row)
}

func (s *Store) ListCalendarDays(ctx context.Context, year, month int) ([]model.CalendarDay, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+calendarDayColumns+` FROM calendar_days
		 WHERE year = $1 AND month = $2 ORDER BY day`,
		year, month)
	if err != nil {
		return nil, fmt.Errorf("list calendar days: %w", err)
	}
	defer rows.Close()
	var out []model.CalendarDay
	for rows.Next() {
		d, err := scanCalendarDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const eventColumns = `id, title, description, date, year, month, day, event_type,
	is_public_holiday, updated_at`

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Year, &e.Month,
		&e.Day, &e.EventType, &e.IsPublicHoliday, &e.UpdatedAt)
	return e, err
}

func (s *Store) FindEvent(ctx context.Context, title, date string) (model.Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE title = $1 AND date = $2`, title, date)
	e, err := scanEvent(row)
	return e, notFound(err)
}

func (s *Store) InsertEvent(ctx context.Context, e model.Event) (model.Event, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO events (title, description, date, year, month, day, event_type,
			is_public_holiday, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+eventColumns,
		e.Title, e.Description, e.Date, e.Year, e.Month, e.Day, e.EventType,
		e.IsPublicHoliday, e.UpdatedAt)
	return scanEvent(row)
}

func (s *Store) UpdateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE events SET description = $2, year = $3, month = $4, day = $5,
			event_type = $6, is_public_holiday = $7, updated_at = $8
		 WHERE id = $1
		 RETURNING `+eventColumns,
		e.ID, e.Description, e.Year, e.Month, e.Day, e.EventType, e.IsPublicHoliday, e.UpdatedAt)
	return scanEvent(row)
}

func (s *Store) ListEvents(ctx context.Context, year, month int) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE year = $1 ORDER BY month, day`
	args := []any{year}
	if month > 0 {
		query = `SELECT ` + eventColumns + ` FROM events WHERE year = $1 AND month = $2 ORDER BY day`
		args = append(args, month)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const rashifalColumns = `id, sign, prediction, date, prediction_english, lucky_number,
	lucky_color, nepali_name, english_name, sign_index, updated_at`

func scanRashifal(row pgx.Row) (model.Rashifal, error) {
	var r model.Rashifal
	err := row.Scan(&r.ID, &r.Sign, &r.Prediction, &r.Date, &r.PredictionEnglish,
		&r.LuckyNumber, &r.LuckyColor, &r.NepaliName, &r.EnglishName, &r.SignIndex, &r.UpdatedAt)
	return r, err
}

func (s *Store) FindRashifal(ctx context.Context, sign, date string) (model.Rashifal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+rashifalColumns+` FROM rashifals WHERE sign = $1 AND date = $2`, sign, date)
	r, err := scanRashifal(row)
	return r, notFound(err)
}

func (s *Store) InsertRashifal(ctx context.Context, r model.Rashifal) (model.Rashifal, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO rashifals (sign, prediction, date, prediction_english, lucky_number,
			lucky_color, nepali_name, english_name, sign_index, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+rashifalColumns,
		r.Sign, r.Prediction, r.Date, r.PredictionEnglish, r.LuckyNumber,
		r.LuckyColor, r.NepaliName, r.EnglishName, r.SignIndex, r.UpdatedAt)
	return scanRashifal(row)
}

func (s *Store) UpdateRashifal(ctx context.Context, r model.Rashifal) (model.Rashifal, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE rashifals SET prediction = $2, prediction_english = $3, lucky_number = $4,
			lucky_color = $5, nepali_name = $6, english_name = $7, sign_index = $8, updated_at = $9
		 WHERE id = $1
		 RETURNING `+rashifalColumns,
		r.ID, r.Prediction, r.PredictionEnglish, r.LuckyNumber, r.LuckyColor,
		r.NepaliName, r.EnglishName, r.SignIndex, r.UpdatedAt)
	return scanRashifal(row)
}

func (s *Store) LatestRashifal(ctx context.Context, sign string) (model.Rashifal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+rashifalColumns+` FROM rashifals WHERE sign = $1
		 ORDER BY updated_at DESC LIMIT 1`, sign)
	r, err := scanRashifal(row)
	return r, notFound(err)
}

const metalPriceColumns = `id, metal_type, hallmark, price_per_tola, price_per_10_grams,
	date, updated_at`

func scanMetalPrice(row pgx.Row) (model.MetalPrice, error) {
	var p model.MetalPrice
	err := row.Scan(&p.ID, &p.MetalType, &p.Hallmark, &p.PricePerTola,
		&p.PricePer10Grams, &p.Date, &p.UpdatedAt)
	return p, err
}

func (s *Store) FindMetalPrice(ctx context.Context, metalType string, hallmark *string, date string) (model.MetalPrice, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+metalPriceColumns+` FROM metal_prices
		 WHERE metal_type = $1 AND hallmark IS NOT DISTINCT FROM $2 AND date = $3`,
		metalType, hallmark, date)
	p, err := scanMetalPrice(row)
	return p, notFound(err)
}

func (s *Store) InsertMetalPrice(ctx context.Context, p model.MetalPrice) (model.MetalPrice, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO metal_prices (metal_type, hallmark, price_per_tola, price_per_10_grams,
			date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+metalPriceColumns,
		p.MetalType, p.Hallmark, p.PricePerTola, p.PricePer10Grams, p.Date, p.UpdatedAt)
	return scanMetalPrice(row)
}

func (s *Store) UpdateMetalPrice(ctx context.Context, p model.MetalPrice) (model.MetalPrice, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE metal_prices SET price_per_tola = $2, price_per_10_grams = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING `+metalPriceColumns,
		p.ID, p.PricePerTola, p.PricePer10Grams, p.UpdatedAt)
	return scanMetalPrice(row)
}

func (s *Store) LatestMetalPrices(ctx context.Context) ([]model.MetalPrice, error) {
	return listLatestByDate(ctx, s.pool,
		`SELECT `+metalPriceColumns+` FROM metal_prices WHERE date =
			(SELECT date FROM metal_prices ORDER BY updated_at DESC LIMIT 1)`,
		scanMetalPrice)
}

const forexRateColumns = `id, currency_code, currency_name, buy_rate, sell_rate, date, updated_at`

func scanForexRate(row pgx.Row) (model.ForexRate, error) {
	var r model.ForexRate
	err := row.Scan(&r.ID, &r.CurrencyCode, &r.CurrencyName, &r.BuyRate,
		&r.SellRate, &r.Date, &r.UpdatedAt)
	return r, err
}

func (s *Store) FindForexRate(ctx context.Context, code, date string) (model.ForexRate, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+forexRateColumns+` FROM forex_rates WHERE currency_code = $1 AND date = $2`,
		code, date)
	r, err := scanForexRate(row)
	return r, notFound(err)
}

func (s *Store) InsertForexRate(ctx context.Context, r model.ForexRate) (model.ForexRate, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO forex_rates (currency_code, currency_name, buy_rate, sell_rate, date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+forexRateColumns,
		r.CurrencyCode, r.CurrencyName, r.BuyRate, r.SellRate, r.Date, r.UpdatedAt)
	return scanForexRate(row)
}

func (s *Store) UpdateForexRate(ctx context.Context, r model.ForexRate) (model.ForexRate, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE forex_rates SET currency_name = $2, buy_rate = $3, sell_rate = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING `+forexRateColumns,
		r.ID, r.CurrencyName, r.BuyRate, r.SellRate, r.UpdatedAt)
	return scanForexRate(row)
}

func (s *Store) LatestForexRates(ctx context.Context) ([]model.ForexRate, error) {
	return listLatestByDate(ctx, s.pool,
		`SELECT `+forexRateColumns+` FROM forex_rates WHERE date =
			(SELECT date FROM forex_rates ORDER BY updated_at DESC LIMIT 1)
		 ORDER BY currency_code`,
		scanForexRate)
}

const vegetablePriceColumns = `id, name, nepali_name, min_price, max_price, avg_price,
	unit, date, image_url, updated_at`

func scanVegetablePrice(row pgx.Row) (model.VegetablePrice, error) {
	var p model.VegetablePrice
	err := row.Scan(&p.ID, &p.Name, &p.NepaliName, &p.MinPrice, &p.MaxPrice,
		&p.AvgPrice, &p.Unit, &p.Date, &p.ImageURL, &p.UpdatedAt)
	return p, err
}

func (s *Store) FindVegetablePrice(ctx context.Context, name, date string) (model.VegetablePrice, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+vegetablePriceColumns+` FROM vegetable_prices WHERE name = $1 AND date = $2`,
		name, date)
	p, err := scanVegetablePrice(row)
	return p, notFound(err)
}

func (s *Store) InsertVegetablePrice(ctx context.Context, p model.VegetablePrice) (model.VegetablePrice, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO vegetable_prices (name, nepali_name, min_price, max_price, avg_price,
			unit, date, image_url, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+vegetablePriceColumns,
		p.Name, p.NepaliName, p.MinPrice, p.MaxPrice, p.AvgPrice, p.Unit, p.Date,
		p.ImageURL, p.UpdatedAt)
	return scanVegetablePrice(row)
}

func (s *Store) UpdateVegetablePrice(ctx context.Context, p model.VegetablePrice) (model.VegetablePrice, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE vegetable_prices SET nepali_name = $2, min_price = $3, max_price = $4,
			avg_price = $5, unit = $6, image_url = $7, updated_at = $8
		 WHERE id = $1
		 RETURNING `+vegetablePriceColumns,
		p.ID, p.NepaliName, p.MinPrice, p.MaxPrice, p.AvgPrice, p.Unit, p.ImageURL, p.UpdatedAt)
	return scanVegetablePrice(row)
}

func (s *Store) LatestVegetablePrices(ctx context.Context) ([]model.VegetablePrice, error) {
	return listLatestByDate(ctx, s.pool,
		`SELECT `+vegetablePriceColumns+` FROM vegetable_prices WHERE date =
			(SELECT date FROM vegetable_prices ORDER BY updated_at DESC LIMIT 1)
		 ORDER BY name`,
		scanVegetablePrice)
}

func listLatestByDate[T any](ctx context.Context, pool *pgxpool.Pool, query string, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("latest query: %w", err)
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
