package model

import "time"

// CalendarDay is one day of the Bikram Sambat calendar. Year, Month and Day
// form the natural key; month lengths vary, so Day is validated against the
// scraped grid, not a fixed table.
type CalendarDay struct {
	ID            int32
	Year          int
	Month         int
	Day           int
	NepaliDate    string
	EnglishDate   string
	Weekday       string
	NepaliWeekday string
	IsHoliday     bool
	Event         string
	Tithi         string
	Panchang      string
	UpdatedAt     time.Time
}
