package model

import "time"

// Event is a festival or holiday entry. Title plus Date form the natural key.
type Event struct {
	ID              int32
	Title           string
	Description     string
	Date            string
	Year            int
	Month           int
	Day             int
	EventType       string
	IsPublicHoliday bool
	UpdatedAt       time.Time
}
