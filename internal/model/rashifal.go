package model

import "time"

// Rashifal is a daily horoscope entry for one zodiac sign. Sign plus Date
// form the natural key; "latest" lookups order by UpdatedAt because sources
// sometimes publish today's entry under yesterday's date.
type Rashifal struct {
	ID                int32
	Sign              string
	Prediction        string
	Date              string
	PredictionEnglish *string
	LuckyNumber       *string
	LuckyColor        *string
	NepaliName        string
	EnglishName       string
	SignIndex         int
	UpdatedAt         time.Time
}
