package model

import "time"

// MetalPrice is a daily gold/silver quote. MetalType, Hallmark (nullable)
// and Date form the natural key. Both unit prices are always populated: when
// the source quotes only one, the other is derived from the tola/gram ratio.
type MetalPrice struct {
	ID              int32
	MetalType       string
	Hallmark        *string
	PricePerTola    float64
	PricePer10Grams float64
	Date            string
	UpdatedAt       time.Time
}

// ForexRate is a daily exchange rate, normalized to a 1-unit basis.
// CurrencyCode plus Date form the natural key.
type ForexRate struct {
	ID           int32
	CurrencyCode string
	CurrencyName string
	BuyRate      float64
	SellRate     float64
	Date         string
	UpdatedAt    time.Time
}

// VegetablePrice is a daily market quote. Name plus Date form the natural
// key. Nil prices mean the market published no observation, which is not
// the same as zero.
type VegetablePrice struct {
	ID         int32
	Name       string
	NepaliName *string
	MinPrice   *float64
	MaxPrice   *float64
	AvgPrice   *float64
	Unit       string
	Date       string
	ImageURL   *string
	UpdatedAt  time.Time
}
