package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceWithRate is one row of the price/rate point-in-time join: a stored
// OHLCV fact plus the same-day base->target rate, if one exists. It is the
// raw material the conversion engine multiplies out.
type PriceWithRate struct {
	Ticker    string
	TradeDate time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
	Rate      decimal.NullDecimal // Invalid when no rate fact exists for the day
}

// ConvertedPrice is a derived row, never persisted: one price fact expressed
// in a target currency. When no rate exists for the trade date the converted
// fields are invalid NullDecimals and the raw OHLC is still carried, so a
// missing rate never drops or fails the row.
type ConvertedPrice struct {
	TradeDate      time.Time           `json:"tradeDate"`
	Ticker         string              `json:"ticker"`
	BaseCurrency   string              `json:"baseCurrency"`
	TargetCurrency string              `json:"targetCurrency"`
	Open           decimal.Decimal     `json:"open"`
	High           decimal.Decimal     `json:"high"`
	Low            decimal.Decimal     `json:"low"`
	Close          decimal.Decimal     `json:"close"`
	Volume         int64               `json:"volume"`
	OpenConverted  decimal.NullDecimal `json:"openConverted"`
	HighConverted  decimal.NullDecimal `json:"highConverted"`
	LowConverted   decimal.NullDecimal `json:"lowConverted"`
	CloseConverted decimal.NullDecimal `json:"closeConverted"`
}
