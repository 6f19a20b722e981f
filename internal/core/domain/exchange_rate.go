package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the daily FX fact for one directed currency pair. Rates are
// directional: a USD->EUR row says nothing about EUR->USD unless that row is
// loaded too. At most one row exists per (RateDate, FromCurrencyID, ToCurrencyID).
type ExchangeRate struct {
	RateID         int64           `json:"rateID"`
	RateDate       time.Time       `json:"rateDate"`
	FromCurrencyID int64           `json:"fromCurrencyID"` // FK -> Currency.CurrencyID
	ToCurrencyID   int64           `json:"toCurrencyID"`   // FK -> Currency.CurrencyID
	Rate           decimal.Decimal `json:"rate"`           // Always positive
}
