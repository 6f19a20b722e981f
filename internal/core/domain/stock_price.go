package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPrice is the daily OHLCV fact for one stock. At most one row exists
// per (StockID, TradeDate); reloading the same source day upserts in place.
type StockPrice struct {
	PriceID   int64           `json:"priceID"`
	StockID   int64           `json:"stockID"` // FK -> Stock.StockID
	TradeDate time.Time       `json:"tradeDate"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}
