package dto

import (
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertedPriceResponse is one converted OHLC row. The converted fields are
// pointers: a missing same-day rate serializes them as JSON nulls while the
// raw OHLC stays populated.
type ConvertedPriceResponse struct {
	TradeDate      string           `json:"tradeDate"`
	Ticker         string           `json:"ticker"`
	BaseCurrency   string           `json:"baseCurrency"`
	TargetCurrency string           `json:"targetCurrency"`
	Open           decimal.Decimal  `json:"open"`
	High           decimal.Decimal  `json:"high"`
	Low            decimal.Decimal  `json:"low"`
	Close          decimal.Decimal  `json:"close"`
	Volume         int64            `json:"volume"`
	OpenConverted  *decimal.Decimal `json:"openConverted"`
	HighConverted  *decimal.Decimal `json:"highConverted"`
	LowConverted   *decimal.Decimal `json:"lowConverted"`
	CloseConverted *decimal.Decimal `json:"closeConverted"`
}

// ToConvertedPriceResponse converts a domain.ConvertedPrice to its response DTO.
func ToConvertedPriceResponse(cp *domain.ConvertedPrice) ConvertedPriceResponse {
	return ConvertedPriceResponse{
		TradeDate:      cp.TradeDate.Format("2006-01-02"),
		Ticker:         cp.Ticker,
		BaseCurrency:   cp.BaseCurrency,
		TargetCurrency: cp.TargetCurrency,
		Open:           cp.Open,
		High:           cp.High,
		Low:            cp.Low,
		Close:          cp.Close,
		Volume:         cp.Volume,
		OpenConverted:  nullableDecimal(cp.OpenConverted),
		HighConverted:  nullableDecimal(cp.HighConverted),
		LowConverted:   nullableDecimal(cp.LowConverted),
		CloseConverted: nullableDecimal(cp.CloseConverted),
	}
}

// ToListConvertedPriceResponse converts a slice of domain rows to DTOs.
func ToListConvertedPriceResponse(rows []domain.ConvertedPrice) []ConvertedPriceResponse {
	res := make([]ConvertedPriceResponse, len(rows))
	for i := range rows {
		res[i] = ToConvertedPriceResponse(&rows[i])
	}
	return res
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
