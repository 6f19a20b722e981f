package dto

import (
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceRecord is one incoming daily OHLCV record as delivered by a price
// provider or a load request. Dates travel as "2006-01-02" strings; the
// loader parses and rejects malformed ones per record.
type PriceRecord struct {
	Ticker      string          `json:"ticker" binding:"required"`
	CompanyName string          `json:"companyName"`
	TradeDate   string          `json:"tradeDate" binding:"required"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      int64           `json:"volume"`
}

// RateRecord is one incoming daily exchange rate record.
type RateRecord struct {
	RateDate     string          `json:"rateDate" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required"`
	ToCurrency   string          `json:"toCurrency" binding:"required"`
	Rate         decimal.Decimal `json:"rate"`
}

// LoadPricesRequest wraps a price batch for the load endpoint.
type LoadPricesRequest struct {
	Records []PriceRecord `json:"records" binding:"required,min=1,dive"`
}

// LoadRatesRequest wraps a rate batch for the load endpoint.
type LoadRatesRequest struct {
	Records []RateRecord `json:"records" binding:"required,min=1,dive"`
}

// RejectedRecordResponse mirrors domain.RejectedRecord on the wire.
type RejectedRecordResponse struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// LoadResultResponse reports what a batch load did.
type LoadResultResponse struct {
	Inserted  int                      `json:"inserted"`
	Updated   int                      `json:"updated"`
	Unchanged int                      `json:"unchanged"`
	Rejected  []RejectedRecordResponse `json:"rejected"`
}

// ToLoadResultResponse converts a domain.LoadResult to its response DTO.
func ToLoadResultResponse(result domain.LoadResult) LoadResultResponse {
	rejected := make([]RejectedRecordResponse, len(result.Rejected))
	for i, rej := range result.Rejected {
		rejected[i] = RejectedRecordResponse{Index: rej.Index, Key: rej.Key, Reason: rej.Reason}
	}
	return LoadResultResponse{
		Inserted:  result.Inserted,
		Updated:   result.Updated,
		Unchanged: result.Unchanged,
		Rejected:  rejected,
	}
}

// IngestionSummaryResponse reports one source-day ingestion run.
type IngestionSummaryResponse struct {
	Day    string             `json:"day"`
	Prices LoadResultResponse `json:"prices"`
	Rates  LoadResultResponse `json:"rates"`
}

// ToIngestionSummaryResponse converts a domain.IngestionSummary to its response DTO.
func ToIngestionSummaryResponse(summary *domain.IngestionSummary) IngestionSummaryResponse {
	return IngestionSummaryResponse{
		Day:    summary.Day.Format("2006-01-02"),
		Prices: ToLoadResultResponse(summary.Prices),
		Rates:  ToLoadResultResponse(summary.Rates),
	}
}
