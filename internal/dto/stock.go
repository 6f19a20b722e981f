package dto

import "github.com/SscSPs/stock_warehouse/internal/core/domain"

// StockResponse defines the data returned for a stock dimension row.
type StockResponse struct {
	StockID     int64  `json:"stockID"`
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
}

// ToStockResponse converts a domain.Stock to StockResponse DTO
func ToStockResponse(stock *domain.Stock) StockResponse {
	return StockResponse{
		StockID:     stock.StockID,
		Ticker:      stock.Ticker,
		CompanyName: stock.CompanyName,
	}
}

// ToListStockResponse converts a slice of domain.Stock to response DTOs
func ToListStockResponse(stocks []domain.Stock) []StockResponse {
	res := make([]StockResponse, len(stocks))
	for i := range stocks {
		res[i] = ToStockResponse(&stocks[i])
	}
	return res
}
