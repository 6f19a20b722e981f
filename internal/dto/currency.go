package dto

import "github.com/SscSPs/stock_warehouse/internal/core/domain"

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
	CurrencyName string `json:"currencyName" binding:"required"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID     int64  `json:"currencyID"`
	CurrencyCode   string `json:"currencyCode"`
	CurrencyName   string `json:"currencyName"`
	IsBaseCurrency bool   `json:"isBaseCurrency"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID:     curr.CurrencyID,
		CurrencyCode:   curr.CurrencyCode,
		CurrencyName:   curr.CurrencyName,
		IsBaseCurrency: curr.IsBaseCurrency,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to response DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
