package domain

// Currency is the dimension row for a currency. Exactly one row carries
// IsBaseCurrency at any point in time; raw stock prices are denominated in
// that currency.
type Currency struct {
	CurrencyID     int64  `json:"currencyID"`
	CurrencyCode   string `json:"currencyCode"` // Natural key, ISO 4217 (e.g., "USD")
	CurrencyName   string `json:"currencyName"` // e.g., "US Dollar"
	IsBaseCurrency bool   `json:"isBaseCurrency"`
}
