package domain

// Stock is the dimension row for a listed security. The surrogate StockID is
// generated by the store; Ticker is the unique natural key and is never
// reassigned once created.
type Stock struct {
	StockID     int64  `json:"stockID"`
	Ticker      string `json:"ticker"`      // Natural key (e.g., "AAPL")
	CompanyName string `json:"companyName"` // e.g., "Apple Inc."
}
