package dto

import "github.com/SscSPs/stock_warehouse/internal/core/domain"

// RecordVersionRequest applies one attribute change to a versioned dimension.
type RecordVersionRequest struct {
	Attributes    map[string]string `json:"attributes" binding:"required,min=1"`
	EffectiveDate string            `json:"effectiveDate" binding:"required"`
}

// VersionResponse defines the data returned for one dimension version.
type VersionResponse struct {
	VersionID   int64             `json:"versionID"`
	Dimension   string            `json:"dimension"`
	SurrogateID int64             `json:"surrogateID"`
	Attributes  map[string]string `json:"attributes"`
	ValidFrom   string            `json:"validFrom"`
	ValidTo     string            `json:"validTo"`
	Active      bool              `json:"active"`
}

// ToVersionResponse converts a domain.DimensionVersion to its response DTO.
func ToVersionResponse(v *domain.DimensionVersion) VersionResponse {
	return VersionResponse{
		VersionID:   v.VersionID,
		Dimension:   v.Dimension,
		SurrogateID: v.SurrogateID,
		Attributes:  v.Attributes,
		ValidFrom:   v.ValidFrom.Format("2006-01-02"),
		ValidTo:     v.ValidTo.Format("2006-01-02"),
		Active:      v.IsActive(),
	}
}

// ToListVersionResponse converts a version history to response DTOs.
func ToListVersionResponse(versions []domain.DimensionVersion) []VersionResponse {
	res := make([]VersionResponse, len(versions))
	for i := range versions {
		res[i] = ToVersionResponse(&versions[i])
	}
	return res
}
