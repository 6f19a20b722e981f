package domain

import "time"

// OpenEndedValidTo is the sentinel far-future date marking the currently
// active version of a dimension's attribute set.
var OpenEndedValidTo = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// DimensionVersion is one SCD Type 2 version of a dimension's mutable
// attributes. Versions for a surrogate key form a gapless, non-overlapping
// sequence of [ValidFrom, ValidTo) intervals; exactly one interval contains
// any given date.
type DimensionVersion struct {
	VersionID   int64             `json:"versionID"`
	Dimension   string            `json:"dimension"`   // e.g., "stock", "campaign"
	SurrogateID int64             `json:"surrogateID"` // Surrogate key within that dimension
	Attributes  map[string]string `json:"attributes"`
	ValidFrom   time.Time         `json:"validFrom"` // Inclusive
	ValidTo     time.Time         `json:"validTo"`   // Exclusive; OpenEndedValidTo while active
}

// IsActive reports whether this is the open-ended current version.
func (v DimensionVersion) IsActive() bool {
	return v.ValidTo.Equal(OpenEndedValidTo)
}

// Contains reports whether the version's validity interval contains the
// given date.
func (v DimensionVersion) Contains(asOf time.Time) bool {
	return !asOf.Before(v.ValidFrom) && asOf.Before(v.ValidTo)
}
