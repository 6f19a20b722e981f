package domain

import "time"

// UpsertOutcome describes what a natural-key upsert did to the stored row.
type UpsertOutcome int

const (
	// UpsertInserted means the row did not exist and was created.
	UpsertInserted UpsertOutcome = iota
	// UpsertUpdated means the row existed with different values and was overwritten.
	UpsertUpdated
	// UpsertUnchanged means the row existed with identical values; storage was untouched.
	UpsertUnchanged
)

// RejectedRecord captures one source record that failed validation or
// integrity checks. The rest of the batch proceeds without it.
type RejectedRecord struct {
	Index  int    `json:"index"`  // Position within the source batch
	Key    string `json:"key"`    // Natural key of the offending record, best effort
	Reason string `json:"reason"` // Why the record was rejected
}

// LoadResult summarizes one batch load. A batch with rejects is a partial
// success, not a failure; only storage-level errors abort a load.
type LoadResult struct {
	Inserted  int              `json:"inserted"`
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Rejected  []RejectedRecord `json:"rejected"`
}

// Record folds one upsert outcome into the running totals.
func (r *LoadResult) Record(outcome UpsertOutcome) {
	switch outcome {
	case UpsertInserted:
		r.Inserted++
	case UpsertUpdated:
		r.Updated++
	case UpsertUnchanged:
		r.Unchanged++
	}
}

// Reject records a per-record failure without aborting the batch.
func (r *LoadResult) Reject(index int, key, reason string) {
	r.Rejected = append(r.Rejected, RejectedRecord{Index: index, Key: key, Reason: reason})
}

// IngestionSummary reports one full source-day run: what the providers
// returned and what the loader did with it.
type IngestionSummary struct {
	Day    time.Time  `json:"day"`
	Prices LoadResult `json:"prices"`
	Rates  LoadResult `json:"rates"`
}
