package crawler

import "weiboscraper/pkg/models"

// ResultSet is the ordered, append-only accumulation of unique post
// records for one crawl, with a seen-bid set for O(1) membership checks.
// Records keep first-seen order and are never mutated after insertion.
type ResultSet struct {
	records []models.PostRecord
	seen    map[string]struct{}
}

// NewResultSet creates an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{
		seen: make(map[string]struct{}),
	}
}

// Contains reports whether a record with the given bid has been seen.
// Empty-string bids collide like any other value; the source system
// does not guard against this either.
func (r *ResultSet) Contains(bid string) bool {
	_, ok := r.seen[bid]
	return ok
}

// Append adds a record and marks its bid as seen.
func (r *ResultSet) Append(record models.PostRecord) {
	r.records = append(r.records, record)
	r.seen[record.Bid] = struct{}{}
}

// Records returns the accumulated records in first-seen order. The
// returned slice is a copy; mutating it leaves the set untouched.
func (r *ResultSet) Records() []models.PostRecord {
	records := make([]models.PostRecord, len(r.records))
	copy(records, r.records)
	return records
}

// Len returns the number of accumulated records.
func (r *ResultSet) Len() int {
	return len(r.records)
}

// Rows renders the set as a table in the fixed column order, one row
// per record, for the CSV writer and the analyzer.
func (r *ResultSet) Rows() [][]string {
	rows := make([][]string, 0, len(r.records))
	for _, record := range r.records {
		rows = append(rows, record.Row())
	}
	return rows
}
