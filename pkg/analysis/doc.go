// Package analysis computes a descriptive analysis over a table of
// post records: influence ranking (weighted normalized interactions),
// topic classification by keyword matching, keyword frequency over
// segmented text, and an HTML chart report.
package analysis
