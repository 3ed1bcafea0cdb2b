// Package crawler implements the data-acquisition core: the paginated
// keyword fetch loop, the response-card parser, and the deduplicating
// result accumulator.
//
// The loop is strictly sequential. Each page yields cards, each card
// yields zero or one normalized post record, and records deduplicate by
// bid against everything accumulated so far. Three consecutive pages
// without a new post end the crawl early; an explicit provider failure
// ends it immediately with whatever was collected. A single malformed
// card never costs more than itself.
package crawler
