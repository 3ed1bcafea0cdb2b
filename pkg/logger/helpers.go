package logger

import "github.com/rs/zerolog"

// LogPageProgress logs per-page crawl progress.
func LogPageProgress(keyword string, page, cards, newPosts, total int) {
	GetLogger().InfoWithFields("page processed", map[string]interface{}{
		"keyword":   keyword,
		"page":      page,
		"cards":     cards,
		"new_posts": newPosts,
		"total":     total,
	})
}

// LogRateLimit logs rate limiting events.
func LogRateLimit(endpoint string, waitSeconds int) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint":     endpoint,
		"wait_seconds": waitSeconds,
	}).Warn("rate limit reached, backing off")
}

// NewNopLogger creates a no-operation logger for testing.
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
