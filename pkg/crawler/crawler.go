package crawler

import (
	"context"
	"time"

	"weiboscraper/pkg/checkpoint"
	"weiboscraper/pkg/config"
	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/ratelimit"
	"weiboscraper/pkg/weibo"
)

// pageStatus is the explicit three-way outcome of one page fetch. It
// replaces exception control flow: transient failures skip the page,
// fatal ones end the crawl.
type pageStatus int

const (
	pageOK pageStatus = iota
	pageTransient
	pageFatal
)

// Stop reasons reported in Stats.
const (
	StopMaxPages        = "max_pages"
	StopEmptyPages      = "empty_pages"
	StopProviderFailure = "provider_failure"
	StopCancelled       = "cancelled"
)

// Stats summarizes one crawl run.
type Stats struct {
	Pages           int
	Cards           int
	NewPosts        int
	Duplicates      int
	TransientErrors int
	StopReason      string
}

// Crawler drives the paginated keyword search. Page fetches are
// strictly sequential; the only suspension points are the network call
// and the inter-page politeness delay.
type Crawler struct {
	client      *weibo.Client
	cfg         *config.Config
	limiter     ratelimit.Limiter
	parser      *Parser
	log         logger.Logger
	sleep       func(time.Duration)
	checkpoints *checkpoint.Manager
}

// New creates a crawler from the given configuration. The session
// cookie and user agent come from the config; nothing is hard-coded.
func New(cfg *config.Config, log logger.Logger) *Crawler {
	if log == nil {
		log = logger.GetLogger()
	}

	client := weibo.NewClient(
		cfg.Crawl.RequestTimeout,
		cfg.Weibo.UserAgent,
		cfg.Weibo.Cookie,
		cfg.Crawl.MaxRetries,
		log,
	)

	return &Crawler{
		client:  client,
		cfg:     cfg,
		limiter: ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute),
		parser:  NewParser(log),
		log:     log,
		sleep:   time.Sleep,
	}
}

// SetLimiter replaces the request rate limiter.
func (c *Crawler) SetLimiter(l ratelimit.Limiter) {
	c.limiter = l
}

// SetCheckpoints enables resumable crawls. An existing checkpoint for
// the keyword seeds the accumulator and the start page; the checkpoint
// is updated after every processed page and removed when the crawl
// runs to completion.
func (c *Crawler) SetCheckpoints(m *checkpoint.Manager) {
	c.checkpoints = m
}

// Run collects posts matching the keyword across up to MaxPages result
// pages. It never fails past this boundary: any degree of failure
// shows up as a smaller (possibly empty) result set. Records come back
// in first-seen order.
func (c *Crawler) Run(ctx context.Context, keyword string) (*ResultSet, Stats) {
	results := NewResultSet()
	stats := Stats{StopReason: StopMaxPages}

	startPage := 1
	consecutiveEmpty := 0

	var cp *checkpoint.Checkpoint
	if c.checkpoints != nil {
		loaded, err := c.checkpoints.Load()
		if err != nil {
			c.log.WithError(err).Warn("failed to load checkpoint, starting fresh")
		} else if loaded != nil && loaded.Keyword == keyword {
			for _, record := range loaded.Records {
				if !results.Contains(record.Bid) {
					results.Append(record)
				}
			}
			startPage = loaded.LastPage + 1
			consecutiveEmpty = loaded.ConsecutiveEmpty
			cp = loaded
			c.log.InfoWithFields("resuming crawl", map[string]interface{}{
				"keyword":    keyword,
				"start_page": startPage,
				"records":    results.Len(),
			})
		}
	}
	if cp == nil {
		cp = &checkpoint.Checkpoint{Keyword: keyword}
	}

	c.log.InfoWithFields("starting crawl", map[string]interface{}{
		"keyword":   keyword,
		"max_pages": c.cfg.Crawl.MaxPages,
	})

	completed := true

	for page := startPage; page <= c.cfg.Crawl.MaxPages; page++ {
		select {
		case <-ctx.Done():
			stats.StopReason = StopCancelled
			completed = false
			c.saveCheckpoint(cp, page-1, consecutiveEmpty, results)
			return results, stats
		default:
		}

		if !c.limiter.Allow() {
			logger.LogRateLimit("weibo_search", int(time.Minute.Seconds()))
			c.limiter.Wait()
		}

		cards, status, err := c.fetchPage(ctx, keyword, page)
		switch status {
		case pageFatal:
			// The provider signaled failure, not emptiness. Later
			// pages are assumed unproductive; keep what we have.
			c.log.WithError(err).WithField("page", page).Error("provider rejected page request, stopping crawl")
			stats.StopReason = StopProviderFailure
			completed = false
			c.saveCheckpoint(cp, page, consecutiveEmpty, results)
			return results, stats
		case pageTransient:
			// One-off glitch: skip this page number without touching
			// the consecutive-empty counter.
			c.log.WithError(err).WithField("page", page).Warn("transient page error, skipping")
			stats.TransientErrors++
			continue
		}

		stats.Pages++
		stats.Cards += len(cards)

		newPosts := 0
		for _, card := range cards {
			record, ok := c.parser.ParseCard(card)
			if !ok {
				continue
			}
			if results.Contains(record.Bid) {
				c.log.DebugWithFields("skipping duplicate post", map[string]interface{}{
					"bid": record.Bid,
				})
				stats.Duplicates++
				continue
			}
			results.Append(record)
			newPosts++
		}
		stats.NewPosts += newPosts

		logger.LogPageProgress(keyword, page, len(cards), newPosts, results.Len())

		if newPosts == 0 {
			consecutiveEmpty++
		} else {
			consecutiveEmpty = 0
		}
		// Saved after the counter update so a resumed crawl carries
		// the empty-page streak forward.
		c.saveCheckpoint(cp, page, consecutiveEmpty, results)

		if consecutiveEmpty >= c.cfg.Crawl.MaxEmptyPages {
			c.log.WithField("empty_pages", consecutiveEmpty).Info("no new posts on consecutive pages, stopping crawl")
			stats.StopReason = StopEmptyPages
			break
		}

		if page < c.cfg.Crawl.MaxPages {
			c.sleep(c.cfg.Crawl.PageDelay)
		}
	}

	if completed && c.checkpoints != nil {
		if err := c.checkpoints.Delete(); err != nil {
			c.log.WithError(err).Warn("failed to delete checkpoint")
		}
	}

	c.log.InfoWithFields("crawl finished", map[string]interface{}{
		"keyword":     keyword,
		"total_posts": results.Len(),
		"stop_reason": stats.StopReason,
	})

	return results, stats
}

// fetchPage issues one page request and classifies the outcome.
func (c *Crawler) fetchPage(ctx context.Context, keyword string, page int) ([]weibo.Card, pageStatus, error) {
	url := weibo.SearchURL(c.cfg.Weibo.BaseURL, keyword, page)

	var resp weibo.SearchResponse
	if err := c.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, pageTransient, err
	}

	if resp.Ok != 1 || resp.Data == nil {
		return nil, pageFatal, &weibo.Error{
			Type:    weibo.ErrorTypeServerError,
			Message: "provider returned not-ok response: " + resp.Msg,
		}
	}

	return resp.Data.Cards, pageOK, nil
}

func (c *Crawler) saveCheckpoint(cp *checkpoint.Checkpoint, page, consecutiveEmpty int, results *ResultSet) {
	if c.checkpoints == nil {
		return
	}
	cp.LastPage = page
	cp.ConsecutiveEmpty = consecutiveEmpty
	cp.Records = results.Records()
	if err := c.checkpoints.Save(cp); err != nil {
		c.log.WithError(err).Warn("failed to save checkpoint")
	}
}
