package crawler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weiboscraper/pkg/checkpoint"
	"weiboscraper/pkg/config"
	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/models"
	"weiboscraper/pkg/ratelimit"
	"weiboscraper/pkg/weibo"
)

func testConfig(baseURL string, maxPages int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Weibo.BaseURL = baseURL
	cfg.Crawl.MaxPages = maxPages
	cfg.Crawl.MaxRetries = 0
	cfg.Crawl.PageDelay = 0
	cfg.Crawl.RequestTimeout = 5 * time.Second
	return cfg
}

func newTestCrawler(cfg *config.Config) *Crawler {
	c := New(cfg, logger.NewNopLogger())
	c.SetLimiter(ratelimit.Unlimited{})
	c.sleep = func(time.Duration) {}
	return c
}

func pageBody(t *testing.T, bids ...string) []byte {
	t.Helper()
	cards := make([]weibo.Card, 0, len(bids))
	for _, bid := range bids {
		cards = append(cards, weibo.Card{
			CardType: weibo.CardTypeDirect,
			Mblog: &weibo.Mblog{
				Bid:       bid,
				Text:      "post " + bid,
				CreatedAt: "2024-03-01 09:30:00",
			},
		})
	}
	body, err := json.Marshal(weibo.SearchResponse{Ok: 1, Data: &weibo.SearchData{Cards: cards}})
	require.NoError(t, err)
	return body
}

// pageServer serves a canned body per page number and records which
// pages were requested.
type pageServer struct {
	mu     sync.Mutex
	pages  map[string][]byte
	status map[string]int
	asked  []string
}

func newPageServer() *pageServer {
	return &pageServer{
		pages:  make(map[string][]byte),
		status: make(map[string]int),
	}
}

func (s *pageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")

	s.mu.Lock()
	s.asked = append(s.asked, page)
	body, ok := s.pages[page]
	status := s.status[page]
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		w.Write([]byte(`{"ok": 0, "msg": "这里还没有内容"}`))
		return
	}
	w.Write(body)
}

func (s *pageServer) requestedPages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

func TestRunDeduplicatesAcrossPages(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA", "BBB")
	ps.pages["2"] = pageBody(t, "BBB", "CCC")
	server := httptest.NewServer(ps)
	defer server.Close()

	c := newTestCrawler(testConfig(server.URL, 2))
	results, stats := c.Run(context.Background(), "疫苗")

	require.Equal(t, 3, results.Len())
	records := results.Records()
	assert.Equal(t, "AAA", records[0].Bid)
	assert.Equal(t, "BBB", records[1].Bid)
	assert.Equal(t, "CCC", records[2].Bid)

	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 4, stats.Cards)
	assert.Equal(t, 3, stats.NewPosts)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, StopMaxPages, stats.StopReason)
}

func TestRunStopsAfterConsecutiveEmptyPages(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA")
	// Pages 2-4 keep returning the same post; nothing new three times
	// in a row ends the crawl well before the page limit.
	ps.pages["2"] = pageBody(t, "AAA")
	ps.pages["3"] = pageBody(t, "AAA")
	ps.pages["4"] = pageBody(t, "AAA")
	ps.pages["5"] = pageBody(t, "ZZZ")
	server := httptest.NewServer(ps)
	defer server.Close()

	c := newTestCrawler(testConfig(server.URL, 50))
	results, stats := c.Run(context.Background(), "疫苗")

	assert.Equal(t, 1, results.Len())
	assert.Equal(t, StopEmptyPages, stats.StopReason)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ps.requestedPages())
}

func TestRunEmptyCounterResetsOnNewPost(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA")
	ps.pages["2"] = pageBody(t, "AAA")
	ps.pages["3"] = pageBody(t, "AAA")
	ps.pages["4"] = pageBody(t, "BBB")
	ps.pages["5"] = pageBody(t, "BBB")
	ps.pages["6"] = pageBody(t, "BBB")
	ps.pages["7"] = pageBody(t, "BBB")
	server := httptest.NewServer(ps)
	defer server.Close()

	c := newTestCrawler(testConfig(server.URL, 50))
	results, stats := c.Run(context.Background(), "疫苗")

	assert.Equal(t, 2, results.Len())
	assert.Equal(t, StopEmptyPages, stats.StopReason)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, ps.requestedPages())
}

func TestRunStopsOnProviderFailure(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA", "BBB")
	// Page 2 falls through to the not-ok body.
	server := httptest.NewServer(ps)
	defer server.Close()

	c := newTestCrawler(testConfig(server.URL, 10))
	results, stats := c.Run(context.Background(), "疫苗")

	assert.Equal(t, 2, results.Len())
	assert.Equal(t, StopProviderFailure, stats.StopReason)
	assert.Equal(t, 1, stats.Pages)
}

func TestRunSkipsTransientErrors(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA")
	ps.status["2"] = http.StatusInternalServerError
	ps.pages["3"] = pageBody(t, "BBB")
	ps.pages["4"] = pageBody(t, "BBB")
	ps.pages["5"] = pageBody(t, "BBB")
	ps.pages["6"] = pageBody(t, "BBB")
	server := httptest.NewServer(ps)
	defer server.Close()

	c := newTestCrawler(testConfig(server.URL, 50))
	results, stats := c.Run(context.Background(), "疫苗")

	assert.Equal(t, 2, results.Len())
	assert.Equal(t, 1, stats.TransientErrors)
	assert.Equal(t, StopEmptyPages, stats.StopReason)
}

func TestRunCancelledContext(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA")
	server := httptest.NewServer(ps)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCrawler(testConfig(server.URL, 10))
	results, stats := c.Run(ctx, "疫苗")

	assert.Equal(t, 0, results.Len())
	assert.Equal(t, StopCancelled, stats.StopReason)
	assert.Empty(t, ps.requestedPages())
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	ps := newPageServer()
	ps.pages["3"] = pageBody(t, "CCC")
	ps.pages["4"] = pageBody(t, "CCC")
	ps.pages["5"] = pageBody(t, "CCC")
	ps.pages["6"] = pageBody(t, "CCC")
	server := httptest.NewServer(ps)
	defer server.Close()

	mgr, err := checkpoint.NewManagerInDir(t.TempDir(), "疫苗")
	require.NoError(t, err)
	require.NoError(t, mgr.Save(&checkpoint.Checkpoint{
		Keyword:  "疫苗",
		LastPage: 2,
		Records: []models.PostRecord{
			{Bid: "AAA"},
			{Bid: "BBB"},
		},
	}))

	c := newTestCrawler(testConfig(server.URL, 50))
	c.SetCheckpoints(mgr)
	results, stats := c.Run(context.Background(), "疫苗")

	assert.Equal(t, 3, results.Len())
	assert.Equal(t, 1, stats.NewPosts)
	assert.Equal(t, "3", ps.requestedPages()[0])
	assert.False(t, mgr.Exists(), "checkpoint should be removed after a completed crawl")
}

func TestRunCheckpointCarriesEmptyStreak(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA")
	ps.pages["2"] = pageBody(t, "AAA")
	ps.pages["3"] = pageBody(t, "BBB")

	mgr, err := checkpoint.NewManagerInDir(t.TempDir(), "疫苗")
	require.NoError(t, err)

	// Snapshot the on-disk streak as page 3 is requested, i.e. what a
	// resume would see after a kill right behind the empty page 2.
	streak := make(chan int, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "3" {
			if cp, err := mgr.Load(); err == nil && cp != nil {
				streak <- cp.ConsecutiveEmpty
			}
		}
		ps.ServeHTTP(w, r)
	}))
	defer server.Close()

	c := newTestCrawler(testConfig(server.URL, 3))
	c.SetCheckpoints(mgr)
	c.Run(context.Background(), "疫苗")

	select {
	case got := <-streak:
		assert.Equal(t, 1, got)
	default:
		t.Fatal("no checkpoint on disk before page 3")
	}
}

func TestRunSavesCheckpointOnProviderFailure(t *testing.T) {
	ps := newPageServer()
	ps.pages["1"] = pageBody(t, "AAA")
	server := httptest.NewServer(ps)
	defer server.Close()

	mgr, err := checkpoint.NewManagerInDir(t.TempDir(), "疫苗")
	require.NoError(t, err)

	c := newTestCrawler(testConfig(server.URL, 10))
	c.SetCheckpoints(mgr)
	results, stats := c.Run(context.Background(), "疫苗")

	assert.Equal(t, 1, results.Len())
	assert.Equal(t, StopProviderFailure, stats.StopReason)

	require.True(t, mgr.Exists())
	cp, err := mgr.Load()
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, "疫苗", cp.Keyword)
	assert.Len(t, cp.Records, 1)
}
