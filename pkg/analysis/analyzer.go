package analysis

import (
	"sort"

	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/models"
)

// Influence score weights over comments, reposts and attitudes, each
// normalized by that column's maximum value in the table.
const (
	commentsWeight  = 0.40
	repostsWeight   = 0.35
	attitudesWeight = 0.25
)

// Options configures an Analyzer.
type Options struct {
	StopwordsFile  string
	ExtraStopwords []string
	// Topics maps a topic name to its trigger keywords. Empty means
	// the built-in dictionary.
	Topics map[string][]string
	Logger logger.Logger
}

// ScoredPost is a post together with its influence score.
type ScoredPost struct {
	Record models.PostRecord
	Score  float64
}

// Summary holds descriptive statistics over the table.
type Summary struct {
	Total        int
	Originals    int
	Retweets     int
	Earliest     string
	Latest       string
	AvgReposts   float64
	AvgComments  float64
	AvgAttitudes float64
}

// Analyzer computes descriptive statistics over a table of post
// records: influence ranking, topic distribution, keyword frequency.
type Analyzer struct {
	records   []models.PostRecord
	scores    []float64
	stopwords map[string]struct{}
	topics    map[string][]string
	log       logger.Logger
}

// New creates an analyzer over the given records and computes the
// influence score of every post up front.
func New(records []models.PostRecord, opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	stopwords := LoadStopwords(opts.StopwordsFile, log)
	for _, w := range opts.ExtraStopwords {
		stopwords[w] = struct{}{}
	}

	topics := opts.Topics
	if len(topics) == 0 {
		topics = DefaultTopics()
	}

	a := &Analyzer{
		records:   records,
		stopwords: stopwords,
		topics:    topics,
		log:       log,
	}
	a.scores = a.influenceScores()
	return a
}

// influenceScores computes the weighted normalized combination for
// every record. A column whose maximum is zero contributes zero.
func (a *Analyzer) influenceScores() []float64 {
	var maxComments, maxReposts, maxAttitudes float64
	for _, r := range a.records {
		maxComments = max(maxComments, float64(r.CommentsCount))
		maxReposts = max(maxReposts, float64(r.RepostsCount))
		maxAttitudes = max(maxAttitudes, float64(r.AttitudesCount))
	}

	norm := func(v, maxValue float64) float64 {
		if maxValue == 0 {
			return 0
		}
		return v / maxValue
	}

	scores := make([]float64, len(a.records))
	for i, r := range a.records {
		scores[i] = norm(float64(r.CommentsCount), maxComments)*commentsWeight +
			norm(float64(r.RepostsCount), maxReposts)*repostsWeight +
			norm(float64(r.AttitudesCount), maxAttitudes)*attitudesWeight
	}
	return scores
}

// TopPosts returns the n most influential posts, highest score first.
// Ties keep table order.
func (a *Analyzer) TopPosts(n int) []ScoredPost {
	scored := make([]ScoredPost, len(a.records))
	for i, r := range a.records {
		scored[i] = ScoredPost{Record: r, Score: a.scores[i]}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if n > 0 && n < len(scored) {
		scored = scored[:n]
	}
	return scored
}

// Summary computes the descriptive statistics printed after a crawl.
func (a *Analyzer) Summary() Summary {
	s := Summary{Total: len(a.records)}
	if s.Total == 0 {
		return s
	}

	var reposts, comments, attitudes int
	for _, r := range a.records {
		if r.IsRetweet {
			s.Retweets++
		} else {
			s.Originals++
		}
		reposts += r.RepostsCount
		comments += r.CommentsCount
		attitudes += r.AttitudesCount

		if s.Earliest == "" || r.CreatedAt < s.Earliest {
			s.Earliest = r.CreatedAt
		}
		if r.CreatedAt > s.Latest {
			s.Latest = r.CreatedAt
		}
	}

	total := float64(s.Total)
	s.AvgReposts = float64(reposts) / total
	s.AvgComments = float64(comments) / total
	s.AvgAttitudes = float64(attitudes) / total
	return s
}

// Records returns the underlying table.
func (a *Analyzer) Records() []models.PostRecord {
	return a.records
}
