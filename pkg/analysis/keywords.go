package analysis

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-ego/gse"

	"weiboscraper/pkg/logger"
)

// builtinStopwords are platform noise words filtered out regardless of
// the stopword file.
var builtinStopwords = []string{
	"微博", "转发", "评论", "link", "http", "https",
	"转发微博", "视频", "链接", "网页", "图片", "全文",
}

var (
	segOnce   sync.Once
	segmenter gse.Segmenter
	segErr    error
)

// loadSegmenter initializes the shared segmenter with the embedded
// dictionary once; loading is expensive.
func loadSegmenter() (*gse.Segmenter, error) {
	segOnce.Do(func() {
		segErr = segmenter.LoadDict()
	})
	if segErr != nil {
		return nil, segErr
	}
	return &segmenter, nil
}

// LoadStopwords loads one stopword per line from path and merges the
// built-in extras. A missing file degrades to the built-ins only.
func LoadStopwords(path string, log logger.Logger) map[string]struct{} {
	if log == nil {
		log = logger.GetLogger()
	}

	stopwords := make(map[string]struct{})
	for _, w := range builtinStopwords {
		stopwords[w] = struct{}{}
	}

	if path == "" {
		return stopwords
	}

	file, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("failed to load stopwords file")
		return stopwords
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			stopwords[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("failed reading stopwords file")
	}

	log.WithField("count", len(stopwords)).Debug("stopwords loaded")
	return stopwords
}

// KeywordCount is one segmented word and its frequency.
type KeywordCount struct {
	Word  string
	Count int
}

// ExtractKeywords segments the cleaned text of every post and returns
// the topN most frequent words, ignoring stopwords and single-rune
// tokens.
func (a *Analyzer) ExtractKeywords(topN int) []KeywordCount {
	seg, err := loadSegmenter()
	if err != nil {
		a.log.WithError(err).Error("failed to load segmentation dictionary")
		return nil
	}

	counts := make(map[string]int)
	for _, record := range a.records {
		for _, word := range seg.Cut(CleanText(record.Text), true) {
			word = strings.TrimSpace(word)
			if utf8.RuneCountInString(word) <= 1 {
				continue
			}
			if _, stop := a.stopwords[word]; stop {
				continue
			}
			counts[word]++
		}
	}

	a.log.WithField("distinct_words", len(counts)).Debug("keywords extracted")

	result := make([]KeywordCount, 0, len(counts))
	for word, count := range counts {
		result = append(result, KeywordCount{Word: word, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Word < result[j].Word
	})

	if topN > 0 && topN < len(result) {
		result = result[:topN]
	}
	return result
}
