package crawler

import (
	"strings"
	"time"

	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/models"
	"weiboscraper/pkg/weibo"
)

// TimeLayout is the fixed absolute timestamp format of the output table.
const TimeLayout = "2006-01-02 15:04:05"

// relativeMarkers are the substrings that mark a relative timestamp.
// Relative phrases resolve to the parse-time wall clock.
var relativeMarkers = []string{"分钟前", "小时前", "刚刚"}

// absoluteLayouts are tried in order when reparsing a raw timestamp.
var absoluteLayouts = []string{
	TimeLayout,
	time.RubyDate,
	time.RFC3339,
	"2006-01-02",
}

// Parser converts raw response cards into normalized post records. The
// clock is injectable so tests can pin the resolution of relative
// timestamps.
type Parser struct {
	log logger.Logger
	now func() time.Time
}

// NewParser creates a card parser.
func NewParser(log logger.Logger) *Parser {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Parser{log: log, now: time.Now}
}

// ParseCard converts one card into zero or one post record. Composite
// cards are scanned for the first direct sub-card carrying a non-empty
// post body; direct cards delegate to the post-body parser when theirs
// is non-empty. Missing or empty bodies and unrecognized discriminants
// yield absent, never an error.
func (p *Parser) ParseCard(card weibo.Card) (models.PostRecord, bool) {
	switch card.Kind() {
	case weibo.KindComposite:
		for _, item := range card.CardGroup {
			if item.CardType == weibo.CardTypeDirect && !item.Mblog.IsZero() {
				return p.parseMblog(item.Mblog)
			}
		}
		return models.PostRecord{}, false
	case weibo.KindDirect:
		if !card.Mblog.IsZero() {
			return p.parseMblog(card.Mblog)
		}
		return models.PostRecord{}, false
	default:
		return models.PostRecord{}, false
	}
}

// parseMblog extracts a post record from the post body. A malformed
// field never fails the whole record; text normalizes to the empty
// string and counts default to zero.
func (p *Parser) parseMblog(mblog *weibo.Mblog) (models.PostRecord, bool) {
	text := mblog.Text
	isRetweet := false

	// A repost carries the reposting comment in text and the original
	// post nested underneath; downstream analysis consumes the joined
	// string.
	if mblog.RetweetedStatus != nil {
		isRetweet = true
		text = text + " // " + mblog.RetweetedStatus.Text
	}

	record := models.PostRecord{
		ID:             mblog.ID.String(),
		Bid:            mblog.Bid,
		CreatedAt:      p.normalizeCreatedAt(mblog.CreatedAt),
		Text:           collapseNewlines(text),
		IsRetweet:      isRetweet,
		RepostsCount:   mblog.RepostsCount.Int(),
		CommentsCount:  mblog.CommentsCount.Int(),
		AttitudesCount: mblog.AttitudesCount.Int(),
		Source:         mblog.Source,
	}
	if mblog.User != nil {
		record.UserName = mblog.User.ScreenName
		record.UserFollowers = mblog.User.FollowersCount.Int()
	}

	p.log.DebugWithFields("parsed post", map[string]interface{}{
		"bid":        record.Bid,
		"is_retweet": record.IsRetweet,
	})

	return record, true
}

// normalizeCreatedAt maps the raw timestamp onto the fixed absolute
// format. Relative phrases resolve to now; absolute strings are
// reparsed; anything unparsable passes through unchanged.
func (p *Parser) normalizeCreatedAt(raw string) string {
	for _, marker := range relativeMarkers {
		if strings.Contains(raw, marker) {
			return p.now().Format(TimeLayout)
		}
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t.Format(TimeLayout)
		}
	}

	p.log.DebugWithFields("unparsable timestamp kept verbatim", map[string]interface{}{
		"created_at": raw,
	})
	return raw
}

func collapseNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}
