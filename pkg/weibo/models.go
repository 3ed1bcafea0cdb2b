package weibo

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Card type discriminants recognized by the parser.
const (
	// CardTypeDirect carries an mblog payload directly.
	CardTypeDirect = 9
	// CardTypeComposite wraps a group of sub-cards.
	CardTypeComposite = 11
)

// CardKind classifies a card into one of the recognized shapes.
type CardKind int

const (
	KindUnrecognized CardKind = iota
	KindDirect
	KindComposite
)

// SearchResponse is the top-level body of the search index endpoint.
// Ok is 1 when the provider accepted the request; anything else signals
// an explicit failure, not emptiness.
type SearchResponse struct {
	Ok   int         `json:"ok"`
	Data *SearchData `json:"data"`
	Msg  string      `json:"msg"`
}

// SearchData wraps the card sequence of one result page.
type SearchData struct {
	Cards []Card `json:"cards"`
}

// Card is one unit of the search-results response, possibly wrapping a
// nested post.
type Card struct {
	CardType  int    `json:"card_type"`
	CardGroup []Card `json:"card_group"`
	Mblog     *Mblog `json:"mblog"`
}

// Kind returns the recognized shape of the card. Any discriminant other
// than the two known ones is unrecognized, which is not an error.
func (c Card) Kind() CardKind {
	switch c.CardType {
	case CardTypeDirect:
		return KindDirect
	case CardTypeComposite:
		return KindComposite
	default:
		return KindUnrecognized
	}
}

// Mblog is the post-body payload within a card.
type Mblog struct {
	ID              FlexString `json:"id"`
	Bid             string     `json:"bid"`
	CreatedAt       string     `json:"created_at"`
	Text            string     `json:"text"`
	RepostsCount    FlexInt    `json:"reposts_count"`
	CommentsCount   FlexInt    `json:"comments_count"`
	AttitudesCount  FlexInt    `json:"attitudes_count"`
	Source          string     `json:"source"`
	User            *User      `json:"user"`
	RetweetedStatus *Mblog     `json:"retweeted_status"`
}

// IsZero reports whether the mblog is nil or decoded from an empty
// JSON object. The endpoint sometimes emits `"mblog": {}` on filler
// cards; such a body carries no post.
func (m *Mblog) IsZero() bool {
	if m == nil {
		return true
	}
	return m.ID == "" && m.Bid == "" && m.Text == "" && m.CreatedAt == ""
}

// User is the author block of an mblog.
type User struct {
	ScreenName     string  `json:"screen_name"`
	FollowersCount FlexInt `json:"followers_count"`
}

// FlexInt decodes a JSON number or numeric string into an int. The
// endpoint is inconsistent about count fields; anything unparsable
// decodes to zero rather than failing the record.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		// Counts such as "100万+" show up on hot posts.
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the plain int value.
func (f FlexInt) Int() int { return int(f) }

// FlexString decodes a JSON string or number into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

// String returns the plain string value.
func (f FlexString) String() string { return string(f) }
