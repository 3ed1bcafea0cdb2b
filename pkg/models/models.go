package models

import "strconv"

// PostRecord is one normalized Weibo post. A record is built in a single
// parser invocation and never mutated after it enters the result set.
type PostRecord struct {
	ID             string `json:"id"`
	Bid            string `json:"bid"`
	CreatedAt      string `json:"created_at"`
	Text           string `json:"text"`
	IsRetweet      bool   `json:"is_retweet"`
	RepostsCount   int    `json:"reposts_count"`
	CommentsCount  int    `json:"comments_count"`
	AttitudesCount int    `json:"attitudes_count"`
	UserName       string `json:"user_name"`
	UserFollowers  int    `json:"user_followers"`
	Source         string `json:"source"`
}

// Columns is the fixed column order of the tabular output contract.
// Downstream analysis requires at minimum text, comments_count,
// reposts_count, attitudes_count and created_at to be present.
var Columns = []string{
	"id",
	"bid",
	"created_at",
	"text",
	"is_retweet",
	"reposts_count",
	"comments_count",
	"attitudes_count",
	"user_name",
	"user_followers",
	"source",
}

// Row renders the record in Columns order. is_retweet is written as 1/0
// so spreadsheet tools treat it as numeric, matching the CSV contract.
func (r PostRecord) Row() []string {
	retweet := "0"
	if r.IsRetweet {
		retweet = "1"
	}
	return []string{
		r.ID,
		r.Bid,
		r.CreatedAt,
		r.Text,
		retweet,
		strconv.Itoa(r.RepostsCount),
		strconv.Itoa(r.CommentsCount),
		strconv.Itoa(r.AttitudesCount),
		r.UserName,
		strconv.Itoa(r.UserFollowers),
		r.Source,
	}
}
