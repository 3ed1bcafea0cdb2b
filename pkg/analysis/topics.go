package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// OtherTopic is the catch-all bucket for posts matching no topic.
const OtherTopic = "其他讨论"

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	urlRe     = regexp.MustCompile(`http[s]?://[a-zA-Z0-9$\-_@.&+!*(),%/?=#~]+`)
	emoteRe   = regexp.MustCompile(`\[.*?\]`)
	hashtagRe = regexp.MustCompile(`#.*?#`)
)

// CleanText strips HTML tags, URLs, bracketed emotes and #hashtags#
// from a post text before classification and segmentation.
func CleanText(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = emoteRe.ReplaceAllString(text, "")
	text = hashtagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DefaultTopics is the built-in topic keyword dictionary. A config file
// can replace it wholesale.
func DefaultTopics() map[string][]string {
	return map[string][]string{
		"判决相关": {"判决", "判刑", "量刑", "死刑", "一审", "法院", "庭审", "刑事",
			"起诉", "被告人", "被告", "审判", "宣判", "无期徒刑"},
		"暴力情况": {"家暴", "暴力", "殴打", "伤害", "打人", "伤势", "住院", "打骂",
			"伤痕", "报警", "施暴"},
		"社会讨论": {"关注", "热议", "舆论", "网友", "声援", "支持", "谴责", "热搜",
			"讨论", "发声", "话题", "新闻", "报道", "焦点"},
		"法律程序": {"立案", "取证", "证据", "执法", "公安", "警察", "报案",
			"辩护", "审理", "鉴定", "强制措施"},
		"受害者声音": {"受害者", "发声", "控诉", "哭诉", "诉求", "无助",
			"逃离", "求救", "遭遇", "经历"},
	}
}

// TopicCount is one topic and how many posts matched it.
type TopicCount struct {
	Topic string
	Count int
}

// AnalyzeTopics classifies every post by keyword matching. A post can
// match several topics; one matching none lands in the catch-all
// bucket. Results come back sorted by count, descending.
func (a *Analyzer) AnalyzeTopics() []TopicCount {
	counts := make(map[string]int)

	for _, record := range a.records {
		text := CleanText(record.Text)
		matched := false

		for topic, words := range a.topics {
			for _, word := range words {
				if strings.Contains(text, word) {
					counts[topic]++
					matched = true
					break
				}
			}
		}

		if !matched {
			counts[OtherTopic]++
		}
	}

	result := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		result = append(result, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Topic < result[j].Topic
	})

	return result
}
