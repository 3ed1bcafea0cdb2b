package weibo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"number", `123`, 123},
		{"numeric string", `"456"`, 456},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"display count", `"100万+"`, 0},
		{"garbage", `"abc"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			err := json.Unmarshal([]byte(tt.json), &f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Int())
		})
	}
}

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `"4567890"`, "4567890"},
		{"number", `4567890`, "4567890"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			err := json.Unmarshal([]byte(tt.json), &f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestCardKind(t *testing.T) {
	assert.Equal(t, KindDirect, Card{CardType: 9}.Kind())
	assert.Equal(t, KindComposite, Card{CardType: 11}.Kind())
	assert.Equal(t, KindUnrecognized, Card{CardType: 4}.Kind())
	assert.Equal(t, KindUnrecognized, Card{}.Kind())
}

func TestMblogIsZero(t *testing.T) {
	assert.True(t, (*Mblog)(nil).IsZero())
	assert.True(t, (&Mblog{}).IsZero())
	assert.True(t, (&Mblog{RepostsCount: 3}).IsZero())
	assert.False(t, (&Mblog{Bid: "Abc123"}).IsZero())
	assert.False(t, (&Mblog{Text: "正文"}).IsZero())
	assert.False(t, (&Mblog{CreatedAt: "刚刚"}).IsZero())
}

func TestSearchResponseUnmarshal(t *testing.T) {
	body := `{
		"ok": 1,
		"data": {
			"cards": [
				{
					"card_type": 9,
					"mblog": {
						"id": 4567890,
						"bid": "Klm9xYz01",
						"created_at": "2024-03-01 09:30:00",
						"text": "疫苗接种开始了",
						"reposts_count": "12",
						"comments_count": 34,
						"attitudes_count": 56,
						"user": {"screen_name": "测试用户", "followers_count": "1000"}
					}
				}
			]
		}
	}`

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, 1, resp.Ok)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Cards, 1)

	mblog := resp.Data.Cards[0].Mblog
	require.NotNil(t, mblog)
	assert.Equal(t, "4567890", mblog.ID.String())
	assert.Equal(t, "Klm9xYz01", mblog.Bid)
	assert.Equal(t, 12, mblog.RepostsCount.Int())
	assert.Equal(t, 34, mblog.CommentsCount.Int())
	assert.Equal(t, "测试用户", mblog.User.ScreenName)
	assert.Equal(t, 1000, mblog.User.FollowersCount.Int())
}

func TestSearchResponseNotOk(t *testing.T) {
	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(`{"ok": 0, "msg": "这里还没有内容"}`), &resp))

	assert.Equal(t, 0, resp.Ok)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "这里还没有内容", resp.Msg)
}
