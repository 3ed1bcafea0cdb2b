package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weiboscraper/pkg/models"
)

func sampleRecords() []models.PostRecord {
	return []models.PostRecord{
		{
			ID:             "4890123",
			Bid:            "Abc123",
			CreatedAt:      "2024-03-01 09:30:00",
			Text:           "疫苗接种点今天开放",
			RepostsCount:   5,
			CommentsCount:  7,
			AttitudesCount: 9,
			UserName:       "测试用户",
			UserFollowers:  1200,
			Source:         "iPhone客户端",
		},
		{
			ID:        "4890124",
			Bid:       "Def456",
			CreatedAt: "2024-03-01 10:00:00",
			Text:      "转发评论 // 原微博内容",
			IsRetweet: true,
		},
	}
}

func TestWriteCSVStartsWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), utf8BOM))

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, utf8BOM+strings.Join(models.Columns, ","), lines[0])
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := sampleRecords()
	require.NoError(t, WriteCSV(path, records))

	loaded, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, records[0], loaded[0])
	assert.Equal(t, records[1], loaded[1])
	assert.True(t, loaded[1].IsRetweet)
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(path, nil))

	loaded, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestReadCSVWithoutBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	content := "bid,text,comments_count\nXyz1,你好,3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loaded, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Xyz1", loaded[0].Bid)
	assert.Equal(t, "你好", loaded[0].Text)
	assert.Equal(t, 3, loaded[0].CommentsCount)
}
