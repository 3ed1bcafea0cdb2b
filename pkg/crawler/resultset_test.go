package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weiboscraper/pkg/models"
)

func TestResultSetOrderAndMembership(t *testing.T) {
	rs := NewResultSet()
	assert.Equal(t, 0, rs.Len())
	assert.False(t, rs.Contains("AAA"))

	rs.Append(models.PostRecord{Bid: "AAA"})
	rs.Append(models.PostRecord{Bid: "BBB"})
	rs.Append(models.PostRecord{Bid: "CCC"})

	assert.Equal(t, 3, rs.Len())
	assert.True(t, rs.Contains("BBB"))

	records := rs.Records()
	assert.Equal(t, "AAA", records[0].Bid)
	assert.Equal(t, "BBB", records[1].Bid)
	assert.Equal(t, "CCC", records[2].Bid)
}

func TestResultSetRows(t *testing.T) {
	rs := NewResultSet()
	rs.Append(models.PostRecord{Bid: "AAA", Text: "你好", IsRetweet: true})

	rows := rs.Rows()
	assert.Len(t, rows, 1)
	assert.Len(t, rows[0], len(models.Columns))
}

func TestResultSetRecordsIsACopy(t *testing.T) {
	rs := NewResultSet()
	rs.Append(models.PostRecord{Bid: "AAA"})
	rs.Append(models.PostRecord{Bid: "BBB"})

	records := rs.Records()
	records[0].Bid = "ZZZ"

	assert.Equal(t, "AAA", rs.Records()[0].Bid)
}

func TestResultSetEmptyBidCollides(t *testing.T) {
	rs := NewResultSet()
	rs.Append(models.PostRecord{Bid: ""})

	assert.True(t, rs.Contains(""))
}
