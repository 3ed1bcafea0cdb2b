package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weiboscraper/pkg/models"
)

func TestRenderReport(t *testing.T) {
	records := []models.PostRecord{
		{Bid: "A", Text: "法院一审宣判", CommentsCount: 10, RepostsCount: 5, AttitudesCount: 3},
		{Bid: "B", Text: "网友热议此事", CommentsCount: 2, RepostsCount: 1},
	}
	a := newTestAnalyzer(records)

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, a.RenderReport(path, 20, 5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.True(t, strings.Contains(html, "echarts"))
	assert.Contains(t, html, "话题分布分析")
	assert.Contains(t, html, "热词分析")
	assert.Contains(t, html, "高影响力微博互动分析")
}

func TestRenderReportBadPath(t *testing.T) {
	a := newTestAnalyzer(nil)
	err := a.RenderReport(filepath.Join(t.TempDir(), "missing", "report.html"), 10, 10)
	require.Error(t, err)
}
