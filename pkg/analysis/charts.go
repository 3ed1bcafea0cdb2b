package analysis

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderReport writes the topic pie, keyword wordcloud and top-posts
// interaction bar as one HTML page.
func (a *Analyzer) RenderReport(path string, topKeywords, topPosts int) error {
	page := components.NewPage()
	page.PageTitle = "微博数据分析"
	page.AddCharts(
		a.topicPie(),
		a.keywordCloud(topKeywords),
		a.interactionBar(topPosts),
	)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := page.Render(file); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	a.log.WithField("path", path).Info("analysis report rendered")
	return nil
}

func (a *Analyzer) topicPie() *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "话题分布分析"}),
	)

	topics := a.AnalyzeTopics()
	items := make([]opts.PieData, 0, len(topics))
	for _, tc := range topics {
		items = append(items, opts.PieData{Name: tc.Topic, Value: tc.Count})
	}

	pie.AddSeries("话题分布", items).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "75%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
	)
	return pie
}

func (a *Analyzer) keywordCloud(topN int) *charts.WordCloud {
	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "热词分析"}),
	)

	keywords := a.ExtractKeywords(topN)
	items := make([]opts.WordCloudData, 0, len(keywords))
	for _, kc := range keywords {
		items = append(items, opts.WordCloudData{Name: kc.Word, Value: kc.Count})
	}

	wc.AddSeries("词频", items).SetSeriesOptions(
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{SizeRange: []float32{20, 100}}),
	)
	return wc
}

func (a *Analyzer) interactionBar(topN int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "高影响力微博互动分析"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30}}),
	)

	top := a.TopPosts(topN)
	labels := make([]string, 0, len(top))
	comments := make([]opts.BarData, 0, len(top))
	reposts := make([]opts.BarData, 0, len(top))
	for i, sp := range top {
		labels = append(labels, fmt.Sprintf("Top%d", i+1))
		comments = append(comments, opts.BarData{Value: sp.Record.CommentsCount})
		reposts = append(reposts, opts.BarData{Value: sp.Record.RepostsCount})
	}

	bar.SetXAxis(labels).
		AddSeries("评论数", comments).
		AddSeries("转发数", reposts)
	return bar
}
