package main

import (
	"os"

	"github.com/spf13/cobra"
	"weiboscraper/pkg/analysis"
	"weiboscraper/pkg/config"
	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/storage"
)

var (
	// Analyze command flags
	analyzeStopwords string
	analyzeReport    string
	topKeywords      int
	topPosts         int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [csvfile]",
	Short: "Analyze a crawled CSV file and render an HTML report",
	Long: `Analyze a CSV file produced by the crawl command.

The analyzer ranks posts by influence score (a weighted combination of
normalized comment, repost and attitude counts), classifies posts into
discussion topics, segments the text into keywords, and renders an HTML
report with a topic pie chart, a keyword cloud and an interaction bar
chart for the top posts.`,
	Example: `  # Analyze the default output file
  weiboscraper analyze

  # Analyze a specific file with a custom stopword list
  weiboscraper analyze vaccine.csv --stopwords mystops.txt

  # Write the report somewhere else
  weiboscraper analyze vaccine.csv --report vaccine.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runAnalyze(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeStopwords, "stopwords", "", "stopword list file (one word per line)")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "HTML report output file (default: weibo_analysis.html)")
	analyzeCmd.Flags().IntVar(&topKeywords, "top-keywords", 50, "number of keywords in the word cloud")
	analyzeCmd.Flags().IntVar(&topPosts, "top-posts", 10, "number of posts in the influence ranking")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if analyzeStopwords != "" {
		flags["stopwords"] = analyzeStopwords
	}
	if analyzeReport != "" {
		flags["report"] = analyzeReport
	}
	if topKeywords != 50 {
		flags["top-keywords"] = topKeywords
	}
	if topPosts != 10 {
		flags["top-posts"] = topPosts
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		out.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&logger.Config{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		out.Error("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	csvFile := cfg.Output.CSVFile
	if len(args) > 0 {
		csvFile = args[0]
	}

	records, err := storage.ReadCSV(csvFile)
	if err != nil {
		out.Error("Failed to read %s: %v", csvFile, err)
		os.Exit(1)
	}
	if len(records) == 0 {
		out.Warn("%s 中没有数据", csvFile)
		return
	}
	out.Info("已读取 %d 条数据", len(records))

	analyzer := analysis.New(records, analysis.Options{
		StopwordsFile:  cfg.Analysis.StopwordsFile,
		ExtraStopwords: cfg.Analysis.ExtraStopwords,
		Topics:         cfg.Analysis.Topics,
		Logger:         log,
	})

	printSummary(analyzer)
	printTopPosts(analyzer, cfg.Analysis.TopPosts)
	printTopics(analyzer)

	reportFile := cfg.Output.ReportFile
	if reportFile == "" {
		return
	}
	if err := analyzer.RenderReport(reportFile, cfg.Analysis.TopKeywords, cfg.Analysis.TopPosts); err != nil {
		log.WithError(err).Error("failed to render report")
		out.Error("Failed to render %s: %v", reportFile, err)
		os.Exit(1)
	}
	out.Success("分析报告已生成: %s", reportFile)
}

func printSummary(a *analysis.Analyzer) {
	s := a.Summary()
	out.Info("")
	out.Info("数据概览:")
	out.Info("  总条数: %d (原创 %d, 转发 %d)", s.Total, s.Originals, s.Retweets)
	if s.Earliest != "" {
		out.Info("  时间范围: %s ~ %s", s.Earliest, s.Latest)
	}
	out.Info("  平均转发 %.1f, 平均评论 %.1f, 平均点赞 %.1f",
		s.AvgReposts, s.AvgComments, s.AvgAttitudes)
}

func printTopPosts(a *analysis.Analyzer, n int) {
	posts := a.TopPosts(n)
	if len(posts) == 0 {
		return
	}
	out.Info("")
	out.Info("影响力排名前 %d 的微博:", len(posts))
	for i, p := range posts {
		text := []rune(p.Record.Text)
		if len(text) > 40 {
			text = append(text[:40], '…')
		}
		out.Info("  %2d. [%.3f] @%s: %s", i+1, p.Score, p.Record.UserName, string(text))
	}
}

func printTopics(a *analysis.Analyzer) {
	topics := a.AnalyzeTopics()
	if len(topics) == 0 {
		return
	}
	out.Info("")
	out.Info("话题分布:")
	for _, t := range topics {
		out.Info("  %s: %d", t.Topic, t.Count)
	}
}
