package main

import (
	"time"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <keyword>",
	Short: "Crawl a keyword and analyze the results in one step",
	Long: `Run the full pipeline: crawl the keyword, write the CSV file,
then analyze it and render the HTML report.`,
	Example: `  # Crawl and analyze in one go
  weiboscraper run 疫苗 --pages 30 --report vaccine.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCrawl(cmd, args)

		var csvArgs []string
		if crawlOutput != "" {
			csvArgs = []string{crawlOutput}
		}
		runAnalyze(cmd, csvArgs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&crawlPages, "pages", 50, "maximum number of result pages to fetch")
	runCmd.Flags().DurationVar(&crawlDelay, "delay", 2*time.Second, "delay between page requests")
	runCmd.Flags().IntVar(&crawlRate, "rate-limit", 30, "requests per minute")
	runCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "CSV output file (default: weibo_data.csv)")
	runCmd.Flags().StringVar(&crawlDB, "database", "", "sqlite archive file (optional)")
	runCmd.Flags().StringVar(&crawlCookie, "cookie", "", "Weibo session cookie")
	runCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	runCmd.Flags().BoolVar(&resumeCrawl, "resume", false, "resume from last checkpoint")
	runCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard existing checkpoint and start over")
	runCmd.Flags().StringVar(&analyzeStopwords, "stopwords", "", "stopword list file (one word per line)")
	runCmd.Flags().StringVar(&analyzeReport, "report", "", "HTML report output file (default: weibo_analysis.html)")
	runCmd.Flags().IntVar(&topKeywords, "top-keywords", 50, "number of keywords in the word cloud")
	runCmd.Flags().IntVar(&topPosts, "top-posts", 10, "number of posts in the influence ranking")
}
