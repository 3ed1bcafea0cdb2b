package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"weiboscraper/pkg/auth"
	"weiboscraper/pkg/checkpoint"
	"weiboscraper/pkg/config"
	"weiboscraper/pkg/crawler"
	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/ratelimit"
	"weiboscraper/pkg/storage"
)

var (
	// Crawl command flags
	crawlPages   int
	crawlDelay   time.Duration
	crawlRate    int
	crawlOutput  string
	crawlDB      string
	crawlCookie  string
	accountName  string
	resumeCrawl  bool
	forceRestart bool
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl <keyword>",
	Short: "Crawl Weibo search results for a keyword",
	Long: `Crawl the Weibo mobile search API for a keyword and write the
deduplicated posts to a CSV file.

Pages are fetched strictly one at a time with a politeness delay in
between. The crawl stops at the configured page limit, after several
consecutive pages yield nothing new, or when the endpoint reports an
error. Progress is checkpointed so an interrupted crawl can be resumed.`,
	Example: `  # Crawl with default settings
  weiboscraper crawl 疫苗

  # Crawl more pages into a specific file
  weiboscraper crawl 疫苗 --pages 100 --output vaccine.csv

  # Also archive results into sqlite
  weiboscraper crawl 疫苗 --database weibo.db

  # Resume an interrupted crawl
  weiboscraper crawl 疫苗 --resume

  # Discard an existing checkpoint and start over
  weiboscraper crawl 疫苗 --force-restart`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCrawl(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().IntVar(&crawlPages, "pages", 50, "maximum number of result pages to fetch")
	crawlCmd.Flags().DurationVar(&crawlDelay, "delay", 2*time.Second, "delay between page requests")
	crawlCmd.Flags().IntVar(&crawlRate, "rate-limit", 30, "requests per minute")
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "CSV output file (default: weibo_data.csv)")
	crawlCmd.Flags().StringVar(&crawlDB, "database", "", "sqlite archive file (optional)")
	crawlCmd.Flags().StringVar(&crawlCookie, "cookie", "", "Weibo session cookie")
	crawlCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	crawlCmd.Flags().BoolVar(&resumeCrawl, "resume", false, "resume from last checkpoint")
	crawlCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard existing checkpoint and start over")
}

func runCrawl(cmd *cobra.Command, args []string) {
	keyword := strings.TrimSpace(args[0])

	flags := make(map[string]interface{})
	if crawlCookie != "" {
		flags["cookie"] = crawlCookie
	}
	if crawlPages != 50 {
		flags["pages"] = crawlPages
	}
	if cmd.Flags().Changed("delay") {
		flags["delay"] = crawlDelay
	}
	if crawlRate != 30 {
		flags["rate-limit"] = crawlRate
	}
	if crawlOutput != "" {
		flags["output"] = crawlOutput
	}
	if crawlDB != "" {
		flags["database"] = crawlDB
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
	log.WithField("version", version).Info("weiboscraper starting")

	// A cookie is optional for the search endpoint; resolve one from
	// the credential stores when the config does not carry it.
	if cfg.Weibo.Cookie == "" {
		if account := resolveAccount(accountName); account != nil {
			cfg.Weibo.Cookie = account.Cookie
			if account.UserAgent != "" {
				cfg.Weibo.UserAgent = account.UserAgent
			}
			log.WithField("account", account.Name).Debug("using stored credentials")
		}
	}

	checkpoints, err := checkpoint.NewManager(keyword)
	if err != nil {
		out.Error("Failed to initialize checkpoint manager: %v", err)
		os.Exit(1)
	}
	if forceRestart {
		if err := checkpoints.Delete(); err != nil {
			out.Warn("Could not remove checkpoint: %v", err)
		}
	} else if checkpoints.Exists() && !resumeCrawl {
		out.Error("A checkpoint exists for %q. Use --resume to continue or --force-restart to start over.", keyword)
		os.Exit(1)
	}

	c := crawler.New(cfg, log)
	c.SetLimiter(ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute))
	c.SetCheckpoints(checkpoints)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	out.Info("开始爬取关键词: %s", keyword)
	results, stats := c.Run(ctx, keyword)
	finished := time.Now()

	switch stats.StopReason {
	case crawler.StopProviderFailure:
		out.Warn("接口返回异常，已停止翻页")
	case crawler.StopCancelled:
		out.Warn("已中断，进度已保存，使用 --resume 继续")
	}

	if results.Len() == 0 {
		out.Warn("未采集到任何数据")
		return
	}

	if err := storage.WriteCSV(cfg.Output.CSVFile, results.Records()); err != nil {
		log.WithError(err).Error("failed to write CSV")
		out.Error("Failed to write %s: %v", cfg.Output.CSVFile, err)
		os.Exit(1)
	}
	out.Success("已保存 %d 条数据到 %s", results.Len(), cfg.Output.CSVFile)

	if cfg.Output.DatabaseFile != "" {
		archiveCrawl(cfg.Output.DatabaseFile, storage.CrawlRun{
			Keyword:    keyword,
			StartedAt:  started,
			FinishedAt: finished,
			Pages:      stats.Pages,
			NewPosts:   stats.NewPosts,
			StopReason: stats.StopReason,
		}, results)
	}

	out.Info("共抓取 %d 页、%d 条卡片，新增 %d 条，去重 %d 条",
		stats.Pages, stats.Cards, stats.NewPosts, stats.Duplicates)
}

func resolveAccount(name string) *auth.Account {
	manager, err := auth.NewManager()
	if err != nil {
		return nil
	}
	if name == "" {
		name = "default"
	}
	account, err := manager.Retrieve(name)
	if err != nil {
		return nil
	}
	return account
}

func archiveCrawl(path string, run storage.CrawlRun, results *crawler.ResultSet) {
	store, err := storage.Open(path)
	if err != nil {
		out.Warn("Could not open database %s: %v", path, err)
		return
	}
	defer store.Close()

	inserted, err := store.SaveCrawl(context.Background(), run, results.Records())
	if err != nil {
		out.Warn("Could not archive crawl: %v", err)
		return
	}
	out.Info("数据库新增 %d 条记录", inserted)
}
