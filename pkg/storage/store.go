package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"weiboscraper/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

// Store archives crawl results in a sqlite database so posts survive
// across runs. Posts dedup on bid across the whole archive.
type Store struct {
	db *sql.DB
}

// CrawlRun describes one archived crawl.
type CrawlRun struct {
	ID         int64
	Keyword    string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      int
	NewPosts   int
	StopReason string
}

// Open opens (and if needed creates) the archive at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveCrawl archives one crawl run and its records in a single
// transaction. Posts already present (same bid) are left untouched.
// It returns the number of newly inserted posts.
func (s *Store) SaveCrawl(ctx context.Context, run CrawlRun, records []models.PostRecord) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if strings.TrimSpace(run.Keyword) == "" {
		return 0, errors.New("keyword is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO crawls(keyword, started_at, finished_at, pages, new_posts, stop_reason)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		run.Keyword, run.StartedAt, run.FinishedAt, run.Pages, run.NewPosts, run.StopReason,
	); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert crawl: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO posts(
			bid, post_id, keyword, created_at, text, is_retweet,
			reposts_count, comments_count, attitudes_count,
			user_name, user_followers, source, fetched_at
		 ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0
	for _, record := range records {
		res, err := stmt.ExecContext(ctx,
			record.Bid, record.ID, run.Keyword, record.CreatedAt, record.Text,
			boolToInt(record.IsRetweet), record.RepostsCount, record.CommentsCount,
			record.AttitudesCount, record.UserName, record.UserFollowers,
			record.Source, now,
		)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert post %q: %w", record.Bid, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return inserted, nil
}

// PostsByKeyword returns archived posts for a keyword, oldest crawl
// order first.
func (s *Store) PostsByKeyword(ctx context.Context, keyword string) ([]models.PostRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, bid, created_at, text, is_retweet,
			reposts_count, comments_count, attitudes_count,
			user_name, user_followers, source
		 FROM posts WHERE keyword = ? ORDER BY rowid`, keyword)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var records []models.PostRecord
	for rows.Next() {
		var record models.PostRecord
		var isRetweet int
		if err := rows.Scan(
			&record.ID, &record.Bid, &record.CreatedAt, &record.Text, &isRetweet,
			&record.RepostsCount, &record.CommentsCount, &record.AttitudesCount,
			&record.UserName, &record.UserFollowers, &record.Source,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		record.IsRetweet = isRetweet == 1
		records = append(records, record)
	}

	return records, rows.Err()
}

// RecentCrawls lists the latest archived crawl runs, newest first.
func (s *Store) RecentCrawls(ctx context.Context, limit int) ([]CrawlRun, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, keyword, started_at, finished_at, pages, new_posts, stop_reason
		 FROM crawls ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query crawls: %w", err)
	}
	defer rows.Close()

	var runs []CrawlRun
	for rows.Next() {
		var run CrawlRun
		if err := rows.Scan(&run.ID, &run.Keyword, &run.StartedAt, &run.FinishedAt,
			&run.Pages, &run.NewPosts, &run.StopReason); err != nil {
			return nil, fmt.Errorf("scan crawl: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
