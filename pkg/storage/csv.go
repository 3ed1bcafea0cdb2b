package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"weiboscraper/pkg/models"
)

// utf8BOM makes spreadsheet tools decode non-Latin text correctly.
const utf8BOM = "\xef\xbb\xbf"

// WriteCSV writes the records as a table: one header row in the fixed
// column order, one row per record, UTF-8 with a byte order mark.
func WriteCSV(path string, records []models.PostRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if _, err := buf.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(buf)
	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(record.Row()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Flush()
}

// ReadCSV loads a table previously written by WriteCSV. Columns are
// matched by header name, so column order is not significant.
func ReadCSV(path string) ([]models.PostRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	intField := func(row []string, name string) int {
		n, _ := strconv.Atoi(field(row, name))
		return n
	}

	records := make([]models.PostRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.PostRecord{
			ID:             field(row, "id"),
			Bid:            field(row, "bid"),
			CreatedAt:      field(row, "created_at"),
			Text:           field(row, "text"),
			IsRetweet:      field(row, "is_retweet") == "1",
			RepostsCount:   intField(row, "reposts_count"),
			CommentsCount:  intField(row, "comments_count"),
			AttitudesCount: intField(row, "attitudes_count"),
			UserName:       field(row, "user_name"),
			UserFollowers:  intField(row, "user_followers"),
			Source:         field(row, "source"),
		})
	}

	return records, nil
}
