// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes search results to CSV and run summaries to YAML.
// See docs/ARCHITECTURE § Export.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/keyword-search/pkg/types"
)

// utf8BOM is prepended so spreadsheet applications pick up the encoding;
// without it Excel renders the Japanese header as mojibake.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeader lists the output columns. The trailing status column carries
// "success" or the failure reason for rows without a result.
var csvHeader = []string{"検索キーワード", "タイトル", "URL", "スニペット", "検索日時", "ステータス"}

const timestampFormat = "2006-01-02 15:04:05"

// Filename returns the CSV filename for a run that started at start,
// e.g. "search_results_20260830_151504.csv".
func Filename(prefix string, start time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, start.Format("20060102_150405"))
}

// WriteCSV writes results to path as UTF-8 CSV with a byte-order mark,
// one row per result in input order. Failed lookups produce a row with
// empty title, URL and snippet.
func WriteCSV(results []types.SearchResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range results {
		if err := w.Write(csvRow(r)); err != nil {
			return fmt.Errorf("writing row for %q: %w", r.Keyword, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

func csvRow(r types.SearchResult) []string {
	status := string(r.Status)
	if r.Status == types.StatusFailed && r.Reason != types.ReasonNone {
		status = string(r.Reason)
	}
	return []string{
		r.Keyword,
		r.Title,
		r.URL,
		r.Snippet,
		r.Timestamp.Format(timestampFormat),
		status,
	}
}
