// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-search/pkg/types"
)

// Summary is the on-disk record of one run, written next to the CSV so a
// later reader can tell how the file was produced without replaying logs.
type Summary struct {
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Duration   string    `yaml:"duration"`
	Total      int       `yaml:"total"`
	Processed  int       `yaml:"processed"`
	Succeeded  int       `yaml:"succeeded"`
	Failed     int       `yaml:"failed"`
	Aborted    bool      `yaml:"aborted"`
	AbortError string    `yaml:"abort_error,omitempty"`
	OutputFile string    `yaml:"output_file,omitempty"`
}

// NewSummary builds a Summary from the run outcome. total is the input
// keyword count; an aborted or cancelled run processes fewer. runErr is
// the fatal error Run returned, or nil.
func NewSummary(results []types.SearchResult, total int, started, finished time.Time, runErr error, outputFile string) Summary {
	s := Summary{
		StartedAt:  started,
		FinishedAt: finished,
		Duration:   finished.Sub(started).Round(time.Millisecond).String(),
		Total:      total,
		Processed:  len(results),
		OutputFile: outputFile,
	}
	for _, r := range results {
		if r.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	if runErr != nil {
		s.Aborted = true
		s.AbortError = runErr.Error()
	}
	return s
}

// WriteSummary saves the summary as YAML. The filename mirrors the CSV's
// timestamp: "<prefix>_20060102_150405_summary.yaml".
func WriteSummary(s Summary, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_summary.yaml", prefix, s.StartedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := yaml.Marshal(&s)
	if err != nil {
		return "", fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}

// FormatSummary renders the post-run summary block printed by the CLI.
func FormatSummary(s Summary) string {
	var b strings.Builder
	rate := 0.0
	if s.Processed > 0 {
		rate = float64(s.Succeeded) / float64(s.Processed) * 100
	}
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintln(&b, "Search summary")
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Keywords:  %d\n", s.Total)
	if s.Processed != s.Total {
		fmt.Fprintf(&b, "Processed: %d\n", s.Processed)
	}
	fmt.Fprintf(&b, "Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "Failed:    %d\n", s.Failed)
	fmt.Fprintf(&b, "Success:   %.1f%%\n", rate)
	fmt.Fprintf(&b, "Duration:  %s\n", s.Duration)
	if s.Aborted {
		fmt.Fprintf(&b, "Run aborted early: %s\n", s.AbortError)
	}
	return b.String()
}
