// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords reads and validates search keywords from files,
// arguments and interactive input.
package keywords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxKeywordLen caps keyword length in runes; longer lines are skipped
// with a warning rather than failing the whole file.
const maxKeywordLen = 200

// ReadFile loads keywords from a UTF-8 text file, one per line. Blank
// lines and lines starting with "#" or "//" are skipped. Invalid lines
// (too long, control characters) are logged and skipped. An error is
// returned when the file yields no usable keywords.
func ReadFile(path string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keyword file: %w", err)
	}
	defer f.Close()

	var keywords []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if err := Validate(line); err != nil {
			logger.Warn("skipping keyword",
				zap.String("file", path), zap.Int("line", lineNum), zap.Error(err))
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading keyword file %s: %w", path, err)
	}

	if len(keywords) == 0 {
		return nil, fmt.Errorf("no usable keywords in %s", path)
	}
	return keywords, nil
}

// Validate checks a single keyword. The zero-length case is an error
// rather than a skip so callers can distinguish "nothing entered".
func Validate(keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Errorf("empty keyword")
	}
	if utf8.RuneCountInString(keyword) > maxKeywordLen {
		return fmt.Errorf("keyword longer than %d characters", maxKeywordLen)
	}
	for _, c := range keyword {
		if c < 32 && c != '\t' {
			return fmt.Errorf("keyword contains control characters")
		}
	}
	return nil
}

// ReadInteractive prompts for keywords one per line on r, echoing prompts
// to w. A blank line ends input; the user then confirms with y/n. It
// returns an empty slice when the user declines or enters nothing.
func ReadInteractive(r io.Reader, w io.Writer) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var keywords []string

	fmt.Fprintln(w, "Enter search keywords, one per line. Blank line finishes.")
	for {
		fmt.Fprintf(w, "keyword %d: ", len(keywords)+1)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(keywords) > 0 {
				break
			}
			fmt.Fprintln(w, "enter at least one keyword")
			continue
		}
		if err := Validate(line); err != nil {
			fmt.Fprintf(w, "invalid keyword: %v\n", err)
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	fmt.Fprintf(w, "%d keywords entered. Run the search? (y/n): ", len(keywords))
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return keywords, nil
		case "n", "no":
			fmt.Fprintln(w, "search cancelled")
			return nil, nil
		default:
			fmt.Fprint(w, "answer y or n: ")
		}
	}
	return nil, scanner.Err()
}
