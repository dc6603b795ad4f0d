// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keywords.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileSkipsCommentsAndBlanks(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"# comment line",
		"// also a comment",
		"",
		"Python プログラミング",
		"  machine learning  ",
		"",
		"web scraping",
	}, "\n"))

	kws, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python プログラミング", "machine learning", "web scraping"}, kws)
}

func TestReadFileSkipsInvalidLines(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		strings.Repeat("あ", 201),
		"valid keyword",
		"bad\x07keyword",
	}, "\n"))

	kws, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"valid keyword"}, kws)
}

func TestReadFileEmptyAfterFiltering(t *testing.T) {
	path := writeFile(t, "# only comments\n\n// here\n")
	_, err := ReadFile(path, nil)
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		wantErr bool
	}{
		{"ok", "golang testing", false},
		{"unicode ok", "機械学習 入門", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"max length ok", strings.Repeat("x", 200), false},
		{"too long", strings.Repeat("x", 201), true},
		{"too long unicode", strings.Repeat("あ", 201), true},
		{"control char", "a\x1bb", true},
		{"tab allowed", "a\tb", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.keyword)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadInteractiveConfirmed(t *testing.T) {
	in := strings.NewReader("first keyword\nsecond keyword\n\ny\n")
	var out strings.Builder

	kws, err := ReadInteractive(in, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"first keyword", "second keyword"}, kws)
}

func TestReadInteractiveDeclined(t *testing.T) {
	in := strings.NewReader("keyword\n\nn\n")
	var out strings.Builder

	kws, err := ReadInteractive(in, &out)
	require.NoError(t, err)
	assert.Empty(t, kws)
}

func TestReadInteractiveNothingEntered(t *testing.T) {
	in := strings.NewReader("")
	var out strings.Builder

	kws, err := ReadInteractive(in, &out)
	require.NoError(t, err)
	assert.Empty(t, kws)
}
