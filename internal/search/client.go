// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search provides the Google Custom Search client and the error
// taxonomy the runner's retry policy is built on.
// See docs/ARCHITECTURE § Search Client.
package search

import "context"

// Item is one entry from a search response.
type Item struct {
	Title   string
	URL     string
	Snippet string
}

// Client performs a single search call. Retry, timeout enforcement and
// rate limiting live in the runner, not here.
type Client interface {
	Search(ctx context.Context, query string) ([]Item, error)
}
