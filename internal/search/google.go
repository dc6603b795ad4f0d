// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/pdiddy/keyword-search/pkg/types"
)

// resultsPerQuery is how many items each call requests. The runner only
// uses the first item, but a couple of spares cost nothing and survive
// the occasional dead link at position one.
const resultsPerQuery = 3

// GoogleClient implements Client using the Google Custom Search API.
type GoogleClient struct {
	service *customsearch.Service
	cx      string
	logger  *zap.Logger
}

// NewGoogleClient builds a client for the given credentials. Call
// deadlines are supplied per attempt through the context, so no timeout
// is configured here.
func NewGoogleClient(ctx context.Context, cfg types.GoogleAPIConfig, userAgent string, logger *zap.Logger) (*GoogleClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if userAgent != "" {
		opts = append(opts, option.WithUserAgent(userAgent))
	}
	service, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating customsearch service: %w", err)
	}
	return &GoogleClient{
		service: service,
		cx:      cfg.SearchEngineID,
		logger:  logger,
	}, nil
}

// Search implements Client.
func (c *GoogleClient) Search(ctx context.Context, query string) ([]Item, error) {
	c.logger.Debug("executing search", zap.String("query", query))

	call := c.service.Cse.List().
		Context(ctx).
		Q(query).
		Cx(c.cx).
		Num(resultsPerQuery)

	resp, err := call.Do()
	if err != nil {
		return nil, wrapAPIError(err)
	}

	var items []Item
	for _, it := range resp.Items {
		items = append(items, Item{
			Title:   it.Title,
			URL:     it.Link,
			Snippet: it.Snippet,
		})
	}
	return items, nil
}

// CheckConnection performs a minimal query to verify the credentials and
// network path. A zero-item response still counts as a working connection.
func (c *GoogleClient) CheckConnection(ctx context.Context) error {
	call := c.service.Cse.List().
		Context(ctx).
		Q("connection test").
		Cx(c.cx).
		Num(1)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("connection test: %w", wrapAPIError(err))
	}
	return nil
}

var _ Client = (*GoogleClient)(nil)
