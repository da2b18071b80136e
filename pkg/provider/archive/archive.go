// Package archive queries the Internet Archive search index. Unlike
// the other adapters it filters relevance internally: the search API
// returns off-topic hits even on strong queries, so it walks the top N
// results ranked by downloads and keeps the first one whose title
// passes the containment check.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/matching"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

const (
	defaultBaseURL = "https://archive.org"
	detailsBaseURL = "https://archive.org/details/"
	defaultRows    = 5
)

// Client is the archive-source provider adapter.
type Client struct {
	BaseURL    string
	Rows       int
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// New creates a Client against the public archive.org endpoints.
func New(logger *logging.Logger) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Rows:       defaultRows,
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		Logger:     logger,
	}
}

// Name implements resolver.Provider.
func (c *Client) Name() resolver.Source { return resolver.SourceArchive }

type searchDoc struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

type searchResponse struct {
	Response struct {
		Docs []searchDoc `json:"docs"`
	} `json:"response"`
}

// Resolve implements resolver.Provider. Returns the first of the top N
// results whose title contains the target track name, or (nil, nil).
func (c *Client) Resolve(ctx context.Context, target resolver.TargetDescriptor) (*resolver.Candidate, error) {
	q := url.Values{}
	q.Set("q", target.SearchQuery()+" AND mediatype:(audio)")
	q.Set("output", "json")
	q.Set("rows", fmt.Sprintf("%d", c.rows()))
	searchURL := fmt.Sprintf("%s/advancedsearch.php?%s&fl[]=identifier&fl[]=title&sort[]=downloads+desc", c.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, nil
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warnf("Archive search failed: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.Logger.Warnf("Archive search returned status %d", resp.StatusCode)
		return nil, nil
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		c.Logger.Warnf("Archive search: bad JSON: %v", err)
		return nil, nil
	}

	for _, doc := range sr.Response.Docs {
		if !matching.IsAcceptable(doc.Title, target.TrackName) {
			continue
		}
		return &resolver.Candidate{
			Title:  doc.Title,
			URL:    detailsBaseURL + doc.Identifier,
			Source: resolver.SourceArchive,
		}, nil
	}
	return nil, nil
}

func (c *Client) rows() int {
	if c.Rows > 0 {
		return c.Rows
	}
	return defaultRows
}
