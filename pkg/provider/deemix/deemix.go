// Package deemix talks to the self-hosted track-location microservices
// (primary/secondary deployments with independent base URLs). Both
// missing or both failing is a normal outcome, not an error.
package deemix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

const (
	healthTimeout  = 5 * time.Second
	// Service-side download timeout is 60s; give the HTTP call headroom.
	requestTimeout = 65 * time.Second
)

// Client is the licensed-source provider adapter.
type Client struct {
	PrimaryURL   string
	SecondaryURL string
	HTTPClient   *http.Client
	Logger       *logging.Logger
}

// New creates a Client for the given base URLs (either may be empty).
func New(primaryURL, secondaryURL string, logger *logging.Logger) *Client {
	return &Client{
		PrimaryURL:   primaryURL,
		SecondaryURL: secondaryURL,
		HTTPClient:   &http.Client{Timeout: requestTimeout},
		Logger:       logger,
	}
}

// Name implements resolver.Provider.
func (c *Client) Name() resolver.Source { return resolver.SourceDeezer }

// Resolve tries the primary service, then the secondary. Each attempt
// is a health probe followed by the actual search. All failures
// degrade to (nil, nil).
func (c *Client) Resolve(ctx context.Context, target resolver.TargetDescriptor) (*resolver.Candidate, error) {
	query := target.SearchQuery()
	for _, base := range []string{c.PrimaryURL, c.SecondaryURL} {
		if base == "" {
			continue
		}
		if !c.healthy(ctx, base) {
			c.Logger.Warnf("Deemix service %s unhealthy, skipping", base)
			continue
		}
		cand := c.search(ctx, base, query)
		if cand != nil {
			return cand, nil
		}
	}
	return nil, nil
}

type healthResponse struct {
	Status         string `json:"status"`
	DeezerLoggedIn bool   `json:"deezer_logged_in"`
}

// healthy performs the lightweight probe with its own short timeout.
func (c *Client) healthy(ctx context.Context, base string) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return false
	}
	// Два поколения деплоя отвечают по-разному.
	return hr.Status == "healthy" || hr.DeezerLoggedIn
}

type searchResponse struct {
	Success  bool    `json:"success"`
	TrackURL string  `json:"track_url"`
	URL      string  `json:"url"`
	Artist   string  `json:"artist"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Error    string  `json:"error"`
}

func (c *Client) search(ctx context.Context, base, query string) *resolver.Candidate {
	payload, _ := json.Marshal(map[string]interface{}{
		"query":   query,
		"timeout": 60,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/search-or-download", bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warnf("Deemix request to %s failed: %v", base, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.Logger.Warnf("Deemix %s returned status %d", base, resp.StatusCode)
		return nil
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		c.Logger.Warnf("Deemix %s: bad JSON: %v", base, err)
		return nil
	}
	audioURL := sr.TrackURL
	if audioURL == "" {
		audioURL = sr.URL
	}
	if !sr.Success || audioURL == "" {
		c.Logger.Infof("Deemix %s: no result (%s)", base, sr.Error)
		return nil
	}

	title := sr.Title
	if sr.Artist != "" {
		title = fmt.Sprintf("%s - %s", sr.Artist, sr.Title)
	}
	return &resolver.Candidate{
		Title:    title,
		URL:      audioURL,
		Duration: int(sr.Duration),
		Source:   resolver.SourceDeezer,
	}
}
