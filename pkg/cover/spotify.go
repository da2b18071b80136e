// pkg/cover/spotify.go
package cover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
)

const (
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	spotifySearchURL = "https://api.spotify.com/v1/search"

	// Запас до заявленного истечения токена: обновляемся чуть раньше,
	// чтобы не отдать наружу почти протухший токен.
	tokenSafetyMargin = 60 * time.Second
)

// SpotifyClient ищет обложки через Spotify Web API по client-credentials
// токену. Токен получается один раз и кэшируется в состоянии клиента до
// истечения срока, обновляется лениво — не на каждый вызов.
type SpotifyClient struct {
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	TokenURL     string
	SearchURL    string
	Logger       *logging.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// NewSpotifyClient создает клиента; при пустых кредах он считается
// несконфигурированным и каскад обложек пропускает эту ступень.
func NewSpotifyClient(clientID, clientSecret string, logger *logging.Logger) *SpotifyClient {
	return &SpotifyClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		TokenURL:     spotifyTokenURL,
		SearchURL:    spotifySearchURL,
		Logger:       logger,
		now:          time.Now,
	}
}

// Configured сообщает, заданы ли креды Spotify.
func (c *SpotifyClient) Configured() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token возвращает кэшированный access_token, запрашивая новый только
// по истечении срока (минус запас).
func (c *SpotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.expiresAt.Add(-tokenSafetyMargin)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify token: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("spotify token: пустой access_token")
	}

	c.accessToken = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []struct {
			Album struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"items"`
	} `json:"tracks"`
}

// CoverURL ищет обложку трека; при известном исполнителе запрос
// уточняется полями track:/artist:.
func (c *SpotifyClient) CoverURL(ctx context.Context, track, artist string) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	query := track
	if artist != "" {
		query = fmt.Sprintf("track:%s artist:%s", track, artist)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify search: status %d", resp.StatusCode)
	}

	var sr spotifySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", err
	}
	if len(sr.Tracks.Items) == 0 || len(sr.Tracks.Items[0].Album.Images) == 0 {
		return "", nil
	}
	return sr.Tracks.Items[0].Album.Images[0].URL, nil
}
