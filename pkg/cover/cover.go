// pkg/cover/cover.go
package cover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

// PlaceholderURL – статическая заглушка, когда обложку не нашли нигде.
const PlaceholderURL = "https://placehold.co/600x600/1a1a1a/ffffff?text=No+Cover"

// Resolver находит обложку независимо от того, какой провайдер дал
// аудио. Каскад: Spotify (artist-aware, токен) → публичный поиск
// Deezer → заглушка. Никогда не возвращает ошибку наружу.
type Resolver struct {
	Spotify       *SpotifyClient
	HTTPClient    *http.Client
	DeezerBaseURL string
	Logger        *logging.Logger
}

// NewResolver создает каскадный резолвер обложек.
func NewResolver(spotify *SpotifyClient, logger *logging.Logger) *Resolver {
	return &Resolver{
		Spotify:       spotify,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
		DeezerBaseURL: "https://api.deezer.com",
		Logger:        logger,
	}
}

// Resolve возвращает локатор обложки; каждая ступень молча падает на
// следующую.
func (r *Resolver) Resolve(ctx context.Context, target resolver.TargetDescriptor, fallbackQuery string) string {
	if r.Spotify.Configured() && target.TrackName != "" {
		coverURL, err := r.Spotify.CoverURL(ctx, target.TrackName, target.ArtistName)
		if err != nil {
			r.Logger.Warnf("Spotify cover lookup failed: %v", err)
		} else if coverURL != "" {
			return coverURL
		}
	}

	if fallbackQuery != "" {
		found, err := r.DeezerSearch(ctx, fallbackQuery)
		if err != nil {
			r.Logger.Warnf("Deezer cover search failed: %v", err)
		} else if found != nil && found.CoverURL != "" {
			return found.CoverURL
		}
	}

	r.Logger.Infof("No cover found, using placeholder")
	return PlaceholderURL
}

// DeezerTrack – результат публичного поиска Deezer.
type DeezerTrack struct {
	Title    string
	Artist   string
	CoverURL string
}

type deezerSearchResponse struct {
	Data []struct {
		Title  string `json:"title"`
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album struct {
			CoverBig string `json:"cover_big"`
		} `json:"album"`
	} `json:"data"`
}

// DeezerSearch возвращает верхний результат поиска либо nil при пустой
// выдаче. Используется и каскадом обложек, и Audio Mode (уточняющий
// повторный поиск по исполнителю).
func (r *Resolver) DeezerSearch(ctx context.Context, query string) (*DeezerTrack, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&limit=1", r.DeezerBaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer search: status %d", resp.StatusCode)
	}

	var sr deezerSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if len(sr.Data) == 0 {
		return nil, nil
	}
	d := sr.Data[0]
	return &DeezerTrack{
		Title:    d.Title,
		Artist:   d.Artist.Name,
		CoverURL: d.Album.CoverBig,
	}, nil
}
