// pkg/cover/spotify_test.go
package cover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
)

// newSpotifyTestServer считает обращения за токеном и отдает одну
// обложку на любой поисковый запрос.
func newSpotifyTestServer(t *testing.T, tokenCalls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			*tokenCalls++
			if user, _, ok := r.BasicAuth(); !ok || user != "id" {
				t.Errorf("Ожидалась basic-авторизация клиента")
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok",
				"expires_in":   3600,
			})
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("Authorization = %q", got)
			}
			w.Write([]byte(`{"tracks":{"items":[{"album":{"images":[{"url":"https://img/cover.jpg"}]}}]}}`))
		}
	}))
}

func newTestSpotify(ts *httptest.Server) *SpotifyClient {
	c := NewSpotifyClient("id", "secret", logging.NewStdLogger())
	c.HTTPClient = ts.Client()
	c.TokenURL = ts.URL + "/token"
	c.SearchURL = ts.URL + "/search"
	return c
}

func TestCoverURLCachesToken(t *testing.T) {
	tokenCalls := 0
	ts := newSpotifyTestServer(t, &tokenCalls)
	defer ts.Close()

	c := newTestSpotify(ts)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		coverURL, err := c.CoverURL(ctx, "Song Name", "Artist Name")
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
		if coverURL != "https://img/cover.jpg" {
			t.Errorf("coverURL = %q", coverURL)
		}
	}
	// Токен живет час: три поиска подряд делают ровно один запрос токена.
	if tokenCalls != 1 {
		t.Errorf("Ожидался 1 запрос токена, получено %d", tokenCalls)
	}
}

func TestCoverURLRefreshesExpiredToken(t *testing.T) {
	tokenCalls := 0
	ts := newSpotifyTestServer(t, &tokenCalls)
	defer ts.Close()

	c := newTestSpotify(ts)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := c.CoverURL(ctx, "Song Name", ""); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	// Сдвигаем часы за границу истечения токена.
	now = now.Add(2 * time.Hour)
	if _, err := c.CoverURL(ctx, "Song Name", ""); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if tokenCalls != 2 {
		t.Errorf("Ожидалось 2 запроса токена, получено %d", tokenCalls)
	}
}

func TestCoverURLEmptyResult(t *testing.T) {
	tokenCalls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			tokenCalls++
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok", "expires_in": 3600})
		case "/search":
			w.Write([]byte(`{"tracks":{"items":[]}}`))
		}
	}))
	defer ts.Close()

	c := newTestSpotify(ts)
	coverURL, err := c.CoverURL(context.Background(), "Song Name", "")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if coverURL != "" {
		t.Errorf("Ожидалась пустая строка, получено %q", coverURL)
	}
}

func TestConfigured(t *testing.T) {
	if NewSpotifyClient("", "", logging.NewStdLogger()).Configured() {
		t.Error("Клиент без кредов не должен считаться настроенным")
	}
	if !NewSpotifyClient("id", "secret", logging.NewStdLogger()).Configured() {
		t.Error("Клиент с кредами должен считаться настроенным")
	}
}
