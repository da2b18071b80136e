// pkg/cover/cover_test.go
package cover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

func TestResolvePrefersSpotify(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok", "expires_in": 3600})
		case "/search":
			w.Write([]byte(`{"tracks":{"items":[{"album":{"images":[{"url":"https://img/spotify.jpg"}]}}]}}`))
		default:
			t.Errorf("Неожиданный запрос %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	spotify := newTestSpotify(ts)
	r := NewResolver(spotify, logging.NewStdLogger())

	got := r.Resolve(context.Background(), resolver.TargetDescriptor{TrackName: "Song Name", ArtistName: "Artist Name"}, "Song Name Artist Name")
	if got != "https://img/spotify.jpg" {
		t.Errorf("coverURL = %q", got)
	}
}

func TestResolveFallsBackToDeezer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Неожиданный запрос %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"title":"Song Name","artist":{"name":"Artist Name"},"album":{"cover_big":"https://img/deezer.jpg"}}]}`))
	}))
	defer ts.Close()

	// Spotify не настроен, каскад сразу падает на Deezer.
	r := NewResolver(NewSpotifyClient("", "", logging.NewStdLogger()), logging.NewStdLogger())
	r.DeezerBaseURL = ts.URL
	r.HTTPClient = ts.Client()

	got := r.Resolve(context.Background(), resolver.TargetDescriptor{TrackName: "Song Name"}, "Song Name")
	if got != "https://img/deezer.jpg" {
		t.Errorf("coverURL = %q", got)
	}
}

func TestResolvePlaceholderWhenNothingFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	r := NewResolver(NewSpotifyClient("", "", logging.NewStdLogger()), logging.NewStdLogger())
	r.DeezerBaseURL = ts.URL
	r.HTTPClient = ts.Client()

	got := r.Resolve(context.Background(), resolver.TargetDescriptor{TrackName: "Song Name"}, "Song Name")
	if got != PlaceholderURL {
		t.Errorf("coverURL = %q, ожидалась заглушка", got)
	}
}

func TestDeezerSearchParsesTopResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`{"data":[{"title":"Song Name","artist":{"name":"Artist Name"},"album":{"cover_big":"https://img/d.jpg"}}]}`))
	}))
	defer ts.Close()

	r := NewResolver(nil, logging.NewStdLogger())
	r.DeezerBaseURL = ts.URL
	r.HTTPClient = ts.Client()

	track, err := r.DeezerSearch(context.Background(), "Song Name Artist Name")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if track == nil || track.Artist != "Artist Name" || track.CoverURL != "https://img/d.jpg" {
		t.Errorf("track = %+v", track)
	}
}
