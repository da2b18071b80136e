package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCleanQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Drake - God's Plan", "Drake God's Plan"},
		{"Song Name (feat. Somebody)", "Song Name"},
		{"Song Name [ft. Somebody] Artist", "Song Name Artist"},
		{"  too   many   spaces  ", "too many spaces"},
	}
	for _, c := range cases {
		if got := CleanQuery(c.in); got != c.want {
			t.Errorf("CleanQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseStreamingTitle(t *testing.T) {
	cases := []struct {
		in         string
		wantTrack  string
		wantArtist string
	}{
		{"Track Name – Song by Artist Name – Apple Music", "Track Name", "Artist Name"},
		{"Track Name - song and lyrics by Artist Name | Spotify", "Track Name", "Artist Name"},
		{"Track Name by Artist Name - Deezer", "Track Name", "Artist Name"},
		{"Track Name on Tidal", "Track Name", ""},
		{"Just A Title", "Just A Title", ""},
	}
	for _, c := range cases {
		track, artist := ParseStreamingTitle(c.in)
		if track != c.wantTrack || artist != c.wantArtist {
			t.Errorf("ParseStreamingTitle(%q) = (%q, %q), want (%q, %q)",
				c.in, track, artist, c.wantTrack, c.wantArtist)
		}
	}
}

func TestNormalizeFreeText(t *testing.T) {
	n := NewNormalizer()
	target, kind, err := n.Normalize(context.Background(), "Drake - God's Plan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindSearch {
		t.Errorf("kind = %v, want KindSearch", kind)
	}
	if target.TrackName != "Drake God's Plan" {
		t.Errorf("TrackName = %q", target.TrackName)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := NewNormalizer()
	_, _, err := n.Normalize(context.Background(), "  - ")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("want ErrEmptyQuery, got %v", err)
	}
}

func TestNormalizeDirectURL(t *testing.T) {
	n := NewNormalizer()
	target, kind, err := n.Normalize(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindDirectURL {
		t.Errorf("kind = %v, want KindDirectURL", kind)
	}
	if target.RawQuery != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("RawQuery = %q", target.RawQuery)
	}
	// Direct URLs must pass through untouched, no title fetch.
	if target.TrackName != "" {
		t.Errorf("TrackName = %q, want empty", target.TrackName)
	}
}

func TestNormalizeServiceLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Track Name - song and lyrics by Artist Name | Spotify</title></head></html>"))
	}))
	defer ts.Close()

	n := &Normalizer{HTTPClient: &http.Client{Transport: rewriteTransport{target: ts.URL}}}
	target, kind, err := n.Normalize(context.Background(), "https://open.spotify.com/track/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindServiceLink {
		t.Errorf("kind = %v, want KindServiceLink", kind)
	}
	if target.TrackName != "Track Name" || target.ArtistName != "Artist Name" {
		t.Errorf("target = %+v", target)
	}
}

func TestNormalizeServiceLinkFetchFailureIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	n := &Normalizer{HTTPClient: &http.Client{Transport: rewriteTransport{target: ts.URL}}}
	_, _, err := n.Normalize(context.Background(), "https://music.apple.com/album/1")
	if !errors.Is(err, ErrLinkMetadata) {
		t.Errorf("want ErrLinkMetadata, got %v", err)
	}
}

// rewriteTransport redirects every request to the test server.
type rewriteTransport struct {
	target string
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequest(req.Method, rt.target, nil)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return http.DefaultTransport.RoundTrip(redirected)
}
