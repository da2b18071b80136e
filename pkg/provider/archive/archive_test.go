package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

func newTestClient(ts *httptest.Server) *Client {
	c := New(logging.NewStdLogger())
	c.BaseURL = ts.URL
	c.HTTPClient = ts.Client()
	return c
}

func TestResolvePicksFirstMatchingDoc(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("rows"); got != "5" {
			t.Errorf("rows = %q, want 5", got)
		}
		w.Write([]byte(`{"response":{"docs":[
			{"identifier":"live-bootleg","title":"Live Bootleg 1997"},
			{"identifier":"radio-show","title":"Radio Show Episode 3"},
			{"identifier":"song-name-rip","title":"Song Name (vinyl rip)"},
			{"identifier":"song-name-two","title":"Song Name alternate"},
			{"identifier":"other","title":"Other Record"}
		]}}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	cand, err := c.Resolve(context.Background(), resolver.TargetDescriptor{TrackName: "Song Name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	// The first two docs rank higher but fail the containment check;
	// the third is the first acceptable one.
	if cand.URL != "https://archive.org/details/song-name-rip" {
		t.Errorf("URL = %q", cand.URL)
	}
	if cand.Source != resolver.SourceArchive {
		t.Errorf("Source = %v", cand.Source)
	}
}

func TestResolveNoMatchingDocs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"docs":[{"identifier":"x","title":"Unrelated"}]}}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	cand, err := c.Resolve(context.Background(), resolver.TargetDescriptor{TrackName: "Song Name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cand != nil {
		t.Errorf("expected no candidate, got %+v", cand)
	}
}

func TestResolveServerErrorDegradesToNil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	cand, err := c.Resolve(context.Background(), resolver.TargetDescriptor{TrackName: "Song Name"})
	if err != nil || cand != nil {
		t.Errorf("want (nil, nil), got (%+v, %v)", cand, err)
	}
}
