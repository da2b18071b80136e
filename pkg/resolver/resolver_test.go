package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/Clean1ines/vidgen/pkg/logging"
)

type fakeProvider struct {
	name  Source
	cand  *Candidate
	err   error
	calls int
}

func (f *fakeProvider) Name() Source { return f.name }

func (f *fakeProvider) Resolve(ctx context.Context, target TargetDescriptor) (*Candidate, error) {
	f.calls++
	return f.cand, f.err
}

type fakeMeta struct {
	cand *Candidate
	err  error
}

func (f *fakeMeta) Fetch(ctx context.Context, url string) (*Candidate, error) {
	return f.cand, f.err
}

func newTestResolver(providers ...Provider) *Resolver {
	return &Resolver{
		Normalizer: NewNormalizer(),
		Providers:  providers,
		Logger:     logging.NewStdLogger(),
	}
}

func TestResolveShortCircuitsOnFirstMatch(t *testing.T) {
	first := &fakeProvider{
		name: SourceDeezer,
		cand: &Candidate{Title: "Artist - Song Name", URL: "https://cdn/1.mp3", Duration: 200, Source: SourceDeezer},
	}
	second := &fakeProvider{name: SourceSoundCloud}

	r := newTestResolver(first, second)
	track, _, kind, err := r.Resolve(context.Background(), "Song Name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindSearch {
		t.Errorf("kind = %v, want KindSearch", kind)
	}
	if track.Source != SourceDeezer || track.AudioURL != "https://cdn/1.mp3" {
		t.Errorf("track = %+v", track)
	}
	if second.calls != 0 {
		t.Errorf("later provider consulted after a hit: %d calls", second.calls)
	}
}

func TestResolveAdvancesPastFailures(t *testing.T) {
	failing := &fakeProvider{name: SourceDeezer, err: errors.New("service down")}
	empty := &fakeProvider{name: SourceSoundCloud}
	last := &fakeProvider{
		name: SourceYouTube,
		cand: &Candidate{Title: "Song Name (Official Video)", URL: "https://yt/v", Duration: 180, Source: SourceYouTube},
	}

	r := newTestResolver(failing, empty, last)
	track, _, _, err := r.Resolve(context.Background(), "Song Name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Source != SourceYouTube {
		t.Errorf("track source = %v, want SourceYouTube", track.Source)
	}
	if failing.calls != 1 || empty.calls != 1 || last.calls != 1 {
		t.Errorf("call counts = %d/%d/%d, want 1/1/1", failing.calls, empty.calls, last.calls)
	}
}

// Validation is uniform: every provider's candidate goes through the
// same title containment check and preview filter.
func TestResolveRejectsMismatchAndPreview(t *testing.T) {
	mismatch := &fakeProvider{
		name: SourceDeezer,
		cand: &Candidate{Title: "Completely Different", URL: "https://cdn/2.mp3", Duration: 200, Source: SourceDeezer},
	}
	preview := &fakeProvider{
		name: SourceSoundCloud,
		cand: &Candidate{Title: "Song Name", URL: "https://sc/3", Duration: 30, Source: SourceSoundCloud},
	}
	good := &fakeProvider{
		name: SourceArchive,
		cand: &Candidate{Title: "Song Name (remastered)", URL: "https://archive.org/details/x", Duration: 240, Source: SourceArchive},
	}

	r := newTestResolver(mismatch, preview, good)
	track, _, _, err := r.Resolve(context.Background(), "Song Name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Source != SourceArchive {
		t.Errorf("track source = %v, want SourceArchive", track.Source)
	}
}

func TestResolveExhaustionIsErrNoMatch(t *testing.T) {
	r := newTestResolver(
		&fakeProvider{name: SourceDeezer},
		&fakeProvider{name: SourceSoundCloud, err: errors.New("timeout")},
	)
	_, _, _, err := r.Resolve(context.Background(), "Song Name")
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("want ErrNoMatch, got %v", err)
	}
}

func TestResolveDirectURLTrustsInput(t *testing.T) {
	provider := &fakeProvider{name: SourceDeezer}
	r := newTestResolver(provider)
	r.Meta = &fakeMeta{cand: &Candidate{Title: "Video Title", Duration: 30, Source: SourceYouTube}}

	track, _, kind, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindDirectURL {
		t.Errorf("kind = %v, want KindDirectURL", kind)
	}
	// The literal URL is the locator; no provider chain, no preview
	// filter for direct links.
	if track.AudioURL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("AudioURL = %q", track.AudioURL)
	}
	if track.Title != "Video Title" {
		t.Errorf("Title = %q", track.Title)
	}
	if provider.calls != 0 {
		t.Errorf("provider chain consulted for a direct URL")
	}
}

func TestResolveDirectURLSurvivesMetaFailure(t *testing.T) {
	r := newTestResolver()
	r.Meta = &fakeMeta{err: errors.New("extractor down")}

	track, _, _, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Title != "Unknown Track" {
		t.Errorf("Title = %q, want fallback", track.Title)
	}
}
