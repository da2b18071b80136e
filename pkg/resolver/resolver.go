package resolver

import (
	"context"
	"errors"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/matching"
)

// ErrNoMatch is the normal terminal state when every provider is
// exhausted without an accepted candidate. Not retried.
var ErrNoMatch = errors.New("no match found on any source")

// Resolver runs the fixed provider chain and owns the final decision
// of audio URL + title for one request.
type Resolver struct {
	Normalizer *Normalizer
	// Providers in trust order: licensed source first, free community
	// sources last. Fixed at startup, never reordered per request.
	Providers []Provider
	// Meta fetches title metadata for direct URLs.
	Meta   MetadataFetcher
	Logger *logging.Logger
}

// Resolve turns raw user input into a ResolvedTrack. It also returns
// the derived target and input kind so the caller can pick a cover
// search term. Errors: ErrLinkMetadata and ErrEmptyQuery are input
// errors (ask the user to type manually); ErrNoMatch is exhaustion.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*ResolvedTrack, TargetDescriptor, QueryKind, error) {
	target, kind, err := r.Normalizer.Normalize(ctx, raw)
	if err != nil {
		return nil, target, kind, err
	}

	if kind == KindDirectURL {
		track := r.resolveDirect(ctx, target.RawQuery)
		return track, target, kind, nil
	}

	track, err := r.search(ctx, target)
	return track, target, kind, err
}

// resolveDirect trusts the literal input as the audio locator and only
// asks the extraction tool for a display title. No validation: a direct
// link is trusted by definition.
func (r *Resolver) resolveDirect(ctx context.Context, url string) *ResolvedTrack {
	track := &ResolvedTrack{
		Title:    "Unknown Track",
		AudioURL: url,
		Source:   SourceYouTube,
	}
	if !IsYouTubeURL(url) {
		track.Source = SourceSoundCloud
	}
	if r.Meta == nil {
		return track
	}
	cand, err := r.Meta.Fetch(ctx, url)
	if err != nil {
		r.Logger.Warnf("Direct URL metadata failed for %s: %v", url, err)
		return track
	}
	if cand != nil {
		track.Title = cand.Title
		track.Duration = cand.Duration
		if cand.Source != "" {
			track.Source = cand.Source
		}
	}
	return track
}

// search walks the provider priority list, short-circuiting on the
// first candidate that passes the title containment check and the
// preview-length filter. A transient failure of one provider simply
// advances to the next, it does not rewind.
func (r *Resolver) search(ctx context.Context, target TargetDescriptor) (*ResolvedTrack, error) {
	if target.TrackName == "" {
		return nil, ErrEmptyQuery
	}

	for _, p := range r.Providers {
		cand, err := p.Resolve(ctx, target)
		if err != nil {
			r.Logger.Warnf("Provider %s failed: %v", p.Name(), err)
			continue
		}
		if cand == nil {
			r.Logger.Infof("Provider %s: no candidate for %q", p.Name(), target.SearchQuery())
			continue
		}
		if !matching.IsAcceptable(cand.Title, target.TrackName) {
			r.Logger.Warnf("Provider %s: %q did not match %q", p.Name(), cand.Title, target.TrackName)
			continue
		}
		if matching.IsPreview(cand.Duration) {
			r.Logger.Warnf("Provider %s: %q is a preview (%ds)", p.Name(), cand.Title, cand.Duration)
			continue
		}
		r.Logger.Infof("Found on %s: %s", p.Name(), cand.Title)
		return &ResolvedTrack{
			Title:    cand.Title,
			AudioURL: cand.URL,
			Source:   cand.Source,
			Duration: cand.Duration,
		}, nil
	}

	return nil, ErrNoMatch
}
