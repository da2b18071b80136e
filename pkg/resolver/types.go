package resolver

import (
	"context"
	"strings"
)

// Source identifies the provider that produced a candidate.
type Source string

const (
	SourceDeezer     Source = "deezer"
	SourceSoundCloud Source = "soundcloud"
	SourceYouTube    Source = "youtube"
	SourceArchive    Source = "archive"
)

// TargetDescriptor is the normalized search target for one request.
// TrackName is mandatory for a search; ArtistName may be empty.
type TargetDescriptor struct {
	TrackName  string
	ArtistName string
	RawQuery   string
}

// SearchQuery builds the provider-facing query string.
func (t TargetDescriptor) SearchQuery() string {
	if t.ArtistName != "" {
		return CleanQuery(t.TrackName + " " + t.ArtistName)
	}
	return CleanQuery(t.TrackName)
}

// Candidate is an unvalidated result from a single provider.
type Candidate struct {
	Title    string
	URL      string
	Duration int // seconds, 0 = unknown
	Source   Source
}

// ResolvedTrack is the orchestrator's final answer for one request.
type ResolvedTrack struct {
	Title    string
	AudioURL string
	Source   Source
	Duration int
}

// Provider is the uniform adapter contract. Expected failures
// (timeouts, bad JSON, no results) come back as (nil, nil); an error is
// logged by the orchestrator and treated the same way.
type Provider interface {
	Name() Source
	Resolve(ctx context.Context, target TargetDescriptor) (*Candidate, error)
}

// MetadataFetcher fetches title metadata for a direct URL.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) (*Candidate, error)
}

// IsYouTubeURL reports whether the locator points at the YouTube family.
func IsYouTubeURL(u string) bool {
	return strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be")
}
