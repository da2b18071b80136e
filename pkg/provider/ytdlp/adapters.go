package ytdlp

import (
	"context"

	"github.com/Clean1ines/vidgen/pkg/resolver"
)

// SoundCloud is the community-source adapter: top match of a
// site-restricted search, metadata returned untouched. Validation and
// the preview filter are applied by the orchestrator.
type SoundCloud struct {
	Runner *Runner
}

// Name implements resolver.Provider.
func (s *SoundCloud) Name() resolver.Source { return resolver.SourceSoundCloud }

// Resolve implements resolver.Provider. Extraction failures degrade to
// (nil, nil); they are expected and never retried here.
func (s *SoundCloud) Resolve(ctx context.Context, target resolver.TargetDescriptor) (*resolver.Candidate, error) {
	cand, err := s.Runner.Extract(ctx, target.SearchQuery(), Options{SearchPrefix: "scsearch1:"})
	if err != nil {
		s.Runner.Logger.Warnf("SoundCloud search failed: %v", err)
		return nil, nil
	}
	return cand, nil
}

// YouTube is the fallback video-platform adapter, consulted only after
// the licensed and community sources are exhausted.
type YouTube struct {
	Runner *Runner
}

// Name implements resolver.Provider.
func (y *YouTube) Name() resolver.Source { return resolver.SourceYouTube }

// Resolve implements resolver.Provider.
func (y *YouTube) Resolve(ctx context.Context, target resolver.TargetDescriptor) (*resolver.Candidate, error) {
	cand, err := y.Runner.Extract(ctx, target.SearchQuery(), Options{
		SearchPrefix:       "ytsearch1:",
		ForceYouTubeClient: true,
	})
	if err != nil {
		y.Runner.Logger.Warnf("YouTube search failed: %v", err)
		return nil, nil
	}
	return cand, nil
}
