package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// QueryKind classifies the normalized input.
type QueryKind int

const (
	// KindSearch is free text that goes through the provider chain.
	KindSearch QueryKind = iota
	// KindDirectURL is a bare URL used as the audio locator as-is.
	KindDirectURL
	// KindServiceLink is a streaming-service page resolved via its <title>.
	KindServiceLink
)

// ErrLinkMetadata means a streaming-service page could not be read.
// Fatal for the request: a blind search would guess the wrong track.
var ErrLinkMetadata = errors.New("could not read link metadata")

// ErrEmptyQuery means normalization produced no usable track name.
var ErrEmptyQuery = errors.New("empty query after normalization")

var (
	dspPattern = regexp.MustCompile(`^https?://(open\.spotify\.com|www\.deezer\.|link\.deezer\.|music\.apple\.com|tidal\.com|music\.youtube\.com|music\.amazon\.)`)
	urlPattern = regexp.MustCompile(`^https?://[^ "]+$`)

	appleSongPattern = regexp.MustCompile(`(?i) [–—] Song by (.+?) [–—] Apple Music.*`)
	suffixPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?i) [-–—|] Spotify.*`),
		regexp.MustCompile(`(?i) on Spotify.*`),
		regexp.MustCompile(`(?i) [-–—|] Deezer.*`),
		regexp.MustCompile(`(?i) on Deezer.*`),
		regexp.MustCompile(`(?i) [-–—|] Apple Music.*`),
		regexp.MustCompile(`(?i) on Apple Music.*`),
		regexp.MustCompile(`(?i) [-–—|] Tidal.*`),
		regexp.MustCompile(`(?i) on Tidal.*`),
		regexp.MustCompile(`(?i) [-–—|] Amazon Music.*`),
		regexp.MustCompile(`(?i) on Amazon Music.*`),
		regexp.MustCompile(`(?i) from .*$`),
		regexp.MustCompile(`(?i) - (Single|Album|EP).*`),
	}
	lyricsByPattern    = regexp.MustCompile(`(?i) song and lyrics by `)
	leadingJunkPattern = regexp.MustCompile(`^[\x{200B}-\x{200D}\x{FEFF}\-–—•\s]+`)
	separatorPattern   = regexp.MustCompile(`(?i)^(.+?)\s+(?:by|[-–—])\s+(.+)$`)

	featPattern  = regexp.MustCompile(`(?i)[([]\s*(?:feat|ft)\.?[^)\]]*[)\]]?`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// linkUserAgent: streaming services serve a usable <title> to crawlers.
const linkUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

// CleanQuery strips search noise from free text: hyphens become spaces,
// "(feat. …)" parentheticals go away, whitespace collapses.
func CleanQuery(text string) string {
	text = strings.ReplaceAll(text, "-", " ")
	text = featPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ParseStreamingTitle turns a raw streaming-service page title into a
// (track, artist) pair. Artist is empty when no separator is found.
func ParseStreamingTitle(rawTitle string) (track, artist string) {
	title := appleSongPattern.ReplaceAllString(rawTitle, " by $1")
	title = lyricsByPattern.ReplaceAllString(title, " ")
	for _, p := range suffixPatterns {
		title = p.ReplaceAllString(title, "")
	}
	title = leadingJunkPattern.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	if m := separatorPattern.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return title, ""
}

// Normalizer turns raw user input into a TargetDescriptor.
type Normalizer struct {
	HTTPClient *http.Client
}

// NewNormalizer returns a Normalizer with a bounded page-fetch timeout.
func NewNormalizer() *Normalizer {
	return &Normalizer{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Normalize classifies raw input and derives the search target.
// For streaming-service links any fetch/parse failure is fatal
// (ErrLinkMetadata); the caller must not fall through to a blind search.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (TargetDescriptor, QueryKind, error) {
	raw = strings.TrimSpace(raw)

	if dspPattern.MatchString(raw) {
		title, err := n.fetchTitle(ctx, raw)
		if err != nil {
			return TargetDescriptor{}, KindServiceLink, fmt.Errorf("%w: %v", ErrLinkMetadata, err)
		}
		track, artist := ParseStreamingTitle(title)
		if track == "" {
			return TargetDescriptor{}, KindServiceLink, fmt.Errorf("%w: empty title", ErrLinkMetadata)
		}
		return TargetDescriptor{TrackName: track, ArtistName: artist, RawQuery: raw}, KindServiceLink, nil
	}

	if urlPattern.MatchString(raw) {
		// Direct link, including YouTube: trusted as the audio locator.
		return TargetDescriptor{RawQuery: raw}, KindDirectURL, nil
	}

	cleaned := CleanQuery(raw)
	if cleaned == "" {
		return TargetDescriptor{}, KindSearch, ErrEmptyQuery
	}
	return TargetDescriptor{TrackName: cleaned, RawQuery: raw}, KindSearch, nil
}

func (n *Normalizer) fetchTitle(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", linkUserAgent)

	client := n.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	title := extractTitle(resp.Body)
	if title == "" {
		return "", errors.New("no <title> tag")
	}
	return title, nil
}

// extractTitle pulls the first <title> text out of an HTML stream.
// The tokenizer decodes HTML entities on the way out.
func extractTitle(body io.Reader) string {
	z := html.NewTokenizer(body)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				if z.Next() == html.TextToken {
					return strings.TrimSpace(string(z.Text()))
				}
				return ""
			}
		}
	}
}
