// Package ytdlp wraps the generic media extraction tool as an external
// process. Community-source and video-platform adapters are thin
// site-restricted searches on top of the same runner.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os/exec"
	"strings"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

const (
	// Realistic desktop browser identity; several extractors refuse
	// the default tool user-agent.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	// The android player client avoids YouTube bot-detection throttling.
	youtubeClientArgs = "youtube:player_client=android"

	defaultExtractTimeout  = 90 * time.Second
	defaultDownloadTimeout = 5 * time.Minute
)

// Runner invokes the extraction binary with bounded timeouts.
type Runner struct {
	BinaryPath string
	// Proxies is an optional pool; one is picked at random per call.
	Proxies         []string
	ExtractTimeout  time.Duration
	DownloadTimeout time.Duration
	Logger          *logging.Logger
}

// NewRunner builds a Runner for the given binary path ("yt-dlp" if empty).
func NewRunner(binaryPath string, proxies []string, logger *logging.Logger) *Runner {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &Runner{
		BinaryPath:      binaryPath,
		Proxies:         proxies,
		ExtractTimeout:  defaultExtractTimeout,
		DownloadTimeout: defaultDownloadTimeout,
		Logger:          logger,
	}
}

// Options tunes a single extraction call.
type Options struct {
	// SearchPrefix is a site-restricted search expression such as
	// "scsearch1:" or "ytsearch1:". Ignored for URLs.
	SearchPrefix string
	// ForceYouTubeClient passes the client-identity hint even for
	// search expressions (needed for ytsearch).
	ForceYouTubeClient bool
}

type metadataOutput struct {
	Title      string  `json:"title"`
	WebpageURL string  `json:"webpage_url"`
	URL        string  `json:"url"`
	Duration   float64 `json:"duration"`
	Extractor  string  `json:"extractor"`
}

// Extract runs the tool with --dump-json and parses the single-object
// output. Non-zero exit or malformed output comes back as an error;
// adapters convert it to "no candidate".
func (r *Runner) Extract(ctx context.Context, queryOrURL string, opts Options) (*resolver.Candidate, error) {
	isURL := strings.HasPrefix(queryOrURL, "http://") || strings.HasPrefix(queryOrURL, "https://")
	finalQuery := queryOrURL
	if !isURL && opts.SearchPrefix != "" {
		finalQuery = opts.SearchPrefix + queryOrURL
	}

	args := []string{
		finalQuery,
		"--dump-json",
		"--no-playlist",
		"--no-check-certificate",
		"--user-agent", browserUserAgent,
	}
	args = r.appendProxy(args)
	if opts.ForceYouTubeClient || (isURL && resolver.IsYouTubeURL(queryOrURL)) {
		args = append(args, "--extractor-args", youtubeClientArgs)
	}

	ctx, cancel := context.WithTimeout(ctx, r.extractTimeout())
	defer cancel()

	stdout, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}

	var meta metadataOutput
	if err := json.Unmarshal(stdout, &meta); err != nil {
		return nil, fmt.Errorf("metadata parse: %w", err)
	}
	url := meta.WebpageURL
	if url == "" {
		url = meta.URL
	}
	return &resolver.Candidate{
		Title:    meta.Title,
		URL:      url,
		Duration: int(meta.Duration),
		Source:   sourceFromExtractor(meta.Extractor),
	}, nil
}

// Fetch implements resolver.MetadataFetcher for direct URLs.
func (r *Runner) Fetch(ctx context.Context, url string) (*resolver.Candidate, error) {
	return r.Extract(ctx, url, Options{})
}

// Download extracts audio from url into outPath as MP3.
func (r *Runner) Download(ctx context.Context, url, outPath string) error {
	args := []string{
		url,
		"--extract-audio",
		"--audio-format", "mp3",
		"--output", outPath,
		"--no-playlist",
		"--no-check-certificate",
		"--user-agent", browserUserAgent,
	}
	args = r.appendProxy(args)
	if resolver.IsYouTubeURL(url) {
		args = append(args, "--extractor-args", youtubeClientArgs)
	}

	ctx, cancel := context.WithTimeout(ctx, r.downloadTimeout())
	defer cancel()

	_, err := r.run(ctx, args)
	return err
}

func (r *Runner) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", r.BinaryPath, err, truncate(stderr.String(), 500))
	}
	return stdout.Bytes(), nil
}

func (r *Runner) appendProxy(args []string) []string {
	if len(r.Proxies) == 0 {
		return args
	}
	proxy := r.Proxies[rand.Intn(len(r.Proxies))]
	r.Logger.Infof("Using proxy %s", proxy)
	return append(args, "--proxy", proxy)
}

func (r *Runner) extractTimeout() time.Duration {
	if r.ExtractTimeout > 0 {
		return r.ExtractTimeout
	}
	return defaultExtractTimeout
}

func (r *Runner) downloadTimeout() time.Duration {
	if r.DownloadTimeout > 0 {
		return r.DownloadTimeout
	}
	return defaultDownloadTimeout
}

func sourceFromExtractor(extractor string) resolver.Source {
	e := strings.ToLower(extractor)
	switch {
	case strings.Contains(e, "soundcloud"):
		return resolver.SourceSoundCloud
	case strings.Contains(e, "youtube"):
		return resolver.SourceYouTube
	case strings.Contains(e, "archive"):
		return resolver.SourceArchive
	case strings.Contains(e, "deezer"):
		return resolver.SourceDeezer
	default:
		return resolver.Source(e)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
