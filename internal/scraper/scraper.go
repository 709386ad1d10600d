// Package scraper fetches an article page and condenses it to title plus
// readable body text.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrNoContent means the page was fetched but yielded no usable article
// text.
var ErrNoContent = errors.New("no article content extracted")

// Article is the condensed form of a scraped page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Fetcher retrieves the raw HTML for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Scraper combines a Fetcher with the HTML extractor.
type Scraper struct {
	fetcher Fetcher
	logger  *zap.Logger
}

func New(fetcher Fetcher, logger *zap.Logger) *Scraper {
	return &Scraper{fetcher: fetcher, logger: logger}
}

func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Article, error) {
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	article, err := Extract(pageURL, html)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("scraped article",
		zap.String("url", pageURL),
		zap.String("title", article.Title),
		zap.Int("chars", len(article.Text)))
	return article, nil
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// HTTPFetcher fetches pages with a plain HTTP client and browser-like
// request headers. Sites that require JavaScript need the RenderFetcher
// instead.
type HTTPFetcher struct {
	client *http.Client
	rng    *rand.Rand
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgents[f.rng.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
