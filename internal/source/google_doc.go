// Package source fetches the candidate reading list from the shared
// document that backs it.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrSourceUnavailable means the reading list could not be obtained: the
// document was unreachable or contained no recognizable URLs. Fatal for the
// run; nothing is sent and the store stays untouched.
var ErrSourceUnavailable = errors.New("reading list source unavailable")

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	docIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
)

// Source yields the candidate URLs for the current run, in document order.
type Source interface {
	Links(ctx context.Context) ([]string, error)
}

// GoogleDocSource reads a publicly shared Google Doc through its plain-text
// export endpoint and extracts every http(s) URL from the body.
type GoogleDocSource struct {
	exportURL string
	client    *http.Client
	logger    *zap.Logger
}

// NewGoogleDocSource builds a source for the given document URL (the
// regular docs.google.com/document/d/<id>/... sharing link).
func NewGoogleDocSource(docURL string, timeout time.Duration, logger *zap.Logger) (*GoogleDocSource, error) {
	id := extractDocID(docURL)
	if id == "" {
		return nil, fmt.Errorf("%w: no document id in %q", ErrSourceUnavailable, docURL)
	}
	return &GoogleDocSource{
		exportURL: fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=txt", id),
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}, nil
}

// newWithExportURL is the test seam: it points the source at an arbitrary
// export endpoint.
func newWithExportURL(exportURL string, logger *zap.Logger) *GoogleDocSource {
	return &GoogleDocSource{
		exportURL: exportURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

func (s *GoogleDocSource) Links(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: export returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	links := ExtractLinks(string(body))
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: document contains no links", ErrSourceUnavailable)
	}
	s.logger.Debug("fetched reading list", zap.Int("links", len(links)))
	return links, nil
}

// ExtractLinks pulls every http(s) URL out of text, trims trailing
// punctuation that documents tend to glue onto links, and drops duplicates
// keeping first occurrence order.
func ExtractLinks(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		url := strings.TrimRight(m, ".,;:!?)")
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		links = append(links, url)
	}
	return links
}

func extractDocID(docURL string) string {
	m := docIDPattern.FindStringSubmatch(docURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
