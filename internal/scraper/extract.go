package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minParagraphChars filters out nav crumbs, bylines and similar fragments.
const minParagraphChars = 20

// contentSelectors are tried in order against common article layouts before
// falling back to every paragraph on the page.
var contentSelectors = []string{
	"article",
	"[role=main]",
	"main",
	"[class*=article]",
	"[class*=content]",
	"[class*=post]",
}

// Extract parses HTML content and condenses it into an Article.
func Extract(pageURL, htmlContent string) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	// Chrome and boilerplate go first so they never leak into body text.
	doc.Find("script, style, nav, footer, header").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	article := &Article{
		URL:   pageURL,
		Title: extractTitle(doc, pageURL),
	}

	var parts []string
	for _, sel := range contentSelectors {
		doc.Find(sel).Each(func(i int, area *goquery.Selection) {
			area.Find("p, h2, h3, li").Each(func(j int, p *goquery.Selection) {
				if text := strings.TrimSpace(p.Text()); len(text) > minParagraphChars {
					parts = append(parts, text)
				}
			})
		})
		if len(parts) > 0 {
			break
		}
	}
	if len(parts) == 0 {
		doc.Find("p").Each(func(i int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); len(text) > minParagraphChars {
				parts = append(parts, text)
			}
		})
	}

	article.Text = strings.Join(dedupeParagraphs(parts), "\n\n")
	if article.Text == "" {
		return nil, ErrNoContent
	}
	return article, nil
}

func extractTitle(doc *goquery.Document, pageURL string) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if u, err := url.Parse(pageURL); err == nil {
		return u.Host
	}
	return pageURL
}

// dedupeParagraphs drops exact repeats, which show up when nested layout
// containers both match a content selector.
func dedupeParagraphs(parts []string) []string {
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
