package mailer

import (
	"strings"
	"testing"
	"time"
)

var testDigest = Digest{
	Title:   "How Compilers Work",
	URL:     "https://example.com/compilers?a=1&b=2",
	Summary: "First point.\nSecond point.",
	Date:    time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC),
}

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML(testDigest)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"How Compilers Work",
		"March 14, 2026",
		"First point.",
		`href="https://example.com/compilers?a=1&amp;b=2"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	d := testDigest
	d.Title = `<script>alert("x")</script>`
	html, err := renderHTML(d)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, `<script>alert`) {
		t.Fatal("summary content was not escaped")
	}
}

func TestRenderPlain(t *testing.T) {
	plain := renderPlain(testDigest)
	for _, want := range []string{
		"Your Daily Reading - March 14, 2026",
		"How Compilers Work",
		"Second point.",
		"Read the full article: https://example.com/compilers?a=1&b=2",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("plain body missing %q", want)
		}
	}
}
