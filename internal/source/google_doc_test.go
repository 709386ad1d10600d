package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestExtractDocID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://docs.google.com/document/d/1E0GgKbBtw3zhM3x8_qXyk/edit?usp=sharing", "1E0GgKbBtw3zhM3x8_qXyk"},
		{"https://docs.google.com/document/d/abc-123_XYZ/view", "abc-123_XYZ"},
		{"https://example.com/no-doc-here", ""},
	}
	for _, tt := range tests {
		if got := extractDocID(tt.url); got != tt.want {
			t.Errorf("extractDocID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractLinks(t *testing.T) {
	text := `My reading list:
https://example.com/one, then some prose.
Check https://example.com/two.
Again https://example.com/one
(see https://example.com/three)
not-a-link and plain text`

	want := []string{
		"https://example.com/one",
		"https://example.com/two",
		"https://example.com/three",
	}
	if diff := cmp.Diff(want, ExtractLinks(text)); diff != "" {
		t.Fatalf("ExtractLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestNewGoogleDocSourceRejectsBadURL(t *testing.T) {
	_, err := NewGoogleDocSource("https://example.com/not-a-doc", 0, zap.NewNop())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestLinksFromExport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("read https://example.com/a and https://example.com/b."))
	}))
	defer server.Close()

	src := newWithExportURL(server.URL, zap.NewNop())
	links, err := src.Links(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestLinksUnavailableOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	src := newWithExportURL(server.URL, zap.NewNop())
	if _, err := src.Links(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestLinksUnavailableWhenDocHasNoURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("an empty reading list"))
	}))
	defer server.Close()

	src := newWithExportURL(server.URL, zap.NewNop())
	if _, err := src.Links(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
