package tracker

import (
	"context"
	"encoding/json"
	"time"
)

// HistoryEntry records a single delivered article.
type HistoryEntry struct {
	URL    string    `json:"url"`
	Title  string    `json:"title,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// TrackedLinks holds the set of URLs already delivered plus the delivery
// log. Membership is set-based but insertion order is kept stable so
// successive writes of the durable record stay diff-friendly.
type TrackedLinks struct {
	sent    []string
	index   map[string]struct{}
	history []HistoryEntry
}

// Store persists TrackedLinks across runs. Load never fails: a missing,
// unreadable or corrupt record is the cold-start state and yields an empty
// set, since losing dedup history is preferable to blocking delivery.
type Store interface {
	Load(ctx context.Context) *TrackedLinks
	Save(ctx context.Context, links *TrackedLinks) error
	Reset(ctx context.Context) (*TrackedLinks, error)
}

func New() *TrackedLinks {
	return &TrackedLinks{index: make(map[string]struct{})}
}

// Contains reports whether url has already been delivered.
func (t *TrackedLinks) Contains(url string) bool {
	_, ok := t.index[url]
	return ok
}

// MarkSent adds url to the sent set and appends a history entry. Adding an
// already-tracked URL does not duplicate it in the set but is still logged.
func (t *TrackedLinks) MarkSent(url, title string) {
	if _, ok := t.index[url]; !ok {
		t.sent = append(t.sent, url)
		t.index[url] = struct{}{}
	}
	t.history = append(t.history, HistoryEntry{URL: url, Title: title, SentAt: time.Now()})
}

// Clear empties the sent set for a rollover. The delivery history is kept:
// it is a log, not dedup state.
func (t *TrackedLinks) Clear() {
	t.sent = nil
	t.index = make(map[string]struct{})
}

// Len returns the number of tracked URLs.
func (t *TrackedLinks) Len() int {
	return len(t.sent)
}

// URLs returns the tracked URLs in insertion order.
func (t *TrackedLinks) URLs() []string {
	out := make([]string, len(t.sent))
	copy(out, t.sent)
	return out
}

// History returns up to limit most recent delivery entries, oldest first.
// A non-positive limit returns the full log.
func (t *TrackedLinks) History(limit int) []HistoryEntry {
	entries := t.history
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// LastSent returns the most recent history entry, if any.
func (t *TrackedLinks) LastSent() (HistoryEntry, bool) {
	if len(t.history) == 0 {
		return HistoryEntry{}, false
	}
	return t.history[len(t.history)-1], true
}

// record is the durable representation shared by every Store backend.
type record struct {
	SentLinks []string       `json:"sent_links"`
	History   []HistoryEntry `json:"history,omitempty"`
}

func (t *TrackedLinks) MarshalJSON() ([]byte, error) {
	rec := record{SentLinks: t.sent, History: t.history}
	if rec.SentLinks == nil {
		rec.SentLinks = []string{}
	}
	return json.Marshal(rec)
}

func (t *TrackedLinks) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	t.sent = nil
	t.index = make(map[string]struct{})
	t.history = rec.History
	for _, url := range rec.SentLinks {
		if _, ok := t.index[url]; ok {
			continue
		}
		t.sent = append(t.sent, url)
		t.index[url] = struct{}{}
	}
	return nil
}
