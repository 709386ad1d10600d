// Package selector picks which article to deliver next. Each candidate is
// chosen at most once per full pass over the reading list; once every
// candidate has been delivered the tracked set rolls over and the cycle
// starts again.
package selector

import (
	"errors"
	"math/rand"
	"time"

	"dailyreader/internal/tracker"
)

// ErrNoCandidates means the source produced an empty candidate set. The run
// must stop without sending anything and without touching the store.
var ErrNoCandidates = errors.New("no candidate links available")

// Result is the outcome of one selection.
type Result struct {
	URL      string
	DidReset bool
}

// Selector draws uniformly from the unsent candidates.
type Selector struct {
	rng *rand.Rand
}

// New returns a Selector using the given random source. A nil rng gets a
// time-seeded one; tests pass a seeded source to make draws repeatable.
func New(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Select picks one URL from candidates that is not in tracked. Candidates
// are compared with set semantics: duplicates collapse, order only breaks
// ties for iteration. When every candidate has already been sent, tracked
// is cleared in memory and the draw runs over the full set again; the
// caller decides if and when that rollover is persisted. Select itself
// never touches durable state.
func (s *Selector) Select(candidates []string, tracked *tracker.TrackedLinks) (Result, error) {
	unique := dedupe(candidates)
	if len(unique) == 0 {
		return Result{}, ErrNoCandidates
	}

	unsent := make([]string, 0, len(unique))
	for _, url := range unique {
		if !tracked.Contains(url) {
			unsent = append(unsent, url)
		}
	}

	var didReset bool
	if len(unsent) == 0 {
		tracked.Clear()
		unsent = unique
		didReset = true
	}

	return Result{
		URL:      unsent[s.rng.Intn(len(unsent))],
		DidReset: didReset,
	}, nil
}

// dedupe collapses duplicates keeping first occurrence order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
