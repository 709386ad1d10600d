// Package digest sequences one delivery run: pick an unsent article from
// the reading list, scrape it, summarize it, email it, then commit the
// pick. The tracked set is only persisted after the email is accepted, so
// a failed run leaves the store exactly as it was and the same article
// stays eligible next time.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dailyreader/internal/archive"
	"dailyreader/internal/mailer"
	"dailyreader/internal/monitoring"
	"dailyreader/internal/scraper"
	"dailyreader/internal/selector"
	"dailyreader/internal/source"
	"dailyreader/internal/summarizer"
	"dailyreader/internal/tracker"
)

// Scraper, Summarizer and Mailer are the delivery pipeline stages. The
// runner treats them as opaque: any error aborts the run before commit.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Article, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (*summarizer.Summary, error)
}

type Mailer interface {
	Send(ctx context.Context, d mailer.Digest) error
}

// Report summarizes a successful run.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	DidReset   bool      `json:"did_reset"`
	TokensUsed int       `json:"tokens_used"`
	TotalSent  int       `json:"total_sent"`
	Remaining  int       `json:"remaining"`
}

// Runner wires the source, the tracker core and the delivery pipeline.
type Runner struct {
	source     source.Source
	store      tracker.Store
	selector   *selector.Selector
	scraper    Scraper
	summarizer Summarizer
	mailer     Mailer
	archive    archive.Archive
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewRunner(src source.Source, store tracker.Store, sel *selector.Selector,
	sc Scraper, sum Summarizer, m Mailer, ar archive.Archive,
	metrics *monitoring.Metrics, logger *zap.Logger) *Runner {
	return &Runner{
		source:     src,
		store:      store,
		selector:   sel,
		scraper:    sc,
		summarizer: sum,
		mailer:     m,
		archive:    ar,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run performs one full digest run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New()
	logger := r.logger.With(zap.String("run_id", runID.String()))

	candidates, err := r.source.Links(ctx)
	if err != nil {
		r.fail(logger, "source_unavailable", err)
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	logger.Info("fetched reading list", zap.Int("candidates", len(candidates)))

	tracked := r.store.Load(ctx)

	result, err := r.selector.Select(candidates, tracked)
	if err != nil {
		r.fail(logger, "no_candidates", err)
		return nil, err
	}
	if result.DidReset {
		logger.Info("all articles delivered at least once, starting a new cycle")
	}
	logger.Info("selected article", zap.String("url", result.URL))

	article, err := r.scraper.Scrape(ctx, result.URL)
	if err != nil {
		r.fail(logger, "scrape_failed", err)
		return nil, fmt.Errorf("scrape article: %w", err)
	}

	summary, err := r.summarizer.Summarize(ctx, article.Title, article.Text)
	if err != nil {
		r.fail(logger, "summarize_failed", err)
		return nil, fmt.Errorf("summarize article: %w", err)
	}

	err = r.mailer.Send(ctx, mailer.Digest{
		Title:   article.Title,
		URL:     result.URL,
		Summary: summary.Text,
		Date:    time.Now(),
	})
	if err != nil {
		r.fail(logger, "email_failed", err)
		return nil, fmt.Errorf("send digest: %w", err)
	}

	// Delivery confirmed; only now does the pick (and any rollover) become
	// durable.
	tracked.MarkSent(result.URL, article.Title)
	if err := r.store.Save(ctx, tracked); err != nil {
		r.fail(logger, "store_save_failed", err)
		logger.Error("digest was delivered but could not be recorded; it may repeat next run",
			zap.String("url", result.URL), zap.Error(err))
		return nil, fmt.Errorf("save tracked links: %w", err)
	}

	if result.DidReset {
		r.metrics.TrackerResets.Inc()
	}
	r.metrics.SummaryTokens.Add(float64(summary.TokensUsed))
	r.metrics.IncRuns("success")

	entry := archive.Entry{
		RunID:      runID,
		URL:        result.URL,
		Title:      article.Title,
		Model:      summary.Model,
		TokensUsed: summary.TokensUsed,
		DidReset:   result.DidReset,
		SentAt:     time.Now(),
	}
	if err := r.archive.Record(ctx, entry); err != nil {
		logger.Warn("failed to archive delivery record", zap.Error(err))
	}

	report := &Report{
		RunID:      runID,
		URL:        result.URL,
		Title:      article.Title,
		DidReset:   result.DidReset,
		TokensUsed: summary.TokensUsed,
		TotalSent:  tracked.Len(),
		Remaining:  countRemaining(candidates, tracked),
	}
	logger.Info("digest run complete",
		zap.String("url", report.URL),
		zap.String("title", report.Title),
		zap.Bool("did_reset", report.DidReset),
		zap.Int("total_sent", report.TotalSent),
		zap.Int("remaining", report.Remaining))
	return report, nil
}

func (r *Runner) fail(logger *zap.Logger, errorType string, err error) {
	r.metrics.IncErrors(errorType)
	r.metrics.IncRuns("failure")
	logger.Error("digest run failed", zap.String("type", errorType), zap.Error(err))
}

func countRemaining(candidates []string, tracked *tracker.TrackedLinks) int {
	seen := make(map[string]struct{}, len(candidates))
	remaining := 0
	for _, url := range candidates {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		if !tracked.Contains(url) {
			remaining++
		}
	}
	return remaining
}
