package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// RenderFetcher fetches pages through headless Chrome so JavaScript-heavy
// articles render before extraction. The exec allocator is pooled because
// spawning a browser per fetch is the expensive part.
type RenderFetcher struct {
	timeout time.Duration
	ctxPool sync.Pool
}

func NewRenderFetcher(timeout time.Duration) *RenderFetcher {
	f := &RenderFetcher{timeout: timeout}
	f.ctxPool.New = func() interface{} {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", ""),
			chromedp.Flag("disable-dev-shm-usage", ""),
		)
		allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
		return allocCtx
	}
	return f
}

func (f *RenderFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	allocCtx := f.ctxPool.Get().(context.Context)
	defer f.ctxPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	var htmlContent string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return "", err
	}
	return htmlContent, nil
}
