// Command validatelinks scrapes every link in the reading list and reports
// which ones yield usable article content, so dead or paywalled entries can
// be pruned from the document before they burn a daily run.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dailyreader/internal/config"
	"dailyreader/internal/scraper"
	"dailyreader/internal/source"
)

// minContentChars separates a real article from a cookie wall or stub.
const minContentChars = 100

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}
	if cfg.DocURL == "" {
		logger.Fatal("DOC_URL is required")
	}

	src, err := source.NewGoogleDocSource(cfg.DocURL, 30*time.Second, logger)
	if err != nil {
		logger.Fatal("invalid DOC_URL", zap.Error(err))
	}

	ctx := context.Background()
	links, err := src.Links(ctx)
	if err != nil {
		logger.Fatal("could not fetch reading list", zap.Error(err))
	}

	scrapeTimeout := time.Duration(cfg.ScrapeTimeout) * time.Second
	var fetcher scraper.Fetcher = scraper.NewHTTPFetcher(scrapeTimeout)
	if cfg.RenderJS {
		fetcher = scraper.NewRenderFetcher(scrapeTimeout)
	}
	sc := scraper.New(fetcher, logger)

	fmt.Printf("Validating %d links...\n\n", len(links))

	var invalid int
	for i, link := range links {
		article, err := sc.Scrape(ctx, link)
		switch {
		case err != nil:
			fmt.Printf("[%d/%d] FAIL %s\n      %v\n", i+1, len(links), link, err)
			invalid++
		case len(article.Text) < minContentChars:
			fmt.Printf("[%d/%d] FAIL %s\n      insufficient content (%d chars)\n", i+1, len(links), link, len(article.Text))
			invalid++
		default:
			fmt.Printf("[%d/%d] OK   %s\n      %s (%d chars)\n", i+1, len(links), link, article.Title, len(article.Text))
		}
	}

	fmt.Printf("\n%d valid, %d invalid out of %d links\n", len(links)-invalid, invalid, len(links))
	if invalid > 0 {
		os.Exit(1)
	}
}
