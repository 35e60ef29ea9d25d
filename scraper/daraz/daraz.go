// Package daraz scrapes laptop listings from the Daraz catalog: it paginates
// search results, triggers progressive content loading, and scrapes every
// discovered product detail page with per-item failure isolation.
package daraz

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"daraz-scraper/browser"
	"daraz-scraper/config"
	"daraz-scraper/models"
	"daraz-scraper/utils"
)

const (
	searchURLFormat = "https://www.daraz.com.np/catalog/?&q=%s&page=%d"
	productURLToken = "daraz.com.np/products"

	listingContainerSel = ".ICdUp"
	titleSel            = ".pdp-mod-product-badge-title"
	scoreSel            = ".score"
	countSel            = ".count"
	priceSel            = ".pdp-product-price"
	highlightsSel       = ".html-content.pdp-product-highlights"
)

// Scraper drives listing discovery and detail-page scraping.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	driver  browser.Driver
	pool    *utils.WorkerPool
	visited *utils.URLSet
	scroll  browser.ScrollConfig

	listingWait time.Duration
	ratingWait  time.Duration

	mu    sync.Mutex
	items []*models.RawItem
}

// New creates a ready-to-use Scraper on top of the given browser driver.
func New(cfg *config.Config, logger *utils.Logger, driver browser.Driver) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		driver:  driver,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visited: utils.NewURLSet(),
		scroll: browser.ScrollConfig{
			StepPx:    cfg.ScrollStepPx,
			Pause:     time.Duration(cfg.ScrollPauseMs) * time.Millisecond,
			Settle:    time.Duration(cfg.ScrollSettleMs) * time.Millisecond,
			MaxPasses: cfg.ScrollMaxPasses,
		},
		listingWait: time.Duration(cfg.ListingWaitSec) * time.Second,
		ratingWait:  time.Duration(cfg.RatingWaitSec) * time.Second,
		items:       make([]*models.RawItem, 0),
	}
}

// Scrape discovers listing pages 1..pages for keyword and scrapes every
// unique product link. A failed page or item is logged and skipped; the
// result is whatever succeeded. Cross-page item order is unspecified.
func (s *Scraper) Scrape(keyword string, pages int) []*models.RawItem {
	s.logger.Info("[daraz] Starting scrape — keyword %q, %d pages", keyword, pages)

	for pageNo := 1; pageNo <= pages; pageNo++ {
		links, err := s.DiscoverPage(keyword, pageNo)
		if err != nil {
			s.logger.Error("[daraz] Page %d discovery failed — %s: %v", pageNo, errKind(err), err)
			continue
		}
		s.logger.Info("[daraz] Page %d — found %d product links", pageNo, len(links))

		for _, link := range links {
			if !s.visited.Add(link) {
				s.logger.Debug("[daraz] Skipping duplicate: %s", link)
				continue
			}
			link := link
			s.pool.Submit(func() {
				item, err := s.ScrapeItem(link)
				if err != nil {
					s.logger.Warn("[daraz] Skipping item %s — %s: %v", link, errKind(err), err)
					return
				}
				s.mu.Lock()
				s.items = append(s.items, item)
				s.mu.Unlock()
			})
		}
		s.pool.Wait()
	}

	s.logger.Info("[daraz] Scrape complete — %d items from %d unique links",
		len(s.items), s.visited.Size())
	return s.items
}

// DiscoverPage loads one search results page and returns its deduplicated
// set of product detail URLs.
func (s *Scraper) DiscoverPage(keyword string, pageNo int) ([]string, error) {
	page, err := s.driver.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page session: %w", err)
	}
	defer page.Close()

	pageURL := fmt.Sprintf(searchURLFormat, url.QueryEscape(keyword), pageNo)
	if err := page.Navigate(pageURL); err != nil {
		return nil, err
	}

	if err := page.WaitPresent(listingContainerSel, s.listingWait); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return nil, &PageLoadTimeoutError{URL: pageURL, Selector: listingContainerSel}
		}
		return nil, err
	}

	state, err := browser.ProgressiveLoad(page, s.scroll)
	if err != nil {
		return nil, err
	}
	if state == browser.Aborted {
		s.logger.Warn("[daraz] Page %d height kept growing — scraping after %d passes",
			pageNo, s.scroll.MaxPasses)
	}

	hrefs, err := page.AnchorHrefs(listingContainerSel)
	if err != nil {
		return nil, err
	}
	return filterProductLinks(hrefs), nil
}

// filterProductLinks keeps hrefs on the product URL pattern and drops
// duplicates.
func filterProductLinks(hrefs []string) []string {
	seen := make(map[string]struct{}, len(hrefs))
	links := make([]string, 0, len(hrefs))
	for _, h := range hrefs {
		if h == "" || !strings.Contains(h, productURLToken) {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		links = append(links, h)
	}
	return links
}

// ScrapeItem loads one product detail page and returns its RawItem. Any
// missing element, timeout, or unparsable price fails the item with a
// ScrapeError wrapping the typed cause.
func (s *Scraper) ScrapeItem(itemURL string) (*models.RawItem, error) {
	item, err := s.scrapeItem(itemURL)
	if err != nil {
		return nil, &ScrapeError{URL: itemURL, Err: err}
	}
	return item, nil
}

func (s *Scraper) scrapeItem(itemURL string) (*models.RawItem, error) {
	page, err := s.driver.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page session: %w", err)
	}
	defer page.Close()

	if err := page.Navigate(itemURL); err != nil {
		return nil, err
	}
	if _, err := browser.ProgressiveLoad(page, s.scroll); err != nil {
		return nil, err
	}

	title, err := s.requiredText(page, itemURL, titleSel)
	if err != nil {
		return nil, err
	}

	if err := page.WaitPresent(scoreSel, s.ratingWait); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return nil, &PageLoadTimeoutError{URL: itemURL, Selector: scoreSel}
		}
		return nil, err
	}

	score, err := s.requiredText(page, itemURL, scoreSel)
	if err != nil {
		return nil, err
	}
	count, err := s.requiredText(page, itemURL, countSel)
	if err != nil {
		return nil, err
	}
	priceText, err := s.requiredText(page, itemURL, priceSel)
	if err != nil {
		return nil, err
	}

	before, after, percent, err := parsePrice(priceText)
	if err != nil {
		return nil, &PriceParseError{URL: itemURL, Text: priceText, Err: err}
	}

	description, err := s.requiredText(page, itemURL, highlightsSel)
	if err != nil {
		return nil, err
	}

	return &models.RawItem{
		Title:               title,
		Score:               score,
		Count:               count,
		Rating:              strings.Split(score, "/")[0],
		TotalRatings:        strings.Split(count, " ")[0],
		PriceBeforeDiscount: &before,
		PriceAfterDiscount:  &after,
		PercentDiscount:     &percent,
		Description:         description,
		URL:                 itemURL,
	}, nil
}

func (s *Scraper) requiredText(page browser.Page, pageURL, selector string) (string, error) {
	text, err := page.Text(selector)
	if err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			return "", &ElementNotFoundError{URL: pageURL, Selector: selector}
		}
		return "", err
	}
	return text, nil
}
