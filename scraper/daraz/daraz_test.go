package daraz

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"daraz-scraper/browser"
	"daraz-scraper/config"
	"daraz-scraper/utils"
)

// stubSite describes one URL's rendered state.
type stubSite struct {
	texts    map[string]string
	hrefs    []string
	timeouts map[string]bool // selectors whose wait never resolves
}

type stubDriver struct {
	sites map[string]*stubSite
}

func (d *stubDriver) NewPage() (browser.Page, error) {
	return &stubPage{sites: d.sites}, nil
}

func (d *stubDriver) Close() {}

type stubPage struct {
	sites map[string]*stubSite
	cur   *stubSite
}

func (p *stubPage) Navigate(url string) error {
	site, ok := p.sites[url]
	if !ok {
		return fmt.Errorf("navigate %s: no route", url)
	}
	p.cur = site
	return nil
}

func (p *stubPage) WaitPresent(selector string, _ time.Duration) error {
	if p.cur.timeouts[selector] {
		return fmt.Errorf("%w: %s", browser.ErrWaitTimeout, selector)
	}
	return nil
}

func (p *stubPage) Text(selector string) (string, error) {
	if text, ok := p.cur.texts[selector]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
}

func (p *stubPage) AnchorHrefs(string) ([]string, error) {
	return p.cur.hrefs, nil
}

func (p *stubPage) Evaluate(js string, out any) error {
	if strings.Contains(js, "scrollHeight") {
		*(out.(*int)) = 100
	}
	return nil
}

func (p *stubPage) URL() (string, error) { return "", nil }
func (p *stubPage) Close()               {}

func testConfig() *config.Config {
	return &config.Config{
		MaxConcurrency:  1,
		RateLimitMs:     0,
		ScrollStepPx:    400,
		ScrollPauseMs:   0,
		ScrollMaxPasses: 3,
		ListingWaitSec:  1,
		RatingWaitSec:   1,
	}
}

func detailSite(title, price string) *stubSite {
	return &stubSite{
		texts: map[string]string{
			titleSel:      title,
			scoreSel:      "4.5/5",
			countSel:      "52 Ratings",
			priceSel:      price,
			highlightsSel: "Some highlights",
		},
	}
}

func searchURL(page int) string {
	return fmt.Sprintf(searchURLFormat, "laptop", page)
}

func TestDiscoverPageFiltersAndDeduplicates(t *testing.T) {
	driver := &stubDriver{sites: map[string]*stubSite{
		searchURL(1): {
			hrefs: []string{
				"https://www.daraz.com.np/products/acer-i101.html",
				"https://www.daraz.com.np/products/acer-i101.html", // duplicate
				"https://www.daraz.com.np/ad/banner",               // not a product
				"",
				"https://www.daraz.com.np/products/dell-i102.html",
			},
		},
	}}

	s := New(testConfig(), utils.NewLogger(), driver)
	links, err := s.DiscoverPage("laptop", 1)
	if err != nil {
		t.Fatalf("DiscoverPage: %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("got %d links; want 2: %v", len(links), links)
	}
	for _, l := range links {
		if !strings.Contains(l, productURLToken) {
			t.Errorf("link %q does not match the product URL pattern", l)
		}
	}
}

func TestDiscoverPageTimeout(t *testing.T) {
	driver := &stubDriver{sites: map[string]*stubSite{
		searchURL(1): {timeouts: map[string]bool{listingContainerSel: true}},
	}}

	s := New(testConfig(), utils.NewLogger(), driver)
	_, err := s.DiscoverPage("laptop", 1)

	var timeout *PageLoadTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("err = %v; want PageLoadTimeoutError", err)
	}
	if timeout.Selector != listingContainerSel {
		t.Errorf("timeout selector = %q; want %q", timeout.Selector, listingContainerSel)
	}
}

func TestScrapeItemParsesFields(t *testing.T) {
	itemURL := "https://www.daraz.com.np/products/acer-aspire-i224466.html"
	driver := &stubDriver{sites: map[string]*stubSite{
		itemURL: detailSite("Acer Aspire", "Rs. 85,000\nRs. 100,000-15%"),
	}}

	s := New(testConfig(), utils.NewLogger(), driver)
	item, err := s.ScrapeItem(itemURL)
	if err != nil {
		t.Fatalf("ScrapeItem: %v", err)
	}

	if item.Rating != "4.5" {
		t.Errorf("Rating = %q; want \"4.5\"", item.Rating)
	}
	if item.TotalRatings != "52" {
		t.Errorf("TotalRatings = %q; want \"52\"", item.TotalRatings)
	}
	if *item.PriceBeforeDiscount != 100000 || *item.PriceAfterDiscount != 85000 || *item.PercentDiscount != 15 {
		t.Errorf("price = %d/%d/%d; want 100000/85000/15",
			*item.PriceBeforeDiscount, *item.PriceAfterDiscount, *item.PercentDiscount)
	}
}

func TestScrapeItemMissingElement(t *testing.T) {
	itemURL := "https://www.daraz.com.np/products/broken-i1.html"
	site := detailSite("Broken", "Rs. 10,000")
	delete(site.texts, priceSel)
	driver := &stubDriver{sites: map[string]*stubSite{itemURL: site}}

	s := New(testConfig(), utils.NewLogger(), driver)
	_, err := s.ScrapeItem(itemURL)

	var scrapeErr *ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("err = %v; want ScrapeError", err)
	}
	var notFound *ElementNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("cause = %v; want ElementNotFoundError", err)
	}
	if got := errKind(err); got != "ElementNotFound" {
		t.Errorf("errKind = %q; want ElementNotFound", got)
	}
}

func TestScrapeIsolatesItemFailures(t *testing.T) {
	good1 := "https://www.daraz.com.np/products/good-i1.html"
	bad := "https://www.daraz.com.np/products/bad-i2.html"
	good2 := "https://www.daraz.com.np/products/good-i3.html"

	driver := &stubDriver{sites: map[string]*stubSite{
		searchURL(1): {hrefs: []string{good1, bad, good2}},
		good1:        detailSite("Good One", "Rs. 50,000"),
		bad:          detailSite("Bad Price", "contact seller for -% price"),
		good2:        detailSite("Good Two", "Rs. 70,000"),
	}}

	s := New(testConfig(), utils.NewLogger(), driver)
	items := s.Scrape("laptop", 1)

	if len(items) != 2 {
		t.Fatalf("got %d items; want 2 (bad price item skipped)", len(items))
	}
	for _, it := range items {
		if it.Title == "Bad Price" {
			t.Errorf("item with unparsable price was not dropped")
		}
	}
}

func TestScrapeContinuesAfterPageFailure(t *testing.T) {
	item := "https://www.daraz.com.np/products/only-i9.html"
	driver := &stubDriver{sites: map[string]*stubSite{
		// page 1 missing entirely; page 2 works
		searchURL(2): {hrefs: []string{item}},
		item:         detailSite("Only", "Rs. 30,000"),
	}}

	s := New(testConfig(), utils.NewLogger(), driver)
	items := s.Scrape("laptop", 2)

	if len(items) != 1 {
		t.Fatalf("got %d items; want 1 from the surviving page", len(items))
	}
}
