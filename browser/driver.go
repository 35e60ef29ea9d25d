// Package browser wraps a remote scriptable browser session behind a small
// capability interface so the scraper never depends on a particular
// automation product.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
)

var (
	// ErrWaitTimeout reports that a selector never became present within
	// its bounded wait.
	ErrWaitTimeout = errors.New("browser: wait timeout")
	// ErrElementNotFound reports that a required element is absent from
	// the rendered DOM.
	ErrElementNotFound = errors.New("browser: element not found")
)

// Driver creates page sessions. Close releases the underlying browser.
type Driver interface {
	NewPage() (Page, error)
	Close()
}

// Page is one browser tab. All operations block until they complete or
// their bound expires.
type Page interface {
	Navigate(url string) error
	WaitPresent(selector string, timeout time.Duration) error
	Text(selector string) (string, error)
	AnchorHrefs(containerSelector string) ([]string, error)
	Evaluate(js string, out any) error
	URL() (string, error)
	Close()
}

// Options configures the Chrome driver.
type Options struct {
	BinPath    string
	NavTimeout time.Duration
}

// Chrome implements Driver on top of a headless Chrome instance.
type Chrome struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
}

// NewChrome starts a headless Chrome allocator and returns a ready Driver.
func NewChrome(opts Options) (*Chrome, error) {
	bin := opts.BinPath
	if bin == "" {
		bin = findChromeBinary()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	navTimeout := opts.NavTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}

	return &Chrome{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		navTimeout:  navTimeout,
	}, nil
}

// NewPage opens a fresh tab session.
func (c *Chrome) NewPage() (Page, error) {
	ctx, cancel := chromedp.NewContext(c.ctx)
	return &chromePage{ctx: ctx, cancel: cancel, navTimeout: c.navTimeout}, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() {
	c.cancelCtx()
	c.cancelAlloc()
}

type chromePage struct {
	ctx        context.Context
	cancel     context.CancelFunc
	navTimeout time.Duration
}

func (p *chromePage) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.navTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) WaitPresent(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrWaitTimeout, selector)
		}
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

// Text returns the innerText of the first element matching selector, or
// ErrElementNotFound. It never waits — presence must be ensured first.
func (p *chromePage) Text(selector string) (string, error) {
	js := `(function() {
		var el = document.querySelector(` + strconv.Quote(selector) + `);
		if (!el) return {found: false, text: ""};
		return {found: true, text: el.innerText};
	})()`

	var res struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	if err := p.Evaluate(js, &res); err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return res.Text, nil
}

// AnchorHrefs returns the href of the first anchor inside every element
// matching containerSelector. Containers without an anchor are skipped.
func (p *chromePage) AnchorHrefs(containerSelector string) ([]string, error) {
	js := `(function() {
		var out = [];
		var containers = document.querySelectorAll(` + strconv.Quote(containerSelector) + `);
		for (var i = 0; i < containers.length; i++) {
			var a = containers[i].querySelector('a');
			if (a && a.href) out.push(a.href);
		}
		return out;
	})()`

	var hrefs []string
	if err := p.Evaluate(js, &hrefs); err != nil {
		return nil, err
	}
	return hrefs, nil
}

func (p *chromePage) Evaluate(js string, out any) error {
	ctx, cancel := context.WithTimeout(p.ctx, 15*time.Second)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Evaluate(js, out)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

func (p *chromePage) URL() (string, error) {
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()

	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	return url, nil
}

func (p *chromePage) Close() {
	p.cancel()
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
