package daraz

import (
	"errors"
	"fmt"
)

// PageLoadTimeoutError reports that a listing or detail marker never
// appeared within its bounded wait. The page or item is skipped; the run
// continues.
type PageLoadTimeoutError struct {
	URL      string
	Selector string
}

func (e *PageLoadTimeoutError) Error() string {
	return fmt.Sprintf("page load timeout waiting for %q at %s", e.Selector, e.URL)
}

// ElementNotFoundError reports that a required field's source element is
// missing from a rendered page.
type ElementNotFoundError struct {
	URL      string
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %q not found at %s", e.Selector, e.URL)
}

// PriceParseError reports a price text that matches neither the discount
// banner shape nor the plain shape. It is surfaced, never defaulted, since
// a guessed price corrupts the downstream arithmetic.
type PriceParseError struct {
	URL  string
	Text string
	Err  error
}

func (e *PriceParseError) Error() string {
	return fmt.Sprintf("cannot parse price %q at %s: %v", e.Text, e.URL, e.Err)
}

func (e *PriceParseError) Unwrap() error { return e.Err }

// ScrapeError wraps any per-item failure with the item's URL.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// errKind names the innermost typed error for log lines.
func errKind(err error) string {
	var (
		timeout  *PageLoadTimeoutError
		notFound *ElementNotFoundError
		price    *PriceParseError
	)
	switch {
	case errors.As(err, &timeout):
		return "PageLoadTimeout"
	case errors.As(err, &notFound):
		return "ElementNotFound"
	case errors.As(err, &price):
		return "PriceParseError"
	}
	return "ScrapeError"
}
