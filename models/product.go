package models

// RawItem holds unprocessed scraped data for one product detail page.
// It is written to the raw CSV before any normalization. Price fields are
// parsed at scrape time; everything else is the page's literal text. An item
// is immutable once produced.
type RawItem struct {
	Title        string
	Score        string // e.g. "4.5/5"
	Count        string // e.g. "52 Ratings"
	Rating       string // Score before the "/"
	TotalRatings string // Count before the first space
	Description  string
	URL          string

	// Nil only when a staged raw CSV carries a non-numeric value; the
	// scraper itself always fills all three or drops the item.
	PriceBeforeDiscount *int
	PriceAfterDiscount  *int
	PercentDiscount     *int
}

// NormalizedRecord is one fully derived row of the output table. Every
// derived field is a pure function of Title, the price fields, or URL.
// Pointer fields are nullable; Brand and ProcessorType use the "Unknown"
// sentinel instead of null.
type NormalizedRecord struct {
	ProductID     *string
	Title         string
	Brand         string
	PriceCategory string

	PriceBeforeDiscount  *int
	PriceAfterDiscount   *int
	ActualDiscountAmount *int
	PercentDiscount      *int

	Rating       *float64
	TotalRatings *int
	Count        *int

	ProcessorType  string
	ProcessorGen   *string
	RAMGB          *int
	StorageGB      *int
	StorageType    *string
	ScreenSizeInch *float64
	GPUBrand       *string
	GPUModel       *string
	IsGaming       bool

	Description string
	URL         string

	HasCompleteInfo bool
	IsDuplicate     bool
}
