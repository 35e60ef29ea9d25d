package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"daraz-scraper/models"
	"daraz-scraper/utils"
)

var (
	intelRe     = regexp.MustCompile(`(?i)(core\s*)?i(\d)`)
	intelGenRe  = regexp.MustCompile(`(?i)(\d+)th\s*gen`)
	ryzenRe     = regexp.MustCompile(`(?i)ryzen\s*(\d)`)
	appleMRe    = regexp.MustCompile(`(?i)m(\d)`)
	ramRe       = regexp.MustCompile(`(?i)(\d+)\s*gb\s*ram`)
	storageRe   = regexp.MustCompile(`(?i)(\d+)\s*(gb|tb)\s*(ssd|hdd)`)
	screenRe    = regexp.MustCompile(`(\d+\.?\d*)`)
	nvidiaRe    = regexp.MustCompile(`(?i)(rtx|gtx)\s*(\d{4})`)
	productIDRe = regexp.MustCompile(`-i(\d+)\.html`)
)

// processorMatch is a processor rule's result. Gen stays nil for families
// that don't carry a generation marker.
type processorMatch struct {
	Type string
	Gen  *string
}

// storageMatch is a storage rule's result with capacity normalized to GB.
type storageMatch struct {
	SizeGB int
	Type   *string
}

// gpuMatch is a graphics rule's result.
type gpuMatch struct {
	Brand string
	Model string
}

// procRule and gpuRule pair a family name with its matcher; families are
// evaluated in order until the first success.
type procRule struct {
	name  string
	match func(lower string) (processorMatch, bool)
}

type gpuRule struct {
	name  string
	match func(lower string) (gpuMatch, bool)
}

// Extractor derives structured laptop attributes from raw scraped records.
// Normalize is pure and deterministic: every derived field is a function of
// the item's title, price fields, or URL.
type Extractor struct {
	rules     Rules
	logger    *utils.Logger
	procRules []procRule
	gpuRules  []gpuRule
}

// NewExtractor creates an Extractor with the given ruleset.
func NewExtractor(rules Rules, logger *utils.Logger) *Extractor {
	e := &Extractor{rules: rules, logger: logger}
	e.procRules = []procRule{
		{"intel-core", matchIntelCore},
		{"amd-ryzen", matchRyzen},
		{"intel-celeron", matchCeleron},
		{"apple-m", matchAppleM},
	}
	e.gpuRules = []gpuRule{
		{"nvidia", matchNvidia},
		{"amd-radeon", matchRadeon},
		{"intel-integrated", matchIntelGraphics},
	}
	return e
}

// Normalize converts a raw batch into normalized records: per-item
// derivation, then the order-dependent duplicate pass, then the final sort
// by rating and total ratings (descending, nulls last). The duplicate pass
// must run before the sort — the sort changes which copy is "first".
func (e *Extractor) Normalize(batch []*models.RawItem) []*models.NormalizedRecord {
	records := make([]*models.NormalizedRecord, 0, len(batch))
	for _, item := range batch {
		records = append(records, e.normalizeOne(item))
	}

	markDuplicates(records)
	sortRecords(records)

	if e.logger != nil {
		e.logger.Info("[extractor] Normalized %d records", len(records))
	}
	return records
}

func (e *Extractor) normalizeOne(item *models.RawItem) *models.NormalizedRecord {
	title := strings.TrimSpace(item.Title)
	url := strings.TrimSpace(item.URL)

	rec := &models.NormalizedRecord{
		Title:               title,
		URL:                 url,
		Description:         strings.TrimSpace(item.Description),
		PriceBeforeDiscount: item.PriceBeforeDiscount,
		PriceAfterDiscount:  item.PriceAfterDiscount,
		PercentDiscount:     item.PercentDiscount,
		Rating:              parseFloat(item.Rating),
		TotalRatings:        parseInt(item.TotalRatings),
		Count:               parseInt(firstToken(item.Count)),
	}

	if rec.PriceBeforeDiscount != nil && rec.PriceAfterDiscount != nil {
		amount := *rec.PriceBeforeDiscount - *rec.PriceAfterDiscount
		rec.ActualDiscountAmount = &amount
	}

	rec.Brand = e.extractBrand(title)

	proc := e.extractProcessor(title)
	rec.ProcessorType = proc.Type
	rec.ProcessorGen = proc.Gen

	rec.RAMGB = extractRAM(title)

	if stor, ok := extractStorage(title); ok {
		rec.StorageGB = &stor.SizeGB
		rec.StorageType = stor.Type
	}

	rec.ScreenSizeInch = extractScreenSize(title)

	if gpu, ok := e.extractGPU(title); ok {
		rec.GPUBrand = &gpu.Brand
		rec.GPUModel = &gpu.Model
	}

	rec.IsGaming = e.isGaming(title)
	rec.PriceCategory = e.priceCategory(rec.PriceAfterDiscount)
	rec.ProductID = extractProductID(url)

	// Sentinel "Unknown" strings count as present; nil numerics do not.
	rec.HasCompleteInfo = rec.Rating != nil &&
		rec.PriceAfterDiscount != nil &&
		rec.Brand != "" &&
		rec.ProcessorType != "" &&
		rec.RAMGB != nil

	return rec
}

// extractBrand is first-hit-wins down the configured brand list.
func (e *Extractor) extractBrand(title string) string {
	lower := strings.ToLower(title)
	for _, brand := range e.rules.Brands {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand
		}
	}
	return "Unknown"
}

// extractProcessor evaluates the processor families in order; the first
// family that matches short-circuits the rest.
func (e *Extractor) extractProcessor(title string) processorMatch {
	lower := strings.ToLower(title)
	for _, rule := range e.procRules {
		if m, ok := rule.match(lower); ok {
			return m
		}
	}
	return processorMatch{Type: "Unknown"}
}

func matchIntelCore(lower string) (processorMatch, bool) {
	m := intelRe.FindStringSubmatch(lower)
	if m == nil {
		return processorMatch{}, false
	}
	match := processorMatch{Type: "Intel Core i" + m[2]}
	if gen := intelGenRe.FindStringSubmatch(lower); gen != nil {
		match.Gen = &gen[1]
	}
	return match, true
}

func matchRyzen(lower string) (processorMatch, bool) {
	m := ryzenRe.FindStringSubmatch(lower)
	if m == nil {
		return processorMatch{}, false
	}
	return processorMatch{Type: "AMD Ryzen " + m[1]}, true
}

func matchCeleron(lower string) (processorMatch, bool) {
	if !strings.Contains(lower, "celeron") {
		return processorMatch{}, false
	}
	return processorMatch{Type: "Intel Celeron"}, true
}

func matchAppleM(lower string) (processorMatch, bool) {
	m := appleMRe.FindStringSubmatch(lower)
	if m == nil {
		return processorMatch{}, false
	}
	return processorMatch{Type: "Apple M" + m[1]}, true
}

func extractRAM(title string) *int {
	m := ramRe.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	return parseInt(m[1])
}

func extractStorage(title string) (storageMatch, bool) {
	m := storageRe.FindStringSubmatch(title)
	if m == nil {
		return storageMatch{}, false
	}

	size, _ := strconv.Atoi(m[1])
	if strings.EqualFold(m[2], "tb") {
		size *= 1024
	}

	storType := strings.ToUpper(m[3])
	if storType == "" {
		// Unreachable while storageRe keeps its type group mandatory; the
		// scan covers a capacity-only match if the group is ever loosened.
		lower := strings.ToLower(title)
		switch {
		case strings.Contains(lower, "ssd"):
			storType = "SSD"
		case strings.Contains(lower, "hdd"):
			storType = "HDD"
		}
	}

	match := storageMatch{SizeGB: size}
	if storType != "" {
		match.Type = &storType
	}
	return match, true
}

// extractScreenSize takes the first number in the title, integer or decimal
// ("Vivobook 15" means a 15-inch panel), and accepts it only within the
// plausible laptop range; out-of-range values are a non-match, not clamped.
func extractScreenSize(title string) *float64 {
	m := screenRe.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil || size < 10 || size > 20 {
		return nil
	}
	return &size
}

func (e *Extractor) extractGPU(title string) (gpuMatch, bool) {
	lower := strings.ToLower(title)
	for _, rule := range e.gpuRules {
		if m, ok := rule.match(lower); ok {
			return m, true
		}
	}
	return gpuMatch{}, false
}

func matchNvidia(lower string) (gpuMatch, bool) {
	m := nvidiaRe.FindStringSubmatch(lower)
	if m == nil {
		return gpuMatch{}, false
	}
	return gpuMatch{Brand: "NVIDIA", Model: strings.ToUpper(m[1]) + " " + m[2]}, true
}

func matchRadeon(lower string) (gpuMatch, bool) {
	if !strings.Contains(lower, "radeon") {
		return gpuMatch{}, false
	}
	return gpuMatch{Brand: "AMD", Model: "Radeon"}, true
}

func matchIntelGraphics(lower string) (gpuMatch, bool) {
	for _, token := range []string{"intel uhd", "intel iris", "iris xe"} {
		if strings.Contains(lower, token) {
			return gpuMatch{Brand: "Intel", Model: "Integrated"}, true
		}
	}
	return gpuMatch{}, false
}

func (e *Extractor) isGaming(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range e.rules.GamingKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// priceCategory buckets by ascending thresholds; a price exactly at a
// threshold falls in the higher bucket.
func (e *Extractor) priceCategory(priceAfter *int) string {
	if priceAfter == nil {
		return "Unknown"
	}
	t := e.rules.PriceTiers
	switch p := *priceAfter; {
	case p < t.Budget:
		return "Budget"
	case p < t.MidRange:
		return "Mid-Range"
	case p < t.Premium:
		return "Premium"
	default:
		return "High-End"
	}
}

func extractProductID(url string) *string {
	m := productIDRe.FindStringSubmatch(url)
	if m == nil {
		return nil
	}
	return &m[1]
}

// markDuplicates flags every record after the first with an identical title,
// in the batch's current order. Identity falls back to title, never to
// product_id.
func markDuplicates(records []*models.NormalizedRecord) {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.Title]; dup {
			rec.IsDuplicate = true
			continue
		}
		seen[rec.Title] = struct{}{}
	}
}

// sortRecords orders by rating descending then total ratings descending,
// nulls last in both keys. The ordering is a display convenience, not a
// correctness requirement.
func sortRecords(records []*models.NormalizedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if c := compareFloatDesc(records[i].Rating, records[j].Rating); c != 0 {
			return c < 0
		}
		return compareIntDesc(records[i].TotalRatings, records[j].TotalRatings) < 0
	})
}

// compareFloatDesc returns <0 if a sorts before b under "descending, nil
// last".
func compareFloatDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}

func compareIntDesc(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

func firstToken(s string) string {
	return strings.Split(strings.TrimSpace(s), " ")[0]
}
