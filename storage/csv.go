package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"daraz-scraper/models"
)

// Staged files use BOM-prefixed UTF-8 so spreadsheet tools pick the right
// encoding; readers strip the BOM when present. Column order is significant:
// the clean file's order is the sink table's order.

var rawHeader = []string{
	"title", "score", "count", "rating", "total_ratings",
	"price_before_discount", "price_after_discount", "percent_discount",
	"description", "url",
}

// WriteRawCSV stages a scraped batch. Intermediate directories are created
// automatically; an existing file is truncated.
func WriteRawCSV(path string, items []*models.RawItem) error {
	w, closeFn, err := newBOMWriter(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Write(rawHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, item := range items {
		row := []string{
			item.Title,
			item.Score,
			item.Count,
			item.Rating,
			item.TotalRatings,
			fmtIntPtr(item.PriceBeforeDiscount),
			fmtIntPtr(item.PriceAfterDiscount),
			fmtIntPtr(item.PercentDiscount),
			item.Description,
			item.URL,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// ReadRawCSV reads a staged raw batch back. Numeric fields that fail to
// parse are coerced to nil rather than failing the row.
func ReadRawCSV(path string) ([]*models.RawItem, error) {
	rows, err := readBOMCSV(path, len(rawHeader))
	if err != nil {
		return nil, err
	}

	items := make([]*models.RawItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &models.RawItem{
			Title:               row[0],
			Score:               row[1],
			Count:               row[2],
			Rating:              row[3],
			TotalRatings:        row[4],
			PriceBeforeDiscount: parseIntPtr(row[5]),
			PriceAfterDiscount:  parseIntPtr(row[6]),
			PercentDiscount:     parseIntPtr(row[7]),
			Description:         row[8],
			URL:                 row[9],
		})
	}
	return items, nil
}

// WriteCleanCSV stages a normalized batch in the sink table's column order.
func WriteCleanCSV(path string, records []*models.NormalizedRecord) error {
	w, closeFn, err := newBOMWriter(path)
	if err != nil {
		return err
	}
	defer closeFn()

	cols := tableColumns()
	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, c.name)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			row = append(row, cellString(c.value(rec)))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCleanCSV reads a staged normalized batch back. Empty cells become nil.
func ReadCleanCSV(path string) ([]*models.NormalizedRecord, error) {
	rows, err := readBOMCSV(path, len(tableColumns()))
	if err != nil {
		return nil, err
	}

	records := make([]*models.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &models.NormalizedRecord{
			ProductID:            parseStrPtr(row[0]),
			Title:                row[1],
			Brand:                row[2],
			PriceCategory:        row[3],
			PriceBeforeDiscount:  parseIntPtr(row[4]),
			PriceAfterDiscount:   parseIntPtr(row[5]),
			ActualDiscountAmount: parseIntPtr(row[6]),
			PercentDiscount:      parseIntPtr(row[7]),
			Rating:               parseFloatPtr(row[8]),
			TotalRatings:         parseIntPtr(row[9]),
			Count:                parseIntPtr(row[10]),
			ProcessorType:        row[11],
			ProcessorGen:         parseStrPtr(row[12]),
			RAMGB:                parseIntPtr(row[13]),
			StorageGB:            parseIntPtr(row[14]),
			StorageType:          parseStrPtr(row[15]),
			ScreenSizeInch:       parseFloatPtr(row[16]),
			GPUBrand:             parseStrPtr(row[17]),
			GPUModel:             parseStrPtr(row[18]),
			IsGaming:             row[19] == "true",
			Description:          row[20],
			URL:                  row[21],
			HasCompleteInfo:      row[22] == "true",
			IsDuplicate:          row[23] == "true",
		})
	}
	return records, nil
}

func newBOMWriter(path string) (*csv.Writer, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	enc := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(enc)
	closeFn := func() error {
		w.Flush()
		if err := enc.Close(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return w, closeFn, nil
}

func readBOMCSV(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.FieldsPerRecord = wantCols

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: %q has no header row", path)
	}
	return rows[1:], nil
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case *int:
		return fmtIntPtr(val)
	case *float64:
		if val == nil {
			return ""
		}
		return strconv.FormatFloat(*val, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func parseIntPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatPtr(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseStrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
