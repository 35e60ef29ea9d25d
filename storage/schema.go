package storage

import (
	"strconv"

	"daraz-scraper/models"
)

// Column is one inferred output column.
type Column struct {
	Name    string
	SQLType string
}

// column pairs an output column name with its value accessor. The slice
// order fixes both the CREATE statement and the positional insert binds, so
// it must never drift between the two.
type column struct {
	name  string
	value func(*models.NormalizedRecord) any
}

// tableColumns lists the output columns in their final order. Booleans and
// free text both land in text columns; bools are rendered as strings.
func tableColumns() []column {
	return []column{
		{"product_id", func(r *models.NormalizedRecord) any { return r.ProductID }},
		{"title", func(r *models.NormalizedRecord) any { return r.Title }},
		{"brand", func(r *models.NormalizedRecord) any { return r.Brand }},
		{"price_category", func(r *models.NormalizedRecord) any { return r.PriceCategory }},
		{"price_before_discount", func(r *models.NormalizedRecord) any { return r.PriceBeforeDiscount }},
		{"price_after_discount", func(r *models.NormalizedRecord) any { return r.PriceAfterDiscount }},
		{"actual_discount_amount", func(r *models.NormalizedRecord) any { return r.ActualDiscountAmount }},
		{"percent_discount", func(r *models.NormalizedRecord) any { return r.PercentDiscount }},
		{"rating", func(r *models.NormalizedRecord) any { return r.Rating }},
		{"total_ratings", func(r *models.NormalizedRecord) any { return r.TotalRatings }},
		{"count", func(r *models.NormalizedRecord) any { return r.Count }},
		{"processor_type", func(r *models.NormalizedRecord) any { return r.ProcessorType }},
		{"processor_gen", func(r *models.NormalizedRecord) any { return r.ProcessorGen }},
		{"ram_gb", func(r *models.NormalizedRecord) any { return r.RAMGB }},
		{"storage_gb", func(r *models.NormalizedRecord) any { return r.StorageGB }},
		{"storage_type", func(r *models.NormalizedRecord) any { return r.StorageType }},
		{"screen_size_inch", func(r *models.NormalizedRecord) any { return r.ScreenSizeInch }},
		{"gpu_brand", func(r *models.NormalizedRecord) any { return r.GPUBrand }},
		{"gpu_model", func(r *models.NormalizedRecord) any { return r.GPUModel }},
		{"is_gaming", func(r *models.NormalizedRecord) any { return strconv.FormatBool(r.IsGaming) }},
		{"description", func(r *models.NormalizedRecord) any { return r.Description }},
		{"url", func(r *models.NormalizedRecord) any { return r.URL }},
		{"has_complete_info", func(r *models.NormalizedRecord) any { return strconv.FormatBool(r.HasCompleteInfo) }},
		{"is_duplicate", func(r *models.NormalizedRecord) any { return strconv.FormatBool(r.IsDuplicate) }},
	}
}

// InferSchema maps every output column to a storage type inferred from its
// observed value type: integers to INTEGER, reals to FLOAT, everything else
// (booleans and free text) to TEXT.
func InferSchema(records []*models.NormalizedRecord) []Column {
	sample := &models.NormalizedRecord{}
	if len(records) > 0 {
		sample = records[0]
	}

	cols := tableColumns()
	schema := make([]Column, 0, len(cols))
	for _, c := range cols {
		schema = append(schema, Column{Name: c.name, SQLType: sqlTypeOf(c.value(sample))})
	}
	return schema
}

func sqlTypeOf(v any) string {
	switch v.(type) {
	case int, *int:
		return "INTEGER"
	case float64, *float64:
		return "FLOAT"
	default:
		return "TEXT"
	}
}

// RowValues returns one record's positional bind arguments, in the exact
// tableColumns order. Nil pointers bind as NULL.
func RowValues(r *models.NormalizedRecord) []any {
	cols := tableColumns()
	values := make([]any, 0, len(cols))
	for _, c := range cols {
		values = append(values, c.value(r))
	}
	return values
}
