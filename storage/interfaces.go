package storage

import "daraz-scraper/models"

// RecordLoader is the interface any relational sink must satisfy.
type RecordLoader interface {
	Load(records []*models.NormalizedRecord, table string) (int, error)
	ValidationCounts(table string) (total, unique int, err error)
	Close() error
}
