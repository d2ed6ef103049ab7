package aggregate

import (
	"context"

	"gorm.io/gorm"
)

// CountByStatus groups the rows of model by their status column. Every name
// in known is present in the result, zero when no row carries it.
func CountByStatus(ctx context.Context, db *gorm.DB, model interface{}, known ...string) (StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	out := StatusCounts{ByStatus: make(map[string]int64, len(known)+len(rows))}
	for _, k := range known {
		out.ByStatus[k] = 0
	}
	for _, r := range rows {
		out.ByStatus[r.Status] = r.Count
		out.Total += r.Count
	}
	return out, nil
}
