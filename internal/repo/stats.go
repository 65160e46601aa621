package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

// KindStats aggregates the diagnostics log for one event kind.
type KindStats struct {
	Kind     string           `json:"kind"`
	Count    int64            `json:"count"`
	ByStatus map[string]int64 `json:"by_status"`
	Last     *time.Time       `json:"last,omitempty"`
}

// EventStats returns the row count, per-status counts and the newest
// CreatedAt for kind. When there are no rows Last is nil.
func EventStats(ctx context.Context, db *gorm.DB, kind string) (KindStats, error) {
	out := KindStats{Kind: kind, ByStatus: map[string]int64{}}
	q := db.WithContext(ctx).Model(&domain.DiagnosticEvent{}).Where("kind = ?", kind).Session(&gorm.Session{})

	var rows []struct {
		Status string
		N      int64
	}
	if err := q.Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		out.ByStatus[r.Status] = r.N
		out.Count += r.N
	}
	if out.Count == 0 {
		return out, nil
	}

	// Order+Limit instead of MAX(): SQLite returns MAX(created_at) as TEXT.
	var row struct {
		CreatedAt time.Time
	}
	if err := q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return out, err
	}
	out.Last = &row.CreatedAt
	return out, nil
}
