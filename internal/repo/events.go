package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

// ErrNilDB is returned when an EventLog has no database.
var ErrNilDB = errors.New("repo: nil database")

// AppendEvent inserts ev. ID and CreatedAt are filled in when empty. Rows
// are never updated or deleted.
func AppendEvent(ctx context.Context, db *gorm.DB, ev domain.DiagnosticEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(&ev).Error
}

// RecentEvents returns up to limit events, newest first. limit is clamped
// to [1, 500].
func RecentEvents(ctx context.Context, db *gorm.DB, limit int) ([]domain.DiagnosticEvent, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	var out []domain.DiagnosticEvent
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// EventLog adapts the functions above to the services.EventLog interface.
type EventLog struct {
	DB *gorm.DB
}

// Append stores ev.
func (l EventLog) Append(ctx context.Context, ev domain.DiagnosticEvent) error {
	if l.DB == nil {
		return ErrNilDB
	}
	return AppendEvent(ctx, l.DB, ev)
}

// Recent returns up to limit events, newest first.
func (l EventLog) Recent(ctx context.Context, limit int) ([]domain.DiagnosticEvent, error) {
	if l.DB == nil {
		return nil, ErrNilDB
	}
	return RecentEvents(ctx, l.DB, limit)
}

// Stats returns the aggregate for kind.
func (l EventLog) Stats(ctx context.Context, kind string) (KindStats, error) {
	if l.DB == nil {
		return KindStats{Kind: kind}, ErrNilDB
	}
	return EventStats(ctx, l.DB, kind)
}
