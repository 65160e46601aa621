package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "diag.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestAppendEvent_FillsIDAndTimestamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := AppendEvent(ctx, db, domain.DiagnosticEvent{
		RequestID: "req-1",
		Kind:      domain.EventGeneration,
		Route:     "/generate",
		Status:    "ok",
		PlanChars: 1200,
		LatencyMS: 850,
	}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	got, err := RecentEvents(ctx, db, 10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 event, got %d", len(got))
	}
	if len(got[0].ID) != 36 || got[0].CreatedAt.IsZero() {
		t.Fatalf("ID/CreatedAt not filled: %+v", got[0])
	}
	if got[0].RequestID != "req-1" || got[0].PlanChars != 1200 {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestAppendEvent_RejectsUnknownKind(t *testing.T) {
	db := newTestDB(t)
	err := AppendEvent(context.Background(), db, domain.DiagnosticEvent{Kind: "other", Status: "ok"})
	if err == nil {
		t.Fatalf("expected CHECK constraint failure")
	}
}

func TestRecentEvents_NewestFirstAndClamped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := AppendEvent(ctx, db, domain.DiagnosticEvent{
			Kind:      domain.EventDelivery,
			Status:    "sent",
			Attempts:  i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	got, err := RecentEvents(ctx, db, 2)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 2 || got[0].Attempts != 3 || got[1].Attempts != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}

	got, err = RecentEvents(ctx, db, 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("limit 0 should clamp to 1: n=%d err=%v", len(got), err)
	}
}

func TestEventStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	empty, err := EventStats(ctx, db, domain.EventDelivery)
	if err != nil || empty.Count != 0 || empty.Last != nil {
		t.Fatalf("empty stats unexpected: %+v err=%v", empty, err)
	}

	last := time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC)
	for _, ev := range []domain.DiagnosticEvent{
		{Kind: domain.EventDelivery, Status: "sent", CreatedAt: last.Add(-time.Hour)},
		{Kind: domain.EventDelivery, Status: "failed", CreatedAt: last},
		{Kind: domain.EventDelivery, Status: "sent", CreatedAt: last.Add(-2 * time.Hour)},
		{Kind: domain.EventGeneration, Status: "ok", CreatedAt: last.Add(time.Hour)},
	} {
		if err := AppendEvent(ctx, db, ev); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	st, err := EventStats(ctx, db, domain.EventDelivery)
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if st.Count != 3 || st.ByStatus["sent"] != 2 || st.ByStatus["failed"] != 1 {
		t.Fatalf("counts unexpected: %+v", st)
	}
	if st.Last == nil || !st.Last.Equal(last) {
		t.Fatalf("last = %v; want %v", st.Last, last)
	}
}

func TestEventLog_Append(t *testing.T) {
	if err := (EventLog{}).Append(context.Background(), domain.DiagnosticEvent{}); !errors.Is(err, ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}

	db := newTestDB(t)
	log := EventLog{DB: db}
	if err := log.Append(context.Background(), domain.DiagnosticEvent{Kind: domain.EventGeneration, Status: "ok"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	var n int64
	db.Model(&domain.DiagnosticEvent{}).Count(&n)
	if n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
}

func TestEventLog_Stats(t *testing.T) {
	if _, err := (EventLog{}).Stats(context.Background(), domain.EventDelivery); !errors.Is(err, ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
	db := newTestDB(t)
	l := EventLog{DB: db}
	_ = l.Append(context.Background(), domain.DiagnosticEvent{Kind: domain.EventDelivery, Status: "skipped"})
	st, err := l.Stats(context.Background(), domain.EventDelivery)
	if err != nil || st.Count != 1 || st.ByStatus["skipped"] != 1 {
		t.Fatalf("unexpected stats %+v err=%v", st, err)
	}
}

func TestEventLog_Recent(t *testing.T) {
	if _, err := (EventLog{}).Recent(context.Background(), 5); !errors.Is(err, ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
	db := newTestDB(t)
	l := EventLog{DB: db}
	base := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	_ = l.Append(context.Background(), domain.DiagnosticEvent{Kind: domain.EventGeneration, Status: "ok", CreatedAt: base})
	_ = l.Append(context.Background(), domain.DiagnosticEvent{Kind: domain.EventDelivery, Status: "sent", CreatedAt: base.Add(time.Minute)})

	got, err := l.Recent(context.Background(), 5)
	if err != nil || len(got) != 2 || got[0].Kind != domain.EventDelivery {
		t.Fatalf("unexpected recent %+v err=%v", got, err)
	}
}
