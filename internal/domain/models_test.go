package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestDefaultProfile_AllFieldsSet(t *testing.T) {
	p := DefaultProfile()
	if p.Age != 30 || p.Gender != "Female" || p.HeightCM != 165 || p.WeightKG != 60 {
		t.Fatalf("demographics unexpected: %+v", p)
	}
	if p.Dosha != "mixed" || p.PrimaryCondition != "None" || p.SecondaryCondition != "None" {
		t.Fatalf("health fields unexpected: %+v", p)
	}
	if p.WaterIntakeLiters != 2 || p.BMI != 22 || p.SleepQuality != "Good" || p.Appetite != "Normal" {
		t.Fatalf("lifestyle fields unexpected: %+v", p)
	}
	if p.FallbackLocation != "Unknown" || p.Coordinates != nil {
		t.Fatalf("location fields unexpected: %+v", p)
	}
}

func TestFallbackLocation_UsesSentinel(t *testing.T) {
	p := DefaultProfile()
	p.FallbackLocation = "Pune"
	p.Coordinates = &Coordinates{Lat: 18.5, Lon: 73.8}

	loc := FallbackLocation(p)
	if loc.ResolvedLocation != "Pune" || loc.Weather != WeatherNotAvailable {
		t.Fatalf("fallback = %+v", loc)
	}
	if loc.Source == nil || loc.Source.Lat != 18.5 {
		t.Fatalf("source coordinates not carried: %+v", loc.Source)
	}
}

func TestDeliveryResult_OK(t *testing.T) {
	if !(DeliveryResult{Outcome: DeliverySent}).OK() {
		t.Fatalf("sent should be OK")
	}
	for _, o := range []DeliveryOutcome{DeliverySkipped, DeliveryFailed} {
		if (DeliveryResult{Outcome: o}).OK() {
			t.Fatalf("%s should not be OK", o)
		}
	}
}

func TestDiagnosticEvent_TableAndCheck(t *testing.T) {
	if (DiagnosticEvent{}).TableName() != "diagnostic_events" {
		t.Fatalf("TableName() = %q", (DiagnosticEvent{}).TableName())
	}

	db := newDomainDB(t)
	if err := db.AutoMigrate(&DiagnosticEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasIndex(&DiagnosticEvent{}, "idx_events_request") {
		t.Fatalf("expected index idx_events_request")
	}

	ok := &DiagnosticEvent{ID: "e1", Kind: EventGeneration, Status: "ok", CreatedAt: time.Now()}
	if err := db.Create(ok).Error; err != nil {
		t.Fatalf("insert valid event: %v", err)
	}
	bad := &DiagnosticEvent{ID: "e2", Kind: "other", Status: "ok"}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected CHECK constraint failure for kind=other")
	}
}
