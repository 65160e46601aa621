package domain

import "time"

// Event kinds recorded in the diagnostics log.
const (
	EventGeneration = "generation"
	EventDelivery   = "delivery"
)

// DiagnosticEvent is one append-only row of the optional diagnostics log.
// It captures timings and outcomes only; plan text, recipients and profile
// values are never stored.
type DiagnosticEvent struct {
	ID               string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	RequestID        string    `json:"request_id"         gorm:"type:varchar(128);index:idx_events_request"`
	Kind             string    `json:"kind"               gorm:"type:varchar(16);not null;check:kind IN ('generation','delivery')"`
	Route            string    `json:"route"              gorm:"type:varchar(64)"`
	Status           string    `json:"status"             gorm:"type:varchar(32);not null"`
	WeatherAvailable bool      `json:"weather_available"`
	PlanChars        int       `json:"plan_chars"`
	Attempts         int       `json:"attempts"`
	LatencyMS        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"         gorm:"index"`
}

// TableName returns the database table name for DiagnosticEvent.
func (DiagnosticEvent) TableName() string { return "diagnostic_events" }
