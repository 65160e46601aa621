// Package handlers implements the HTTP endpoints of the diet-plan service.
//
// Handlers are transport-thin: they decode the request into a profile.Input,
// delegate to the plan service, and translate service errors into HTTP
// results with a stable error code.
package handlers

import (
	"context"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/profile"
	"github.com/Akshaypareek01/DietProject-samsara/internal/repo"
	"github.com/Akshaypareek01/DietProject-samsara/internal/services"
)

// PlanService defines the subset of the services layer used by handlers.
type PlanService interface {
	Generate(ctx context.Context, in profile.Input, route string) (services.Result, error)
}

// EventStats exposes the diagnostics log to the debug endpoint.
type EventStats interface {
	Stats(ctx context.Context, kind string) (repo.KindStats, error)
	Recent(ctx context.Context, limit int) ([]domain.DiagnosticEvent, error)
}

// Status is the integration summary reported by /health. It is fixed at
// startup from the loaded configuration.
type Status struct {
	LLMProvider       string
	LLMConfigured     bool
	WeatherConfigured bool
	EmailConfigured   bool
}

// Handlers aggregates dependencies needed by HTTP handlers.
type Handlers struct {
	plans  PlanService
	status Status
	stats  EventStats
}

// New constructs Handlers. stats may be nil when the diagnostics log is off.
func New(plans PlanService, status Status, stats EventStats) *Handlers {
	return &Handlers{plans: plans, status: status, stats: stats}
}
