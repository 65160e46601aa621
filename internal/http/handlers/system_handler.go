// System HTTP handlers.
//
//   - GET /health        integration summary, always 200
//   - GET /debug/system  host snapshot plus diagnostics-log aggregates and
//     recent events, mounted only when DEBUG is on
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/http/middleware"
	"github.com/Akshaypareek01/DietProject-samsara/internal/repo"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status            string `json:"status" example:"ok"`
	LLMProvider       string `json:"llm_provider" example:"openai"`
	LLMConfigured     bool   `json:"llm_configured" example:"true"`
	WeatherConfigured bool   `json:"weather_configured" example:"true"`
	EmailConfigured   bool   `json:"email_configured" example:"false"`
}

// Health godoc
// @ID          health
// @Summary     Service health
// @Description Always 200. Reports which integrations have credentials; never discloses the credentials themselves.
// @Tags        System
// @Produce     json
// @Success     200  {object} handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{
		Status:            "ok",
		LLMProvider:       h.status.LLMProvider,
		LLMConfigured:     h.status.LLMConfigured,
		WeatherConfigured: h.status.WeatherConfigured,
		EmailConfigured:   h.status.EmailConfigured,
	})
}

// HostSnapshot is the host section of the debug response.
type HostSnapshot struct {
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	Platform      string  `json:"platform"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	CPUCores      int     `json:"cpu_cores"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemTotal      uint64  `json:"mem_total_bytes"`
	MemUsed       uint64  `json:"mem_used_bytes"`
	MemPercent    float64 `json:"mem_used_percent"`
	DiskTotal     uint64  `json:"disk_total_bytes"`
	DiskPercent   float64 `json:"disk_used_percent"`
}

// DebugResponse is returned by GET /debug/system.
type DebugResponse struct {
	Host        HostSnapshot               `json:"host"`
	Goroutines  int                        `json:"goroutines"`
	ProcessUp   string                     `json:"process_uptime"`
	Diagnostics map[string]*repo.KindStats `json:"diagnostics,omitempty"`
	Recent      []domain.DiagnosticEvent   `json:"recent_events,omitempty"`
	Warnings    []string                   `json:"warnings,omitempty"`
}

// recentEventsLimit is how many diagnostic events the debug endpoint lists.
const recentEventsLimit = 20

// startedAt is the process start time reported by the debug endpoint.
var startedAt = time.Now()

// sampleHost collects the host snapshot. Partial failures are returned as
// warnings so one missing reading does not hide the others.
var sampleHost = func(ctx context.Context) (HostSnapshot, []string) {
	var s HostSnapshot
	var warn []string

	if info, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname, s.OS, s.Platform = info.Hostname, info.OS, info.Platform
	} else {
		warn = append(warn, "host: "+err.Error())
	}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		s.UptimeSeconds = up
	} else {
		warn = append(warn, "uptime: "+err.Error())
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.CPUCores = n
	}
	// Zero interval compares against the previous call; no sleep.
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		s.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemTotal, s.MemUsed, s.MemPercent = vm.Total, vm.Used, vm.UsedPercent
	} else {
		warn = append(warn, "memory: "+err.Error())
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		s.DiskTotal, s.DiskPercent = du.Total, du.UsedPercent
	}
	return s, warn
}

// DebugSystem godoc
// @ID          debugSystem
// @Summary     Host diagnostics
// @Description Host resource snapshot, diagnostics-log aggregates and the latest events. Only mounted when DEBUG is enabled.
// @Tags        System
// @Produce     json
// @Success     200  {object} handlers.DebugResponse
// @Router      /debug/system [get]
func (h *Handlers) DebugSystem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	snap, warn := sampleHost(ctx)
	resp := DebugResponse{
		Host:       snap,
		Goroutines: runtime.NumGoroutine(),
		ProcessUp:  time.Since(startedAt).Round(time.Second).String(),
		Warnings:   warn,
	}

	if h.stats != nil {
		resp.Diagnostics = map[string]*repo.KindStats{}
		for _, kind := range []string{domain.EventGeneration, domain.EventDelivery} {
			st, err := h.stats.Stats(ctx, kind)
			if err != nil {
				middleware.LoggerFrom(c).Warn().Err(err).Str("kind", kind).Msg("diagnostic stats unavailable")
				resp.Warnings = append(resp.Warnings, kind+": "+ErrCodeDiagnostics)
				continue
			}
			resp.Diagnostics[kind] = &st
		}
		recent, err := h.stats.Recent(ctx, recentEventsLimit)
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("recent diagnostic events unavailable")
			resp.Warnings = append(resp.Warnings, "recent: "+ErrCodeDiagnostics)
		} else {
			resp.Recent = recent
		}
	}
	ok(c, http.StatusOK, resp)
}
