// Package weather resolves a human-readable location and current weather for
// a profile's coordinates using the OpenWeatherMap current-weather API.
//
// Enrichment is best-effort: every failure degrades to the profile's fallback
// location and the "Not available" sentinel, logged at warn.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/observability"
)

// maxBody caps how much of a provider response is read.
const maxBody = 1 << 20

var errNoCondition = errors.New("response carries no weather condition")

// Enricher looks up current conditions for a profile.
type Enricher struct {
	cfg    config.WeatherConfig
	client *http.Client
	// quota keeps outbound lookups within the provider's per-minute allowance;
	// nil means unmetered.
	quota *rate.Limiter
}

// New builds an Enricher. A nil client gets one bounded by cfg.Timeout.
func New(cfg config.WeatherConfig, client *http.Client) *Enricher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	e := &Enricher{cfg: cfg, client: client}
	if cfg.PerMinute > 0 {
		e.quota = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.PerMinute)), cfg.PerMinute)
	}
	return e
}

// Configured reports whether lookups can happen at all.
func (e *Enricher) Configured() bool { return e.cfg.Configured() }

// Enrich always returns a LocationContext. It performs at most one outbound
// call, and only when the provider is configured, p carries coordinates and
// the per-minute quota has room.
func (e *Enricher) Enrich(ctx context.Context, p domain.UserProfile) domain.LocationContext {
	fallback := domain.FallbackLocation(p)
	if !e.Configured() || p.Coordinates == nil {
		observability.ObserveWeather(observability.OutcomeSkipped)
		return fallback
	}
	if e.quota != nil && !e.quota.Allow() {
		zerolog.Ctx(ctx).Warn().Int("per_minute", e.cfg.PerMinute).Msg("weather quota exhausted; using fallback location")
		observability.ObserveWeather(observability.OutcomeThrottled)
		return fallback
	}

	ctx, span := observability.StartSpan(ctx, "weather", "Enrich",
		attribute.Float64("geo.lat", p.Coordinates.Lat),
		attribute.Float64("geo.lon", p.Coordinates.Lon),
	)
	obs, err := e.lookup(ctx, *p.Coordinates)
	observability.EndSpan(span, err)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("weather lookup failed; using fallback location")
		observability.ObserveWeather(observability.OutcomeFallback)
		return fallback
	}

	out := domain.LocationContext{
		ResolvedLocation: p.FallbackLocation,
		Weather:          obs.describe(),
		Source:           p.Coordinates,
	}
	if loc := obs.place(); loc != "" {
		out.ResolvedLocation = loc
	}
	observability.ObserveWeather(observability.OutcomeOK)
	return out
}

// current is the subset of the current-weather payload the enricher reads.
type current struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func (c current) condition() string {
	for _, w := range c.Weather {
		if s := strings.TrimSpace(w.Description); s != "" {
			return s
		}
		if s := strings.TrimSpace(w.Main); s != "" {
			return s
		}
	}
	return ""
}

// describe renders "<Condition>, Temp: <t>°C", or only the condition when
// the temperature is missing.
func (c current) describe() string {
	cond := cases.Title(language.English).String(c.condition())
	if c.Main == nil || c.Main.Temp == nil {
		return cond
	}
	return fmt.Sprintf("%s, Temp: %s°C", cond, strconv.FormatFloat(*c.Main.Temp, 'f', -1, 64))
}

// place renders "City, CC" when both parts are present.
func (c current) place() string {
	city, cc := strings.TrimSpace(c.Name), strings.TrimSpace(c.Sys.Country)
	if city == "" || cc == "" {
		return ""
	}
	return city + ", " + cc
}

func (e *Enricher) lookup(ctx context.Context, at domain.Coordinates) (current, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("appid", e.cfg.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return current{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return current{}, fmt.Errorf("weather request: %w", redact(err, e.cfg.APIKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return current{}, fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return current{}, fmt.Errorf("weather provider status %d", resp.StatusCode)
	}

	var out current
	if err := json.Unmarshal(body, &out); err != nil {
		return current{}, fmt.Errorf("decode weather response: %w", err)
	}
	if out.condition() == "" {
		return current{}, errNoCondition
	}
	zerolog.Ctx(ctx).Debug().Dur("latency", time.Since(start)).Str("city", out.Name).Msg("weather lookup ok")
	return out, nil
}

// redact strips the API key from transport errors, which embed the URL.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}
