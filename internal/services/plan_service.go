// Package services – PlanService
//
// PlanService runs the generation pipeline for one request and, when the
// request names a recipient, hands the finished plan to the delivery
// dispatcher on a detached goroutine. The response never waits for, or fails
// because of, delivery.
//
// Observability: Generate is traced; every pipeline stage gets a child span.
// When an EventLog is set, one timing/outcome row is appended per generation
// and per delivery. No plan text, address or profile value is recorded.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/observability"
	"github.com/Akshaypareek01/DietProject-samsara/internal/profile"
	"github.com/Akshaypareek01/DietProject-samsara/internal/prompt"
)

// Deliverer sends a generated plan to a recipient.
type Deliverer interface {
	Deliver(ctx context.Context, recipient string, plan domain.GeneratedPlan) domain.DeliveryResult
	Configured() bool
	ValidAddress(addr string) bool
}

// EventLog receives diagnostic rows. A nil EventLog disables recording.
type EventLog interface {
	Append(ctx context.Context, ev domain.DiagnosticEvent) error
}

// Result is the outcome of one successful generation.
type Result struct {
	Plan         string `json:"plan"`
	UsedLocation string `json:"used_location"`
	UsedWeather  string `json:"used_weather"`
	CurrentDay   string `json:"current_day"`
	// EmailSent reports that a delivery was dispatched, not that it arrived.
	EmailSent bool `json:"email_sent"`
}

// PlanService coordinates the pipeline and the delivery side effect.
type PlanService struct {
	Stages   []Stage
	Delivery Deliverer
	Events   EventLog

	// DeliveryDeadline bounds one detached delivery, all attempts included.
	DeliveryDeadline time.Duration

	// Now supplies the clock used for the weekday; defaults to time.Now.
	Now func() time.Time

	wg sync.WaitGroup
}

// NewPlanService builds the pipeline from cfg. Weather enrichment is skipped
// when WEATHER_ENABLED is false; the stage then uses the fallback location.
func NewPlanService(cfg config.Config, enricher Enricher, gen Generator, deliverer Deliverer) *PlanService {
	if !cfg.Weather.Enabled {
		enricher = nil
	}
	return &PlanService{
		Stages: []Stage{
			credentialStage{gen: gen},
			enrichStage{enricher: enricher},
			composeStage{opts: prompt.Options{Days: cfg.Plan.Days, AgeAware: cfg.Plan.AgeAware}},
			generateStage{gen: gen},
		},
		Delivery:         deliverer,
		DeliveryDeadline: deliveryDeadline(cfg.Mail),
		Now:              time.Now,
	}
}

// deliveryDeadline allows every attempt its full timeout plus the backoff
// waits between them, with one extra unit of slack.
func deliveryDeadline(m config.MailConfig) time.Duration {
	n := m.MaxAttempts
	if n < 1 {
		n = 1
	}
	d := time.Duration(n) * m.Timeout
	for i := 0; i < n; i++ {
		d += m.BackoffUnit << i
	}
	return d
}

// Generate runs every stage in order and returns the plan. When in.Email is
// set and delivery is possible the plan is dispatched in the background.
// route labels the diagnostic row.
func (s *PlanService) Generate(ctx context.Context, in profile.Input, route string) (Result, error) {
	start := time.Now()
	log := zerolog.Ctx(ctx)

	ctx, span := observability.StartSpan(ctx, "services", "PlanService.Generate",
		attribute.String("route", route),
		attribute.Bool("has_email", in.Email != ""),
	)

	st := &State{Input: in, Weekday: s.now().Weekday().String()}
	for _, stage := range s.Stages {
		sctx, sspan := observability.StartSpan(ctx, "services", "stage."+stage.Name())
		err := stage.Run(sctx, st)
		observability.EndSpan(sspan, err)
		if err != nil {
			observability.EndSpan(span, err)
			log.Error().Err(err).Str("stage", stage.Name()).Msg("plan generation failed")
			s.record(ctx, domain.DiagnosticEvent{
				Kind:      domain.EventGeneration,
				Route:     route,
				Status:    failureStatus(err),
				LatencyMS: time.Since(start).Milliseconds(),
			})
			return Result{}, err
		}
	}

	res := Result{
		Plan:         st.Plan.RawText,
		UsedLocation: st.Location.ResolvedLocation,
		UsedWeather:  st.Location.Weather,
		CurrentDay:   st.Plan.GenerationDay,
	}
	if in.Email != "" {
		res.EmailSent = s.Dispatch(ctx, in.Email, st.Plan)
	}

	span.SetAttributes(
		attribute.Int("plan.chars", len(res.Plan)),
		attribute.Bool("email.dispatched", res.EmailSent),
	)
	observability.EndSpan(span, nil)
	s.record(ctx, domain.DiagnosticEvent{
		Kind:             domain.EventGeneration,
		Route:            route,
		Status:           "ok",
		WeatherAvailable: res.UsedWeather != domain.WeatherNotAvailable,
		PlanChars:        len(res.Plan),
		LatencyMS:        time.Since(start).Milliseconds(),
	})
	log.Info().
		Str("day", res.CurrentDay).
		Bool("weather", res.UsedWeather != domain.WeatherNotAvailable).
		Bool("email_dispatched", res.EmailSent).
		Dur("took", time.Since(start)).
		Msg("plan generated")
	return res, nil
}

// Dispatch starts a detached delivery of plan to recipient and reports
// whether one was started. The delivery keeps the request's values (logger,
// trace) but not its cancellation, and runs under DeliveryDeadline.
func (s *PlanService) Dispatch(ctx context.Context, recipient string, plan domain.GeneratedPlan) bool {
	log := zerolog.Ctx(ctx)
	recipient = strings.TrimSpace(recipient)
	switch {
	case recipient == "":
		return false
	case s.Delivery == nil || !s.Delivery.Configured():
		log.Warn().Msg("mail delivery not configured; plan will not be e-mailed")
		return false
	case !s.Delivery.ValidAddress(recipient):
		log.Warn().Msg("recipient address rejected; plan will not be e-mailed")
		return false
	}

	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	observability.DeliveryStarted()
	go func() {
		defer s.wg.Done()
		defer observability.DeliveryFinished()

		dctx := detached
		if s.DeliveryDeadline > 0 {
			var cancel context.CancelFunc
			dctx, cancel = context.WithTimeout(detached, s.DeliveryDeadline)
			defer cancel()
		}
		r := s.Delivery.Deliver(dctx, recipient, plan)
		s.record(dctx, domain.DiagnosticEvent{
			Kind:      domain.EventDelivery,
			Status:    string(r.Outcome),
			Attempts:  r.Attempts,
			LatencyMS: r.Duration.Milliseconds(),
		})
	}()
	return true
}

// Drain waits for in-flight deliveries or until ctx is done.
func (s *PlanService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PlanService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PlanService) record(ctx context.Context, ev domain.DiagnosticEvent) {
	if s.Events == nil {
		return
	}
	ev.RequestID = RequestIDFrom(ctx)
	if err := s.Events.Append(ctx, ev); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("kind", ev.Kind).Msg("diagnostic event not recorded")
	}
}

func failureStatus(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "not_configured"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "upstream_error"
	}
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id recorded on
// diagnostic rows.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
