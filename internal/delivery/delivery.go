// Package delivery e-mails a rendered plan to the requester.
//
// Delivery is best-effort: every outcome is reported as a DeliveryResult and
// nothing here returns an error to the request path. Attempts follow a retry
// policy where connection and transport failures back off exponentially and
// credential rejections stop immediately.
package delivery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	emailverifier "github.com/AfterShip/email-verifier"
	"github.com/go-gomail/gomail"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/document"
	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/observability"
	"github.com/Akshaypareek01/DietProject-samsara/internal/retry"
)

const subject = "Your Personalized Ayurvedic Diet Plan"

// Renderer produces the PDF attachment.
type Renderer interface {
	Render(plan domain.GeneratedPlan) (domain.RenderedDocument, error)
}

// Dispatcher validates, renders and sends one plan per call.
type Dispatcher struct {
	cfg       config.MailConfig
	transport Transport
	renderer  Renderer
	verifier  *emailverifier.Verifier
	policy    retry.Policy
}

// NewDispatcher wires a dispatcher. transport may be nil when mail is not
// configured; Deliver then always skips.
func NewDispatcher(cfg config.MailConfig, transport Transport, renderer Renderer) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		transport: transport,
		renderer:  renderer,
		verifier:  emailverifier.NewVerifier(),
		policy: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			Unit:        cfg.BackoffUnit,
			Terminal:    IsTerminal,
		},
	}
}

// NewTransport builds the transport selected by cfg.Transport, or nil when
// the required credentials are absent.
func NewTransport(ctx context.Context, cfg config.MailConfig) (Transport, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	if cfg.Transport == config.TransportSES {
		return NewSES(ctx, cfg)
	}
	return NewSMTP(cfg), nil
}

// Configured reports whether deliveries can be attempted.
func (d *Dispatcher) Configured() bool { return d.cfg.Configured() && d.transport != nil }

// ValidAddress checks recipient syntax without any network lookups.
func (d *Dispatcher) ValidAddress(addr string) bool {
	return d.verifier.ParseAddress(strings.TrimSpace(addr)).Valid
}

// Deliver renders plan and sends it to recipient.
func (d *Dispatcher) Deliver(ctx context.Context, recipient string, plan domain.GeneratedPlan) domain.DeliveryResult {
	start := time.Now()
	log := zerolog.Ctx(ctx).With().Str("component", "delivery").Logger()
	recipient = strings.TrimSpace(recipient)

	finish := func(r domain.DeliveryResult) domain.DeliveryResult {
		r.Duration = time.Since(start)
		observability.ObserveDelivery(string(r.Outcome))
		return r
	}

	if recipient == "" {
		return finish(domain.DeliveryResult{Outcome: domain.DeliverySkipped})
	}
	if !d.Configured() {
		log.Warn().Msg("mail credentials incomplete; skipping delivery")
		return finish(domain.DeliveryResult{Outcome: domain.DeliverySkipped})
	}
	if !d.ValidAddress(recipient) {
		log.Warn().Msg("recipient address is not valid; skipping delivery")
		return finish(domain.DeliveryResult{Outcome: domain.DeliverySkipped})
	}

	ctx, span := observability.StartSpan(ctx, "delivery", "Deliver",
		attribute.String("mail.transport", d.transport.Name()),
	)

	msg, err := d.compose(recipient, plan)
	if err != nil {
		observability.EndSpan(span, err)
		log.Error().Err(err).Msg("could not build plan e-mail")
		return finish(domain.DeliveryResult{Outcome: domain.DeliveryFailed, LastError: err})
	}

	attempts, err := d.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		actx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()

		err := d.transport.Send(actx, msg)
		if err != nil {
			observability.ObserveDeliveryAttempt(d.transport.Name(), observability.OutcomeError)
			log.Warn().Err(err).
				Int("attempt", attempt).
				Str("state", string(FailedState(err))).
				Bool("terminal", IsTerminal(err)).
				Msg("delivery attempt failed")
			return err
		}
		observability.ObserveDeliveryAttempt(d.transport.Name(), observability.OutcomeOK)
		return nil
	})
	span.SetAttributes(attribute.Int("mail.attempts", attempts))
	observability.EndSpan(span, err)

	if err != nil {
		log.Error().Err(err).Int("attempts", attempts).Msg("delivery failed")
		return finish(domain.DeliveryResult{Outcome: domain.DeliveryFailed, Attempts: attempts, LastError: err})
	}
	log.Info().Int("attempts", attempts).Msg("plan delivered")
	return finish(domain.DeliveryResult{Outcome: domain.DeliverySent, Attempts: attempts})
}

// compose renders the attachment and builds the MIME message once; every
// attempt sends the same message.
func (d *Dispatcher) compose(to string, plan domain.GeneratedPlan) (*gomail.Message, error) {
	doc, err := d.renderer.Render(plan)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	html, err := document.HTML(plan)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", document.PlainText(plan))
	m.AddAlternative("text/html", html)
	m.Attach(doc.Filename,
		gomail.SetHeader(map[string][]string{"Content-Type": {doc.ContentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(doc.Content)
			return err
		}),
	)
	return m, nil
}
