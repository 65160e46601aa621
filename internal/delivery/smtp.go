package delivery

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-gomail/gomail"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
)

// ErrOutcomeUnknown marks an attempt cut off after the message was handed to
// the server. It is terminal: a retry could deliver the plan twice.
var ErrOutcomeUnknown = errors.New("send interrupted, delivery outcome unknown")

// settleTimeout bounds how long Send waits for an in-flight session after the
// attempt deadline. The session's own connection deadline normally ends it
// well before this.
var settleTimeout = 5 * time.Second

// Transport performs one send attempt. Failures are *AttemptError values.
type Transport interface {
	Name() string
	Send(ctx context.Context, m *gomail.Message) error
}

// dialer opens an authenticated SMTP session bound to ctx's deadline.
type dialer interface {
	Dial(ctx context.Context) (gomail.SendCloser, error)
}

// SMTP submits mail over implicit TLS (port 465) or STARTTLS.
type SMTP struct {
	dialer dialer
}

// NewSMTP builds an SMTP transport from cfg.
func NewSMTP(cfg config.MailConfig) *SMTP {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// NewDialer enables implicit TLS for port 465; other ports upgrade via STARTTLS.
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return &SMTP{dialer: &sessionDialer{settings: d, fallback: cfg.Timeout}}
}

func (s *SMTP) Name() string { return config.TransportSMTP }

// Send runs one attempt. net/smtp has no context support, so the session runs
// in a goroutine under a connection deadline. When ctx ends before the message
// is handed over, the session is told to stop and the attempt is retryable.
// When it ends later, Send waits for the session to settle and never reports a
// retryable failure for a message that may already be queued.
func (s *SMTP) Send(ctx context.Context, m *gomail.Message) error {
	tr := &attemptTracker{state: StateIdle}

	done := make(chan error, 1)
	go func() { done <- s.attempt(ctx, m, tr) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	switch st := tr.abandon(); st {
	case StateSending, StateSent:
		t := time.NewTimer(settleTimeout)
		defer t.Stop()
		select {
		case err := <-done:
			return err
		case <-t.C:
			return &AttemptError{State: StateSending, Err: fmt.Errorf("%w: %v", ErrOutcomeUnknown, ctx.Err())}
		}
	default:
		// A slow server is not a credential rejection.
		return &AttemptError{State: StateConnecting, Err: ctx.Err()}
	}
}

func (s *SMTP) attempt(ctx context.Context, m *gomail.Message, tr *attemptTracker) error {
	if !tr.advance(StateConnecting) {
		return failedIn(StateConnecting, ctx.Err())
	}
	sc, err := s.dialer.Dial(ctx)
	if err != nil {
		if isSMTPAuthRejection(err) {
			return failedIn(StateAuthenticating, err)
		}
		return failedIn(StateConnecting, err)
	}
	defer sc.Close()

	if !tr.advance(StateSending) {
		return failedIn(StateConnecting, ctx.Err())
	}
	if err := gomail.Send(sc, m); err != nil {
		if isSMTPAuthRejection(err) {
			return failedIn(StateAuthenticating, err)
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return failedIn(StateSending, fmt.Errorf("%w: %v", ErrOutcomeUnknown, err))
		}
		return failedIn(StateSending, err)
	}
	tr.advance(StateSent)
	return nil
}

// attemptTracker is the state of one attempt shared between Send and its
// session goroutine.
type attemptTracker struct {
	mu        sync.Mutex
	state     State
	abandoned bool
}

// advance moves to st. It refuses once the attempt has been abandoned, except
// for reporting a send that was already under way.
func (t *attemptTracker) advance(st State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.abandoned && st != StateSent {
		return false
	}
	t.state = st
	return true
}

// abandon stops further progress and returns the state reached.
func (t *attemptTracker) abandon() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.abandoned = true
	return t.state
}

// sessionDialer opens SMTP sessions the way gomail.Dialer does, but over a
// connection whose deadline follows the attempt context, so a stalled server
// cannot hold the session open forever.
type sessionDialer struct {
	settings *gomail.Dialer
	// fallback is the session deadline when ctx has none.
	fallback time.Duration
}

func (d *sessionDialer) Dial(ctx context.Context) (gomail.SendCloser, error) {
	cfg := d.settings
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		fallback := d.fallback
		if fallback <= 0 {
			fallback = time.Minute
		}
		deadline = time.Now().Add(fallback)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, err
	}

	if cfg.SSL {
		conn = tls.Client(conn, d.tlsConfig())
	}
	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if cfg.LocalName != "" {
		if err := c.Hello(cfg.LocalName); err != nil {
			c.Close()
			return nil, err
		}
	}
	if !cfg.SSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(d.tlsConfig()); err != nil {
				c.Close()
				return nil, err
			}
		}
	}
	if auth := d.auth(c); auth != nil {
		if err := c.Auth(auth); err != nil {
			c.Close()
			return nil, err
		}
	}
	return &session{client: c}, nil
}

func (d *sessionDialer) tlsConfig() *tls.Config {
	if d.settings.TLSConfig == nil {
		return &tls.Config{ServerName: d.settings.Host, MinVersion: tls.VersionTLS12}
	}
	return d.settings.TLSConfig
}

func (d *sessionDialer) auth(c *smtp.Client) smtp.Auth {
	cfg := d.settings
	if cfg.Auth != nil {
		return cfg.Auth
	}
	if cfg.Username == "" {
		return nil
	}
	ok, mechs := c.Extension("AUTH")
	if !ok {
		return nil
	}
	if strings.Contains(mechs, "CRAM-MD5") {
		return smtp.CRAMMD5Auth(cfg.Username, cfg.Password)
	}
	return smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
}

// session is a single-use gomail.SendCloser over one SMTP client.
type session struct {
	client *smtp.Client
}

func (s *session) Send(from string, to []string, msg io.WriterTo) error {
	if err := s.client.Mail(from); err != nil {
		return err
	}
	for _, addr := range to {
		if err := s.client.Rcpt(addr); err != nil {
			return err
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *session) Close() error {
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}
