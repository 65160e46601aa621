package delivery

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"
)

// State is a step of one send attempt:
// Idle -> Connecting -> Authenticating -> Sending -> Sent | Failed.
type State string

const (
	StateIdle           State = "idle"
	StateConnecting     State = "connecting"
	StateAuthenticating State = "authenticating"
	StateSending        State = "sending"
	StateSent           State = "sent"
	StateFailed         State = "failed"
)

// AttemptError reports the state an attempt failed in.
type AttemptError struct {
	State State
	Err   error
}

func (e *AttemptError) Error() string { return fmt.Sprintf("%s: %v", e.State, e.Err) }
func (e *AttemptError) Unwrap() error { return e.Err }

// Terminal reports whether retrying cannot help or could duplicate the mail:
// credential rejections, and sends cut off with an unknown outcome.
func (e *AttemptError) Terminal() bool {
	return e.State == StateAuthenticating || errors.Is(e.Err, ErrOutcomeUnknown)
}

func failedIn(s State, err error) error {
	if err == nil {
		return nil
	}
	var ae *AttemptError
	if errors.As(err, &ae) {
		return err
	}
	return &AttemptError{State: s, Err: err}
}

// IsTerminal is the retry predicate for delivery attempts.
func IsTerminal(err error) bool {
	var ae *AttemptError
	return errors.As(err, &ae) && ae.Terminal()
}

// FailedState extracts the state an error was raised in, or StateFailed.
func FailedState(err error) State {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae.State
	}
	return StateFailed
}

// smtpAuthCodes are SMTP replies that reject credentials or require them.
var smtpAuthCodes = map[int]bool{
	530: true, // authentication required
	534: true, // authentication mechanism too weak
	535: true, // authentication credentials invalid
}

// isSMTPAuthRejection recognizes credential failures from net/smtp: a
// rejecting reply code, or the client refusing to send PLAIN credentials.
func isSMTPAuthRejection(err error) bool {
	var tp *textproto.Error
	if errors.As(err, &tp) {
		return smtpAuthCodes[tp.Code]
	}
	msg := err.Error()
	return strings.Contains(msg, "unencrypted connection") || strings.Contains(msg, "wrong host name")
}
