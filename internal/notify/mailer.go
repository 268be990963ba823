package notify

import (
	"encoding/json"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"tourtable/internal/pkg/config"
	"tourtable/internal/pkg/errs"
)

// Sender delivers one rendered notification. Implementations must be safe
// for concurrent use.
type Sender interface {
	Send(recipient, topic string, payload []byte) error
}

// SMTPSender renders the job payload into a plain-text mail and hands it to
// the configured relay. An empty host configures a no-op sender, which is
// what local development and the test suites run with.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var subjects = map[string]string{
	"reservation_requested": "Reservation request received",
	"reservation_confirmed": "Your reservation is confirmed",
	"reservation_declined":  "Your reservation was declined",
	"reservation_deleted":   "Your reservation was cancelled",
}

func (s *SMTPSender) Send(recipient, topic string, payload []byte) error {
	if s.cfg.Host == "" {
		return nil
	}

	subject, ok := subjects[topic]
	if !ok {
		subject = "Reservation update"
	}

	body, err := renderBody(payload)
	if err != nil {
		return errs.Wrap(err, "failed to render notification body")
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return errs.Wrap(err, "failed to send notification mail")
	}
	return nil
}

func renderBody(payload []byte) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, key := range []string{"restaurant", "date", "start_time", "end_time", "guest_name", "party_size", "status"} {
		if v, ok := fields[key]; ok {
			fmt.Fprintf(&b, "%s: %v\r\n", strings.ReplaceAll(key, "_", " "), v)
		}
	}
	return b.String(), nil
}
