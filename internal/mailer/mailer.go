package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"reunion/internal/model"
)

// Config holds SMTP credentials. They come from configuration, never
// from package-level state.
type Config struct {
	Host     string
	Port     int
	From     string
	Password string
}

func message(name string, status int) (subject, body string, ok bool) {
	switch status {
	case model.StatusPaid:
		subject = "Reunion registration payment confirmed"
		body = fmt.Sprintf(
			"Dear %s,\n\nYour payment has been verified and your reunion registration is confirmed.\nWe look forward to seeing you at the event!",
			name,
		)
	case model.StatusRejected:
		subject = "Reunion registration payment could not be verified"
		body = fmt.Sprintf(
			"Dear %s,\n\nWe could not verify the payment submitted with your reunion registration.\nPlease contact the organizing committee with your transaction details.",
			name,
		)
	default:
		return "", "", false
	}
	return subject, body, true
}

// SendPaymentEmail notifies a registrant about a payment status
// change. Only Paid and Rejected produce mail; anything else is a
// no-op. Failures are reported to the caller, which logs and moves on.
func SendPaymentEmail(log *zerolog.Logger, cfg Config, name, recipientEmail string, status int) error {
	subject, body, ok := message(name, status)
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipientEmail, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("email sent to %s (status: %d)", recipientEmail, status)
	return nil
}
