// Package mailer sends the mail events the worker pulls off the queue.
package mailer

import (
	"fmt"
	"net/smtp"

	"lensbox/config"
	"lensbox/mq"
)

type Mailer struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewFromEnv() *Mailer {
	host := config.GetEnv("SMTP_HOST", "localhost")
	user := config.GetEnv("SMTP_USER", "")
	pass := config.GetEnv("SMTP_PASSWORD", "")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	return &Mailer{
		host: host,
		port: config.GetEnv("SMTP_PORT", "587"),
		from: config.GetEnv("MAIL_FROM", "no-reply@lensbox.in"),
		auth: auth,
	}
}

func (m *Mailer) Send(event mq.MailEvent) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, event.To, event.Subject, event.Body)

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, m.auth, m.from, []string{event.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send %s mail to %s: %w", event.Kind, event.To, err)
	}
	return nil
}
