// Package mail delivers verification links.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

// Sender delivers a single HTML message
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail over implicit TLS (port 465)
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender creates a sender; from defaults to the SMTP user
func NewSMTPSender(host, port, user, pass, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{host: host, port: port, username: user, password: pass, from: from}
}

// Send delivers one HTML message
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", s.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.host}}
	conn, err := dialer.DialContext(ctx, "tcp", s.host+":"+s.port)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
		return err
	}
	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

// LogSender only logs the message; used when SMTP is not configured
type LogSender struct{}

// Send logs the recipient and subject only
func (LogSender) Send(_ context.Context, to, subject, _ string) error {
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Mail delivery skipped, SMTP not configured")
	return nil
}
