package utils

import (
	"crypto/tls"
	"errors"
	"net/smtp"
)

// SMTPCfg holds the outgoing mail server settings.
type SMTPCfg struct {
	Host     string
	Port     string
	User     string
	Pass     string
	From     string
	FromName string
}

var ErrSMTPNotConfigured = errors.New("SMTP not configured")

// Mailer sends plain text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through an SMTP relay, falling back to implicit
// TLS when the relay listens on 465.
type SMTPMailer struct {
	cfg      SMTPCfg
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPCfg) *SMTPMailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.FromName == "" {
		cfg.FromName = "Question Bank"
	}
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	cfg := m.cfg
	if cfg.User == "" || cfg.Pass == "" || cfg.From == "" {
		return ErrSMTPNotConfigured
	}

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	msg := buildMessage(cfg, to, subject, body)

	if err := m.sendMail(addr, auth, cfg.From, []string{to}, msg); err != nil {
		if cfg.Port == "465" {
			return sendImplicitTLS(cfg, addr, auth, to, msg)
		}
		return err
	}
	return nil
}

func buildMessage(cfg SMTPCfg, to, subject, body string) []byte {
	return []byte("From: \"" + cfg.FromName + "\" <" + cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")
}

func sendImplicitTLS(cfg SMTPCfg, addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()
	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}
