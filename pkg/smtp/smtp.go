package smtp

import (
	"errors"
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

var ErrNotConfigured = errors.New("smtp not configured")

type ItfSmtp interface {
	Enabled() bool
	Send(to, subject, body string) error
}

type smtp struct {
	auth smtpPkg.Auth
	addr string
	mail string
}

func New() ItfSmtp {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")

	s := &smtp{addr: host + ":" + port, mail: mail}
	if mail != "" && password != "" {
		s.auth = smtpPkg.PlainAuth("", mail, password, host)
	}
	return s
}

func (s *smtp) Enabled() bool {
	return s.auth != nil
}

func (s *smtp) Send(to, subject, body string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}

	return smtpPkg.SendMail(s.addr, s.auth, s.mail, []string{to}, buildMessage(s.mail, to, subject, body))
}

func buildMessage(from, to, subject, body string) []byte {
	// header values must not smuggle extra headers in
	clean := strings.NewReplacer("\r", " ", "\n", " ")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", clean.Replace(from))
	fmt.Fprintf(&b, "To: %s\r\n", clean.Replace(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", clean.Replace(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
