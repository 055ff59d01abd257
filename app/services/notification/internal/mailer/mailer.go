package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"SwapIt/app/services/notification/internal/config"

	"github.com/zeromicro/go-zero/core/logx"
)

type Mail struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// New picks the SMTP mailer when credentials are configured, the console mailer otherwise.
func New(c config.SmtpConf) Mailer {
	if c.Host != "" && c.Username != "" && c.Password != "" {
		logx.Infow("mailer initialized with smtp", logx.Field("host", c.Host), logx.Field("port", c.Port))
		return NewSMTPMailer(c)
	}
	logx.Info("mailer initialized in console mode, no smtp configured")
	return ConsoleMailer{}
}

// ConsoleMailer writes mails to the log.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(ctx context.Context, m Mail) error {
	logx.WithContext(ctx).Infow("[EMAIL]",
		logx.Field("to", m.To),
		logx.Field("subject", m.Subject),
		logx.Field("body", m.HTML),
	)
	return nil
}

type SMTPMailer struct {
	addr    string
	host    string
	from    string
	auth    smtp.Auth
	timeout time.Duration
}

func NewSMTPMailer(c config.SmtpConf) *SMTPMailer {
	m := &SMTPMailer{
		addr:    net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		host:    c.Host,
		from:    c.From,
		timeout: time.Duration(c.Timeout) * time.Millisecond,
	}
	if m.from == "" {
		m.from = c.Username
	}
	if c.Username != "" {
		m.auth = smtp.PlainAuth("", c.Username, c.Password, c.Host)
	}
	if m.timeout <= 0 {
		m.timeout = 10 * time.Second
	}
	return m
}

// Send delivers one message, upgrading to TLS when the server offers it.
// The whole exchange is bounded by ctx and the configured timeout.
func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.auth != nil {
		if err := c.Auth(m.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(mail.To); err != nil {
		return fmt.Errorf("smtp rcpt %s: %w", mail.To, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.from, mail)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}

func buildMessage(from string, m Mail) []byte {
	var b bytes.Buffer
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	header("From", from)
	header("To", m.To)
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.HTML, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}
