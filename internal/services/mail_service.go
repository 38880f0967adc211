// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"fitfunnel/internal/config"
)

type smtpLeadMailer struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	htmlTpl *template.Template
	textTpl *texttemplate.Template
	now     func() time.Time
}

func NewSMTPLeadMailer(cfg config.SMTPConfig, timeout time.Duration) LeadMailer {
	return &smtpLeadMailer{
		cfg:     cfg,
		timeout: timeout,
		htmlTpl: template.Must(template.New("leadHTML").Parse(leadHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("leadText").Parse(leadTextTemplate)),
		now:     time.Now,
	}
}

func (s *smtpLeadMailer) Name() string { return "smtp" }

func (s *smtpLeadMailer) Configured() bool {
	return !anyPlaceholder(s.cfg.Host, s.cfg.Username, s.cfg.Password, s.cfg.From, s.cfg.To)
}

func (s *smtpLeadMailer) SendLead(ctx context.Context, params LeadParams) error {
	if !s.Configured() {
		return ErrMailerNotConfigured
	}

	subject := fmt.Sprintf("Novo lead: %s (%s)", params.Get("nome"), params.Get("plano_recomendado"))
	html, text, err := s.renderEmail(leadEmailData{Title: subject, Fields: params})
	if err != nil {
		return err
	}

	msg, err := s.buildMessage(s.cfg.To, subject, html, text)
	if err != nil {
		return err
	}
	return s.send(ctx, s.cfg.To, msg)
}

// ------------------- Rendering -------------------

type leadEmailData struct {
	Title  string
	Fields LeadParams
}

const leadHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 24px; background: #f1f5f9; font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; color: #0f172a; }
    .container { max-width: 640px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
    h1 { margin: 0; padding: 24px; font-size: 20px; background: #0f172a; color: #f8fafc; }
    table { width: 100%; border-collapse: collapse; }
    th, td { text-align: left; padding: 10px 24px; border-bottom: 1px solid #e2e8f0; font-size: 14px; vertical-align: top; }
    th { width: 35%; color: #475569; font-weight: 600; }
  </style>
</head>
<body>
  <div class="container">
    <h1>{{.Title}}</h1>
    <table>
      {{range .Fields}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
      {{end}}
    </table>
  </div>
</body>
</html>`

const leadTextTemplate = `{{.Title}}

{{range .Fields}}{{.Label}}: {{.Value}}
{{end}}`

func (s *smtpLeadMailer) renderEmail(data leadEmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- SMTP Send -------------------

func (s *smtpLeadMailer) buildMessage(to, subject, htmlBody, textBody string) ([]byte, error) {
	now := s.now()
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	for _, part := range []struct{ contentType, body string }{
		{"text/plain", textBody},
		{"text/html", htmlBody},
	} {
		write("--%s\r\n", boundary)
		write("Content-Type: %s; charset=UTF-8\r\n", part.contentType)
		write("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&msg)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		write("\r\n")
	}

	write("--%s--\r\n", boundary)
	return msg.Bytes(), nil
}

func (s *smtpLeadMailer) send(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: s.timeout}
	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		// STARTTLS path (typically port 587)
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range strings.Split(to, ",") {
		if err = c.Rcpt(strings.TrimSpace(rcpt)); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpLeadMailer) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}
