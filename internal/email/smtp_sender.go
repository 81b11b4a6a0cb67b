package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender envia correos via SMTP.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	appName  string
	baseURL  string
	useTLS   bool
}

func NewSMTPSender(host string, port int, username, password, from, fromName, appName, baseURL string, useTLS bool) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	if appName == "" {
		appName = "Wayfare"
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		appName:  appName,
		baseURL:  strings.TrimRight(baseURL, "/"),
		useTLS:   useTLS,
	}, nil
}

func (s *SMTPSender) SendVerificationLink(ctx context.Context, toEmail, name, token string) error {
	subject := fmt.Sprintf("Verify your %s email", s.appName)
	body := fmt.Sprintf(
		"Hi %s,\n\nVerify your email by opening this link:\n%s/auth/verify-email/%s\n\nThe link expires in 30 minutes.\n",
		name, s.baseURL, token,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *SMTPSender) SendWelcome(ctx context.Context, toEmail, name string) error {
	subject := fmt.Sprintf("Welcome to %s", s.appName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account is verified. Welcome aboard!\n",
		name,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, toEmail, name, code string) error {
	subject := fmt.Sprintf("%s password reset", s.appName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is %s.\nIt expires in 30 minutes. If you did not request it, ignore this email.\n",
		name, code,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *SMTPSender) send(_ context.Context, toEmail, subject, body string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}

	msg := buildMessage(s.from, s.fromName, toEmail, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if s.useTLS {
		conn, err := tls.Dial("tcp", addr, &tls.Config{
			ServerName: s.host,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.host)
		if err != nil {
			return err
		}
		defer client.Quit()

		if auth != nil {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
		if err := client.Mail(s.from); err != nil {
			return err
		}
		if err := client.Rcpt(toEmail); err != nil {
			return err
		}
		writer, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := writer.Write([]byte(msg)); err != nil {
			_ = writer.Close()
			return err
		}
		return writer.Close()
	}

	return smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(msg))
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
