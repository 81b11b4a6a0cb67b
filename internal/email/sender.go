package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para envio de correos transaccionales.
type Sender interface {
	SendVerificationLink(ctx context.Context, toEmail, name, token string) error
	SendWelcome(ctx context.Context, toEmail, name string) error
	SendPasswordReset(ctx context.Context, toEmail, name, code string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) fail() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

func (s *disabledSender) SendVerificationLink(_ context.Context, _, _, _ string) error {
	return s.fail()
}

func (s *disabledSender) SendWelcome(_ context.Context, _, _ string) error {
	return s.fail()
}

func (s *disabledSender) SendPasswordReset(_ context.Context, _, _, _ string) error {
	return s.fail()
}
