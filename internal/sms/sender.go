package sms

import (
	"context"

	"go.uber.org/zap"
)

// Sender define la interfaz para envio de codigos de verificacion por SMS.
type Sender interface {
	SendVerificationCode(ctx context.Context, toPhone, code string) error
}

// ConsoleSender registra el codigo en el log en lugar de enviarlo.
// Pensado para entornos de desarrollo sin gateway configurado.
type ConsoleSender struct {
	logger *zap.Logger
}

func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) SendVerificationCode(_ context.Context, toPhone, code string) error {
	s.logger.Info("sms gateway not configured, logging verification code",
		zap.String("phone", toPhone),
		zap.String("code", code),
	)
	return nil
}
