package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSender implementa Sender contra un gateway REST estilo Twilio.
type HTTPSender struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	appName    string
	client     *http.Client
}

// NewHTTPSender construye un cliente apuntando al endpoint de mensajes del gateway.
func NewHTTPSender(baseURL, accountSID, authToken, from, appName string) (*HTTPSender, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("sms gateway url is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("sms from number is required")
	}
	if appName == "" {
		appName = "Wayfare"
	}
	return &HTTPSender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		appName:    appName,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (s *HTTPSender) SendVerificationCode(ctx context.Context, toPhone, code string) error {
	if strings.TrimSpace(toPhone) == "" {
		return fmt.Errorf("to phone is required")
	}

	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", toPhone)
	form.Set("Body", fmt.Sprintf("Your %s code is: %s\n\nThis code will expire in 30 minutes", s.appName, code))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms gateway error: status=%d body=%s", resp.StatusCode, string(respBody))
	}
	return nil
}
