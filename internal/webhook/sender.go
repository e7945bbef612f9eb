package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// StatusError is returned when the receiver answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook receiver returned HTTP %d", e.StatusCode)
}

// Sender POSTs signed payloads to one receiver URL.
type Sender struct {
	url    string
	secret string
	client *http.Client
	now    func() time.Time
}

func NewSender(url, secret string) *Sender {
	return &Sender{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (s *Sender) Send(ctx context.Context, payload Payload, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	timestamp := s.now().Unix()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PontoFace-Webhook/1.0")
	req.Header.Set(HeaderEvent, payload.Type)
	req.Header.Set(HeaderDelivery, payload.ID.String())
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	if s.secret != "" {
		req.Header.Set(HeaderSignature, Sign(s.secret, timestamp, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	return nil
}
